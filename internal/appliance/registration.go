package appliance

// RegistrationCredential is the controller account and key an appliance uses
// to register with the fleet controller.
type RegistrationCredential struct {
	Account string `json:"account"`
	Key     string `json:"key"`
}

// Registration is the registration submission pushed to the appliance.
type Registration struct {
	Account    string `json:"account"`
	AccountKey string `json:"accountKey"`
	Group      string `json:"group"`
	Site       string `json:"site"`
}

// NewRegistration builds the registration for a site from a credential.
func NewRegistration(cred RegistrationCredential, group, site string) Registration {
	return Registration{
		Account:    cred.Account,
		AccountKey: cred.Key,
		Group:      group,
		Site:       site,
	}
}
