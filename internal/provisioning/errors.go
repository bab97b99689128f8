package provisioning

import "errors"

// Error kinds. Phase errors wrap exactly one of these so callers can tell
// whether anything on the appliance may already have changed.
var (
	// ErrDiscovery means the cloud inventory could not be read. Nothing has
	// been changed on the appliance.
	ErrDiscovery = errors.New("discovery failed")
	// ErrSession means the SSH console step failed.
	ErrSession = errors.New("appliance session failed")
	// ErrAuthentication means the REST login failed.
	ErrAuthentication = errors.New("appliance authentication failed")
	// ErrAppliance means a read from the appliance or controller failed.
	ErrAppliance = errors.New("appliance request failed")
	// ErrSubmission means registration or interface changes were rejected.
	// Earlier changes are not rolled back.
	ErrSubmission = errors.New("submission failed")
)
