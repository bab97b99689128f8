// Package inventory holds the cloud-side view of the instance hosting the
// appliance: its hostname and the network interfaces attached to it.
package inventory

// CloudInterface is a network interface record as reported by the cloud
// provider. Records are never modified after discovery.
type CloudInterface struct {
	// ID is the provider's identifier for the interface.
	ID string `json:"id"`
	// SubnetID identifies the subnet the interface is attached to.
	// Its format is provider specific; classification only pattern-matches it.
	SubnetID string `json:"subnetID"`
	// MACAddress is the hardware address in whatever delimiter form the
	// provider returns (Azure uses hyphens).
	MACAddress string `json:"macAddress"`
}

// Instance is the discovered cloud instance running the appliance.
type Instance struct {
	ID         string           `json:"id"`
	Hostname   string           `json:"hostname"`
	Interfaces []CloudInterface `json:"interfaces"`
}
