package config

import "time"

const (
	// DefaultSettleDelay gives the appliance time to apply interface changes
	// before the configuration is saved.
	DefaultSettleDelay = 30 * time.Second

	// DefaultSSHPort is the appliance SSH port.
	DefaultSSHPort = 22

	// DefaultSSHDialTimeout bounds the SSH TCP connect.
	DefaultSSHDialTimeout = 10 * time.Second

	// DefaultAzureEndpoint is the public Azure Resource Manager endpoint.
	DefaultAzureEndpoint = "https://management.azure.com"

	// DefaultS3Region is used when no region is configured.
	DefaultS3Region = "us-east-1"
)

// Environment variables consulted for secrets missing from the file.
const (
	EnvAzureToken        = "AZURE_ACCESS_TOKEN"
	EnvHCloudToken       = "HCLOUD_TOKEN"
	EnvControllerAPIKey  = "EDGEZTP_CONTROLLER_API_KEY"
	EnvAppliancePassword = "EDGEZTP_APPLIANCE_PASSWORD"
	EnvSSHPassphrase     = "EDGEZTP_SSH_PASSPHRASE"
	EnvS3AccessKey       = "EDGEZTP_S3_ACCESS_KEY"
	EnvS3SecretKey       = "EDGEZTP_S3_SECRET_KEY"
)
