package config

import (
	"time"

	"github.com/imamik/edgeztp/internal/roles"
)

// Cloud providers supported for instance discovery.
const (
	ProviderAzure  = "azure"
	ProviderHCloud = "hcloud"
)

// Config is the complete configuration for one provisioning run.
type Config struct {
	Cloud      CloudConfig      `yaml:"cloud"`
	Appliance  ApplianceConfig  `yaml:"appliance"`
	Controller ControllerConfig `yaml:"controller"`

	// Roles lists the subnet classification rules, evaluated in order.
	Roles []roles.Rule `yaml:"roles"`

	// SettleDelay is the fixed wait between submitting interface changes and
	// saving the appliance configuration.
	SettleDelay time.Duration `yaml:"settleDelay,omitempty"`

	Report  ReportConfig  `yaml:"report,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// CloudConfig selects and configures the inventory provider.
type CloudConfig struct {
	Provider string       `yaml:"provider"`
	Azure    AzureConfig  `yaml:"azure,omitempty"`
	HCloud   HCloudConfig `yaml:"hcloud,omitempty"`
}

// AzureConfig identifies the virtual machine in Azure Resource Manager.
type AzureConfig struct {
	SubscriptionID string `yaml:"subscriptionID"`
	ResourceGroup  string `yaml:"resourceGroup"`
	VMName         string `yaml:"vmName"`
	// Endpoint overrides the ARM endpoint (sovereign clouds, tests).
	Endpoint string `yaml:"endpoint,omitempty"`
	// Token is the ARM bearer token. Falls back to AZURE_ACCESS_TOKEN.
	Token string `yaml:"token,omitempty"`
}

// HCloudConfig identifies the server in Hetzner Cloud.
type HCloudConfig struct {
	Server   string `yaml:"server"`
	Endpoint string `yaml:"endpoint,omitempty"`
	// Token falls back to HCLOUD_TOKEN.
	Token string `yaml:"token,omitempty"`
}

// ApplianceConfig describes how to reach the edge appliance.
type ApplianceConfig struct {
	// Host is the management address used for both SSH and REST.
	Host string `yaml:"host"`
	// URL overrides the REST base URL; defaults to https://<host>.
	URL string `yaml:"url,omitempty"`
	// VerifyTLS enables certificate verification for the REST API.
	VerifyTLS bool `yaml:"verifyTLS,omitempty"`

	SSH     SSHConfig     `yaml:"ssh"`
	Account AccountConfig `yaml:"account"`
}

// SSHConfig holds the bootstrap SSH access to a privileged appliance account.
type SSHConfig struct {
	User           string `yaml:"user"`
	Port           int    `yaml:"port,omitempty"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
	// Passphrase decrypts the private key. Falls back to EDGEZTP_SSH_PASSPHRASE.
	Passphrase string `yaml:"passphrase,omitempty"`
	// KnownHostsPath enables host key verification when set.
	KnownHostsPath string `yaml:"knownHostsPath,omitempty"`
	// SessionLog is an optional file receiving the session transcript.
	SessionLog string `yaml:"sessionLog,omitempty"`
	// DialTimeout bounds the TCP connect.
	DialTimeout time.Duration `yaml:"dialTimeout,omitempty"`
}

// AccountConfig is the local appliance account created for REST access.
type AccountConfig struct {
	Username string `yaml:"username"`
	// Password falls back to EDGEZTP_APPLIANCE_PASSWORD.
	Password string `yaml:"password,omitempty"`
}

// ControllerConfig describes the fleet controller.
type ControllerConfig struct {
	URL string `yaml:"url"`
	// APIKey falls back to EDGEZTP_CONTROLLER_API_KEY.
	APIKey    string `yaml:"apiKey,omitempty"`
	VerifyTLS bool   `yaml:"verifyTLS,omitempty"`
	// Group is the appliance group passed with the registration.
	Group string `yaml:"group,omitempty"`
}

// ReportConfig controls the run report.
type ReportConfig struct {
	// Path is the local report file. Empty disables the local report.
	Path string `yaml:"path,omitempty"`
	// S3 uploads the report and session log when Bucket is set.
	S3 S3Config `yaml:"s3,omitempty"`
}

// S3Config describes S3-compatible object storage.
type S3Config struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region,omitempty"`
	// AccessKey and SecretKey fall back to EDGEZTP_S3_ACCESS_KEY and
	// EDGEZTP_S3_SECRET_KEY.
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`
}

// Enabled reports whether report upload is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// MetricsConfig controls the metrics export.
type MetricsConfig struct {
	// Textfile is written in Prometheus text format for the node exporter
	// textfile collector. Empty disables metrics export.
	Textfile string `yaml:"textfile,omitempty"`
}
