package config

import (
	"fmt"
	"net/url"

	"github.com/imamik/edgeztp/internal/roles"
)

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateCloud(); err != nil {
		return fmt.Errorf("cloud: %w", err)
	}
	if err := c.validateAppliance(); err != nil {
		return fmt.Errorf("appliance: %w", err)
	}
	if err := c.validateController(); err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	if err := c.validateRoles(); err != nil {
		return fmt.Errorf("roles: %w", err)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settleDelay cannot be negative")
	}
	if err := c.validateReport(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// ValidateDiscovery checks only what is needed to discover and classify the
// instance. It is used by read-only commands.
func (c *Config) ValidateDiscovery() error {
	if err := c.validateCloud(); err != nil {
		return fmt.Errorf("cloud: %w", err)
	}
	if err := c.validateRoles(); err != nil {
		return fmt.Errorf("roles: %w", err)
	}
	return nil
}

func (c *Config) validateCloud() error {
	switch c.Cloud.Provider {
	case ProviderAzure:
		az := c.Cloud.Azure
		if az.SubscriptionID == "" || az.ResourceGroup == "" || az.VMName == "" {
			return fmt.Errorf("azure subscriptionID, resourceGroup and vmName are required")
		}
		if az.Token == "" {
			return fmt.Errorf("azure token is required (set %s)", EnvAzureToken)
		}
		if az.Endpoint != "" {
			if err := validateURL(az.Endpoint); err != nil {
				return fmt.Errorf("azure endpoint: %w", err)
			}
		}
	case ProviderHCloud:
		if c.Cloud.HCloud.Server == "" {
			return fmt.Errorf("hcloud server is required")
		}
		if c.Cloud.HCloud.Token == "" {
			return fmt.Errorf("hcloud token is required (set %s)", EnvHCloudToken)
		}
	case "":
		return fmt.Errorf("provider is required")
	default:
		return fmt.Errorf("invalid provider %q: must be one of [%s %s]", c.Cloud.Provider, ProviderAzure, ProviderHCloud)
	}
	return nil
}

func (c *Config) validateAppliance() error {
	a := c.Appliance
	if a.Host == "" {
		return fmt.Errorf("host is required")
	}
	if err := validateURL(a.URL); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if a.SSH.User == "" {
		return fmt.Errorf("ssh user is required")
	}
	if a.SSH.PrivateKeyPath == "" {
		return fmt.Errorf("ssh privateKeyPath is required")
	}
	if a.SSH.Port < 1 || a.SSH.Port > 65535 {
		return fmt.Errorf("ssh port %d out of range", a.SSH.Port)
	}
	if a.Account.Username == "" {
		return fmt.Errorf("account username is required")
	}
	if a.Account.Password == "" {
		return fmt.Errorf("account password is required (set %s)", EnvAppliancePassword)
	}
	return nil
}

func (c *Config) validateController() error {
	if c.Controller.URL == "" {
		return fmt.Errorf("url is required")
	}
	if err := validateURL(c.Controller.URL); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if c.Controller.APIKey == "" {
		return fmt.Errorf("apiKey is required (set %s)", EnvControllerAPIKey)
	}
	return nil
}

func (c *Config) validateRoles() error {
	if len(c.Roles) == 0 {
		return fmt.Errorf("at least one rule is required")
	}
	if _, err := roles.NewClassifier(c.Roles); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateReport() error {
	s3 := c.Report.S3
	if !s3.Enabled() {
		return nil
	}
	// Without static keys the AWS default credential chain is used.
	if (s3.AccessKey == "") != (s3.SecretKey == "") {
		return fmt.Errorf("s3 accessKey and secretKey must be set together (%s, %s)", EnvS3AccessKey, EnvS3SecretKey)
	}
	if s3.Endpoint != "" {
		if err := validateURL(s3.Endpoint); err != nil {
			return fmt.Errorf("s3 endpoint: %w", err)
		}
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
