package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "edgeztp.yaml"

// Load reads, completes and validates a configuration file.
func Load(path string) (*Config, error) {
	return load(path, (*Config).Validate)
}

// LoadForDiscovery reads a configuration file and validates only the parts
// needed to discover and classify the instance.
func LoadForDiscovery(path string) (*Config, error) {
	return load(path, (*Config).ValidateDiscovery)
}

func load(path string, validate func(*Config) error) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := complete(data)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFromBytes parses, completes and validates a configuration.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg, err := complete(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// complete parses data and fills secrets and defaults.
func complete(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()
	return cfg, nil
}

// parseConfig parses YAML data into a Config struct. Unknown keys are
// rejected so a misspelled rule or secret name does not go unnoticed.
// Defaults where zero is a valid setting are seeded before decoding.
func parseConfig(data []byte) (*Config, error) {
	cfg := Config{SettleDelay: DefaultSettleDelay}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// applyEnv fills secrets that were left out of the file.
func (c *Config) applyEnv(getenv func(string) string) {
	setIfEmpty(&c.Cloud.Azure.Token, getenv(EnvAzureToken))
	setIfEmpty(&c.Cloud.HCloud.Token, getenv(EnvHCloudToken))
	setIfEmpty(&c.Controller.APIKey, getenv(EnvControllerAPIKey))
	setIfEmpty(&c.Appliance.Account.Password, getenv(EnvAppliancePassword))
	setIfEmpty(&c.Appliance.SSH.Passphrase, getenv(EnvSSHPassphrase))
	setIfEmpty(&c.Report.S3.AccessKey, getenv(EnvS3AccessKey))
	setIfEmpty(&c.Report.S3.SecretKey, getenv(EnvS3SecretKey))
}

func setIfEmpty(dst *string, val string) {
	if *dst == "" {
		*dst = val
	}
}

// applyDefaults sets defaults for optional fields.
func (c *Config) applyDefaults() {
	if c.Appliance.SSH.Port == 0 {
		c.Appliance.SSH.Port = DefaultSSHPort
	}
	if c.Appliance.SSH.DialTimeout == 0 {
		c.Appliance.SSH.DialTimeout = DefaultSSHDialTimeout
	}
	if c.Appliance.URL == "" && c.Appliance.Host != "" {
		c.Appliance.URL = "https://" + c.Appliance.Host
	}
	if c.Cloud.Provider == ProviderAzure && c.Cloud.Azure.Endpoint == "" {
		c.Cloud.Azure.Endpoint = DefaultAzureEndpoint
	}
	if c.Report.S3.Enabled() && c.Report.S3.Region == "" {
		c.Report.S3.Region = DefaultS3Region
	}
}

// resolvePaths makes relative file paths relative to the config file.
func (c *Config) resolvePaths(base string) {
	for _, p := range []*string{
		&c.Appliance.SSH.PrivateKeyPath,
		&c.Appliance.SSH.KnownHostsPath,
	} {
		*p = expandPath(*p, base)
	}
}

func expandPath(p, base string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// FindConfigFile searches the current directory and its parents for
// edgeztp.yaml.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := cwd
	for {
		path := filepath.Join(dir, DefaultConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("config file %s not found", DefaultConfigFilename)
}
