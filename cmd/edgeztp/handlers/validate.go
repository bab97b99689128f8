package handlers

import (
	"fmt"
)

// Validate loads and validates a configuration file and prints a short
// description of what it targets.
func Validate(configPath string) error {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Configuration valid: %s\n", path)
	fmt.Fprintf(stdout, "  provider:   %s\n", cfg.Cloud.Provider)
	fmt.Fprintf(stdout, "  appliance:  %s\n", cfg.Appliance.Host)
	fmt.Fprintf(stdout, "  controller: %s\n", cfg.Controller.URL)
	fmt.Fprintf(stdout, "  role rules: %d\n", len(cfg.Roles))
	return nil
}
