package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/edgeztp/cmd/edgeztp/handlers"
)

// Provision returns the command that runs the full provisioning sequence.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect edgeztp.yaml)
//
// Environment variables:
//
//	AZURE_ACCESS_TOKEN or HCLOUD_TOKEN: cloud API token
//	EDGEZTP_APPLIANCE_PASSWORD: password of the account created on the appliance
//	EDGEZTP_CONTROLLER_API_KEY: controller API key
func Provision(verbosity *int) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision the appliance for zero-touch onboarding",
		Long: `Provision a freshly deployed edge appliance.

The appliance's cloud interfaces are discovered and mapped to roles, a local
account is created over SSH, hardware addresses are set on the matching
appliance interfaces and the appliance is registered with the controller.
The appliance is not rebooted; it picks up its configuration from the
controller once registered.

If no config file is specified, it looks for edgeztp.yaml in the current
directory and its parents.

Examples:
  # Provision using edgeztp.yaml
  edgeztp provision

  # Provision with debug logging
  edgeztp provision -c hub-east.yaml -v`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), configPath, *verbosity)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: edgeztp.yaml)")

	return cmd
}
