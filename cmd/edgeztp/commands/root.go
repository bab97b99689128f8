// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the edgeztp CLI.
func Root() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:           "edgeztp",
		Short:         "Zero-touch provisioning for SD-WAN edge appliances in the cloud",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	cmd.AddCommand(Provision(&verbosity))
	cmd.AddCommand(Plan(&verbosity))
	cmd.AddCommand(Validate())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
