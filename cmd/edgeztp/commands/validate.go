package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/edgeztp/cmd/edgeztp/handlers"
)

// Validate returns the command that checks a configuration file.
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Validate(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: edgeztp.yaml)")

	return cmd
}
