package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/edgeztp/cmd/edgeztp/handlers"
)

// Plan returns the command that shows the role mapping without touching the
// appliance.
func Plan(verbosity *int) *cobra.Command {
	var configPath string
	var yamlOutput bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which hardware address each appliance interface would get",
		Long: `Discover the instance's cloud interfaces and classify them by role.

Only the cloud inventory is contacted. Appliance and controller settings
may be incomplete.

Examples:
  # Show the role table
  edgeztp plan

  # Print the run report as YAML
  edgeztp plan --yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath, *verbosity, yamlOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: edgeztp.yaml)")
	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "Print the report as YAML")

	return cmd
}
