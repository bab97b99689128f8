package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/edgeztp/internal/provisioning"
)

// Plan discovers the instance and prints the role table without contacting
// the appliance or the controller.
func Plan(ctx context.Context, configPath string, verbosity int, yamlOutput bool) error {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return err
	}

	cfg, err := loadDiscoveryConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := newLogger(verbosity).WithName("plan")

	inventory, err := newInventory(cfg)
	if err != nil {
		return fmt.Errorf("failed to create cloud inventory: %w", err)
	}

	orch, err := provisioning.NewOrchestrator(cfg,
		provisioning.Dependencies{Inventory: inventory},
		provisioning.WithObserver(provisioning.NewLogObserver(log)),
	)
	if err != nil {
		return err
	}

	report, err := orch.Plan(ctx)
	if err != nil {
		return err
	}

	if yamlOutput {
		data, err := report.YAML()
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		_, err = stdout.Write(data)
		return err
	}

	fmt.Fprint(stdout, renderReport(report, isTerminal()))
	return nil
}
