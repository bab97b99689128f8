package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/edgeztp/internal/provisioning"
)

// Provision prepares the configured appliance for zero-touch onboarding.
//
// This function orchestrates the complete provisioning workflow:
//  1. Loads and validates the configuration
//  2. Creates the cloud inventory, SSH session and REST clients
//  3. Runs the provisioning phases (discovery through persist)
//  4. Closes the appliance API session
//  5. Writes the run report and metrics, uploading artifacts when configured
//  6. Prints a summary of the run
//
// The appliance is never rebooted. A failed run still produces its report.
func Provision(ctx context.Context, configPath string, verbosity int) error {
	path, err := resolveConfigPath(configPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := newLogger(verbosity).WithName("provision")

	sessionLog, closeSessionLog, err := openSessionLog(cfg.Appliance.SSH.SessionLog)
	if err != nil {
		return err
	}
	defer closeSessionLog()

	inventory, err := newInventory(cfg)
	if err != nil {
		return fmt.Errorf("failed to create cloud inventory: %w", err)
	}
	session, err := newSession(cfg, sessionLog)
	if err != nil {
		return fmt.Errorf("failed to create SSH session: %w", err)
	}
	api, err := newApplianceClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create appliance client: %w", err)
	}

	metrics := provisioning.NewMetrics(prometheus.Labels{"appliance": cfg.Appliance.Host})
	orch, err := provisioning.NewOrchestrator(cfg, provisioning.Dependencies{
		Inventory:  inventory,
		Session:    session,
		Appliance:  api,
		Controller: newControllerClient(cfg),
	},
		provisioning.WithObserver(provisioning.NewLogObserver(log)),
		provisioning.WithMetrics(metrics),
		provisioning.WithSleep(sleep),
	)
	if err != nil {
		return err
	}

	log.Info("provisioning appliance", "host", cfg.Appliance.Host, "provider", cfg.Cloud.Provider)
	report, runErr := orch.Provision(ctx)
	if report == nil {
		return runErr
	}

	if phaseSucceeded(report, provisioning.PhaseLogin) {
		if err := api.Logout(ctx); err != nil {
			log.V(1).Info("appliance logout failed", "error", err.Error())
		}
	}
	closeSessionLog()

	artifactErr := publishArtifacts(ctx, cfg, report, metrics, log)

	fmt.Fprint(stdout, renderReport(report, isTerminal()))

	if runErr != nil {
		return runErr
	}
	return artifactErr
}

// openSessionLog opens the transcript file. The returned writer is nil when
// no path is configured. The close func may be called more than once.
func openSessionLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}

	// #nosec G304
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session log: %w", err)
	}

	closed := false
	return f, func() {
		if !closed {
			closed = true
			_ = f.Close()
		}
	}, nil
}

// phaseSucceeded reports whether the named phase ran without error.
func phaseSucceeded(report *provisioning.Report, name string) bool {
	for _, p := range report.Phases {
		if p.Name == name {
			return p.Error == ""
		}
	}
	return false
}
