// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"

	"github.com/imamik/edgeztp/internal/config"
	"github.com/imamik/edgeztp/internal/platform/azure"
	"github.com/imamik/edgeztp/internal/platform/edgeconnect"
	"github.com/imamik/edgeztp/internal/platform/hcloud"
	"github.com/imamik/edgeztp/internal/platform/orchestrator"
	"github.com/imamik/edgeztp/internal/platform/s3"
	"github.com/imamik/edgeztp/internal/platform/ssh"
	"github.com/imamik/edgeztp/internal/provisioning"
)

// ApplianceClient is the appliance REST API including session teardown.
type ApplianceClient interface {
	provisioning.ApplianceAPI
	Logout(ctx context.Context) error
}

// Uploader stores run artifacts in object storage - matches s3.Client.
type Uploader interface {
	UploadRun(ctx context.Context, bucket, prefix, runID string, objects ...s3.Object) ([]string, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// findConfigFile finds edgeztp.yaml (for testing injection).
	findConfigFile = config.FindConfigFile

	// loadConfig loads and fully validates a config file (for testing injection).
	loadConfig = config.Load

	// loadDiscoveryConfig loads a config file for read-only commands.
	loadDiscoveryConfig = config.LoadForDiscovery

	// newInventory creates the cloud inventory for the configured provider.
	newInventory = func(cfg *config.Config) (provisioning.CloudInventory, error) {
		switch cfg.Cloud.Provider {
		case config.ProviderAzure:
			a := cfg.Cloud.Azure
			return azure.NewClient(azure.Config{
				Endpoint:       a.Endpoint,
				Token:          a.Token,
				SubscriptionID: a.SubscriptionID,
				ResourceGroup:  a.ResourceGroup,
				VMName:         a.VMName,
			}), nil
		case config.ProviderHCloud:
			h := cfg.Cloud.HCloud
			return hcloud.NewClient(h.Token, h.Endpoint, h.Server), nil
		default:
			return nil, fmt.Errorf("unsupported cloud provider %q", cfg.Cloud.Provider)
		}
	}

	// newSession creates the SSH session to the appliance console.
	newSession = func(cfg *config.Config, sessionLog io.Writer) (provisioning.ApplianceSession, error) {
		s := cfg.Appliance.SSH
		key, err := readFile(s.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH private key: %w", err)
		}

		sshCfg := &ssh.Config{
			Host:        cfg.Appliance.Host,
			Port:        s.Port,
			User:        s.User,
			PrivateKey:  key,
			Passphrase:  s.Passphrase,
			DialTimeout: s.DialTimeout,
			SessionLog:  sessionLog,
		}
		if s.KnownHostsPath != "" {
			cb, err := ssh.KnownHostsCallback(s.KnownHostsPath)
			if err != nil {
				return nil, err
			}
			sshCfg.HostKeyCallback = cb
		}

		client, err := ssh.NewClient(sshCfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// newApplianceClient creates the appliance REST client.
	newApplianceClient = func(cfg *config.Config) (ApplianceClient, error) {
		client, err := edgeconnect.NewClient(cfg.Appliance.URL, cfg.Appliance.VerifyTLS)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// newControllerClient creates the fleet controller client.
	newControllerClient = func(cfg *config.Config) provisioning.ControllerAPI {
		return orchestrator.NewClient(cfg.Controller.URL, cfg.Controller.APIKey, cfg.Controller.VerifyTLS)
	}

	// newUploader creates the object storage client for run artifacts.
	newUploader = func(ctx context.Context, s config.S3Config) (Uploader, error) {
		client, err := s3.NewClient(ctx, s.Endpoint, s.Region, s.AccessKey, s.SecretKey)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// readFile reads a file (for testing injection).
	readFile = os.ReadFile

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile

	// sleep implements the settle wait (for testing injection).
	sleep = time.Sleep

	// stdout receives command output (for testing injection).
	stdout io.Writer = os.Stdout

	// logOutput receives log lines (for testing injection).
	logOutput io.Writer = os.Stderr

	// isTerminal reports whether output is styled (for testing injection).
	isTerminal = isInteractiveTTY
)

// resolveConfigPath returns configPath or, when empty, the auto-detected
// config file.
func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	path, err := findConfigFile()
	if err != nil {
		return "", fmt.Errorf("no config file specified and %w", err)
	}
	return path, nil
}

// newLogger creates the CLI logger. Higher verbosity enables V-level logs.
func newLogger(verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(logOutput, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(logOutput, args)
	}, funcr.Options{
		LogTimestamp: true,
		Verbosity:    verbosity,
	})
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
