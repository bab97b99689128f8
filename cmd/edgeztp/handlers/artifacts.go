package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/edgeztp/internal/config"
	"github.com/imamik/edgeztp/internal/platform/s3"
	"github.com/imamik/edgeztp/internal/provisioning"
)

const (
	reportObjectName     = "report.yaml"
	sessionLogObjectName = "session.log"
)

// publishArtifacts writes the report and metrics and uploads them when
// object storage is configured. Every configured target is attempted.
func publishArtifacts(ctx context.Context, cfg *config.Config, report *provisioning.Report, metrics *provisioning.Metrics, log logr.Logger) error {
	data, err := report.YAML()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	var errs []error

	if cfg.Report.Path != "" {
		if err := writeFile(cfg.Report.Path, data, 0o600); err != nil {
			errs = append(errs, fmt.Errorf("failed to write report: %w", err))
		} else {
			log.Info("report written", "path", cfg.Report.Path)
		}
	}

	if cfg.Metrics.Textfile != "" && metrics != nil {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics: %w", err))
		} else {
			log.V(1).Info("metrics written", "path", cfg.Metrics.Textfile)
		}
	}

	if cfg.Report.S3.Enabled() {
		if err := uploadArtifacts(ctx, cfg, report.RunID, data, log); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func uploadArtifacts(ctx context.Context, cfg *config.Config, runID string, report []byte, log logr.Logger) error {
	objects := []s3.Object{{
		Name:        reportObjectName,
		ContentType: "application/yaml",
		Data:        report,
	}}

	if path := cfg.Appliance.SSH.SessionLog; path != "" {
		transcript, err := readFile(path)
		if err != nil {
			log.Error(err, "session log not uploaded", "path", path)
		} else {
			objects = append(objects, s3.Object{
				Name:        sessionLogObjectName,
				ContentType: "text/plain",
				Data:        transcript,
			})
		}
	}

	s := cfg.Report.S3
	uploader, err := newUploader(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to create S3 client: %w", err)
	}
	keys, err := uploader.UploadRun(ctx, s.Bucket, s.Prefix, runID, objects...)
	if err != nil {
		return fmt.Errorf("failed to upload artifacts: %w", err)
	}

	log.Info("artifacts uploaded", "bucket", s.Bucket, "keys", keys)
	return nil
}
