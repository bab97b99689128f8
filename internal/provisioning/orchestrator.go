package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/imamik/edgeztp/internal/config"
	"github.com/imamik/edgeztp/internal/roles"
)

// Run modes reported in the run report.
const (
	ModeProvision = "provision"
	ModePlan      = "plan"
)

// Orchestrator sequences one provisioning run against one appliance.
type Orchestrator struct {
	cfg        *config.Config
	classifier *roles.Classifier
	deps       Dependencies
	observer   Observer
	metrics    *Metrics
	sleep      func(time.Duration)
	now        func() time.Time
	newRunID   func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver sets the observer receiving run events.
func WithObserver(o Observer) Option {
	return func(orch *Orchestrator) {
		orch.observer = o
	}
}

// WithMetrics records phase and run metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(orch *Orchestrator) {
		orch.metrics = m
	}
}

// WithSleep replaces the settle wait (useful for testing).
func WithSleep(sleep func(time.Duration)) Option {
	return func(orch *Orchestrator) {
		orch.sleep = sleep
	}
}

// WithClock replaces the wall clock (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(orch *Orchestrator) {
		orch.now = now
	}
}

// NewOrchestrator creates an orchestrator for cfg. Only the inventory is
// required up front; Provision checks the remaining collaborators.
func NewOrchestrator(cfg *config.Config, deps Dependencies, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if deps.Inventory == nil {
		return nil, errors.New("cloud inventory is required")
	}

	classifier, err := roles.NewClassifier(cfg.Roles)
	if err != nil {
		return nil, fmt.Errorf("invalid role rules: %w", err)
	}

	o := &Orchestrator{
		cfg:        cfg,
		classifier: classifier,
		deps:       deps,
		observer:   NewLogObserver(logr.Discard()),
		sleep:      time.Sleep,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Provision runs the full provisioning sequence. Once the run starts the
// returned report is non-nil even when it fails. Missing appliance or
// controller dependencies return a nil report.
func (o *Orchestrator) Provision(ctx context.Context) (*Report, error) {
	if o.deps.Session == nil || o.deps.Appliance == nil || o.deps.Controller == nil {
		return nil, errors.New("appliance session, appliance API and controller API are required")
	}
	return o.run(ctx, ModeProvision, ProvisionPhases())
}

// Plan discovers and classifies the instance without contacting the
// appliance.
func (o *Orchestrator) Plan(ctx context.Context) (*Report, error) {
	return o.run(ctx, ModePlan, PlanPhases())
}

func (o *Orchestrator) run(ctx context.Context, mode string, phases []Phase) (*Report, error) {
	runID := o.newRunID()
	started := o.now()

	observer := o.observer.WithFields(map[string]string{"run": runID})
	pctx := NewContext(ctx, o.cfg, o.classifier, o.deps, observer)
	pctx.Metrics = o.metrics
	pctx.Sleep = o.sleep

	err := NewPipeline(phases...).Run(pctx)

	finished := o.now()
	if o.metrics != nil {
		o.metrics.ObserveRun(pctx.State, err, finished)
	}
	return newReport(runID, mode, started, finished, pctx.State, err), err
}
