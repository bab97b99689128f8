package provisioning

import (
	"context"
	"time"

	"github.com/imamik/edgeztp/internal/appliance"
	"github.com/imamik/edgeztp/internal/config"
	"github.com/imamik/edgeztp/internal/inventory"
	"github.com/imamik/edgeztp/internal/roles"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Discovery results
	Instance *inventory.Instance
	Table    roles.AddressTable

	// Appliance results
	AccountOutput       string
	ApplianceInterfaces []appliance.Interface
	Credential          appliance.RegistrationCredential
	Registration        appliance.Registration

	// Update results
	Updates   []appliance.Interface
	Submitted bool
	SubmitErr error
	Saved     bool

	// Phases records every phase that ran, in order.
	Phases []PhaseResult
}

// PhaseResult is the outcome of one phase.
type PhaseResult struct {
	Name     string
	Duration time.Duration
	Error    string
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{Table: roles.NewAddressTable()}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config     *config.Config
	Classifier *roles.Classifier
	State      *State
	Deps       Dependencies
	Observer   Observer
	Metrics    *Metrics

	// Sleep implements the settle wait. Replaced in tests.
	Sleep func(time.Duration)
}

// NewContext creates a new provisioning context.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	classifier *roles.Classifier,
	deps Dependencies,
	observer Observer,
) *Context {
	return &Context{
		Context:    ctx,
		Config:     cfg,
		Classifier: classifier,
		State:      NewState(),
		Deps:       deps,
		Observer:   observer,
		Sleep:      time.Sleep,
	}
}
