package provisioning

import (
	"time"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/edgeztp/internal/appliance"
	"github.com/imamik/edgeztp/internal/inventory"
	"github.com/imamik/edgeztp/internal/roles"
)

// Report summarizes a run. It never contains credentials.
type Report struct {
	RunID      string    `json:"runID"`
	Mode       string    `json:"mode"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`

	Instance     *inventory.Instance   `json:"instance,omitempty"`
	Roles        map[roles.Role]string `json:"roles"`
	Registration *RegistrationSummary  `json:"registration,omitempty"`
	Updates      []appliance.Interface `json:"updates,omitempty"`
	Submitted    bool                  `json:"submitted"`
	Saved        bool                  `json:"saved"`

	Phases []PhaseSummary `json:"phases"`
}

// RegistrationSummary is the registration without its key.
type RegistrationSummary struct {
	Account string `json:"account"`
	Group   string `json:"group,omitempty"`
	Site    string `json:"site"`
}

// PhaseSummary is a PhaseResult in report form.
type PhaseSummary struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// newReport builds the report for a finished run.
func newReport(runID, mode string, started, finished time.Time, state *State, runErr error) *Report {
	r := &Report{
		RunID:      runID,
		Mode:       mode,
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		Success:    runErr == nil,
		Instance:   state.Instance,
		Roles:      state.Table.Entries(),
		Updates:    state.Updates,
		Submitted:  state.Submitted,
		Saved:      state.Saved,
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	if state.Registration.Site != "" {
		r.Registration = &RegistrationSummary{
			Account: state.Registration.Account,
			Group:   state.Registration.Group,
			Site:    state.Registration.Site,
		}
	}
	for _, p := range state.Phases {
		r.Phases = append(r.Phases, PhaseSummary{
			Name:     p.Name,
			Duration: p.Duration.Round(time.Millisecond).String(),
			Error:    p.Error,
		})
	}
	return r
}

// YAML renders the report as YAML.
func (r *Report) YAML() ([]byte, error) {
	return sigsyaml.Marshal(r)
}
