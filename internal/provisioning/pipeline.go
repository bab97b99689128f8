package provisioning

import (
	"fmt"
	"time"
)

// Pipeline runs phases in order, stopping at the first failure.
type Pipeline struct {
	Phases []Phase
}

// NewPipeline creates a pipeline from phases.
func NewPipeline(phases ...Phase) *Pipeline {
	return &Pipeline{Phases: phases}
}

// Run executes all phases sequentially.
func (p *Pipeline) Run(ctx *Context) error {
	for i, phase := range p.Phases {
		start := time.Now()
		name := phase.Name()
		obs := ctx.Observer.WithFields(map[string]string{
			"step": fmt.Sprintf("%d/%d", i+1, len(p.Phases)),
		})

		LogPhaseStart(obs, name)

		err := phase.Provision(ctx)
		elapsed := time.Since(start)

		result := PhaseResult{Name: name, Duration: elapsed}
		if err != nil {
			result.Error = err.Error()
		}
		ctx.State.Phases = append(ctx.State.Phases, result)
		if ctx.Metrics != nil {
			ctx.Metrics.ObservePhase(name, elapsed, err)
		}

		if err != nil {
			LogPhaseFailed(obs, name, err)
			return fmt.Errorf("%s phase failed: %w", name, err)
		}

		LogPhaseComplete(obs, name, elapsed)
	}
	return nil
}
