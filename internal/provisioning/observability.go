package provisioning

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "discover", "reconcile")
	Message   string            // Human-readable message
	Resource  string            // Interface or object the event is about
	Err       error             // Set for failure events
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventInterfaceClassified indicates a cloud interface was assigned a role.
	EventInterfaceClassified EventType = "interface.classified"
	// EventInterfaceIgnored indicates an interface was left out on purpose.
	EventInterfaceIgnored EventType = "interface.ignored"
	// EventInterfaceUpdate indicates an appliance interface will be updated.
	EventInterfaceUpdate EventType = "interface.update"

	// EventWaiting indicates an unconditional wait.
	EventWaiting EventType = "waiting"
	// EventInfo carries phase output worth keeping in the log.
	EventInfo EventType = "info"
)

// debugEvents are only logged at verbosity 1 and above.
var debugEvents = map[EventType]bool{
	EventInterfaceIgnored: true,
	EventInfo:             true,
}

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log logr.Logger
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// Event implements Observer interface.
func (o *LogObserver) Event(event Event) {
	kv := []any{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	for k, v := range event.Fields {
		kv = append(kv, k, v)
	}

	if event.Type == EventPhaseFailed {
		o.log.Error(event.Err, event.Message, kv...)
		return
	}

	level := 0
	if debugEvents[event.Type] {
		level = 1
	}
	o.log.V(level).Info(event.Message, kv...)
}

// WithFields implements Observer interface.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &LogObserver{log: o.log.WithValues(kv...)}
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: "failed",
		Err:     err,
	})
}
