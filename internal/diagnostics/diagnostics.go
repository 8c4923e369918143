// Package diagnostics carries non-fatal planner findings (infeasibility
// causes, dropped forecast entries, capacity warnings) out of the solve
// pipeline to anything subscribed to them, adapted from the in-process event
// bus pattern used for domain events elsewhere in this codebase.
package diagnostics

import "time"

// Severity classifies how urgently a Diagnostic should be surfaced.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Diagnostic is one planner-emitted finding.
type Diagnostic struct {
	Severity  Severity
	Message   string
	Fields    map[string]any
	Timestamp time.Time
}

// NewDiagnostic builds a Diagnostic stamped with the current time.
func NewDiagnostic(sev Severity, message string, fields map[string]any) Diagnostic {
	return Diagnostic{Severity: sev, Message: message, Fields: fields, Timestamp: time.Now()}
}

// Sink receives diagnostics as they are emitted.
type Sink interface {
	Publish(d Diagnostic) error
}

// Bus fans a Diagnostic out to every registered Sink, continuing past a
// sink's error so one broken subscriber can't block the rest.
type Bus struct {
	sinks []Sink
}

// NewBus returns an empty diagnostics bus.
func NewBus() *Bus {
	return &Bus{}
}

// Register adds a sink to receive future diagnostics.
func (b *Bus) Register(s Sink) {
	b.sinks = append(b.sinks, s)
}

// Emit publishes a diagnostic to every registered sink and returns the first
// error encountered, if any, after attempting all of them.
func (b *Bus) Emit(d Diagnostic) error {
	var firstErr error
	for _, s := range b.sinks {
		if err := s.Publish(d); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
