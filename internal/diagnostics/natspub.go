package diagnostics

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectDiagnostics is the subject every Diagnostic is published to,
// following douglaslinsmeyer-...-toolbox/internal/queue's fixed-subject
// naming convention for a single event stream (that repo distinguishes
// environments and job ids in the subject; a planner core has neither, so
// one subject suffices).
const SubjectDiagnostics = "planner.diagnostics"

// NATSPublisher is a Sink that forwards diagnostics onto a NATS subject so
// an external monitoring subscriber can consume them without this module
// importing a monitoring stack directly.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to natsURL and returns a ready Sink. Connection
// options mirror the toolbox's reconnect/backoff policy.
func NewNATSPublisher(natsURL string) (*NATSPublisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("cryoplanner"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn, subject: SubjectDiagnostics}, nil
}

// Close closes the underlying NATS connection; it does not drain it first.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// wireDiagnostic is the JSON shape published to NATS; Timestamp is
// formatted as RFC 3339, so a zero-value Diagnostic.Timestamp is sent as
// "0001-01-01T00:00:00Z".
type wireDiagnostic struct {
	Severity  Severity       `json:"severity"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// Publish implements Sink by marshaling d and publishing it to
// SubjectDiagnostics.
func (p *NATSPublisher) Publish(d Diagnostic) error {
	wire := wireDiagnostic{
		Severity:  d.Severity,
		Message:   d.Message,
		Fields:    d.Fields,
		Timestamp: d.Timestamp.Format(time.RFC3339),
	}
	payload, err := json.Marshal(wire)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subject, payload)
}
