package diagnostics

import "sync"

// Collector is an in-memory Sink that keeps every diagnostic it receives.
type Collector struct {
	mu   sync.Mutex
	all  []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Publish records the diagnostic. Never returns an error.
func (c *Collector) Publish(d Diagnostic) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = append(c.all, d)
	return nil
}

// All returns every diagnostic recorded so far, in emission order.
func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.all))
	copy(out, c.all)
	return out
}
