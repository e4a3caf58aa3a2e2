package edit

import (
	"sort"
	"sync"
	"time"
)

// Outcome is the result of one patch attempt.
type Outcome struct {
	Edit       string
	Method     string
	Success    bool
	Reason     string // empty on success
	Inserted   int    // instructions added; zero on failure
	RolledBack bool   // body restored to its pre-patch state
	Propagated bool   // failure returned to the host
	At         time.Time
}

// Diagnostics keeps the most recent patch outcome per edit.
type Diagnostics struct {
	mu   sync.RWMutex
	last map[string]Outcome
	now  func() time.Time
}

// NewDiagnostics creates an empty Diagnostics.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		last: make(map[string]Outcome),
		now:  time.Now,
	}
}

// Record stores o as the latest outcome for its edit, stamping it if At is zero.
func (d *Diagnostics) Record(o Outcome) {
	if o.At.IsZero() {
		o.At = d.now()
	}
	d.mu.Lock()
	d.last[o.Edit] = o
	d.mu.Unlock()
}

// Last returns the latest outcome recorded for edit.
func (d *Diagnostics) Last(edit string) (Outcome, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	o, ok := d.last[edit]
	return o, ok
}

// All returns the latest outcome of every edit, sorted by edit name.
func (d *Diagnostics) All() []Outcome {
	d.mu.RLock()
	out := make([]Outcome, 0, len(d.last))
	for _, o := range d.last {
		out = append(out, o)
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Edit < out[j].Edit })
	return out
}

// Reset forgets every recorded outcome.
func (d *Diagnostics) Reset() {
	d.mu.Lock()
	d.last = make(map[string]Outcome)
	d.mu.Unlock()
}
