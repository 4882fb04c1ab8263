package search

import "time"

// DefaultDebounce is the quiet period before input is dispatched
const DefaultDebounce = 300 * time.Millisecond

// Ticket identifies one keystroke waiting on the debounce timer
type Ticket struct {
	ID    uint64
	Value string
}

// Gate debounces input. Every keystroke gets a ticket; when a ticket's timer
// elapses it fires only if no newer ticket was issued in the meantime.
// Intermediate values are dropped, never queued.
type Gate struct {
	delay  time.Duration
	latest uint64
	fired  bool
}

// NewGate creates a gate with the given quiet period
func NewGate(delay time.Duration) *Gate {
	if delay < 0 {
		delay = 0
	}
	return &Gate{delay: delay}
}

// Delay returns the quiet period
func (g *Gate) Delay() time.Duration {
	return g.delay
}

// Trigger records a keystroke carrying value
func (g *Gate) Trigger(value string) Ticket {
	g.latest++
	g.fired = false
	return Ticket{ID: g.latest, Value: value}
}

// Fire reports whether t is still the latest ticket. Each ticket fires at most once.
func (g *Gate) Fire(t Ticket) (string, bool) {
	if t.ID != g.latest || g.fired {
		return "", false
	}
	g.fired = true
	return t.Value, true
}
