// Package leave watches how long the app goes unattended while a session
// is running. A single rule is active at a time; starting a new one
// replaces the old (last writer wins), so a finished session can never
// receive a trigger meant for its successor.
package leave

import (
	"sync"
	"time"

	"grindstone/internal/daykey"
	"grindstone/internal/model"
)

// DefaultThreshold is how long the app may be unattended before the
// active session's trigger fires. Shared by all three session kinds.
const DefaultThreshold = 15 * time.Second

// TriggerFunc receives the measured away duration when it crosses the
// rule's threshold. Invoked at most once per departure.
type TriggerFunc func(away time.Duration)

type rule struct {
	kind      model.SessionKind
	threshold time.Duration
	onTrigger TriggerFunc
}

// Monitor owns the single active leave rule and the away timestamp.
//
// The surrounding TUI delivers attention events serially, but the monitor
// guards its state with a mutex anyway so it holds up under any caller.
type Monitor struct {
	clock daykey.Clock

	mu        sync.Mutex
	active    *rule
	awaySince time.Time
}

// NewMonitor returns a monitor with no active rule.
func NewMonitor(clock daykey.Clock) *Monitor {
	return &Monitor{clock: clock}
}

// Start installs a rule for the given session kind, replacing any active
// rule and discarding any in-flight away timestamp of the previous owner.
func (m *Monitor) Start(kind model.SessionKind, threshold time.Duration, onTrigger TriggerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = &rule{kind: kind, threshold: threshold, onTrigger: onTrigger}
	m.awaySince = time.Time{}
}

// Stop clears the active rule. Safe to call with no rule installed.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = nil
	m.awaySince = time.Time{}
}

// Active reports which session kind currently owns the rule slot.
func (m *Monitor) Active() (model.SessionKind, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return "", false
	}
	return m.active.kind, true
}

// Away records the departure instant. Redundant away signals while
// already away are ignored: only the first departure instant matters.
func (m *Monitor) Away() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || !m.awaySince.IsZero() {
		return
	}
	m.awaySince = m.clock.Now()
}

// Back measures the completed absence and fires the trigger if it met the
// threshold. A return with no recorded departure is a no-op, so redundant
// focus signals cannot double-fire.
func (m *Monitor) Back() {
	m.mu.Lock()
	if m.active == nil || m.awaySince.IsZero() {
		m.mu.Unlock()
		return
	}
	elapsed := m.clock.Now().Sub(m.awaySince)
	m.awaySince = time.Time{}
	r := m.active
	m.mu.Unlock()

	if elapsed >= r.threshold {
		r.onTrigger(elapsed)
	}
}
