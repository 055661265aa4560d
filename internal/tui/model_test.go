package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"grindstone/internal/engine"
	"grindstone/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func newTestModel() (*Model, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	mgr := engine.NewManager(clock, nil, nil)
	cfg := model.Config{BossMinutes: 25, ArenaMinutes: 50}
	return NewModel(mgr, cfg), clock
}

func TestBlurAndFocusFailArena(t *testing.T) {
	m, clock := newTestModel()
	m.mgr.StartArena(50 * time.Minute)

	if _, _ = m.Update(tea.BlurMsg{}); m.mgr.Arena().State() != engine.StateRunning {
		t.Fatalf("blur alone must not end the session")
	}
	clock.now = clock.now.Add(20 * time.Second)
	_, _ = m.Update(tea.FocusMsg{})
	if m.mgr.Arena().State() != engine.StateFailed {
		t.Fatalf("expected failed arena after 20s away, got %v", m.mgr.Arena().State())
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	m, clock := newTestModel()
	m.mgr.StartArena(time.Minute)
	staleGen := m.mgr.TickGeneration()
	m.mgr.StopActive()

	clock.now = clock.now.Add(30 * time.Second)
	m.mgr.StartArena(time.Minute)
	before := m.mgr.Arena().Remaining()

	clock.now = clock.now.Add(10 * time.Second)
	_, cmd := m.Update(tickMsg{gen: staleGen})
	if cmd != nil {
		t.Fatalf("stale tick must not reschedule")
	}
	if m.mgr.Arena().Remaining() != before {
		t.Fatalf("stale tick mutated the new session")
	}
}

func TestCurrentTickReschedulesWhileRunning(t *testing.T) {
	m, clock := newTestModel()
	m.mgr.StartArena(time.Minute)

	clock.now = clock.now.Add(10 * time.Second)
	_, cmd := m.Update(tickMsg{gen: m.mgr.TickGeneration()})
	if cmd == nil {
		t.Fatalf("running session should keep ticking")
	}
	if got := m.mgr.Arena().Remaining(); got != 50*time.Second {
		t.Fatalf("expected 50s remaining, got %v", got)
	}

	// Run out the clock: the completing tick must not reschedule.
	clock.now = clock.now.Add(time.Minute)
	_, cmd = m.Update(tickMsg{gen: m.mgr.TickGeneration()})
	if cmd != nil {
		t.Fatalf("completed session must stop the tick loop")
	}
	if m.mgr.Arena().State() != engine.StateCompleted {
		t.Fatalf("expected completed arena, got %v", m.mgr.Arena().State())
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{90 * time.Second, "01:30"},
		{time.Hour + 5*time.Minute + 3*time.Second, "1:05:03"},
		{-time.Second, "00:00"},
	}
	for _, tc := range cases {
		if got := formatClock(tc.in); got != tc.want {
			t.Fatalf("formatClock(%v): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}
