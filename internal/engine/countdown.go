package engine

import (
	"time"

	"grindstone/internal/model"
)

// CountdownState is the lifecycle state of a timed session.
type CountdownState int

const (
	StateIdle CountdownState = iota
	StateRunning
	StateCompleted
	StateFailed
)

// LeavePolicy is a countdown's reaction to a qualifying leave event.
type LeavePolicy int

const (
	// PolicyFail ends the session immediately (focus arena).
	PolicyFail LeavePolicy = iota
	// PolicyHeal adds time back to the countdown instead (boss fight).
	PolicyHeal
)

// bossHealFraction is the share of total duration restored per leave.
const bossHealFraction = 0.20

// Countdown is a timed session (boss fight or focus arena). In-memory
// only: an abandoned countdown does not survive a reload.
type Countdown struct {
	Kind   model.SessionKind
	policy LeavePolicy

	state     CountdownState
	label     string
	total     time.Duration
	remaining time.Duration
	startedAt time.Time
	endedAt   time.Time
	reason    string
	lastTick  time.Time
}

func newCountdown(kind model.SessionKind, policy LeavePolicy) *Countdown {
	return &Countdown{Kind: kind, policy: policy}
}

// State returns the current lifecycle state.
func (c *Countdown) State() CountdownState { return c.state }

// Label returns the task label, if any.
func (c *Countdown) Label() string { return c.label }

// Total returns the committed duration.
func (c *Countdown) Total() time.Duration { return c.total }

// Remaining returns the time left, always within [0, total].
func (c *Countdown) Remaining() time.Duration { return c.remaining }

// Reason returns the failure reason for a failed countdown.
func (c *Countdown) Reason() string { return c.reason }

func (c *Countdown) start(label string, total time.Duration, now time.Time) {
	c.state = StateRunning
	c.label = label
	c.total = total
	c.remaining = total
	c.startedAt = now
	c.endedAt = time.Time{}
	c.reason = ""
	c.lastTick = now
}

// tick advances the countdown by the wall-clock time elapsed since the
// previous tick, clamped at zero. Returns true when the countdown just
// completed. Ticks outside running are ignored.
func (c *Countdown) tick(now time.Time) bool {
	if c.state != StateRunning {
		return false
	}
	elapsed := now.Sub(c.lastTick)
	c.lastTick = now
	if elapsed <= 0 {
		return false
	}
	c.remaining -= elapsed
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.state = StateCompleted
	c.endedAt = now
	return true
}

// handleLeave applies the policy reaction to a qualifying leave event.
// Returns true when the countdown just failed.
func (c *Countdown) handleLeave(away time.Duration, reason string, now time.Time) bool {
	if c.state != StateRunning {
		return false
	}
	if c.policy == PolicyHeal {
		// The boss heals: remaining grows by a fixed share of total,
		// never past the total itself.
		heal := time.Duration(float64(c.total) * bossHealFraction)
		c.remaining += heal
		if c.remaining > c.total {
			c.remaining = c.total
		}
		return false
	}
	c.state = StateFailed
	c.reason = reason
	c.endedAt = now
	return true
}

// stop is the explicit user stop. A countdown whose remaining time had
// already reached zero through ticking is completed, not stopped; any
// other running countdown returns to idle with no outcome.
func (c *Countdown) stop(now time.Time) {
	if c.state != StateRunning {
		return
	}
	if c.remaining <= 0 {
		c.remaining = 0
		c.state = StateCompleted
		c.endedAt = now
		return
	}
	c.state = StateIdle
}

// outcome builds the history record for a finished countdown.
func (c *Countdown) outcome(dayKey string) model.SessionOutcome {
	result := model.StatusCompleted
	if c.state == StateFailed {
		result = model.StatusFailed
	}
	return model.SessionOutcome{
		Kind:       c.Kind,
		DayKey:     dayKey,
		Label:      c.label,
		Result:     result,
		Reason:     c.reason,
		StartedAt:  c.startedAt,
		EndedAt:    c.endedAt,
		DurationMs: c.endedAt.Sub(c.startedAt).Milliseconds(),
	}
}
