// Package engine owns the session state machines and the invariants that
// tie them together: one active leave rule, one persisted daily run, lazy
// day rollover, and best-effort persistence and mirroring.
//
// All methods are called from a single event loop (the TUI's update
// function); the engine performs every transition synchronously and never
// blocks on the store or the mirror.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"grindstone/internal/daykey"
	"grindstone/internal/leave"
	"grindstone/internal/mirror"
	"grindstone/internal/model"
	"grindstone/internal/store"
	"grindstone/internal/streak"
)

// State keys in the persistence store.
const (
	keyDailyRun  = "daily_run"
	keyStreak    = "streak"
	keyInstallID = "install_id"
)

// ErrLabelRequired rejects a boss fight started without a task label.
var ErrLabelRequired = errors.New("boss fight needs a task label")

// Manager wires the three session machines to the shared leave monitor,
// the persistence store, the streak ledger, and the mirror.
type Manager struct {
	clock   daykey.Clock
	store   *store.Store
	monitor *leave.Monitor
	mirror  *mirror.Client
	streak  *streak.Ledger

	daily model.ChallengeRunState
	boss  *Countdown
	arena *Countdown

	// tickGen invalidates scheduled ticks from sessions that already
	// ended; the TUI drops tick messages carrying a stale generation.
	tickGen int
}

// NewManager loads persisted state, reconciles the streak, and resolves
// the current day's run record. The store may be nil for fully ephemeral
// operation; the mirror may be nil or disabled.
func NewManager(clock daykey.Clock, st *store.Store, mc *mirror.Client) *Manager {
	m := &Manager{
		clock:   clock,
		store:   st,
		monitor: leave.NewMonitor(clock),
		mirror:  mc,
		boss:    newCountdown(model.KindBoss, PolicyHeal),
		arena:   newCountdown(model.KindArena, PolicyFail),
	}
	m.loadStreak()
	m.loadDaily()
	m.refreshDaily()
	if m.daily.Status == model.StatusInProgress {
		// A run persisted as in_progress resumes across a reload and
		// must come back watched.
		m.armDailyRule()
	}
	if m.streak.ReconcileOnLoad(daykey.Today(clock)) {
		m.persistStreak()
	}
	return m
}

// Clock exposes the injected time source for display computations.
func (m *Manager) Clock() daykey.Clock { return m.clock }

// Today returns the current day key.
func (m *Manager) Today() string { return daykey.Today(m.clock) }

// StreakCount returns the reconciled streak length.
func (m *Manager) StreakCount() int {
	// Rollover may have happened since boot; re-check lazily like every
	// other day-keyed read.
	m.refreshDaily()
	return m.streak.Count()
}

// StreakRecord returns the reconciled streak record.
func (m *Manager) StreakRecord() model.StreakRecord {
	m.refreshDaily()
	return m.streak.Record()
}

// Boss returns the boss fight countdown.
func (m *Manager) Boss() *Countdown { return m.boss }

// Arena returns the focus arena countdown.
func (m *Manager) Arena() *Countdown { return m.arena }

// TickGeneration tags scheduled ticks; see Manager.tickGen.
func (m *Manager) TickGeneration() int { return m.tickGen }

// Running reports whether any session is currently running.
func (m *Manager) Running() bool {
	return m.DailyState().Status == model.StatusInProgress ||
		m.boss.State() == StateRunning ||
		m.arena.State() == StateRunning
}

// Attention feeds an attention transition from the platform layer into
// the leave monitor. away=true on blur/suspend, false on focus/resume.
func (m *Manager) Attention(away bool) {
	if away {
		m.monitor.Away()
		return
	}
	m.monitor.Back()
}

// Tick advances whichever countdown is running by the elapsed wall-clock
// time. The daily challenge has no decrementing timer; its deadline is
// the day boundary, checked lazily on read.
func (m *Manager) Tick() {
	now := m.clock.Now()
	if m.boss.tick(now) {
		m.finishCountdown(m.boss)
	}
	if m.arena.tick(now) {
		m.finishCountdown(m.arena)
	}
}

// StartBoss begins a boss fight. The label is a required precondition:
// nothing mutates when it is empty.
func (m *Manager) StartBoss(label string, total time.Duration) error {
	if label == "" {
		return ErrLabelRequired
	}
	if m.boss.State() == StateRunning || m.arena.State() == StateRunning {
		return nil
	}
	now := m.clock.Now()
	m.boss.start(label, total, now)
	m.tickGen++
	m.monitor.Start(model.KindBoss, leave.DefaultThreshold, func(away time.Duration) {
		m.boss.handleLeave(away, "", m.clock.Now())
	})
	return nil
}

// StartArena begins a silent focus arena session.
func (m *Manager) StartArena(total time.Duration) {
	if m.boss.State() == StateRunning || m.arena.State() == StateRunning {
		return
	}
	now := m.clock.Now()
	m.arena.start("", total, now)
	m.tickGen++
	m.monitor.Start(model.KindArena, leave.DefaultThreshold, func(away time.Duration) {
		if m.arena.handleLeave(away, leaveReason(away), m.clock.Now()) {
			m.finishCountdown(m.arena)
		}
	})
}

// StopActive stops a running countdown without an outcome. The daily
// challenge cannot be stopped this way: leaving its screen never ends it.
func (m *Manager) StopActive() {
	for _, c := range []*Countdown{m.boss, m.arena} {
		if c.State() != StateRunning {
			continue
		}
		c.stop(m.clock.Now())
		m.tickGen++
		if kind, ok := m.monitor.Active(); ok && kind == c.Kind {
			m.monitor.Stop()
		}
		if c.State() == StateCompleted {
			m.recordCountdownOutcome(c)
		}
	}
}

// finishCountdown clears a countdown's leave rule and scheduled tick
// atomically with its terminal transition, then records the outcome.
func (m *Manager) finishCountdown(c *Countdown) {
	m.tickGen++
	if kind, ok := m.monitor.Active(); ok && kind == c.Kind {
		m.monitor.Stop()
	}
	m.recordCountdownOutcome(c)
}

func (m *Manager) recordCountdownOutcome(c *Countdown) {
	o := c.outcome(m.Today())
	if m.store != nil {
		if _, err := m.store.InsertOutcome(context.Background(), o); err != nil {
			logErrf("failed to save session outcome: %v\n", err)
		}
	}
	if m.mirror.Enabled() {
		go func() {
			if err := m.mirror.AppendSession(context.Background(), o); err != nil {
				logErrf("mirror session append failed: %v\n", err)
			}
		}()
	}
}

// leaveReason renders the away duration as the human-readable failure
// reason ("left for 20s").
func leaveReason(away time.Duration) string {
	return fmt.Sprintf("left for %ds", int(away.Seconds()))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

// loadStreak reads the persisted streak record; any failure or corruption
// means "no prior streak".
func (m *Manager) loadStreak() {
	rec := model.StreakRecord{}
	if m.store != nil {
		raw, ok, err := m.store.GetState(context.Background(), keyStreak)
		if err != nil {
			logErrf("failed to read streak: %v\n", err)
		} else if ok {
			if uerr := json.Unmarshal([]byte(raw), &rec); uerr != nil {
				logErrf("corrupt streak record, starting fresh: %v\n", uerr)
				rec = model.StreakRecord{}
			}
		}
	}
	m.streak = streak.Load(rec)
}

func (m *Manager) persistStreak() {
	if m.store == nil {
		return
	}
	raw, err := json.Marshal(m.streak.Record())
	if err != nil {
		logErrf("failed to encode streak: %v\n", err)
		return
	}
	if err := m.store.SetState(context.Background(), keyStreak, string(raw)); err != nil {
		logErrf("failed to save streak: %v\n", err)
	}
}

// InstallID returns the persisted anonymous install id, creating it on
// first use. Best-effort: a store failure yields an ephemeral id.
func InstallID(st *store.Store) string {
	if st != nil {
		raw, ok, err := st.GetState(context.Background(), keyInstallID)
		if err == nil && ok && raw != "" {
			return raw
		}
		if err != nil {
			logErrf("failed to read install id: %v\n", err)
		}
	}
	id, err := mirror.NewInstallID()
	if err != nil {
		logErrf("failed to generate install id: %v\n", err)
		return "anonymous"
	}
	if st != nil {
		if err := st.SetState(context.Background(), keyInstallID, id); err != nil {
			logErrf("failed to save install id: %v\n", err)
		}
	}
	return id
}
