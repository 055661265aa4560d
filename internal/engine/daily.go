package engine

import (
	"context"
	"encoding/json"
	"time"

	"grindstone/internal/catalog"
	"grindstone/internal/daykey"
	"grindstone/internal/leave"
	"grindstone/internal/model"
)

// loadDaily reads the persisted run record. Failures and corruption both
// degrade to "no prior state"; refreshDaily then initializes today's run.
func (m *Manager) loadDaily() {
	if m.store == nil {
		return
	}
	raw, ok, err := m.store.GetState(context.Background(), keyDailyRun)
	if err != nil {
		logErrf("failed to read daily run: %v\n", err)
		return
	}
	if !ok {
		return
	}
	var run model.ChallengeRunState
	if err := json.Unmarshal([]byte(raw), &run); err != nil {
		logErrf("corrupt daily run record, starting fresh: %v\n", err)
		return
	}
	m.daily = run
}

// refreshDaily applies the lazy day rollover: whenever the stored record's
// day key no longer matches the current day, the old record is discarded
// (never merged) and a fresh one is created with the day's challenge.
// Called on every read so rollover needs no background scheduler.
func (m *Manager) refreshDaily() {
	today := daykey.Today(m.clock)
	if m.daily.DayKey == today {
		return
	}
	wasRunning := m.daily.Status == model.StatusInProgress
	m.daily = model.ChallengeRunState{
		DayKey:      today,
		Status:      model.StatusNotStarted,
		ChallengeID: catalog.ChallengeFor(today).ID,
	}
	m.persistDaily()
	if wasRunning {
		m.tickGen++
		if kind, ok := m.monitor.Active(); ok && kind == model.KindDaily {
			m.monitor.Stop()
		}
	}
	if m.streak.ReconcileOnLoad(today) {
		m.persistStreak()
	}
}

func (m *Manager) persistDaily() {
	if m.store == nil {
		return
	}
	raw, err := json.Marshal(m.daily)
	if err != nil {
		logErrf("failed to encode daily run: %v\n", err)
		return
	}
	if err := m.store.SetState(context.Background(), keyDailyRun, string(raw)); err != nil {
		logErrf("failed to save daily run: %v\n", err)
	}
}

// DailyState returns the current run record, resolving day rollover first.
func (m *Manager) DailyState() model.ChallengeRunState {
	m.refreshDaily()
	return m.daily
}

// DailyChallenge returns today's challenge, pinned to the id stored in the
// run record so a restart never re-rolls a run already in progress.
func (m *Manager) DailyChallenge() model.Challenge {
	return catalog.ByID(m.DailyState().ChallengeID)
}

// CrowdSize returns today's simulated crowd size.
func (m *Manager) CrowdSize() int {
	return catalog.CrowdSizeFor(m.Today())
}

// DailyDeadline returns the next day boundary: the displayed countdown
// target for a running daily challenge. Reaching it is not itself a
// failure trigger; the rollover check on the next read handles it.
func (m *Manager) DailyDeadline() time.Time {
	return daykey.NextMidnight(m.clock.Now())
}

// StartDaily moves today's challenge from not_started to in_progress and
// installs the leave rule that fails it. Any other source status makes
// this a silent no-op.
func (m *Manager) StartDaily() {
	m.refreshDaily()
	if m.daily.Status != model.StatusNotStarted {
		return
	}
	now := m.clock.Now()
	m.daily.Status = model.StatusInProgress
	m.daily.StartedAt = &now
	m.persistDaily()
	m.armDailyRule()
}

// armDailyRule installs the leave rule that fails the running daily
// challenge. Called on start and again on load when a persisted
// in_progress run is resumed.
func (m *Manager) armDailyRule() {
	m.monitor.Start(model.KindDaily, leave.DefaultThreshold, func(away time.Duration) {
		m.FailDaily(leaveReason(away))
	})
}

// CompleteDaily finishes today's challenge. Only valid from in_progress;
// pressing complete twice cannot double-count the streak or move resultAt.
func (m *Manager) CompleteDaily() {
	m.refreshDaily()
	if m.daily.Status != model.StatusInProgress {
		return
	}
	now := m.clock.Now()
	m.daily.Status = model.StatusCompleted
	m.daily.ResultAt = &now
	if m.streak.RecordCompletion(m.daily.DayKey) {
		m.persistStreak()
	}
	m.settleDaily()
}

// FailDaily fails today's challenge with a human-readable reason, either
// from an explicit action or the leave rule. The streak is untouched.
func (m *Manager) FailDaily(reason string) {
	m.refreshDaily()
	if m.daily.Status != model.StatusInProgress {
		return
	}
	now := m.clock.Now()
	m.daily.Status = model.StatusFailed
	m.daily.ResultAt = &now
	m.daily.Reason = reason
	m.settleDaily()
}

// settleDaily runs the shared post-transition steps for a terminal daily
// outcome: clear the leave rule and any scheduled tick atomically with the
// transition, persist, append history, then mirror fire-and-forget.
func (m *Manager) settleDaily() {
	m.tickGen++
	if kind, ok := m.monitor.Active(); ok && kind == model.KindDaily {
		m.monitor.Stop()
	}
	m.persistDaily()

	o := model.SessionOutcome{
		Kind:    model.KindDaily,
		DayKey:  m.daily.DayKey,
		Label:   catalog.ByID(m.daily.ChallengeID).Title,
		Result:  m.daily.Status,
		Reason:  m.daily.Reason,
		EndedAt: m.clock.Now(),
	}
	if m.daily.StartedAt != nil {
		o.StartedAt = *m.daily.StartedAt
	}
	if m.daily.ResultAt != nil {
		o.EndedAt = *m.daily.ResultAt
	}
	o.DurationMs = o.EndedAt.Sub(o.StartedAt).Milliseconds()
	if m.store != nil {
		if _, err := m.store.InsertOutcome(context.Background(), o); err != nil {
			logErrf("failed to save daily outcome: %v\n", err)
		}
	}
	if m.mirror.Enabled() {
		run := m.daily
		count := m.streak.Count()
		go func() {
			if err := m.mirror.UpsertDaily(context.Background(), run, count); err != nil {
				logErrf("mirror daily upsert failed: %v\n", err)
			}
		}()
	}
}
