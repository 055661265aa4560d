// Package streak maintains the consecutive-day completion streak.
package streak

import (
	"grindstone/internal/daykey"
	"grindstone/internal/model"
)

// Ledger wraps a StreakRecord with the reconciliation rules. It is pure
// in-memory state; the owner persists the record when a method reports a
// change.
type Ledger struct {
	rec model.StreakRecord
}

// Load wraps a persisted record. A zero record means no streak history.
func Load(rec model.StreakRecord) *Ledger {
	if rec.Count < 0 {
		rec.Count = 0
	}
	return &Ledger{rec: rec}
}

// Record returns the current record for persistence or display.
func (l *Ledger) Record() model.StreakRecord { return l.rec }

// Count returns the current streak length.
func (l *Ledger) Count() int { return l.rec.Count }

// RecordCompletion counts a daily challenge completion for the given day.
// At most one completion counts per distinct day key. Returns true when
// the record changed and should be persisted.
func (l *Ledger) RecordCompletion(dayKey string) bool {
	if l.rec.LastCompletedDayKey == dayKey {
		return false
	}
	gap := -1
	if l.rec.LastCompletedDayKey != "" {
		if g, err := daykey.Gap(l.rec.LastCompletedDayKey, dayKey); err == nil {
			gap = g
		}
	}
	if gap == 1 {
		l.rec.Count++
	} else {
		// No prior record, a missed day, or clock skew: streak restarts.
		l.rec.Count = 1
	}
	l.rec.LastCompletedDayKey = dayKey
	return true
}

// ReconcileOnLoad applies the read-time correction: a last completion more
// than one day behind the current day breaks the streak. Evaluated once
// per boot or day rollover, before any streak value is shown. Returns true
// when the record changed.
func (l *Ledger) ReconcileOnLoad(currentDayKey string) bool {
	if l.rec.Count == 0 || l.rec.LastCompletedDayKey == "" {
		return false
	}
	gap, err := daykey.Gap(l.rec.LastCompletedDayKey, currentDayKey)
	if err != nil {
		// Corrupt stored key: treat as no prior streak.
		l.rec = model.StreakRecord{}
		return true
	}
	if gap > 1 {
		l.rec.Count = 0
		return true
	}
	return false
}
