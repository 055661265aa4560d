package streak

import (
	"testing"

	"grindstone/internal/model"
)

func TestConsecutiveDaysIncrement(t *testing.T) {
	l := Load(model.StreakRecord{})
	if !l.RecordCompletion("2026-03-01") {
		t.Fatalf("first completion should change the record")
	}
	if l.Count() != 1 {
		t.Fatalf("expected count 1, got %d", l.Count())
	}
	l.RecordCompletion("2026-03-02")
	if l.Count() != 2 {
		t.Fatalf("next-day completion should increment, got %d", l.Count())
	}
}

func TestGapResetsToOne(t *testing.T) {
	l := Load(model.StreakRecord{Count: 5, LastCompletedDayKey: "2026-03-01"})
	l.RecordCompletion("2026-03-03")
	if l.Count() != 1 {
		t.Fatalf("two-day gap should reset to 1, got %d", l.Count())
	}
}

func TestSameDayIsIdempotent(t *testing.T) {
	l := Load(model.StreakRecord{Count: 3, LastCompletedDayKey: "2026-03-01"})
	if l.RecordCompletion("2026-03-01") {
		t.Fatalf("same-day completion should be a no-op")
	}
	if l.Count() != 3 {
		t.Fatalf("same-day completion changed count to %d", l.Count())
	}
}

func TestClockSkewResetsToOne(t *testing.T) {
	l := Load(model.StreakRecord{Count: 3, LastCompletedDayKey: "2026-03-05"})
	l.RecordCompletion("2026-03-04")
	if l.Count() != 1 {
		t.Fatalf("backwards day should reset to 1, got %d", l.Count())
	}
	if l.Record().LastCompletedDayKey != "2026-03-04" {
		t.Fatalf("last completed day not updated: %s", l.Record().LastCompletedDayKey)
	}
}

func TestReconcileOnLoad(t *testing.T) {
	l := Load(model.StreakRecord{Count: 4, LastCompletedDayKey: "2026-03-01"})
	if l.ReconcileOnLoad("2026-03-02") {
		t.Fatalf("one-day gap should not break the streak")
	}
	if l.Count() != 4 {
		t.Fatalf("streak changed on benign reconcile: %d", l.Count())
	}
	if !l.ReconcileOnLoad("2026-03-04") {
		t.Fatalf("multi-day gap should break the streak")
	}
	if l.Count() != 0 {
		t.Fatalf("expected reset to 0, got %d", l.Count())
	}
}

func TestReconcileCorruptKey(t *testing.T) {
	l := Load(model.StreakRecord{Count: 4, LastCompletedDayKey: "not-a-day"})
	if !l.ReconcileOnLoad("2026-03-04") {
		t.Fatalf("corrupt key should reset the record")
	}
	if l.Count() != 0 {
		t.Fatalf("expected reset to 0, got %d", l.Count())
	}
}
