package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"grindstone/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "grindstone.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestStateRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := st.GetState(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := st.SetState(ctx, "streak", `{"count":3}`); err != nil {
		t.Fatalf("set state: %v", err)
	}
	value, ok, err := st.GetState(ctx, "streak")
	if err != nil || !ok {
		t.Fatalf("get state: ok=%v err=%v", ok, err)
	}
	if value != `{"count":3}` {
		t.Fatalf("unexpected value %q", value)
	}

	// Upsert overwrites.
	if err := st.SetState(ctx, "streak", `{"count":4}`); err != nil {
		t.Fatalf("set state: %v", err)
	}
	value, _, _ = st.GetState(ctx, "streak")
	if value != `{"count":4}` {
		t.Fatalf("upsert did not overwrite: %q", value)
	}
}

func TestOutcomesInsertAndList(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, kind := range []model.SessionKind{model.KindDaily, model.KindBoss, model.KindArena} {
		start := base.Add(time.Duration(i) * time.Hour)
		end := start.Add(25 * time.Minute)
		o := model.SessionOutcome{
			Kind:       kind,
			DayKey:     "2026-03-01",
			Label:      "task",
			Result:     model.StatusCompleted,
			StartedAt:  start,
			EndedAt:    end,
			DurationMs: end.Sub(start).Milliseconds(),
		}
		if _, err := st.InsertOutcome(ctx, o); err != nil {
			t.Fatalf("insert outcome: %v", err)
		}
	}

	all, err := st.ListOutcomes(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list outcomes: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(all))
	}
	if !all[0].EndedAt.Before(all[2].EndedAt) {
		t.Fatalf("outcomes not ordered oldest first")
	}

	boss, err := st.ListOutcomes(ctx, model.StatsConfig{Kind: "boss"})
	if err != nil {
		t.Fatalf("list boss outcomes: %v", err)
	}
	if len(boss) != 1 || boss[0].Kind != model.KindBoss {
		t.Fatalf("kind filter failed: %+v", boss)
	}

	last, err := st.ListOutcomes(ctx, model.StatsConfig{Last: 2})
	if err != nil {
		t.Fatalf("list last outcomes: %v", err)
	}
	if len(last) != 2 || last[1].Kind != model.KindArena {
		t.Fatalf("last filter failed: %+v", last)
	}
}
