package report

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"grindstone/internal/model"
	"grindstone/internal/store"
)

func seedStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "grindstone.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	outcomes := []model.SessionOutcome{
		{Kind: model.KindDaily, DayKey: "2026-03-01", Label: "No social feeds", Result: model.StatusCompleted},
		{Kind: model.KindBoss, DayKey: "2026-03-01", Label: "ship the report", Result: model.StatusCompleted, DurationMs: 25 * 60 * 1000},
		{Kind: model.KindArena, DayKey: "2026-03-02", Result: model.StatusFailed, Reason: "left for 20s", DurationMs: 5 * 60 * 1000},
	}
	for i, o := range outcomes {
		o.StartedAt = base.Add(time.Duration(i) * time.Hour)
		o.EndedAt = o.StartedAt.Add(time.Duration(o.DurationMs) * time.Millisecond)
		if _, err := st.InsertOutcome(ctx, o); err != nil {
			t.Fatalf("insert outcome: %v", err)
		}
	}
	return st
}

func TestBuildAggregates(t *testing.T) {
	st := seedStore(t)
	rec := model.StreakRecord{Count: 2, LastCompletedDayKey: "2026-03-01"}
	r, err := Build(context.Background(), st, rec, "2026-03-02", model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if r.Completed != 2 || r.Failed != 1 {
		t.Fatalf("unexpected totals: completed=%d failed=%d", r.Completed, r.Failed)
	}
	if r.ByKind[model.KindBoss] != 1 || r.ByKind[model.KindDaily] != 1 || r.ByKind[model.KindArena] != 1 {
		t.Fatalf("unexpected kind breakdown: %+v", r.ByKind)
	}
	if len(r.FocusMinutes) != sparklineDays {
		t.Fatalf("expected %d sparkline days, got %d", sparklineDays, len(r.FocusMinutes))
	}
	// The boss session on 2026-03-01 contributes 25 focus minutes to the
	// second-to-last day of the window; the failed arena contributes none.
	if got := r.FocusMinutes[sparklineDays-2]; got != 25 {
		t.Fatalf("expected 25 focus minutes, got %v", got)
	}
	if got := r.FocusMinutes[sparklineDays-1]; got != 0 {
		t.Fatalf("failed session must not count focus minutes, got %v", got)
	}
}

func TestRenderReport(t *testing.T) {
	st := seedStore(t)
	rec := model.StreakRecord{Count: 2, LastCompletedDayKey: "2026-03-01"}
	r, err := Build(context.Background(), st, rec, "2026-03-02", model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	var buf bytes.Buffer
	if err := Render(&buf, r, 100); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Streak: 2 day(s), last completed 2026-03-01",
		"Sessions: 3",
		"Completed: 2  Failed: 1",
		"ship the report",
		"left for 20s",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("empty values should render empty, got %q", got)
	}
	if got := Sparkline([]float64{0, 0, 0}); got != "   " {
		t.Fatalf("flat zero series should render blanks, got %q", got)
	}
	out := Sparkline([]float64{0, 5, 10})
	if len(out) != 3 {
		t.Fatalf("expected 3 cells, got %q", out)
	}
	if out[0] != ' ' || out[2] != '@' {
		t.Fatalf("expected min/max endpoints, got %q", out)
	}
}
