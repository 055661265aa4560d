// Package report renders the streak and session history report.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"grindstone/internal/model"
	"grindstone/internal/store"
)

const sparklineDays = 14

// Report aggregates everything the stats command prints.
type Report struct {
	Streak    model.StreakRecord
	DayKey    string
	Outcomes  []model.SessionOutcome
	Completed int
	Failed    int
	ByKind    map[model.SessionKind]int
	// FocusMinutes holds per-day focus minutes for the trailing window,
	// oldest first.
	FocusMinutes []float64
}

// Build loads history and computes the aggregates for the report.
func Build(ctx context.Context, st *store.Store, streakRec model.StreakRecord, dayKey string, cfg model.StatsConfig) (Report, error) {
	outcomes, err := st.ListOutcomes(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list outcomes: %w", err)
	}
	r := Report{
		Streak:   streakRec,
		DayKey:   dayKey,
		Outcomes: outcomes,
		ByKind:   map[model.SessionKind]int{},
	}
	perDay := map[string]float64{}
	for _, o := range outcomes {
		r.ByKind[o.Kind]++
		switch o.Result {
		case model.StatusCompleted:
			r.Completed++
		case model.StatusFailed:
			r.Failed++
		}
		if o.Kind != model.KindDaily && o.Result == model.StatusCompleted {
			perDay[o.DayKey] += float64(o.DurationMs) / 60000.0
		}
	}
	r.FocusMinutes = trailingDays(perDay, dayKey, sparklineDays)
	return r, nil
}

// trailingDays projects the per-day map onto the last n day keys ending at
// dayKey, oldest first. Missing days are zero.
func trailingDays(perDay map[string]float64, dayKey string, n int) []float64 {
	end, err := time.ParseInLocation("2006-01-02", dayKey, time.UTC)
	if err != nil {
		return nil
	}
	out := make([]float64, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := end.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, perDay[key])
	}
	return out
}

// Render prints the report sized to the given total width.
func Render(w io.Writer, r Report, totalWidth int) error {
	streakLine := "Streak: none yet"
	if r.Streak.Count > 0 {
		streakLine = fmt.Sprintf("Streak: %d day(s), last completed %s", r.Streak.Count, r.Streak.LastCompletedDayKey)
	}
	if _, err := fmt.Fprintln(w, streakLine); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d (%s)\n", len(r.Outcomes), kindBreakdown(r.ByKind)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Completed: %d  Failed: %d\n", r.Completed, r.Failed); err != nil {
		return err
	}
	if spark := Sparkline(r.FocusMinutes); spark != "" {
		if _, err := fmt.Fprintf(w, "Focus minutes, last %d days: [%s]\n", sparklineDays, spark); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return renderOutcomeTable(w, r.Outcomes, totalWidth)
}

func kindBreakdown(byKind map[model.SessionKind]int) string {
	order := []model.SessionKind{model.KindDaily, model.KindBoss, model.KindArena}
	parts := make([]string, 0, len(order))
	for _, kind := range order {
		parts = append(parts, fmt.Sprintf("%s %d", kind, byKind[kind]))
	}
	return joinDot(parts)
}

func joinDot(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " · "
		}
		out += p
	}
	return out
}

func renderOutcomeTable(w io.Writer, outcomes []model.SessionOutcome, totalWidth int) error {
	if len(outcomes) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"Day", "Kind", "Label", "Result", "Duration", "Reason"}
	rows := make([][]string, 0, len(outcomes))
	for i := len(outcomes) - 1; i >= 0; i-- {
		o := outcomes[i]
		rows = append(rows, []string{
			o.DayKey,
			string(o.Kind),
			truncate(o.Label, labelWidthFor(totalWidth)),
			string(o.Result),
			formatDuration(o.DurationMs),
			o.Reason,
		})
	}
	rightAlign := map[int]bool{4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d >= time.Hour {
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

func labelWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return 30
	}
	width := totalWidth / 3
	if width < 12 {
		width = 12
	}
	return width
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
