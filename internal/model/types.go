// Package model defines shared data structures.
package model

import "time"

// SessionKind identifies one of the three session types.
type SessionKind string

const (
	KindDaily SessionKind = "daily"
	KindBoss  SessionKind = "boss"
	KindArena SessionKind = "arena"
)

// RunStatus is the lifecycle status of the persisted daily challenge run.
type RunStatus string

const (
	StatusNotStarted RunStatus = "not_started"
	StatusInProgress RunStatus = "in_progress"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// Challenge is one entry of the fixed ordered challenge catalog.
type Challenge struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ChallengeRunState is the persisted state of the current day's challenge.
//
// The challenge id is stored alongside the status so a run started before a
// restart keeps its challenge even if the selection logic changes.
type ChallengeRunState struct {
	DayKey      string     `json:"day_key"`
	Status      RunStatus  `json:"status"`
	ChallengeID int        `json:"challenge_id"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	ResultAt    *time.Time `json:"result_at,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// StreakRecord is the persisted consecutive-day completion streak.
type StreakRecord struct {
	Count               int    `json:"count"`
	LastCompletedDayKey string `json:"last_completed_day_key"`
}

// SessionOutcome is one finished session, appended to history and mirrored.
type SessionOutcome struct {
	ID         int64
	Kind       SessionKind
	DayKey     string
	Label      string
	Result     RunStatus
	Reason     string
	StartedAt  time.Time
	EndedAt    time.Time
	DurationMs int64
}

// Config carries the resolved runtime settings for the TUI.
type Config struct {
	BossMinutes   int
	ArenaMinutes  int
	MirrorURL     string
	MirrorEnabled bool
}

// StatsConfig defines filters for the stats report.
type StatsConfig struct {
	Kind string
	Last int
}
