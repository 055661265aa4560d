// Package mirror pushes session outcomes to an optional hosted datastore.
//
// The mirror is strictly best-effort: the engine calls it after local state
// is already updated and never reads a response to drive a transition.
// Failures are logged and forgotten.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"grindstone/internal/model"
)

const requestTimeout = 10 * time.Second

// Client posts outcome records to the mirror service.
type Client struct {
	baseURL   string
	installID string
	http      *http.Client
}

// New returns a client for the given base URL. An empty URL yields a
// disabled client whose methods are no-ops.
func New(baseURL, installID string) *Client {
	return &Client{
		baseURL:   baseURL,
		installID: installID,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

// Enabled reports whether a mirror endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

type dailyRecord struct {
	InstallID  string `json:"install_id"`
	DayKey     string `json:"day_key"`
	Result     string `json:"result"`
	Reason     string `json:"reason,omitempty"`
	ResultAt   string `json:"result_at"`
	Challenge  int    `json:"challenge_id"`
	StreakSize int    `json:"streak"`
}

type sessionRecord struct {
	InstallID  string `json:"install_id"`
	Kind       string `json:"kind"`
	DayKey     string `json:"day_key"`
	Label      string `json:"label,omitempty"`
	Result     string `json:"result"`
	Reason     string `json:"reason,omitempty"`
	StartedAt  string `json:"started_at"`
	EndedAt    string `json:"ended_at"`
	DurationMs int64  `json:"duration_ms"`
}

// UpsertDaily records the daily challenge outcome, keyed server-side by
// (install, day): re-sends for the same day overwrite.
func (c *Client) UpsertDaily(ctx context.Context, run model.ChallengeRunState, streakCount int) error {
	if !c.Enabled() {
		return nil
	}
	rec := dailyRecord{
		InstallID:  c.installID,
		DayKey:     run.DayKey,
		Result:     string(run.Status),
		Reason:     run.Reason,
		Challenge:  run.ChallengeID,
		StreakSize: streakCount,
	}
	if run.ResultAt != nil {
		rec.ResultAt = run.ResultAt.UTC().Format(time.RFC3339Nano)
	}
	return c.post(ctx, "/v1/daily", rec)
}

// AppendSession records a timed session outcome, append-only.
func (c *Client) AppendSession(ctx context.Context, o model.SessionOutcome) error {
	if !c.Enabled() {
		return nil
	}
	rec := sessionRecord{
		InstallID:  c.installID,
		Kind:       string(o.Kind),
		DayKey:     o.DayKey,
		Label:      o.Label,
		Result:     string(o.Result),
		Reason:     o.Reason,
		StartedAt:  o.StartedAt.UTC().Format(time.RFC3339Nano),
		EndedAt:    o.EndedAt.UTC().Format(time.RFC3339Nano),
		DurationMs: o.DurationMs,
	}
	return c.post(ctx, "/v1/sessions", rec)
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mirror payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mirror request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send mirror request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mirror responded %s", resp.Status)
	}
	return nil
}
