package mirror

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grindstone/internal/model"
)

func TestDisabledClientIsNoop(t *testing.T) {
	var c *Client
	if c.Enabled() {
		t.Fatalf("nil client must report disabled")
	}
	c = New("", "abc")
	if c.Enabled() {
		t.Fatalf("empty URL must report disabled")
	}
	if err := c.AppendSession(context.Background(), model.SessionOutcome{}); err != nil {
		t.Fatalf("disabled client must be a no-op, got %v", err)
	}
}

func TestUpsertDaily(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, "install-1")
	resultAt := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	run := model.ChallengeRunState{
		DayKey:      "2026-03-01",
		Status:      model.StatusCompleted,
		ChallengeID: 4,
		ResultAt:    &resultAt,
	}
	if err := c.UpsertDaily(context.Background(), run, 3); err != nil {
		t.Fatalf("upsert daily: %v", err)
	}
	if gotPath != "/v1/daily" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["install_id"] != "install-1" || gotBody["day_key"] != "2026-03-01" {
		t.Fatalf("unexpected payload %+v", gotBody)
	}
	if gotBody["result"] != "completed" || gotBody["streak"] != float64(3) {
		t.Fatalf("unexpected payload %+v", gotBody)
	}
}

func TestAppendSessionSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "install-1")
	err := c.AppendSession(context.Background(), model.SessionOutcome{Kind: model.KindBoss})
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
}

func TestNewInstallID(t *testing.T) {
	a, err := NewInstallID()
	if err != nil {
		t.Fatalf("new install id: %v", err)
	}
	b, err := NewInstallID()
	if err != nil {
		t.Fatalf("new install id: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(a))
	}
	if a == b {
		t.Fatalf("install ids should not repeat")
	}
}
