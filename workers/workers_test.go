package workers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"attendance-rewards/models"
	"attendance-rewards/services"
)

type recorder struct {
	mu     sync.Mutex
	events []services.AttendanceEvent
}

func (r *recorder) ProcessAttendanceEvent(ctx context.Context, ev services.AttendanceEvent) *services.EventResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return &services.EventResult{}
}

func TestSyncOnceFeedsProcessor(t *testing.T) {
	var gotToken, gotSince string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Service-Token")
		gotSince = r.URL.Query().Get("since")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"entries": []SyncedEntry{
				{ID: "e1", UserID: "u1", OrgID: "o1", EntryType: models.EntryClockIn, OnSite: true, Timezone: "Europe/Berlin"},
				{ID: "e2", UserID: "u1", OrgID: "o1", EntryType: models.EntryClockOut},
			},
		})
	}))
	defer srv.Close()

	client := NewAttendanceSyncClient(srv.URL, "tok")
	rec := &recorder{}
	since := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	next, n, err := SyncOnce(context.Background(), client, rec, since)
	if err != nil {
		t.Fatalf("SyncOnce: %v", err)
	}
	if n != 2 || len(rec.events) != 2 {
		t.Fatalf("processed: got %d/%d want 2", n, len(rec.events))
	}
	if !next.After(since) {
		t.Fatalf("cursor did not advance: %v", next)
	}
	if gotToken != "tok" {
		t.Fatalf("token: got %q", gotToken)
	}
	if gotSince != "2026-10-01T00:00:00Z" {
		t.Fatalf("since: got %q", gotSince)
	}
	if ev := rec.events[0]; ev.EntryID != "e1" || !ev.Entry.OnSite || ev.Timezone != "Europe/Berlin" {
		t.Fatalf("first event mapped wrong: %+v", ev)
	}
}

func TestSyncOnceKeepsCursorOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	since := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	next, _, err := SyncOnce(context.Background(), NewAttendanceSyncClient(srv.URL, "tok"), &recorder{}, since)
	if err == nil {
		t.Fatal("expected error")
	}
	if !next.Equal(since) {
		t.Fatalf("cursor moved on error: %v", next)
	}
}

type fakeExpirer struct {
	n   int64
	err error
}

func (f fakeExpirer) ExpireChallenges(ctx context.Context, now time.Time) (int64, error) {
	return f.n, f.err
}

func TestSweepChallenges(t *testing.T) {
	if got := SweepChallenges(context.Background(), fakeExpirer{n: 3}, time.Now()); got != 3 {
		t.Fatalf("got %d want 3", got)
	}
	if got := SweepChallenges(context.Background(), fakeExpirer{err: errors.New("db down")}, time.Now()); got != 0 {
		t.Fatalf("got %d want 0 on error", got)
	}
}
