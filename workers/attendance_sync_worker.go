package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"attendance-rewards/models"
	"attendance-rewards/services"
	"attendance-rewards/utils"

	"github.com/sirupsen/logrus"
)

// SyncedEntry matches one entry of the attendance service's changes feed.
type SyncedEntry struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	OrgID      string           `json:"org_id"`
	EntryType  models.EntryType `json:"entry_type"`
	OccurredAt time.Time        `json:"timestamp"`
	Timezone   string           `json:"timezone"`
	OnSite     bool             `json:"on_site"`
}

// EventProcessor consumes attendance events.
type EventProcessor interface {
	ProcessAttendanceEvent(ctx context.Context, ev services.AttendanceEvent) *services.EventResult
}

type AttendanceSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewAttendanceSyncClient(baseURL, token string) *AttendanceSyncClient {
	return &AttendanceSyncClient{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: utils.HTTPClient,
	}
}

// GetEntriesSince fetches entries recorded after since, oldest first.
func (c *AttendanceSyncClient) GetEntriesSince(ctx context.Context, since time.Time) ([]SyncedEntry, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/v1/public/attendance-entries", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call attendance service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("attendance service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Entries []SyncedEntry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode attendance service response: %w", err)
	}
	return response.Entries, nil
}

// SyncOnce pulls one batch and feeds it to the processor. It returns the
// cursor to use next time; on error the cursor is left unchanged.
func SyncOnce(ctx context.Context, client *AttendanceSyncClient, proc EventProcessor, since time.Time) (time.Time, int, error) {
	started := time.Now().UTC()
	entries, err := client.GetEntriesSince(ctx, since)
	if err != nil {
		return since, 0, err
	}
	for _, e := range entries {
		proc.ProcessAttendanceEvent(ctx, services.AttendanceEvent{
			EntryID:   e.ID,
			UserID:    e.UserID,
			OrgID:     e.OrgID,
			EntryType: e.EntryType,
			Entry:     models.AttendanceEntry{OccurredAt: e.OccurredAt, OnSite: e.OnSite},
			Timezone:  e.Timezone,
		})
	}
	return started, len(entries), nil
}

// PollAttendance delivers at-least-once; redelivered entries are absorbed
// by the engine's processed-event check.
func PollAttendance(ctx context.Context, client *AttendanceSyncClient, proc EventProcessor, pollInterval time.Duration) {
	logrus.Info("🔁 Starting attendance polling...")
	cursor := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Attendance polling stopped.")
			return
		case <-ticker.C:
			next, n, err := SyncOnce(ctx, client, proc, cursor)
			if err != nil {
				logrus.Warnf("❌ Error polling attendance entries: %v", err)
				continue
			}
			cursor = next
			if n > 0 {
				logrus.Infof("📥 Processed %d attendance entr(ies).", n)
			}
		}
	}
}
