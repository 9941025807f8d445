package services

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"attendance-rewards/models"
)

func TestFeedFiltersByOrgAndUser(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Set(day(14, 9, 0))
	for _, row := range []struct{ user, org string }{{"u1", "o1"}, {"u2", "o1"}, {"u1", "o2"}} {
		if err := env.activity.Record(env.db, row.user, row.org, models.ActivityKudos, "Received kudos", nil); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	all, err := env.activity.Feed(context.Background(), "o1", "", 0)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("org feed: %d rows, want 2", len(all))
	}
	mine, err := env.activity.Feed(context.Background(), "o1", "u1", 10)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != "u1" {
		t.Fatalf("user feed: %+v", mine)
	}
}

func TestStreamOrgActivitySSE(t *testing.T) {
	env := newTestEnv(t)
	env.activity.PollInterval = 20 * time.Millisecond

	// rows that exist before the client connects are not replayed
	env.clock.Set(day(14, 9, 0))
	if err := env.activity.Record(env.db, "u1", "o1", models.ActivityKudos, "old news", nil); err != nil {
		t.Fatalf("Record: %v", err)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/stream", func(c *fiber.Ctx) error {
		c.Locals("org_id", "o1")
		return env.activity.StreamOrgActivitySSE(c)
	})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { _ = app.ShutdownWithTimeout(time.Second) })

	resp, err := http.Get("http://" + ln.Addr().String() + "/stream")
	if err != nil {
		t.Fatalf("GET stream: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content type: %q", ct)
	}

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		r := bufio.NewReader(resp.Body)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			lines <- strings.TrimRight(line, "\n")
		}
	}()
	next := func() string {
		t.Helper()
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("stream closed early")
			}
			return line
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for stream")
		}
		return ""
	}

	if first := next(); first != ":" {
		t.Fatalf("first line: %q, want keepalive", first)
	}

	env.clock.Set(day(14, 9, 5))
	if err := env.activity.Record(env.db, "u2", "o1", models.ActivityKudos, "Received kudos", nil); err != nil {
		t.Fatalf("Record: %v", err)
	}
	// other organizations never reach this stream
	if err := env.activity.Record(env.db, "u3", "o2", models.ActivityKudos, "elsewhere", nil); err != nil {
		t.Fatalf("Record: %v", err)
	}

	for line := next(); line != "event: activity"; line = next() {
	}
	id := next()
	if !strings.HasPrefix(id, "id: ") {
		t.Fatalf("id line: %q", id)
	}
	data := next()
	if !strings.HasPrefix(data, "data: ") {
		t.Fatalf("data line: %q", data)
	}
	var row models.ActivityLog
	if err := json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &row); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if row.UserID != "u2" || row.OrgID != "o1" || row.Title != "Received kudos" {
		t.Fatalf("streamed row: %+v", row)
	}
	if row.ID != strings.TrimPrefix(id, "id: ") {
		t.Fatalf("id %q does not match row %q", id, row.ID)
	}

	// the cursor advanced: the next frames are keepalives, not a replay
	for i := 0; i < 3; i++ {
		if line := next(); strings.HasPrefix(line, "event:") {
			t.Fatalf("unexpected event after cursor advanced: %q", line)
		}
	}
}
