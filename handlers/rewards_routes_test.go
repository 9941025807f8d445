package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"attendance-rewards/catalog"
	"attendance-rewards/models"
	"attendance-rewards/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testToken = "svc-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := services.NewProfileStore(db)
	activity := services.NewActivityService(db)
	progression := services.NewProgressionService(store, activity)
	streaks := services.NewStreakService(store, progression, activity)
	stats := services.NewStatsService(db)
	badges := services.NewBadgeService(store, progression, activity)
	challenges := services.NewChallengeService(store, progression, activity)
	svc := &Services{
		Engine:      services.NewRewardsEngine(db, store, progression, streaks, stats, badges, challenges),
		Store:       store,
		Progression: progression,
		Streaks:     streaks,
		Stats:       stats,
		Badges:      badges,
		Challenges:  challenges,
		Titles:      services.NewTitleService(store, activity),
		Kudos:       services.NewKudosService(store, activity, 5),
		Activity:    activity,
		Catalog:     services.NewCatalogService(db, catalog.Default()),
	}

	app := fiber.New()
	SetupServiceRoutes(app, svc, testToken)
	SetupRewardsRoutes(app, svc, testToken)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

var (
	svcAuth  = map[string]string{"Authorization": "Bearer " + testToken}
	userAuth = map[string]string{"Authorization": "Bearer " + testToken, "X-User-ID": "u1", "X-Org-ID": "o1"}
)

func TestAttendanceEventRoute(t *testing.T) {
	app := newTestApp(t)

	status, _ := do(t, app, http.MethodPost, "/internal/attendance-events",
		`{"entry_id":"e1","user_id":"u1","org_id":"o1","entry_type":"clock_in","timestamp":"2026-10-14T09:00:00Z"}`, nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("no token: status %d", status)
	}

	status, _ = do(t, app, http.MethodPost, "/internal/attendance-events",
		`{"user_id":"u1","org_id":"o1","entry_type":"LUNCH"}`, svcAuth)
	if status != fiber.StatusBadRequest {
		t.Fatalf("bad entry type: status %d", status)
	}

	status, body := do(t, app, http.MethodPost, "/internal/attendance-events",
		`{"entry_id":"e1","user_id":"u1","org_id":"o1","entry_type":"clock_in","timestamp":"2026-10-14T09:00:00Z","timezone":"UTC"}`, svcAuth)
	if status != fiber.StatusOK {
		t.Fatalf("event: status %d body %s", status, body)
	}
	var res services.EventResult
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.XP == nil || res.XP.Granted != 10 || res.Streak == nil || res.Streak.CurrentStreak != 1 {
		t.Fatalf("result: %s", body)
	}

	_, body = do(t, app, http.MethodPost, "/internal/attendance-events",
		`{"entry_id":"e1","user_id":"u1","org_id":"o1","entry_type":"CLOCK_IN","timestamp":"2026-10-14T09:00:00Z"}`, svcAuth)
	if err := json.Unmarshal(body, &res); err != nil || !res.Duplicate {
		t.Fatalf("replay: %s", body)
	}

	status, body = do(t, app, http.MethodGet, "/s/rewards/profile", "", userAuth)
	if status != fiber.StatusOK || !strings.Contains(string(body), `"total_xp":10`) {
		t.Fatalf("profile: %d %s", status, body)
	}
}

func TestSeedAndClaimRoutes(t *testing.T) {
	app := newTestApp(t)

	status, _ := do(t, app, http.MethodPost, "/internal/orgs/o1/seed", "", svcAuth)
	if status != fiber.StatusCreated {
		t.Fatalf("seed: status %d", status)
	}
	status, _ = do(t, app, http.MethodPost, "/internal/orgs/o1/seed", "", svcAuth)
	if status != fiber.StatusOK {
		t.Fatalf("reseed: status %d", status)
	}

	status, _ = do(t, app, http.MethodPost, "/s/rewards/challenges/nope/claim", "", userAuth)
	if status != fiber.StatusNotFound {
		t.Fatalf("claim unknown: status %d", status)
	}

	status, _ = do(t, app, http.MethodPost, "/s/rewards/titles/regular/redeem", "", userAuth)
	if status != fiber.StatusConflict {
		t.Fatalf("redeem below level: status %d", status)
	}

	status, body := do(t, app, http.MethodGet, "/s/rewards/badges", "", userAuth)
	if status != fiber.StatusOK || !strings.Contains(string(body), `"first-day"`) {
		t.Fatalf("badges: %d", status)
	}
}

func TestKudosAndAdminRoutes(t *testing.T) {
	app := newTestApp(t)

	status, _ := do(t, app, http.MethodPost, "/s/rewards/kudos", `{"to_user_id":"u1"}`, userAuth)
	if status != fiber.StatusConflict {
		t.Fatalf("self kudos: status %d", status)
	}
	status, _ = do(t, app, http.MethodPost, "/s/rewards/kudos", `{"to_user_id":"u2","message":"great job"}`, userAuth)
	if status != fiber.StatusCreated {
		t.Fatalf("kudos: status %d", status)
	}

	status, _ = do(t, app, http.MethodPost, "/s/admin/rewards/xp/grant", `{"user_id":"u2","xp":50}`, userAuth)
	if status != fiber.StatusForbidden {
		t.Fatalf("non-admin grant: status %d", status)
	}
	admin := map[string]string{"Authorization": "Bearer " + testToken, "X-User-ID": "boss", "X-Org-ID": "o1", "X-User-Roles": "admin"}
	status, body := do(t, app, http.MethodPost, "/s/admin/rewards/xp/grant", `{"user_id":"u2","xp":150,"reason":"hackathon"}`, admin)
	if status != fiber.StatusOK {
		t.Fatalf("admin grant: status %d %s", status, body)
	}
	var xp services.XPResult
	if err := json.Unmarshal(body, &xp); err != nil || xp.NewLevel != 2 || !xp.LeveledUp {
		t.Fatalf("grant result: %s", body)
	}

	status, body = do(t, app, http.MethodGet, "/s/rewards/activity?user_id=u2", "", userAuth)
	if status != fiber.StatusOK || !strings.Contains(string(body), string(models.ActivityKudos)) {
		t.Fatalf("activity: %d %s", status, body)
	}
}

func TestIdentityHeadersRequireGatewayToken(t *testing.T) {
	app := newTestApp(t)

	forged := map[string]string{"X-User-ID": "mallory", "X-Org-ID": "o1", "X-User-Roles": "admin"}
	cases := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/s/admin/rewards/xp/grant", `{"user_id":"mallory","xp":100000}`},
		{http.MethodGet, "/s/rewards/profile", ""},
		{http.MethodPost, "/s/rewards/kudos", `{"to_user_id":"u2"}`},
		{http.MethodPost, "/s/rewards/titles/newcomer/redeem", ""},
	}
	for _, tc := range cases {
		if status, body := do(t, app, tc.method, tc.path, tc.body, forged); status != fiber.StatusUnauthorized {
			t.Fatalf("%s %s without token: status %d body %s", tc.method, tc.path, status, body)
		}
	}

	wrong := map[string]string{"Authorization": "Bearer guess", "X-User-ID": "mallory", "X-Org-ID": "o1", "X-User-Roles": "admin"}
	if status, _ := do(t, app, http.MethodPost, "/s/admin/rewards/xp/grant", `{"user_id":"mallory","xp":100000}`, wrong); status != fiber.StatusUnauthorized {
		t.Fatalf("wrong token: status %d", status)
	}

	// nothing was granted
	status, body := do(t, app, http.MethodGet, "/s/rewards/ledger", "", map[string]string{
		"Authorization": "Bearer " + testToken, "X-User-ID": "mallory", "X-Org-ID": "o1",
	})
	var page struct {
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(body, &page); err != nil || status != fiber.StatusOK {
		t.Fatalf("ledger: %d %s", status, body)
	}
	if page.Total != 0 {
		t.Fatalf("forged grant wrote %d ledger rows", page.Total)
	}
}
