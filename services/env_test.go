package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"attendance-rewards/catalog"
	"attendance-rewards/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type testEnv struct {
	db          *gorm.DB
	clock       *fakeClock
	store       *ProfileStore
	activity    *ActivityService
	progression *ProgressionService
	streaks     *StreakService
	stats       *StatsService
	badges      *BadgeService
	challenges  *ChallengeService
	titles      *TitleService
	kudos       *KudosService
	catalog     *CatalogService
	engine      *RewardsEngine
}

// day returns 2026-10-<d> at hh:mm UTC. October 2026 starts on a Thursday.
func day(d, hh, mm int) time.Time {
	return time.Date(2026, time.October, d, hh, mm, 0, 0, time.UTC)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	clock := &fakeClock{t: day(14, 9, 0)}
	env := &testEnv{db: db, clock: clock}
	env.store = NewProfileStore(db)
	env.store.Now = clock.Now
	env.activity = NewActivityService(db)
	env.activity.Now = clock.Now
	env.progression = NewProgressionService(env.store, env.activity)
	env.streaks = NewStreakService(env.store, env.progression, env.activity)
	env.stats = NewStatsService(db)
	env.stats.Now = clock.Now
	env.badges = NewBadgeService(env.store, env.progression, env.activity)
	env.challenges = NewChallengeService(env.store, env.progression, env.activity)
	env.challenges.Shuffle = nil // deterministic: definitions in slug order
	env.titles = NewTitleService(env.store, env.activity)
	env.kudos = NewKudosService(env.store, env.activity, 3)
	env.catalog = NewCatalogService(db, catalog.Default())
	env.catalog.Now = clock.Now
	env.engine = NewRewardsEngine(db, env.store, env.progression, env.streaks, env.stats, env.badges, env.challenges)
	return env
}

func (env *testEnv) profile(t *testing.T, userID, orgID string) *models.RewardsProfile {
	t.Helper()
	p, err := env.store.Get(context.Background(), userID, orgID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	return p
}

// setProfile overwrites streak-related fields directly, bypassing the engine.
func (env *testEnv) setProfile(t *testing.T, userID, orgID string, fn func(p *models.RewardsProfile)) {
	t.Helper()
	_, err := env.store.Mutate(context.Background(), userID, orgID, func(tx *gorm.DB, p *models.RewardsProfile) error {
		fn(p)
		return nil
	})
	if err != nil {
		t.Fatalf("set profile: %v", err)
	}
}

// assertLedgerSum checks sum(ledger) == profile.TotalXP.
func (env *testEnv) assertLedgerSum(t *testing.T, userID, orgID string) {
	t.Helper()
	var sum struct{ Total int64 }
	if err := env.db.Model(&models.XPLedgerEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND org_id = ?", userID, orgID).
		Scan(&sum).Error; err != nil {
		t.Fatalf("sum ledger: %v", err)
	}
	p := env.profile(t, userID, orgID)
	if sum.Total != p.TotalXP {
		t.Fatalf("ledger sum = %d, profile total = %d", sum.Total, p.TotalXP)
	}
	if p.Level != LevelFor(p.TotalXP) {
		t.Fatalf("level = %d, want LevelFor(%d) = %d", p.Level, p.TotalXP, LevelFor(p.TotalXP))
	}
}

func (env *testEnv) openHistoryRows(t *testing.T, userID, orgID string) int64 {
	t.Helper()
	var n int64
	if err := env.db.Model(&models.StreakHistory{}).
		Where("user_id = ? AND org_id = ? AND end_date IS NULL", userID, orgID).
		Count(&n).Error; err != nil {
		t.Fatalf("count open history: %v", err)
	}
	return n
}

func (env *testEnv) clockIn(t *testing.T, entryID, userID, orgID string, at time.Time) *EventResult {
	t.Helper()
	env.clock.Set(at)
	return env.engine.ProcessAttendanceEvent(context.Background(), AttendanceEvent{
		EntryID:   entryID,
		UserID:    userID,
		OrgID:     orgID,
		EntryType: models.EntryClockIn,
		Entry:     models.AttendanceEntry{OccurredAt: at, OnSite: true},
		Timezone:  "UTC",
	})
}

func (env *testEnv) event(t *testing.T, entryID, userID, orgID string, typ models.EntryType, at time.Time) *EventResult {
	t.Helper()
	env.clock.Set(at)
	return env.engine.ProcessAttendanceEvent(context.Background(), AttendanceEvent{
		EntryID:   entryID,
		UserID:    userID,
		OrgID:     orgID,
		EntryType: typ,
		Entry:     models.AttendanceEntry{OccurredAt: at, OnSite: true},
		Timezone:  "UTC",
	})
}
