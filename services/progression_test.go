package services

import (
	"context"
	"testing"

	"attendance-rewards/models"
)

func TestGrantXPCreatesProfileLazily(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.progression.GrantXP(context.Background(), "u1", "o1", 10, models.ReasonAttendance, GrantOptions{SourceRef: "e1"})
	if err != nil {
		t.Fatalf("GrantXP: %v", err)
	}
	if res.Granted != 10 || res.NewTotal != 10 || res.LeveledUp {
		t.Fatalf("unexpected result: %+v", res)
	}
	var entry models.XPLedgerEntry
	if err := env.db.Where("user_id = ?", "u1").First(&entry).Error; err != nil {
		t.Fatalf("ledger row: %v", err)
	}
	if entry.SourceRef == nil || *entry.SourceRef != "e1" {
		t.Fatalf("source ref: got %v want e1", entry.SourceRef)
	}
	env.assertLedgerSum(t, "u1", "o1")
}

func TestGrantXPAppliesMultiplier(t *testing.T) {
	env := newTestEnv(t)
	env.setProfile(t, "u1", "o1", func(p *models.RewardsProfile) {
		p.CurrentStreak = 10
		p.XPMultiplier = StreakMultiplier(10)
	})

	res, err := env.progression.GrantXP(context.Background(), "u1", "o1", 15, models.ReasonAttendance, GrantOptions{})
	if err != nil {
		t.Fatalf("GrantXP: %v", err)
	}
	// round(15 * 1.2) = 18
	if res.Granted != 18 || res.Multiplier != 1.2 {
		t.Fatalf("granted %d at x%.2f, want 18 at x1.20", res.Granted, res.Multiplier)
	}

	flat, err := env.progression.GrantXP(context.Background(), "u1", "o1", 15, models.ReasonBadge, GrantOptions{SkipMultiplier: true})
	if err != nil {
		t.Fatalf("GrantXP flat: %v", err)
	}
	if flat.Granted != 15 || flat.Multiplier != 1.0 {
		t.Fatalf("flat grant: got %d at x%.2f", flat.Granted, flat.Multiplier)
	}
	env.assertLedgerSum(t, "u1", "o1")
}

func TestGrantXPMultiLevelJump(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.progression.GrantXP(context.Background(), "u1", "o1", 900, models.ReasonAdminGrant, GrantOptions{})
	if err != nil {
		t.Fatalf("GrantXP: %v", err)
	}
	if !res.LeveledUp || res.OldLevel != 1 || res.NewLevel != 5 {
		t.Fatalf("level jump: got %+v", res)
	}
	wantCoins, wantShields := levelRewards(1, 5)
	if res.CoinsEarned != wantCoins || res.ShieldsEarned != wantShields {
		t.Fatalf("rewards: got %d/%d want %d/%d", res.CoinsEarned, res.ShieldsEarned, wantCoins, wantShields)
	}
	p := env.profile(t, "u1", "o1")
	if p.Coins != wantCoins || p.StreakShields != wantShields || p.Level != 5 {
		t.Fatalf("profile not updated: %+v", p)
	}

	var n int64
	env.db.Model(&models.ActivityLog{}).Where("kind = ?", models.ActivityLevelUp).Count(&n)
	if n != 1 {
		t.Fatalf("level-up activity rows: got %d want 1", n)
	}
	env.assertLedgerSum(t, "u1", "o1")
}

func TestGrantXPZeroWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.progression.GrantXP(context.Background(), "u1", "o1", 0, models.ReasonAttendance, GrantOptions{})
	if err != nil {
		t.Fatalf("GrantXP: %v", err)
	}
	if res.Granted != 0 {
		t.Fatalf("granted: got %d want 0", res.Granted)
	}
	var n int64
	env.db.Model(&models.XPLedgerEntry{}).Count(&n)
	if n != 0 {
		t.Fatalf("ledger rows: got %d want 0", n)
	}
}

func TestProfileVersionAdvancesPerMutation(t *testing.T) {
	env := newTestEnv(t)
	before := env.profile(t, "u1", "o1").Version
	for i := 0; i < 3; i++ {
		if _, err := env.progression.GrantXP(context.Background(), "u1", "o1", 5, models.ReasonAttendance, GrantOptions{}); err != nil {
			t.Fatalf("GrantXP: %v", err)
		}
	}
	if got := env.profile(t, "u1", "o1").Version; got != before+3 {
		t.Fatalf("version: got %d want %d", got, before+3)
	}
}

func TestSaveProfileDetectsStaleVersion(t *testing.T) {
	env := newTestEnv(t)
	p := env.profile(t, "u1", "o1")
	p.TotalXP = 50
	if err := saveProfile(env.db, p, p.Version+7); err != errStaleProfile {
		t.Fatalf("stale save: got %v want errStaleProfile", err)
	}
}

func TestLedgerPage(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 5; i++ {
		env.clock.Set(day(14, 9, i))
		if _, err := env.progression.GrantXP(context.Background(), "u1", "o1", int64(i+1), models.ReasonAttendance, GrantOptions{}); err != nil {
			t.Fatalf("GrantXP: %v", err)
		}
	}
	rows, total, err := env.progression.LedgerPage(context.Background(), "u1", "o1", 1, 2)
	if err != nil {
		t.Fatalf("LedgerPage: %v", err)
	}
	if total != 5 || len(rows) != 2 {
		t.Fatalf("page: got %d rows of %d", len(rows), total)
	}
	if rows[0].Amount != 5 {
		t.Fatalf("newest first: got amount %d want 5", rows[0].Amount)
	}
}
