package services

import (
	"context"
	"testing"

	"attendance-rewards/catalog"
	"attendance-rewards/models"
)

func TestSeedOrganizationIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	def := catalog.Default()

	first, err := env.catalog.SeedOrganization(ctx, "o1")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if first.Skipped {
		t.Fatal("first seed was skipped")
	}
	if first.Badges != int64(len(def.Badges)) || first.Challenges != int64(len(def.Challenges)) || first.Titles != int64(len(def.Titles)) {
		t.Fatalf("inserted %d/%d/%d", first.Badges, first.Challenges, first.Titles)
	}

	second, err := env.catalog.SeedOrganization(ctx, "o1")
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if !second.Skipped || second.Seed.Version != catalog.Version {
		t.Fatalf("reseed: %+v", second)
	}

	var n int64
	env.db.Model(&models.BadgeDefinition{}).Where("org_id = ?", "o1").Count(&n)
	if n != int64(len(def.Badges)) {
		t.Fatalf("badge rows: %d", n)
	}
}

func TestSeedOrganizationNewVersionKeepsExistingRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if _, err := env.catalog.SeedOrganization(ctx, "o1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var before models.BadgeDefinition
	env.db.Where("org_id = ? AND slug = ?", "o1", "first-day").First(&before)

	next := *catalog.Default()
	next.Version = "2027.1"
	svc := NewCatalogService(env.db, &next)
	svc.Now = env.clock.Now
	res, err := svc.SeedOrganization(ctx, "o1")
	if err != nil {
		t.Fatalf("seed v2: %v", err)
	}
	if res.Skipped || res.Badges != 0 || res.Challenges != 0 || res.Titles != 0 {
		t.Fatalf("v2 seed: %+v", res)
	}
	if res.Seed.Version != "2027.1" {
		t.Fatalf("seed marker version %q", res.Seed.Version)
	}

	var after models.BadgeDefinition
	env.db.Where("org_id = ? AND slug = ?", "o1", "first-day").First(&after)
	if after.ID != before.ID || after.CatalogVersion != catalog.Version {
		t.Fatalf("existing definition rewritten: %+v", after)
	}
}

func TestSeedOrganizationScopesByOrg(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedOrg(t, env, "o1")
	seedOrg(t, env, "o2")

	var n int64
	env.db.Model(&models.ChallengeDefinition{}).Where("slug = ?", "on-the-dot").Count(&n)
	if n != 2 {
		t.Fatalf("on-the-dot rows: %d, want one per org", n)
	}
	if _, err := env.catalog.SeedOrganization(ctx, "o2"); err != nil {
		t.Fatalf("reseed o2: %v", err)
	}
}
