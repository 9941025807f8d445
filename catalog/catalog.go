// Package catalog holds the versioned reference data (badges, challenges,
// titles) copied into every organization at seed time.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"attendance-rewards/models"

	"github.com/gosimple/slug"
)

// Version of the built-in catalog. Bump whenever an entry changes.
const Version = "2026.2"

type Badge struct {
	Slug          string                    `json:"slug"`
	Name          string                    `json:"name"`
	Description   string                    `json:"description"`
	Criteria      models.CriteriaDescriptor `json:"criteria"`
	Rarity        models.BadgeRarity        `json:"rarity"`
	XPReward      int64                     `json:"xp_reward"`
	CoinReward    int64                     `json:"coin_reward"`
	Hidden        bool                      `json:"hidden,omitempty"`
	SeasonStart   string                    `json:"season_start,omitempty"`
	SeasonEnd     string                    `json:"season_end,omitempty"`
	CollectionSet string                    `json:"collection_set,omitempty"`
}

type Challenge struct {
	Slug        string                    `json:"slug"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Period      models.ChallengePeriod    `json:"period"`
	Criteria    models.CriteriaDescriptor `json:"criteria"`
	XPReward    int64                     `json:"xp_reward"`
	CoinReward  int64                     `json:"coin_reward"`
	MinLevel    int                       `json:"min_level"`
}

type Title struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MinLevel    int    `json:"min_level"`
	CoinCost    int64  `json:"coin_cost"`
}

// Catalog is immutable once built; callers must not mutate the slices.
type Catalog struct {
	Version    string      `json:"version"`
	Badges     []Badge     `json:"badges"`
	Challenges []Challenge `json:"challenges"`
	Titles     []Title     `json:"titles"`
}

var builtin = mustBuild(&Catalog{
	Version:    Version,
	Badges:     badges,
	Challenges: challenges,
	Titles:     titles,
})

// Default returns the built-in catalog.
func Default() *Catalog {
	return builtin
}

// Parse decodes a JSON catalog (e.g. an object-storage override) and validates it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.normalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

func mustBuild(c *Catalog) *Catalog {
	if err := c.normalize(); err != nil {
		panic(err)
	}
	return c
}

// normalize fills derived slugs and validates the catalog.
func (c *Catalog) normalize() error {
	if strings.TrimSpace(c.Version) == "" {
		return fmt.Errorf("catalog version is required")
	}

	seen := map[string]bool{}
	for i := range c.Badges {
		b := &c.Badges[i]
		if b.Slug == "" {
			b.Slug = slug.Make(b.Name)
		}
		if !slug.IsSlug(b.Slug) {
			return fmt.Errorf("badge %q: invalid slug %q", b.Name, b.Slug)
		}
		if seen[b.Slug] {
			return fmt.Errorf("duplicate badge slug %q", b.Slug)
		}
		seen[b.Slug] = true
		if b.Criteria.Type == "" {
			return fmt.Errorf("badge %q: criteria type is required", b.Slug)
		}
		if (b.SeasonStart == "") != (b.SeasonEnd == "") {
			return fmt.Errorf("badge %q: season window needs both start and end", b.Slug)
		}
		if b.XPReward < 0 || b.CoinReward < 0 {
			return fmt.Errorf("badge %q: negative reward", b.Slug)
		}
	}

	seen = map[string]bool{}
	for i := range c.Challenges {
		ch := &c.Challenges[i]
		if ch.Slug == "" {
			ch.Slug = slug.Make(ch.Name)
		}
		if seen[ch.Slug] {
			return fmt.Errorf("duplicate challenge slug %q", ch.Slug)
		}
		seen[ch.Slug] = true
		switch ch.Period {
		case models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly:
		default:
			return fmt.Errorf("challenge %q: unknown period %q", ch.Slug, ch.Period)
		}
	}

	seen = map[string]bool{}
	for i := range c.Titles {
		t := &c.Titles[i]
		if t.Slug == "" {
			t.Slug = slug.Make(t.Name)
		}
		if seen[t.Slug] {
			return fmt.Errorf("duplicate title slug %q", t.Slug)
		}
		seen[t.Slug] = true
	}
	return nil
}
