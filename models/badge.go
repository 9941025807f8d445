package models

import (
	"time"

	"gorm.io/datatypes"
)

// BadgeRarity grades a badge for display and reward sizing.
type BadgeRarity string

const (
	RarityCommon    BadgeRarity = "common"
	RarityUncommon  BadgeRarity = "uncommon"
	RarityRare      BadgeRarity = "rare"
	RarityEpic      BadgeRarity = "epic"
	RarityLegendary BadgeRarity = "legendary"
)

// BadgeDefinition: static catalog entry, seeded per organization and read-only afterwards.
type BadgeDefinition struct {
	ID          string         `gorm:"primaryKey;type:uuid" json:"id"`
	OrgID       string         `gorm:"not null;uniqueIndex:idx_badge_org_slug,priority:1" json:"org_id"`
	Slug        string         `gorm:"size:96;not null;uniqueIndex:idx_badge_org_slug,priority:2" json:"slug"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Criteria    datatypes.JSON `gorm:"type:jsonb;not null" json:"criteria"`
	Rarity      BadgeRarity    `gorm:"type:varchar(16);not null" json:"rarity"`
	XPReward    int64          `gorm:"not null" json:"xp_reward"`
	CoinReward  int64          `gorm:"not null" json:"coin_reward"`
	Hidden      bool           `gorm:"not null" json:"hidden"`

	// Recurring seasonal window as MM-DD; both empty = always active.
	SeasonStart string `gorm:"size:5" json:"season_start,omitempty"`
	SeasonEnd   string `gorm:"size:5" json:"season_end,omitempty"`

	CollectionSet  string    `gorm:"size:64;index" json:"collection_set,omitempty"`
	CatalogVersion string    `gorm:"size:32;not null" json:"catalog_version"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Seasonal reports whether the badge is only earnable inside a date window.
func (b *BadgeDefinition) Seasonal() bool {
	return b.SeasonStart != "" && b.SeasonEnd != ""
}

// EarnedBadge: awarded instance, one per (user, org, badge), never updated.
type EarnedBadge struct {
	ID       string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string    `gorm:"not null;uniqueIndex:idx_earned_user_badge,priority:1" json:"user_id"`
	OrgID    string    `gorm:"not null;uniqueIndex:idx_earned_user_badge,priority:2" json:"org_id"`
	BadgeID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_earned_user_badge,priority:3" json:"badge_id"`
	EarnedAt time.Time `gorm:"not null" json:"earned_at"`

	Badge BadgeDefinition `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}
