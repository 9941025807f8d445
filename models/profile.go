package models

import (
	"time"
)

// RewardsProfile is the denormalized gamification state of one user inside one organization.
// Level and XPMultiplier are always derived (from TotalXP and CurrentStreak); never set them directly.
type RewardsProfile struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;uniqueIndex:idx_profile_user_org,priority:1" json:"user_id"`
	OrgID  string `gorm:"not null;uniqueIndex:idx_profile_user_org,priority:2" json:"org_id"`

	// Core progression
	TotalXP      int64   `gorm:"not null" json:"total_xp"`
	Level        int     `gorm:"not null" json:"level"`
	XPMultiplier float64 `gorm:"not null" json:"xp_multiplier"`
	Coins        int64   `gorm:"not null" json:"coins"`

	// Streak state
	CurrentStreak  int    `gorm:"not null" json:"current_streak"`
	LongestStreak  int    `gorm:"not null" json:"longest_streak"`
	LastStreakDate string `gorm:"size:10" json:"last_streak_date,omitempty"` // local YYYY-MM-DD, empty = never
	StreakShields  int    `gorm:"not null" json:"streak_shields"`

	ActiveTitleSlug string `gorm:"size:64" json:"active_title_slug,omitempty"`

	// Version guards read-modify-write cycles (optimistic concurrency).
	Version int64 `gorm:"not null" json:"-"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
