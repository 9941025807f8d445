package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChallengePeriod is the time box of a challenge.
type ChallengePeriod string

const (
	PeriodDaily   ChallengePeriod = "daily"
	PeriodWeekly  ChallengePeriod = "weekly"
	PeriodMonthly ChallengePeriod = "monthly"
)

// ChallengeStatus: active → completed → claimed, or active → expired.
type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"
	ChallengeClaimed   ChallengeStatus = "claimed"
	ChallengeExpired   ChallengeStatus = "expired"
)

// ChallengeDefinition: catalog entry, seeded per organization.
type ChallengeDefinition struct {
	ID             string          `gorm:"primaryKey;type:uuid" json:"id"`
	OrgID          string          `gorm:"not null;uniqueIndex:idx_challenge_org_slug,priority:1" json:"org_id"`
	Slug           string          `gorm:"size:96;not null;uniqueIndex:idx_challenge_org_slug,priority:2" json:"slug"`
	Name           string          `gorm:"not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Period         ChallengePeriod `gorm:"type:varchar(16);not null;index" json:"period"`
	Criteria       datatypes.JSON  `gorm:"type:jsonb;not null" json:"criteria"`
	XPReward       int64           `gorm:"not null" json:"xp_reward"`
	CoinReward     int64           `gorm:"not null" json:"coin_reward"`
	MinLevel       int             `gorm:"not null" json:"min_level"`
	CatalogVersion string          `gorm:"size:32;not null" json:"catalog_version"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// ActiveChallenge is one user's instance of a definition for one period.
type ActiveChallenge struct {
	ID           string          `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string          `gorm:"not null;uniqueIndex:idx_challenge_instance,priority:1;index:idx_challenge_user_status,priority:1" json:"user_id"`
	OrgID        string          `gorm:"not null;uniqueIndex:idx_challenge_instance,priority:2;index:idx_challenge_user_status,priority:2" json:"org_id"`
	DefinitionID string          `gorm:"type:uuid;not null;uniqueIndex:idx_challenge_instance,priority:3" json:"definition_id"`
	PeriodKey    string          `gorm:"size:16;not null;uniqueIndex:idx_challenge_instance,priority:4" json:"period_key"`
	Period       ChallengePeriod `gorm:"type:varchar(16);not null" json:"period"`
	Progress     float64         `gorm:"not null" json:"progress"`
	LastCredited string          `gorm:"size:10" json:"last_credited,omitempty"` // local YYYY-MM-DD of the last day-counted credit
	Target       float64         `gorm:"not null" json:"target"`
	Status       ChallengeStatus `gorm:"type:varchar(16);not null;index:idx_challenge_user_status,priority:3" json:"status"`
	ExpiresAt    time.Time       `gorm:"not null;index" json:"expires_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	ClaimedAt    *time.Time      `json:"claimed_at,omitempty"`
	Timestamps

	Definition ChallengeDefinition `gorm:"foreignKey:DefinitionID" json:"definition,omitempty"`
}
