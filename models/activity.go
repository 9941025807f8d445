package models

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityKind string

const (
	ActivityBadgeEarned        ActivityKind = "badge_earned"
	ActivityLevelUp            ActivityKind = "level_up"
	ActivityStreakMilestone    ActivityKind = "streak_milestone"
	ActivityChallengeCompleted ActivityKind = "challenge_completed"
	ActivityChallengeClaimed   ActivityKind = "challenge_claimed"
	ActivityTitleUnlocked      ActivityKind = "title_unlocked"
	ActivityKudos              ActivityKind = "kudos"
)

// ActivityLog is a write-only social feed entry.
type ActivityLog struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string         `gorm:"not null;index" json:"user_id"`
	OrgID     string         `gorm:"not null;index:idx_activity_org_created,priority:1" json:"org_id"`
	Kind      ActivityKind   `gorm:"type:varchar(32);not null" json:"kind"`
	Title     string         `gorm:"not null" json:"title"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index:idx_activity_org_created,priority:2" json:"created_at"`
}
