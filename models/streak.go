package models

import "time"

// StreakHistory records one run of consecutive workdays.
// EndDate == nil marks the currently open run; at most one per (user, org).
type StreakHistory struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID         string     `gorm:"not null;index:idx_streak_user_org,priority:1" json:"user_id"`
	OrgID          string     `gorm:"not null;index:idx_streak_user_org,priority:2" json:"org_id"`
	StartDate      string     `gorm:"size:10;not null" json:"start_date"`
	EndDate        *string    `gorm:"size:10" json:"end_date,omitempty"`
	Length         int        `gorm:"not null" json:"length"`
	ShieldsUsed    int        `gorm:"not null" json:"shields_used"`
	PeakMultiplier float64    `gorm:"not null" json:"peak_multiplier"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	Timestamps
}
