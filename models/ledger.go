package models

import "time"

// XPLedgerEntry is one immutable XP grant. The sum of Amount per (user, org)
// always equals RewardsProfile.TotalXP.
type XPLedgerEntry struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"not null;index:idx_ledger_user_org,priority:1" json:"user_id"`
	OrgID      string    `gorm:"not null;index:idx_ledger_user_org,priority:2" json:"org_id"`
	Amount     int64     `gorm:"not null" json:"amount"`
	Reason     string    `gorm:"size:64;not null" json:"reason"`
	Multiplier float64   `gorm:"not null" json:"multiplier"`
	SourceRef  *string   `gorm:"size:128;index" json:"source_ref,omitempty"` // e.g. attendance entry id, badge id
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// Ledger reason codes
const (
	ReasonAttendance      = "attendance"
	ReasonStreakBonus     = "streak_bonus"
	ReasonStreakMilestone = "streak_milestone"
	ReasonBadge           = "badge"
	ReasonChallenge       = "challenge"
	ReasonAdminGrant      = "admin_grant"
)
