package models

import "time"

// Kudos is a peer recognition from one employee to another.
type Kudos struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	OrgID      string    `gorm:"not null;index" json:"org_id"`
	FromUserID string    `gorm:"not null;index" json:"from_user_id"`
	ToUserID   string    `gorm:"not null;index" json:"to_user_id"`
	Message    string    `gorm:"size:280" json:"message,omitempty"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}
