package models

import "time"

// TitleDefinition: unlockable display title. Unlock needs MinLevel and costs CoinCost.
type TitleDefinition struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	OrgID          string    `gorm:"not null;uniqueIndex:idx_title_org_slug,priority:1" json:"org_id"`
	Slug           string    `gorm:"size:64;not null;uniqueIndex:idx_title_org_slug,priority:2" json:"slug"`
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	MinLevel       int       `gorm:"not null" json:"min_level"`
	CoinCost       int64     `gorm:"not null" json:"coin_cost"`
	CatalogVersion string    `gorm:"size:32;not null" json:"catalog_version"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type UnlockedTitle struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID     string    `gorm:"not null;uniqueIndex:idx_unlocked_title,priority:1" json:"user_id"`
	OrgID      string    `gorm:"not null;uniqueIndex:idx_unlocked_title,priority:2" json:"org_id"`
	TitleID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_unlocked_title,priority:3" json:"title_id"`
	CoinsSpent int64     `gorm:"not null" json:"coins_spent"`
	UnlockedAt time.Time `gorm:"not null" json:"unlocked_at"`

	Title TitleDefinition `gorm:"foreignKey:TitleID" json:"title,omitempty"`
}
