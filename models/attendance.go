package models

import "time"

// EntryType is the kind of attendance event.
type EntryType string

const (
	EntryClockIn    EntryType = "CLOCK_IN"
	EntryClockOut   EntryType = "CLOCK_OUT"
	EntryBreakStart EntryType = "BREAK_START"
	EntryBreakEnd   EntryType = "BREAK_END"
)

// Valid reports whether t is one of the four known entry types.
func (t EntryType) Valid() bool {
	switch t {
	case EntryClockIn, EntryClockOut, EntryBreakStart, EntryBreakEnd:
		return true
	}
	return false
}

// AttendanceEntry is a local mirror of the attendance subsystem's entries.
// Owned upstream; rewards only reads it to rebuild statistics.
type AttendanceEntry struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	UserID     string    `gorm:"not null;index:idx_entry_user_org_time,priority:1" json:"user_id"`
	OrgID      string    `gorm:"not null;index:idx_entry_user_org_time,priority:2" json:"org_id"`
	EntryType  EntryType `gorm:"type:varchar(16);not null" json:"entry_type"`
	OccurredAt time.Time `gorm:"not null;index:idx_entry_user_org_time,priority:3" json:"occurred_at"`
	OnSite     bool      `gorm:"not null" json:"on_site"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ProcessedEvent marks an attendance entry id as already rewarded.
type ProcessedEvent struct {
	EntryID     string    `gorm:"primaryKey;size:64" json:"entry_id"`
	UserID      string    `gorm:"not null" json:"user_id"`
	OrgID       string    `gorm:"not null" json:"org_id"`
	ProcessedAt time.Time `gorm:"not null" json:"processed_at"`
}

// CatalogSeed records which catalog version an organization was seeded with.
type CatalogSeed struct {
	OrgID      string    `gorm:"primaryKey" json:"org_id"`
	Version    string    `gorm:"size:32;not null" json:"version"`
	Badges     int       `gorm:"not null" json:"badges"`
	Challenges int       `gorm:"not null" json:"challenges"`
	Titles     int       `gorm:"not null" json:"titles"`
	SeededAt   time.Time `gorm:"not null" json:"seeded_at"`
}
