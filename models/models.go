package models

// All lists every table for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&RewardsProfile{},
		&XPLedgerEntry{},
		&StreakHistory{},
		&BadgeDefinition{},
		&EarnedBadge{},
		&ChallengeDefinition{},
		&ActiveChallenge{},
		&ActivityLog{},
		&TitleDefinition{},
		&UnlockedTitle{},
		&Kudos{},
		&AttendanceEntry{},
		&ProcessedEvent{},
		&CatalogSeed{},
	}
}
