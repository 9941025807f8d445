package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// CriteriaType discriminates a criteria descriptor.
type CriteriaType string

// Badge criteria
const (
	CriteriaThreshold   CriteriaType = "threshold"    // {"stat": "...", "value": N}
	CriteriaStreak      CriteriaType = "streak"       // {"days": N}
	CriteriaShieldsUsed CriteriaType = "shields_used" // {"count": N}
	CriteriaLevel       CriteriaType = "level"        // {"level": N}

	// Catalogued but not evaluated by the engine.
	CriteriaCombo       CriteriaType = "combo"
	CriteriaTimeWindow  CriteriaType = "time_window"
	CriteriaCollection  CriteriaType = "collection"
	CriteriaConsecutive CriteriaType = "consecutive"
	CriteriaComeback    CriteriaType = "comeback"
	CriteriaSocial      CriteriaType = "social"
)

// Challenge criteria
const (
	CriteriaClockInBefore CriteriaType = "clock_in_before" // {"hour": H, "threshold": N}
	CriteriaClockInCount  CriteriaType = "clock_in_count"  // {"threshold": N}
	CriteriaStreakReach   CriteriaType = "streak_reach"    // {"threshold": N}
	CriteriaTakeBreak     CriteriaType = "take_break"      // {"threshold": N}
	CriteriaHoursWorked   CriteriaType = "hours_worked"    // {"hours": H}
)

// StatKey names one field of the statistics snapshot.
type StatKey string

const (
	StatTotalDays          StatKey = "total_days"
	StatTotalHours         StatKey = "total_hours"
	StatCurrentStreak      StatKey = "current_streak"
	StatLongestStreak      StatKey = "longest_streak"
	StatPerfectWeeks       StatKey = "perfect_weeks"
	StatMonthlyDays        StatKey = "monthly_days"
	StatEarlyArrivals      StatKey = "early_arrivals"
	StatLateArrivals       StatKey = "late_arrivals"
	StatOnTimeDays         StatKey = "on_time_days"
	StatOvertimeDays       StatKey = "overtime_days"
	StatFullDays           StatKey = "full_days"
	StatLateDepartures     StatKey = "late_departures"
	StatWeekendDays        StatKey = "weekend_days"
	StatKudosGiven         StatKey = "kudos_given"
	StatKudosReceived      StatKey = "kudos_received"
	StatChallengesComplete StatKey = "challenges_completed"
	StatHiddenBadgesFound  StatKey = "hidden_badges_found"
	StatBadgesEarned       StatKey = "badges_earned"
	StatShieldsUsed        StatKey = "shields_used"
	StatLevel              StatKey = "level"
	StatTotalXP            StatKey = "total_xp"
)

// CriteriaDescriptor is the JSON shape stored on badge and challenge definitions.
// Only the fields relevant to Type are set.
type CriteriaDescriptor struct {
	Type      CriteriaType `json:"type"`
	Stat      StatKey      `json:"stat,omitempty"`
	Value     int          `json:"value,omitempty"`
	Days      int          `json:"days,omitempty"`
	Count     int          `json:"count,omitempty"`
	Level     int          `json:"level,omitempty"`
	Hour      int          `json:"hour,omitempty"`
	Hours     float64      `json:"hours,omitempty"`
	Threshold int          `json:"threshold,omitempty"`

	// Free-form parameters of the unevaluated variants.
	Params map[string]any `json:"params,omitempty"`
}

// JSON encodes the descriptor for a datatypes.JSON column.
func (d CriteriaDescriptor) JSON() datatypes.JSON {
	b, _ := json.Marshal(d)
	return datatypes.JSON(b)
}

// DecodeCriteria parses a stored descriptor.
func DecodeCriteria(raw datatypes.JSON) (CriteriaDescriptor, error) {
	var d CriteriaDescriptor
	if len(raw) == 0 {
		return d, nil
	}
	err := json.Unmarshal(raw, &d)
	return d, err
}
