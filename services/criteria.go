package services

import (
	"fmt"
	"math"

	"attendance-rewards/models"
)

// Criterion is a compiled criteria descriptor. Each variant knows how to
// test itself against a snapshot and how far along the user is.
type Criterion interface {
	Satisfied(st *Stats) bool
	Progress(st *Stats) (progress, target float64)
}

type thresholdCriterion struct {
	stat  models.StatKey
	value float64
}

func (c thresholdCriterion) Satisfied(st *Stats) bool {
	v, ok := st.Value(c.stat)
	return ok && v >= c.value
}

func (c thresholdCriterion) Progress(st *Stats) (float64, float64) {
	v, _ := st.Value(c.stat)
	return clampProgress(v, c.value)
}

type streakCriterion struct{ days int }

func (c streakCriterion) Satisfied(st *Stats) bool {
	return st.CurrentStreak >= c.days || st.LongestStreak >= c.days
}

func (c streakCriterion) Progress(st *Stats) (float64, float64) {
	best := st.CurrentStreak
	if st.LongestStreak > best {
		best = st.LongestStreak
	}
	return clampProgress(float64(best), float64(c.days))
}

type shieldsUsedCriterion struct{ count int }

func (c shieldsUsedCriterion) Satisfied(st *Stats) bool { return st.ShieldsUsed >= c.count }

func (c shieldsUsedCriterion) Progress(st *Stats) (float64, float64) {
	return clampProgress(float64(st.ShieldsUsed), float64(c.count))
}

type levelCriterion struct{ level int }

func (c levelCriterion) Satisfied(st *Stats) bool { return st.Level >= c.level }

func (c levelCriterion) Progress(st *Stats) (float64, float64) {
	return clampProgress(float64(st.Level), float64(c.level))
}

// unsupportedCriterion covers catalogued variants the engine does not evaluate.
// They are never satisfied and show no progress.
type unsupportedCriterion struct{ kind models.CriteriaType }

func (unsupportedCriterion) Satisfied(*Stats) bool              { return false }
func (unsupportedCriterion) Progress(*Stats) (float64, float64) { return 0, 1 }

func clampProgress(v, target float64) (float64, float64) {
	if target <= 0 {
		target = 1
	}
	return math.Min(v, target), target
}

// CompileCriterion turns a badge descriptor into its variant.
func CompileCriterion(d models.CriteriaDescriptor) (Criterion, error) {
	switch d.Type {
	case models.CriteriaThreshold:
		if d.Stat == "" {
			return nil, fmt.Errorf("threshold criteria without stat")
		}
		if _, ok := (&Stats{}).Value(d.Stat); !ok {
			return nil, fmt.Errorf("unknown stat %q", d.Stat)
		}
		return thresholdCriterion{stat: d.Stat, value: float64(d.Value)}, nil
	case models.CriteriaStreak:
		return streakCriterion{days: d.Days}, nil
	case models.CriteriaShieldsUsed:
		return shieldsUsedCriterion{count: d.Count}, nil
	case models.CriteriaLevel:
		return levelCriterion{level: d.Level}, nil
	case models.CriteriaCombo, models.CriteriaTimeWindow, models.CriteriaCollection,
		models.CriteriaConsecutive, models.CriteriaComeback, models.CriteriaSocial:
		return unsupportedCriterion{kind: d.Type}, nil
	}
	return nil, fmt.Errorf("unknown criteria type %q", d.Type)
}

// BadgeProgress reports (progress, target) for a descriptor. Anything that
// does not compile reads as locked.
func BadgeProgress(d models.CriteriaDescriptor, st *Stats) (float64, float64) {
	c, err := CompileCriterion(d)
	if err != nil {
		return 0, 1
	}
	return c.Progress(st)
}

// ChallengeTarget: threshold, else hours, else 1.
func ChallengeTarget(d models.CriteriaDescriptor) float64 {
	switch {
	case d.Threshold > 0:
		return float64(d.Threshold)
	case d.Hours > 0:
		return d.Hours
	}
	return 1
}

// ChallengeSignal is what one attendance event contributes to challenges.
type ChallengeSignal struct {
	EntryType     models.EntryType
	LocalDate     string // YYYY-MM-DD in the user's timezone; empty when unknown
	LocalHour     int
	CurrentStreak int
	SessionHours  float64
}

// countsDays reports whether a challenge type credits at most once per local day.
func countsDays(t models.CriteriaType) bool {
	return t == models.CriteriaClockInBefore || t == models.CriteriaClockInCount
}

// challengeStep returns the new progress of an instance after signal, and
// whether the criteria reacted to it at all. lastCredited is the local date
// the instance was last credited on; day-counted types skip a second credit
// on the same date.
func challengeStep(d models.CriteriaDescriptor, progress float64, lastCredited string, sig ChallengeSignal) (float64, bool) {
	if countsDays(d.Type) && sig.LocalDate != "" && sig.LocalDate == lastCredited {
		return progress, false
	}
	switch d.Type {
	case models.CriteriaClockInBefore:
		if sig.EntryType == models.EntryClockIn && sig.LocalHour < d.Hour {
			return progress + 1, true
		}
	case models.CriteriaClockInCount:
		if sig.EntryType == models.EntryClockIn {
			return progress + 1, true
		}
	case models.CriteriaStreakReach:
		if sig.EntryType == models.EntryClockIn {
			return math.Max(progress, float64(sig.CurrentStreak)), true
		}
	case models.CriteriaTakeBreak:
		if sig.EntryType == models.EntryBreakStart {
			return progress + 1, true
		}
	case models.CriteriaHoursWorked:
		if sig.EntryType == models.EntryClockOut && sig.SessionHours > 0 {
			return progress + sig.SessionHours, true
		}
	}
	return progress, false
}
