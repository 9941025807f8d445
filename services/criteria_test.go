package services

import (
	"testing"

	"attendance-rewards/models"
)

func TestCompileCriterion(t *testing.T) {
	st := &Stats{TotalDays: 12, CurrentStreak: 3, LongestStreak: 8, ShieldsUsed: 1, Level: 4}
	cases := []struct {
		name      string
		desc      models.CriteriaDescriptor
		satisfied bool
		progress  float64
		target    float64
	}{
		{"threshold met", models.CriteriaDescriptor{Type: models.CriteriaThreshold, Stat: models.StatTotalDays, Value: 10}, true, 10, 10},
		{"threshold short", models.CriteriaDescriptor{Type: models.CriteriaThreshold, Stat: models.StatTotalDays, Value: 50}, false, 12, 50},
		{"streak via longest", models.CriteriaDescriptor{Type: models.CriteriaStreak, Days: 7}, true, 7, 7},
		{"streak short", models.CriteriaDescriptor{Type: models.CriteriaStreak, Days: 10}, false, 8, 10},
		{"shields", models.CriteriaDescriptor{Type: models.CriteriaShieldsUsed, Count: 5}, false, 1, 5},
		{"level", models.CriteriaDescriptor{Type: models.CriteriaLevel, Level: 4}, true, 4, 4},
		{"combo unsupported", models.CriteriaDescriptor{Type: models.CriteriaCombo}, false, 0, 1},
		{"social unsupported", models.CriteriaDescriptor{Type: models.CriteriaSocial}, false, 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := CompileCriterion(tc.desc)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := c.Satisfied(st); got != tc.satisfied {
				t.Fatalf("satisfied: got %v want %v", got, tc.satisfied)
			}
			p, target := c.Progress(st)
			if p != tc.progress || target != tc.target {
				t.Fatalf("progress: got (%v, %v) want (%v, %v)", p, target, tc.progress, tc.target)
			}
		})
	}
}

func TestCompileCriterionRejectsUnknown(t *testing.T) {
	if _, err := CompileCriterion(models.CriteriaDescriptor{Type: "telepathy"}); err == nil {
		t.Fatal("expected error for unknown type")
	}
	if _, err := CompileCriterion(models.CriteriaDescriptor{Type: models.CriteriaThreshold, Stat: "vibes"}); err == nil {
		t.Fatal("expected error for unknown stat")
	}
	if p, target := BadgeProgress(models.CriteriaDescriptor{Type: "telepathy"}, &Stats{}); p != 0 || target != 1 {
		t.Fatalf("unknown type progress: got (%v, %v)", p, target)
	}
}

func TestChallengeTarget(t *testing.T) {
	if got := ChallengeTarget(models.CriteriaDescriptor{Threshold: 3}); got != 3 {
		t.Fatalf("threshold: got %v", got)
	}
	if got := ChallengeTarget(models.CriteriaDescriptor{Hours: 7.5}); got != 7.5 {
		t.Fatalf("hours: got %v", got)
	}
	if got := ChallengeTarget(models.CriteriaDescriptor{}); got != 1 {
		t.Fatalf("default: got %v", got)
	}
}

func TestChallengeStep(t *testing.T) {
	before8 := models.CriteriaDescriptor{Type: models.CriteriaClockInBefore, Hour: 8}
	if p, ok := challengeStep(before8, 0, "", ChallengeSignal{EntryType: models.EntryClockIn, LocalHour: 7}); !ok || p != 1 {
		t.Fatalf("clock in at 7: got (%v, %v)", p, ok)
	}
	if _, ok := challengeStep(before8, 0, "", ChallengeSignal{EntryType: models.EntryClockIn, LocalHour: 8}); ok {
		t.Fatal("clock in at 8 should not count")
	}

	reach := models.CriteriaDescriptor{Type: models.CriteriaStreakReach, Threshold: 5}
	if p, _ := challengeStep(reach, 4, "", ChallengeSignal{EntryType: models.EntryClockIn, CurrentStreak: 2}); p != 4 {
		t.Fatalf("streak reach never decreases: got %v", p)
	}

	brk := models.CriteriaDescriptor{Type: models.CriteriaTakeBreak}
	if _, ok := challengeStep(brk, 0, "", ChallengeSignal{EntryType: models.EntryBreakEnd}); ok {
		t.Fatal("break end should not count")
	}

	hours := models.CriteriaDescriptor{Type: models.CriteriaHoursWorked, Hours: 8}
	if p, ok := challengeStep(hours, 2, "", ChallengeSignal{EntryType: models.EntryClockOut, SessionHours: 4.5}); !ok || p != 6.5 {
		t.Fatalf("hours: got (%v, %v)", p, ok)
	}
}

func TestChallengeStepCountsDaysOnce(t *testing.T) {
	count := models.CriteriaDescriptor{Type: models.CriteriaClockInCount, Threshold: 5}
	in := ChallengeSignal{EntryType: models.EntryClockIn, LocalDate: "2026-10-12", LocalHour: 8}

	if p, ok := challengeStep(count, 1, "2026-10-12", in); ok || p != 1 {
		t.Fatalf("same day: got (%v, %v) want (1, false)", p, ok)
	}
	if p, ok := challengeStep(count, 1, "2026-10-09", in); !ok || p != 2 {
		t.Fatalf("new day: got (%v, %v) want (2, true)", p, ok)
	}

	early := models.CriteriaDescriptor{Type: models.CriteriaClockInBefore, Hour: 9, Threshold: 3}
	if _, ok := challengeStep(early, 1, "2026-10-12", in); ok {
		t.Fatal("clock_in_before credited twice on one day")
	}

	// Break challenges count events, not days.
	brk := models.CriteriaDescriptor{Type: models.CriteriaTakeBreak, Threshold: 5}
	sig := ChallengeSignal{EntryType: models.EntryBreakStart, LocalDate: "2026-10-12"}
	if p, ok := challengeStep(brk, 1, "2026-10-12", sig); !ok || p != 2 {
		t.Fatalf("breaks: got (%v, %v) want (2, true)", p, ok)
	}
}
