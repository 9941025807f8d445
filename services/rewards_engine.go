package services

import (
	"context"
	"time"

	"attendance-rewards/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceEvent is one entry handed over by the attendance subsystem.
type AttendanceEvent struct {
	EntryID   string
	UserID    string
	OrgID     string
	EntryType models.EntryType
	Entry     models.AttendanceEntry // OccurredAt and OnSite are read from it
	Timezone  string
}

// EventResult bundles everything an event earned, for celebratory UI.
type EventResult struct {
	XP               *XPResult                `json:"xp,omitempty"`
	Streak           *StreakResult            `json:"streak,omitempty"`
	NewBadges        []models.BadgeDefinition `json:"new_badges"`
	ChallengeUpdates []ChallengeUpdate        `json:"challenge_updates"`
	NewChallenges    []models.ActiveChallenge `json:"new_challenges,omitempty"`
	DailyBonus       bool                     `json:"daily_bonus"`
	LeveledUp        bool                     `json:"leveled_up"`
	NewLevel         int                      `json:"new_level"`
	Duplicate        bool                     `json:"duplicate"`
}

// RewardsEngine sequences the reward stages for each attendance event.
// Every stage is best-effort: failures are logged and the pipeline moves on.
type RewardsEngine struct {
	DB          *gorm.DB
	Store       *ProfileStore
	Progression *ProgressionService
	Streaks     *StreakService
	Stats       *StatsService
	Badges      *BadgeService
	Challenges  *ChallengeService

	BaseXP     map[models.EntryType]int64
	DefaultLoc *time.Location
}

// DefaultBaseXP is used when no per-type amounts are configured.
var DefaultBaseXP = map[models.EntryType]int64{
	models.EntryClockIn:    10,
	models.EntryClockOut:   5,
	models.EntryBreakStart: 0,
	models.EntryBreakEnd:   0,
}

func NewRewardsEngine(db *gorm.DB, store *ProfileStore, progression *ProgressionService, streaks *StreakService,
	stats *StatsService, badges *BadgeService, challenges *ChallengeService) *RewardsEngine {
	return &RewardsEngine{
		DB:          db,
		Store:       store,
		Progression: progression,
		Streaks:     streaks,
		Stats:       stats,
		Badges:      badges,
		Challenges:  challenges,
		BaseXP:      DefaultBaseXP,
		DefaultLoc:  time.UTC,
	}
}

// stage runs fn, converting errors and panics into warnings.
func (e *RewardsEngine) stage(fields logrus.Fields, name string, fn func() error) bool {
	ok := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithFields(fields).WithField("stage", name).Errorf("💥 rewards stage panicked: %v", r)
			}
		}()
		if err := fn(); err != nil {
			logrus.WithFields(fields).WithField("stage", name).Warnf("⚠️ rewards stage skipped: %v", err)
			return
		}
		ok = true
	}()
	return ok
}

// ProcessAttendanceEvent runs the reward pipeline for one event. It never
// fails: a broken stage only leaves its part of the result empty.
func (e *RewardsEngine) ProcessAttendanceEvent(ctx context.Context, ev AttendanceEvent) *EventResult {
	res := &EventResult{NewBadges: []models.BadgeDefinition{}, ChallengeUpdates: []ChallengeUpdate{}}
	fields := logrus.Fields{"user_id": ev.UserID, "org_id": ev.OrgID, "entry_id": ev.EntryID, "entry_type": ev.EntryType}

	if ev.UserID == "" || ev.OrgID == "" || !ev.EntryType.Valid() {
		logrus.WithFields(fields).Warn("⚠️ ignoring malformed attendance event")
		return res
	}
	loc := loadLocation(ev.Timezone, e.DefaultLoc)
	at := ev.Entry.OccurredAt
	if at.IsZero() {
		at = e.Store.now()
	}
	at = at.UTC()

	e.stage(fields, "ingest", func() error {
		dup, err := e.ingest(ctx, ev, at)
		res.Duplicate = dup
		return err
	})
	if res.Duplicate {
		logrus.WithFields(fields).Info("♻️ duplicate attendance event, no rewards")
		return res
	}

	startLevel := 0
	e.stage(fields, "profile", func() error {
		p, err := e.Store.Get(ctx, ev.UserID, ev.OrgID)
		if err == nil {
			startLevel = p.Level
		}
		return err
	})

	e.stage(fields, "xp", func() error {
		xp, err := e.Progression.GrantXP(ctx, ev.UserID, ev.OrgID, e.BaseXP[ev.EntryType], models.ReasonAttendance,
			GrantOptions{SourceRef: ev.EntryID})
		res.XP = xp
		return err
	})

	if ev.EntryType == models.EntryClockIn && ev.Entry.OnSite {
		e.stage(fields, "streak", func() error {
			st, err := e.Streaks.updateAt(ctx, ev.UserID, ev.OrgID, loc, at)
			if err != nil {
				return err
			}
			res.Streak = st
			res.DailyBonus = st.Continued
			return nil
		})
	}

	var stats *Stats
	e.stage(fields, "stats", func() error {
		st, err := e.Stats.ComputeStats(ctx, ev.UserID, ev.OrgID, ev.Timezone)
		stats = st
		return err
	})

	if stats != nil {
		e.stage(fields, "badges", func() error {
			earned, err := e.Badges.EvaluateBadges(ctx, ev.UserID, ev.OrgID, stats, ev.Timezone)
			if len(earned) > 0 {
				res.NewBadges = earned
			}
			return err
		})
	}

	e.stage(fields, "challenges", func() error {
		sig := ChallengeSignal{EntryType: ev.EntryType, LocalDate: localDate(at, loc), LocalHour: at.In(loc).Hour()}
		if res.Streak != nil {
			sig.CurrentStreak = res.Streak.CurrentStreak
		} else if stats != nil {
			sig.CurrentStreak = stats.CurrentStreak
		}
		if ev.EntryType == models.EntryClockOut {
			hours, err := e.Stats.SessionHours(ctx, ev.UserID, ev.OrgID, at)
			if err != nil {
				return err
			}
			sig.SessionHours = hours
		}
		updates, err := e.Challenges.UpdateChallengeProgress(ctx, ev.UserID, ev.OrgID, sig)
		if len(updates) > 0 {
			res.ChallengeUpdates = updates
		}
		return err
	})

	final := 0
	e.stage(fields, "level", func() error {
		p, err := e.Store.Get(ctx, ev.UserID, ev.OrgID)
		if err != nil {
			return err
		}
		final = p.Level
		return nil
	})
	if final > 0 {
		res.NewLevel = final
		res.LeveledUp = startLevel > 0 && final > startLevel
	} else if res.XP != nil {
		res.NewLevel = res.XP.NewLevel
		res.LeveledUp = res.XP.LeveledUp
	}

	if ev.EntryType == models.EntryClockIn {
		e.stage(fields, "generate", func() error {
			level := res.NewLevel
			if level < 1 {
				level = 1
			}
			created, err := e.Challenges.GenerateChallenges(ctx, ev.UserID, ev.OrgID, level, ev.Timezone)
			res.NewChallenges = created
			return err
		})
	}

	return res
}

// ingest records the idempotency key and mirrors the entry. It reports
// duplicate=true when the entry id was already processed.
func (e *RewardsEngine) ingest(ctx context.Context, ev AttendanceEvent, at time.Time) (bool, error) {
	duplicate := false
	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ev.EntryID != "" {
			mark := models.ProcessedEvent{EntryID: ev.EntryID, UserID: ev.UserID, OrgID: ev.OrgID, ProcessedAt: e.Store.now()}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&mark)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				duplicate = true
				return nil
			}
		}

		entry := ev.Entry
		entry.ID = ev.EntryID
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.UserID = ev.UserID
		entry.OrgID = ev.OrgID
		entry.EntryType = ev.EntryType
		entry.OccurredAt = at
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"entry_type", "occurred_at", "on_site"}),
		}).Create(&entry).Error
	})
	if err != nil {
		return false, storeErr("ingest event", err)
	}
	return duplicate, nil
}
