package services

import (
	"context"
	"math"
	"time"

	"attendance-rewards/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	multiplierStep = 0.02
	multiplierCap  = 0.50
	streakBonusCap = 25
)

// streakMilestones: streak length → flat bonus XP.
var streakMilestones = map[int]int64{
	3:   25,
	5:   50,
	7:   75,
	10:  100,
	15:  150,
	20:  250,
	25:  400,
	30:  500,
	50:  1000,
	75:  1500,
	100: 2500,
}

// StreakResult describes one streak update.
type StreakResult struct {
	CurrentStreak   int     `json:"current_streak"`
	Continued       bool    `json:"continued"`
	Broken          bool    `json:"broken"`
	Started         bool    `json:"started"`
	ShieldUsed      bool    `json:"shield_used"`
	ShieldsConsumed int     `json:"shields_consumed"`
	Multiplier      float64 `json:"multiplier"`
	Milestone       int     `json:"milestone,omitempty"`
	BonusXP         int64   `json:"bonus_xp"`
	Unchanged       bool    `json:"unchanged"`

	XP []*XPResult `json:"-"`
}

// StreakMultiplier derives the XP multiplier from a streak length.
func StreakMultiplier(streak int) float64 {
	m := 1.0 + math.Min(float64(streak)*multiplierStep, multiplierCap)
	return math.Round(m*100) / 100
}

// StreakBonus is the flat daily bonus for a continued streak.
func StreakBonus(streak int) int64 {
	if streak > streakBonusCap {
		streak = streakBonusCap
	}
	return int64(5 + streak)
}

type StreakService struct {
	Store       *ProfileStore
	Progression *ProgressionService
	Activity    *ActivityService
	DefaultLoc  *time.Location
}

func NewStreakService(store *ProfileStore, progression *ProgressionService, activity *ActivityService) *StreakService {
	return &StreakService{Store: store, Progression: progression, Activity: activity, DefaultLoc: time.UTC}
}

// UpdateStreak credits today's clock-in to the user's streak.
func (s *StreakService) UpdateStreak(ctx context.Context, userID, orgID, timezone string) (*StreakResult, error) {
	return s.updateAt(ctx, userID, orgID, loadLocation(timezone, s.DefaultLoc), s.Store.now())
}

// updateAt credits the local day of at rather than the current day.
func (s *StreakService) updateAt(ctx context.Context, userID, orgID string, loc *time.Location, at time.Time) (*StreakResult, error) {
	var res *StreakResult
	_, err := s.Store.Mutate(ctx, userID, orgID, func(tx *gorm.DB, p *models.RewardsProfile) error {
		r, err := s.updateTx(tx, p, at, loc)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *StreakService) updateTx(tx *gorm.DB, p *models.RewardsProfile, now time.Time, loc *time.Location) (*StreakResult, error) {
	today := localDate(now, loc)
	res := &StreakResult{CurrentStreak: p.CurrentStreak, Multiplier: p.XPMultiplier}

	// Same day, or the clock moved backwards across a timezone change.
	if p.LastStreakDate != "" && today <= p.LastStreakDate {
		res.Unchanged = true
		return res, nil
	}

	newStreak := 1
	switch {
	case p.LastStreakDate == "" || p.CurrentStreak == 0:
		res.Started = true
	default:
		missed, err := missedWorkdays(p.LastStreakDate, today)
		if err != nil {
			return nil, err
		}
		switch {
		case missed == 0:
			newStreak = p.CurrentStreak + 1
			res.Continued = true
		case missed <= p.StreakShields:
			newStreak = p.CurrentStreak + 1
			p.StreakShields -= missed
			res.Continued = true
			res.ShieldUsed = true
			res.ShieldsConsumed = missed
		default:
			if err := s.closeRun(tx, p, now); err != nil {
				return nil, err
			}
			res.Broken = true
		}
	}

	p.CurrentStreak = newStreak
	p.LastStreakDate = today
	p.XPMultiplier = StreakMultiplier(newStreak)
	if newStreak > p.LongestStreak {
		p.LongestStreak = newStreak
	}
	res.CurrentStreak = newStreak
	res.Multiplier = p.XPMultiplier

	if res.Continued {
		if err := s.extendRun(tx, p, today, res.ShieldsConsumed); err != nil {
			return nil, err
		}
	} else if err := s.openRun(tx, p, today); err != nil {
		return nil, err
	}

	fields := logrus.Fields{"user_id": p.UserID, "org_id": p.OrgID, "streak": newStreak}
	if res.Continued {
		bonus := StreakBonus(newStreak)
		xp, err := s.Progression.grantTx(tx, p, bonus, models.ReasonStreakBonus, GrantOptions{SkipMultiplier: true, SourceRef: today})
		if err != nil {
			return nil, err
		}
		res.BonusXP += xp.Granted
		res.XP = append(res.XP, xp)
	}

	if bonus, ok := streakMilestones[newStreak]; ok {
		xp, err := s.Progression.grantTx(tx, p, bonus, models.ReasonStreakMilestone, GrantOptions{SkipMultiplier: true, SourceRef: today})
		if err != nil {
			return nil, err
		}
		res.Milestone = newStreak
		res.BonusXP += xp.Granted
		res.XP = append(res.XP, xp)
		if s.Activity != nil {
			err := s.Activity.Record(tx, p.UserID, p.OrgID, models.ActivityStreakMilestone,
				s.Activity.Printf("%d-day streak! +%d XP", newStreak, bonus),
				map[string]interface{}{"streak": newStreak, "bonus_xp": bonus})
			if err != nil {
				return nil, err
			}
		}
		logrus.WithFields(fields).Infof("🔥 Streak milestone reached: %d days", newStreak)
	}

	if res.ShieldUsed {
		logrus.WithFields(fields).Infof("🛡️ %d shield(s) bridged a gap", res.ShieldsConsumed)
	}
	if res.Broken {
		logrus.WithFields(fields).Info("💔 Streak broken, starting over")
	}
	return res, nil
}

func (s *StreakService) openHistory(tx *gorm.DB, p *models.RewardsProfile) (*models.StreakHistory, error) {
	var h models.StreakHistory
	err := tx.Where("user_id = ? AND org_id = ? AND end_date IS NULL", p.UserID, p.OrgID).
		Order("created_at DESC").
		First(&h).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// closeRun ends the open run at the last credited day.
func (s *StreakService) closeRun(tx *gorm.DB, p *models.RewardsProfile, now time.Time) error {
	h, err := s.openHistory(tx, p)
	if err != nil || h == nil {
		return err
	}
	end := p.LastStreakDate
	return tx.Model(&models.StreakHistory{}).Where("id = ?", h.ID).Updates(map[string]interface{}{
		"end_date":  end,
		"length":    p.CurrentStreak,
		"closed_at": now,
	}).Error
}

func (s *StreakService) openRun(tx *gorm.DB, p *models.RewardsProfile, today string) error {
	h := models.StreakHistory{
		ID:             uuid.NewString(),
		UserID:         p.UserID,
		OrgID:          p.OrgID,
		StartDate:      today,
		Length:         p.CurrentStreak,
		PeakMultiplier: p.XPMultiplier,
	}
	return tx.Create(&h).Error
}

func (s *StreakService) extendRun(tx *gorm.DB, p *models.RewardsProfile, today string, shields int) error {
	h, err := s.openHistory(tx, p)
	if err != nil {
		return err
	}
	if h == nil {
		h = &models.StreakHistory{
			ID:             uuid.NewString(),
			UserID:         p.UserID,
			OrgID:          p.OrgID,
			StartDate:      today,
			Length:         p.CurrentStreak,
			ShieldsUsed:    shields,
			PeakMultiplier: p.XPMultiplier,
		}
		return tx.Create(h).Error
	}
	peak := math.Max(h.PeakMultiplier, p.XPMultiplier)
	return tx.Model(&models.StreakHistory{}).Where("id = ?", h.ID).Updates(map[string]interface{}{
		"length":          p.CurrentStreak,
		"shields_used":    h.ShieldsUsed + shields,
		"peak_multiplier": peak,
	}).Error
}

// History lists streak runs, newest first.
func (s *StreakService) History(ctx context.Context, userID, orgID string) ([]models.StreakHistory, error) {
	var rows []models.StreakHistory
	err := s.Store.DB.WithContext(ctx).
		Where("user_id = ? AND org_id = ?", userID, orgID).
		Order("start_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr("list streak history", err)
	}
	return rows, nil
}
