package services

import (
	"context"
	"math"

	"attendance-rewards/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GrantOptions tune one XP grant.
type GrantOptions struct {
	SkipMultiplier bool
	SourceRef      string
}

// XPResult describes the outcome of one grant.
type XPResult struct {
	Granted       int64   `json:"granted"`
	NewTotal      int64   `json:"new_total"`
	LeveledUp     bool    `json:"leveled_up"`
	OldLevel      int     `json:"old_level"`
	NewLevel      int     `json:"new_level"`
	CoinsEarned   int64   `json:"coins_earned"`
	ShieldsEarned int     `json:"shields_earned"`
	Multiplier    float64 `json:"multiplier"`
}

type ProgressionService struct {
	Store    *ProfileStore
	Activity *ActivityService
}

func NewProgressionService(store *ProfileStore, activity *ActivityService) *ProgressionService {
	return &ProgressionService{Store: store, Activity: activity}
}

// GrantXP applies one grant to the (user, org) profile in its own transaction.
func (s *ProgressionService) GrantXP(ctx context.Context, userID, orgID string, base int64, reason string, opts GrantOptions) (*XPResult, error) {
	var res *XPResult
	_, err := s.Store.Mutate(ctx, userID, orgID, func(tx *gorm.DB, p *models.RewardsProfile) error {
		r, err := s.grantTx(tx, p, base, reason, opts)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// grantTx mutates the locked profile in memory and appends the ledger row.
// The caller persists the profile.
func (s *ProgressionService) grantTx(tx *gorm.DB, p *models.RewardsProfile, base int64, reason string, opts GrantOptions) (*XPResult, error) {
	multiplier := 1.0
	if !opts.SkipMultiplier && p.XPMultiplier > 0 {
		multiplier = p.XPMultiplier
	}
	granted := int64(math.Round(float64(base) * multiplier))
	oldLevel := LevelFor(p.TotalXP)

	res := &XPResult{
		Granted:    granted,
		NewTotal:   p.TotalXP,
		OldLevel:   oldLevel,
		NewLevel:   oldLevel,
		Multiplier: multiplier,
	}
	if granted == 0 {
		return res, nil
	}

	entry := models.XPLedgerEntry{
		ID:         uuid.NewString(),
		UserID:     p.UserID,
		OrgID:      p.OrgID,
		Amount:     granted,
		Reason:     reason,
		Multiplier: multiplier,
		CreatedAt:  s.Store.now(),
	}
	if opts.SourceRef != "" {
		ref := opts.SourceRef
		entry.SourceRef = &ref
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	p.TotalXP += granted
	newLevel := LevelFor(p.TotalXP)
	p.Level = newLevel
	res.NewTotal = p.TotalXP
	res.NewLevel = newLevel

	if newLevel > oldLevel {
		coins, shields := levelRewards(oldLevel, newLevel)
		p.Coins += coins
		p.StreakShields += shields
		res.LeveledUp = true
		res.CoinsEarned = coins
		res.ShieldsEarned = shields

		info := Level(newLevel)
		if s.Activity != nil {
			err := s.Activity.Record(tx, p.UserID, p.OrgID, models.ActivityLevelUp,
				s.Activity.Printf("Reached level %d: %s", newLevel, info.Title),
				map[string]interface{}{"old_level": oldLevel, "new_level": newLevel, "coins": coins, "shields": shields})
			if err != nil {
				return nil, err
			}
		}
		logrus.WithFields(logrus.Fields{"user_id": p.UserID, "org_id": p.OrgID}).
			Infof("⬆️ Level up %d → %d (%s)", oldLevel, newLevel, info.Title)
	}
	logrus.WithFields(logrus.Fields{"user_id": p.UserID, "org_id": p.OrgID, "reason": reason}).
		Debugf("🎮 XP awarded: +%d (x%.2f) → %d", granted, multiplier, p.TotalXP)
	return res, nil
}

// LedgerPage lists ledger rows newest first.
func (s *ProgressionService) LedgerPage(ctx context.Context, userID, orgID string, page, size int) ([]models.XPLedgerEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	q := func() *gorm.DB {
		return s.Store.DB.WithContext(ctx).Model(&models.XPLedgerEntry{}).Where("user_id = ? AND org_id = ?", userID, orgID)
	}
	var total int64
	if err := q().Count(&total).Error; err != nil {
		return nil, 0, storeErr("count ledger", err)
	}
	var rows []models.XPLedgerEntry
	if err := q().Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return nil, 0, storeErr("list ledger", err)
	}
	return rows, total, nil
}
