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

type BadgeService struct {
	DB          *gorm.DB
	Store       *ProfileStore
	Progression *ProgressionService
	Activity    *ActivityService
	DefaultLoc  *time.Location
}

func NewBadgeService(store *ProfileStore, progression *ProgressionService, activity *ActivityService) *BadgeService {
	return &BadgeService{
		DB:          store.DB,
		Store:       store,
		Progression: progression,
		Activity:    activity,
		DefaultLoc:  time.UTC,
	}
}

// BadgeView is one row of the badge listing.
type BadgeView struct {
	Badge    models.BadgeDefinition `json:"badge"`
	Earned   bool                   `json:"earned"`
	EarnedAt *time.Time             `json:"earned_at,omitempty"`
	Progress float64                `json:"progress"`
	Target   float64                `json:"target"`
}

func (s *BadgeService) definitions(ctx context.Context, orgID string) ([]models.BadgeDefinition, error) {
	var defs []models.BadgeDefinition
	if err := s.DB.WithContext(ctx).Where("org_id = ?", orgID).Order("slug ASC").Find(&defs).Error; err != nil {
		return nil, storeErr("load badge definitions", err)
	}
	return defs, nil
}

func (s *BadgeService) earned(ctx context.Context, userID, orgID string) (map[string]models.EarnedBadge, error) {
	var rows []models.EarnedBadge
	if err := s.DB.WithContext(ctx).Where("user_id = ? AND org_id = ?", userID, orgID).Find(&rows).Error; err != nil {
		return nil, storeErr("load earned badges", err)
	}
	out := make(map[string]models.EarnedBadge, len(rows))
	for _, r := range rows {
		out[r.BadgeID] = r
	}
	return out, nil
}

// EvaluateBadges awards every unearned badge the snapshot satisfies.
// Re-running with the same snapshot awards nothing new.
func (s *BadgeService) EvaluateBadges(ctx context.Context, userID, orgID string, st *Stats, timezone string) ([]models.BadgeDefinition, error) {
	defs, err := s.definitions(ctx, orgID)
	if err != nil {
		return nil, err
	}
	have, err := s.earned(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	now := s.Store.now()
	local := now.In(loadLocation(timezone, s.DefaultLoc))

	var candidates []models.BadgeDefinition
	for _, def := range defs {
		if _, ok := have[def.ID]; ok {
			continue
		}
		if def.Seasonal() && !inSeason(def.SeasonStart, def.SeasonEnd, local) {
			continue
		}
		desc, err := models.DecodeCriteria(def.Criteria)
		if err != nil {
			logrus.WithField("badge", def.Slug).Warnf("bad criteria: %v", err)
			continue
		}
		crit, err := CompileCriterion(desc)
		if err != nil {
			logrus.WithField("badge", def.Slug).Warnf("uncompilable criteria: %v", err)
			continue
		}
		if crit.Satisfied(st) {
			candidates = append(candidates, def)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	var awarded []models.BadgeDefinition
	_, err = s.Store.Mutate(ctx, userID, orgID, func(tx *gorm.DB, p *models.RewardsProfile) error {
		awarded = awarded[:0]
		for _, def := range candidates {
			ok, err := s.awardTx(tx, p, def, now)
			if err != nil {
				return err
			}
			if ok {
				awarded = append(awarded, def)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return awarded, nil
}

// awardTx inserts the earned row and pays out only if the row is new.
func (s *BadgeService) awardTx(tx *gorm.DB, p *models.RewardsProfile, def models.BadgeDefinition, now time.Time) (bool, error) {
	row := models.EarnedBadge{
		ID:       uuid.NewString(),
		UserID:   p.UserID,
		OrgID:    p.OrgID,
		BadgeID:  def.ID,
		EarnedAt: now,
	}
	res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	if def.XPReward > 0 {
		if _, err := s.Progression.grantTx(tx, p, def.XPReward, models.ReasonBadge, GrantOptions{SkipMultiplier: true, SourceRef: def.ID}); err != nil {
			return false, err
		}
	}
	p.Coins += def.CoinReward

	if s.Activity != nil {
		err := s.Activity.Record(tx, p.UserID, p.OrgID, models.ActivityBadgeEarned,
			s.Activity.Printf("Earned the %s badge", def.Name),
			map[string]interface{}{"badge_id": def.ID, "slug": def.Slug, "rarity": def.Rarity, "xp": def.XPReward, "coins": def.CoinReward})
		if err != nil {
			return false, err
		}
	}
	logrus.WithFields(logrus.Fields{"user_id": p.UserID, "org_id": p.OrgID}).
		Infof("🎖️ Badge awarded: %s", def.Name)
	return true, nil
}

// ListBadges returns earned badges plus visible unearned ones with progress.
func (s *BadgeService) ListBadges(ctx context.Context, userID, orgID string, st *Stats) ([]BadgeView, error) {
	defs, err := s.definitions(ctx, orgID)
	if err != nil {
		return nil, err
	}
	have, err := s.earned(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}

	views := make([]BadgeView, 0, len(defs))
	for _, def := range defs {
		if e, ok := have[def.ID]; ok {
			at := e.EarnedAt
			desc, _ := models.DecodeCriteria(def.Criteria)
			_, target := BadgeProgress(desc, st)
			views = append(views, BadgeView{Badge: def, Earned: true, EarnedAt: &at, Progress: target, Target: target})
			continue
		}
		if def.Hidden {
			continue
		}
		desc, err := models.DecodeCriteria(def.Criteria)
		progress, target := 0.0, 1.0
		if err == nil {
			progress, target = BadgeProgress(desc, st)
		}
		views = append(views, BadgeView{Badge: def, Progress: progress, Target: target})
	}
	return views, nil
}
