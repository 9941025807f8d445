package services

import (
	"context"

	"attendance-rewards/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TitleService struct {
	Store    *ProfileStore
	Activity *ActivityService
}

func NewTitleService(store *ProfileStore, activity *ActivityService) *TitleService {
	return &TitleService{Store: store, Activity: activity}
}

// TitleView is one shop row.
type TitleView struct {
	Title    models.TitleDefinition `json:"title"`
	Unlocked bool                   `json:"unlocked"`
	Equipped bool                   `json:"equipped"`
}

func (s *TitleService) ListTitles(ctx context.Context, userID, orgID string) ([]TitleView, error) {
	db := s.Store.DB.WithContext(ctx)
	var defs []models.TitleDefinition
	if err := db.Where("org_id = ?", orgID).Order("min_level ASC, coin_cost ASC").Find(&defs).Error; err != nil {
		return nil, storeErr("list titles", err)
	}
	var unlocked []models.UnlockedTitle
	if err := db.Where("user_id = ? AND org_id = ?", userID, orgID).Find(&unlocked).Error; err != nil {
		return nil, storeErr("list unlocked titles", err)
	}
	have := make(map[string]bool, len(unlocked))
	for _, u := range unlocked {
		have[u.TitleID] = true
	}
	var profile models.RewardsProfile
	err := db.Where("user_id = ? AND org_id = ?", userID, orgID).First(&profile).Error
	if err != nil && !isNotFound(err) {
		return nil, storeErr("load profile", err)
	}

	out := make([]TitleView, 0, len(defs))
	for _, d := range defs {
		out = append(out, TitleView{Title: d, Unlocked: have[d.ID], Equipped: profile.ActiveTitleSlug == d.Slug})
	}
	return out, nil
}

func findTitle(tx *gorm.DB, orgID, slug string) (*models.TitleDefinition, error) {
	var def models.TitleDefinition
	err := tx.Where("org_id = ? AND slug = ?", orgID, slug).First(&def).Error
	if isNotFound(err) {
		return nil, &NotFoundError{Resource: "title", ID: slug}
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// RedeemTitle spends coins to unlock a title the user's level allows.
func (s *TitleService) RedeemTitle(ctx context.Context, userID, orgID, slug string) (*models.UnlockedTitle, error) {
	var out models.UnlockedTitle
	_, err := s.Store.Mutate(ctx, userID, orgID, func(tx *gorm.DB, p *models.RewardsProfile) error {
		def, err := findTitle(tx, orgID, slug)
		if err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.UnlockedTitle{}).
			Where("user_id = ? AND org_id = ? AND title_id = ?", userID, orgID, def.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &StateError{Action: "redeem title", Reason: "title already unlocked"}
		}
		if p.Level < def.MinLevel {
			return &StateError{Action: "redeem title", Reason: "level too low"}
		}
		if p.Coins < def.CoinCost {
			return &StateError{Action: "redeem title", Reason: "not enough coins"}
		}

		p.Coins -= def.CoinCost
		out = models.UnlockedTitle{
			ID:         uuid.NewString(),
			UserID:     userID,
			OrgID:      orgID,
			TitleID:    def.ID,
			CoinsSpent: def.CoinCost,
			UnlockedAt: s.Store.now(),
		}
		if err := tx.Omit("Title").Create(&out).Error; err != nil {
			return err
		}
		out.Title = *def
		if s.Activity != nil {
			return s.Activity.Record(tx, userID, orgID, models.ActivityTitleUnlocked,
				s.Activity.Printf("Unlocked the title %s", def.Name),
				map[string]interface{}{"slug": def.Slug, "coins": def.CoinCost})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "org_id": orgID}).Infof("🏷️ Title unlocked: %s", slug)
	return &out, nil
}

// EquipTitle sets the displayed title. An empty slug clears it.
func (s *TitleService) EquipTitle(ctx context.Context, userID, orgID, slug string) (*models.RewardsProfile, error) {
	return s.Store.Mutate(ctx, userID, orgID, func(tx *gorm.DB, p *models.RewardsProfile) error {
		if slug == "" {
			p.ActiveTitleSlug = ""
			return nil
		}
		def, err := findTitle(tx, orgID, slug)
		if err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.UnlockedTitle{}).
			Where("user_id = ? AND org_id = ? AND title_id = ?", userID, orgID, def.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &StateError{Action: "equip title", Reason: "title not unlocked"}
		}
		p.ActiveTitleSlug = def.Slug
		return nil
	})
}
