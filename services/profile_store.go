package services

import (
	"context"
	"errors"
	"time"

	"attendance-rewards/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxProfileAttempts bounds the optimistic-concurrency retry loop.
const maxProfileAttempts = 3

// ProfileStore owns every read-modify-write of a RewardsProfile.
type ProfileStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{DB: db, Now: time.Now}
}

func (s *ProfileStore) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ProfileFunc mutates a locked profile inside tx. The profile is saved after it returns nil.
type ProfileFunc func(tx *gorm.DB, p *models.RewardsProfile) error

// Mutate locks the (user, org) profile, creating it if needed, runs fn and
// writes the profile back guarded by its version. A stale write retries the
// whole transaction.
func (s *ProfileStore) Mutate(ctx context.Context, userID, orgID string, fn ProfileFunc) (*models.RewardsProfile, error) {
	var out models.RewardsProfile
	var err error
	for attempt := 1; attempt <= maxProfileAttempts; attempt++ {
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			p, err := lockProfile(tx, userID, orgID)
			if err != nil {
				return err
			}
			version := p.Version
			if err := fn(tx, p); err != nil {
				return err
			}
			if err := saveProfile(tx, p, version); err != nil {
				return err
			}
			out = *p
			return nil
		})
		if !errors.Is(err, errStaleProfile) {
			break
		}
		logrus.WithFields(logrus.Fields{"user_id": userID, "org_id": orgID, "attempt": attempt}).
			Debug("🔁 stale rewards profile, retrying")
	}
	if err != nil {
		return nil, storeErr("mutate profile", err)
	}
	return &out, nil
}

// Get returns the profile, creating an empty one on first access.
func (s *ProfileStore) Get(ctx context.Context, userID, orgID string) (*models.RewardsProfile, error) {
	db := s.DB.WithContext(ctx)
	if err := ensureProfile(db, userID, orgID); err != nil {
		return nil, storeErr("ensure profile", err)
	}
	var p models.RewardsProfile
	if err := db.Where("user_id = ? AND org_id = ?", userID, orgID).First(&p).Error; err != nil {
		return nil, storeErr("load profile", err)
	}
	return &p, nil
}

func newProfile(userID, orgID string) *models.RewardsProfile {
	return &models.RewardsProfile{
		ID:           uuid.NewString(),
		UserID:       userID,
		OrgID:        orgID,
		Level:        1,
		XPMultiplier: 1.0,
	}
}

func ensureProfile(tx *gorm.DB, userID, orgID string) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(newProfile(userID, orgID)).Error
}

// lockProfile ensures the row exists and reads it under SELECT ... FOR UPDATE.
func lockProfile(tx *gorm.DB, userID, orgID string) (*models.RewardsProfile, error) {
	if err := ensureProfile(tx, userID, orgID); err != nil {
		return nil, err
	}
	var p models.RewardsProfile
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND org_id = ?", userID, orgID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// saveProfile writes every mutable column if the stored version still equals version.
func saveProfile(tx *gorm.DB, p *models.RewardsProfile, version int64) error {
	res := tx.Model(&models.RewardsProfile{}).
		Where("id = ? AND version = ?", p.ID, version).
		Updates(map[string]interface{}{
			"total_xp":          p.TotalXP,
			"level":             p.Level,
			"xp_multiplier":     p.XPMultiplier,
			"coins":             p.Coins,
			"current_streak":    p.CurrentStreak,
			"longest_streak":    p.LongestStreak,
			"last_streak_date":  p.LastStreakDate,
			"streak_shields":    p.StreakShields,
			"active_title_slug": p.ActiveTitleSlug,
			"version":           version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errStaleProfile
	}
	p.Version = version + 1
	return nil
}

// WithLock runs fn while holding the profile row lock, without writing the profile.
// Used by stages that only touch rows owned by the profile (challenges).
func (s *ProfileStore) WithLock(ctx context.Context, userID, orgID string, fn func(tx *gorm.DB) error) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockProfile(tx, userID, orgID); err != nil {
			return err
		}
		return fn(tx)
	})
	return storeErr("locked section", err)
}
