package services

import (
	"context"
	"math"
	"math/rand"
	"time"

	"attendance-rewards/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// challengeCapacity: concurrent valid instances per period type.
var challengeCapacity = map[models.ChallengePeriod]int{
	models.PeriodDaily:   2,
	models.PeriodWeekly:  2,
	models.PeriodMonthly: 1,
}

var challengePeriods = []models.ChallengePeriod{models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly}

// ChallengeUpdate reports progress made by one event.
type ChallengeUpdate struct {
	ChallengeID string  `json:"challenge_id"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Progress    float64 `json:"progress"`
	Target      float64 `json:"target"`
	Completed   bool    `json:"completed"`
}

// ClaimResult is returned by a successful claim.
type ClaimResult struct {
	Challenge models.ActiveChallenge `json:"challenge"`
	XP        *XPResult              `json:"xp"`
	Coins     int64                  `json:"coins"`
}

type ChallengeService struct {
	DB          *gorm.DB
	Store       *ProfileStore
	Progression *ProgressionService
	Activity    *ActivityService
	DefaultLoc  *time.Location

	// Shuffle orders candidate definitions before the pool is topped off.
	Shuffle func(n int, swap func(i, j int))
}

func NewChallengeService(store *ProfileStore, progression *ProgressionService, activity *ActivityService) *ChallengeService {
	return &ChallengeService{
		DB:          store.DB,
		Store:       store,
		Progression: progression,
		Activity:    activity,
		DefaultLoc:  time.UTC,
		Shuffle:     rand.Shuffle,
	}
}

// GenerateChallenges expires stale instances and fills every period type up to capacity.
func (s *ChallengeService) GenerateChallenges(ctx context.Context, userID, orgID string, level int, timezone string) ([]models.ActiveChallenge, error) {
	now := s.Store.now()
	loc := loadLocation(timezone, s.DefaultLoc)

	var created []models.ActiveChallenge
	err := s.Store.WithLock(ctx, userID, orgID, func(tx *gorm.DB) error {
		created = created[:0]
		if err := expireUserChallenges(tx, userID, orgID, now); err != nil {
			return err
		}

		var held []models.ActiveChallenge
		if err := tx.Where("user_id = ? AND org_id = ?", userID, orgID).
			Where("expires_at > ?", now).
			Find(&held).Error; err != nil {
			return err
		}

		valid := make(map[models.ChallengePeriod]int)
		taken := make(map[string]bool)
		for _, ch := range held {
			taken[ch.DefinitionID] = true
			if ch.Status == models.ChallengeActive || ch.Status == models.ChallengeCompleted {
				valid[ch.Period]++
			}
		}

		var defs []models.ChallengeDefinition
		if err := tx.Where("org_id = ? AND min_level <= ?", orgID, level).
			Order("slug ASC").
			Find(&defs).Error; err != nil {
			return err
		}

		for _, period := range challengePeriods {
			gap := challengeCapacity[period] - valid[period]
			if gap <= 0 {
				continue
			}
			var pool []models.ChallengeDefinition
			for _, d := range defs {
				if d.Period == period && !taken[d.ID] {
					pool = append(pool, d)
				}
			}
			if s.Shuffle != nil {
				s.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
			}
			if gap > len(pool) {
				gap = len(pool)
			}

			key, expires := periodBounds(string(period), now, loc)
			for _, d := range pool[:gap] {
				desc, err := models.DecodeCriteria(d.Criteria)
				if err != nil {
					logrus.WithField("challenge", d.Slug).Warnf("bad criteria: %v", err)
					continue
				}
				ch := models.ActiveChallenge{
					ID:           uuid.NewString(),
					UserID:       userID,
					OrgID:        orgID,
					DefinitionID: d.ID,
					PeriodKey:    key,
					Period:       period,
					Target:       ChallengeTarget(desc),
					Status:       models.ChallengeActive,
					ExpiresAt:    expires.UTC(),
				}
				res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&ch)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					continue
				}
				ch.Definition = d
				created = append(created, ch)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(created) > 0 {
		logrus.WithFields(logrus.Fields{"user_id": userID, "org_id": orgID}).
			Infof("🎯 %d new challenge(s) issued", len(created))
	}
	return created, nil
}

// UpdateChallengeProgress advances every live instance the signal contributes to.
func (s *ChallengeService) UpdateChallengeProgress(ctx context.Context, userID, orgID string, sig ChallengeSignal) ([]ChallengeUpdate, error) {
	now := s.Store.now()
	var updates []ChallengeUpdate
	err := s.Store.WithLock(ctx, userID, orgID, func(tx *gorm.DB) error {
		updates = updates[:0]
		var live []models.ActiveChallenge
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND org_id = ? AND status = ? AND expires_at > ?", userID, orgID, models.ChallengeActive, now).
			Find(&live).Error; err != nil {
			return err
		}
		if len(live) == 0 {
			return nil
		}

		defIDs := make([]string, 0, len(live))
		for _, ch := range live {
			defIDs = append(defIDs, ch.DefinitionID)
		}
		var defs []models.ChallengeDefinition
		if err := tx.Where("id IN ?", defIDs).Find(&defs).Error; err != nil {
			return err
		}
		byID := make(map[string]models.ChallengeDefinition, len(defs))
		for _, d := range defs {
			byID[d.ID] = d
		}

		for _, ch := range live {
			def, ok := byID[ch.DefinitionID]
			if !ok {
				continue
			}
			desc, err := models.DecodeCriteria(def.Criteria)
			if err != nil {
				continue
			}
			next, touched := challengeStep(desc, ch.Progress, ch.LastCredited, sig)
			if !touched {
				continue
			}
			next = math.Min(next, ch.Target)
			if next == ch.Progress {
				continue
			}

			fields := map[string]interface{}{"progress": next}
			if countsDays(desc.Type) && sig.LocalDate != "" {
				fields["last_credited"] = sig.LocalDate
			}
			completed := next >= ch.Target
			if completed {
				fields["status"] = models.ChallengeCompleted
				fields["completed_at"] = now
			}
			if err := tx.Model(&models.ActiveChallenge{}).Where("id = ?", ch.ID).Updates(fields).Error; err != nil {
				return err
			}
			if completed && s.Activity != nil {
				err := s.Activity.Record(tx, userID, orgID, models.ActivityChallengeCompleted,
					s.Activity.Printf("Completed the %s challenge", def.Name),
					map[string]interface{}{"challenge_id": ch.ID, "slug": def.Slug})
				if err != nil {
					return err
				}
			}
			updates = append(updates, ChallengeUpdate{
				ChallengeID: ch.ID,
				Slug:        def.Slug,
				Name:        def.Name,
				Progress:    next,
				Target:      ch.Target,
				Completed:   completed,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// ClaimChallenge pays out a completed challenge exactly once.
func (s *ChallengeService) ClaimChallenge(ctx context.Context, userID, orgID, challengeID string) (*ClaimResult, error) {
	now := s.Store.now()
	var out *ClaimResult
	_, err := s.Store.Mutate(ctx, userID, orgID, func(tx *gorm.DB, p *models.RewardsProfile) error {
		var ch models.ActiveChallenge
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ? AND org_id = ?", challengeID, userID, orgID).
			First(&ch).Error
		if isNotFound(err) {
			return &NotFoundError{Resource: "challenge", ID: challengeID}
		}
		if err != nil {
			return err
		}
		if ch.Status != models.ChallengeCompleted {
			return &StateError{Action: "claim challenge", State: string(ch.Status)}
		}

		var def models.ChallengeDefinition
		if err := tx.Where("id = ?", ch.DefinitionID).First(&def).Error; err != nil {
			return err
		}

		res := tx.Model(&models.ActiveChallenge{}).
			Where("id = ? AND status = ?", ch.ID, models.ChallengeCompleted).
			Updates(map[string]interface{}{"status": models.ChallengeClaimed, "claimed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &StateError{Action: "claim challenge", State: string(ch.Status)}
		}

		xp, err := s.Progression.grantTx(tx, p, def.XPReward, models.ReasonChallenge, GrantOptions{SourceRef: ch.ID})
		if err != nil {
			return err
		}
		p.Coins += def.CoinReward

		if s.Activity != nil {
			err := s.Activity.Record(tx, userID, orgID, models.ActivityChallengeClaimed,
				s.Activity.Printf("Claimed %s: +%d XP, +%d coins", def.Name, xp.Granted, def.CoinReward),
				map[string]interface{}{"challenge_id": ch.ID, "slug": def.Slug, "xp": xp.Granted, "coins": def.CoinReward})
			if err != nil {
				return err
			}
		}

		ch.Status = models.ChallengeClaimed
		ch.ClaimedAt = &now
		ch.Definition = def
		out = &ClaimResult{Challenge: ch, XP: xp, Coins: def.CoinReward}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": userID, "org_id": orgID, "challenge_id": challengeID}).
		Infof("🏆 Challenge claimed: +%d XP", out.XP.Granted)
	return out, nil
}

// ExpireChallenges moves every active instance past its expiry to expired.
func (s *ChallengeService) ExpireChallenges(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	res := s.DB.WithContext(ctx).Model(&models.ActiveChallenge{}).
		Where("status = ? AND expires_at <= ?", models.ChallengeActive, now).
		Update("status", models.ChallengeExpired)
	if res.Error != nil {
		return 0, storeErr("expire challenges", res.Error)
	}
	return res.RowsAffected, nil
}

func expireUserChallenges(tx *gorm.DB, userID, orgID string, now time.Time) error {
	return tx.Model(&models.ActiveChallenge{}).
		Where("user_id = ? AND org_id = ? AND status = ? AND expires_at <= ?", userID, orgID, models.ChallengeActive, now).
		Update("status", models.ChallengeExpired).Error
}

// ListChallenges returns live and claimable instances with their definitions.
func (s *ChallengeService) ListChallenges(ctx context.Context, userID, orgID string) ([]models.ActiveChallenge, error) {
	now := s.Store.now()
	var rows []models.ActiveChallenge
	err := s.DB.WithContext(ctx).Preload("Definition").
		Where("user_id = ? AND org_id = ?", userID, orgID).
		Where("(status = ? AND expires_at > ?) OR status = ?", models.ChallengeActive, now, models.ChallengeCompleted).
		Order("expires_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr("list challenges", err)
	}
	return rows, nil
}
