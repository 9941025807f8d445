package services

import (
	"context"
	"time"

	"attendance-rewards/catalog"
	"attendance-rewards/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedResult describes one seeding run.
type SeedResult struct {
	Seed       models.CatalogSeed `json:"seed"`
	Skipped    bool               `json:"skipped"` // org already on this catalog version
	Badges     int64              `json:"badges_inserted"`
	Challenges int64              `json:"challenges_inserted"`
	Titles     int64              `json:"titles_inserted"`
}

type CatalogService struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
	Now     func() time.Time
}

func NewCatalogService(db *gorm.DB, c *catalog.Catalog) *CatalogService {
	if c == nil {
		c = catalog.Default()
	}
	return &CatalogService{DB: db, Catalog: c, Now: time.Now}
}

// SeedOrganization copies the catalog into org-scoped definition rows.
// Existing (org, slug) rows are left untouched, so re-seeding is a no-op.
func (s *CatalogService) SeedOrganization(ctx context.Context, orgID string) (*SeedResult, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	version := s.Catalog.Version
	res := &SeedResult{}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seed models.CatalogSeed
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("org_id = ?", orgID).First(&seed).Error
		if err == nil && seed.Version == version {
			res.Seed = seed
			res.Skipped = true
			return nil
		}
		if err != nil && !isNotFound(err) {
			return err
		}

		badges := make([]models.BadgeDefinition, 0, len(s.Catalog.Badges))
		for _, b := range s.Catalog.Badges {
			badges = append(badges, models.BadgeDefinition{
				ID:             uuid.NewString(),
				OrgID:          orgID,
				Slug:           b.Slug,
				Name:           b.Name,
				Description:    b.Description,
				Criteria:       b.Criteria.JSON(),
				Rarity:         b.Rarity,
				XPReward:       b.XPReward,
				CoinReward:     b.CoinReward,
				Hidden:         b.Hidden,
				SeasonStart:    b.SeasonStart,
				SeasonEnd:      b.SeasonEnd,
				CollectionSet:  b.CollectionSet,
				CatalogVersion: version,
			})
		}
		challenges := make([]models.ChallengeDefinition, 0, len(s.Catalog.Challenges))
		for _, c := range s.Catalog.Challenges {
			challenges = append(challenges, models.ChallengeDefinition{
				ID:             uuid.NewString(),
				OrgID:          orgID,
				Slug:           c.Slug,
				Name:           c.Name,
				Description:    c.Description,
				Period:         c.Period,
				Criteria:       c.Criteria.JSON(),
				XPReward:       c.XPReward,
				CoinReward:     c.CoinReward,
				MinLevel:       c.MinLevel,
				CatalogVersion: version,
			})
		}
		titles := make([]models.TitleDefinition, 0, len(s.Catalog.Titles))
		for _, t := range s.Catalog.Titles {
			titles = append(titles, models.TitleDefinition{
				ID:             uuid.NewString(),
				OrgID:          orgID,
				Slug:           t.Slug,
				Name:           t.Name,
				Description:    t.Description,
				MinLevel:       t.MinLevel,
				CoinCost:       t.CoinCost,
				CatalogVersion: version,
			})
		}

		if res.Badges, err = insertIgnoring(tx, &badges, len(badges)); err != nil {
			return err
		}
		if res.Challenges, err = insertIgnoring(tx, &challenges, len(challenges)); err != nil {
			return err
		}
		if res.Titles, err = insertIgnoring(tx, &titles, len(titles)); err != nil {
			return err
		}

		seed = models.CatalogSeed{
			OrgID:      orgID,
			Version:    version,
			Badges:     len(badges),
			Challenges: len(challenges),
			Titles:     len(titles),
			SeededAt:   now,
		}
		res.Seed = seed
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "org_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"version", "badges", "challenges", "titles", "seeded_at"}),
		}).Create(&seed).Error
	})
	if err != nil {
		return nil, storeErr("seed catalog", err)
	}

	fields := logrus.Fields{"org_id": orgID, "version": version}
	if res.Skipped {
		logrus.WithFields(fields).Info("📚 Catalog already seeded")
	} else {
		logrus.WithFields(fields).Infof("📚 Catalog seeded: %d badges, %d challenges, %d titles", res.Badges, res.Challenges, res.Titles)
	}
	return res, nil
}

// insertIgnoring bulk-inserts rows, skipping any that collide on a unique index.
func insertIgnoring(tx *gorm.DB, rows interface{}, n int) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 50)
	return res.RowsAffected, res.Error
}
