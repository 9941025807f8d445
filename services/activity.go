package services

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"attendance-rewards/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ActivityService writes and reads the social feed.
type ActivityService struct {
	DB           *gorm.DB
	Now          func() time.Time
	PollInterval time.Duration

	printer *message.Printer
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{
		DB:           db,
		Now:          time.Now,
		PollInterval: 2 * time.Second,
		printer:      message.NewPrinter(language.English),
	}
}

// Printf formats feed titles with grouped numbers ("1,000 XP").
func (s *ActivityService) Printf(format string, args ...interface{}) string {
	if s.printer == nil {
		return fmt.Sprintf(format, args...)
	}
	return s.printer.Sprintf(format, args...)
}

// Record appends a feed entry inside the caller's transaction.
func (s *ActivityService) Record(tx *gorm.DB, userID, orgID string, kind models.ActivityKind, title string, meta map[string]interface{}) error {
	var raw datatypes.JSON
	if len(meta) > 0 {
		b, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encode activity metadata: %w", err)
		}
		raw = datatypes.JSON(b)
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	now = now.UTC()
	entry := models.ActivityLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		OrgID:     orgID,
		Kind:      kind,
		Title:     title,
		Metadata:  raw,
		CreatedAt: now,
	}
	return tx.Create(&entry).Error
}

// Feed returns the newest entries of an organization, optionally filtered to one user.
func (s *ActivityService) Feed(ctx context.Context, orgID, userID string, limit int) ([]models.ActivityLog, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	q := s.DB.WithContext(ctx).Where("org_id = ?", orgID)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var out []models.ActivityLog
	if err := q.Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, storeErr("list activity", err)
	}
	return out, nil
}

// StreamOrgActivitySSE streams new feed entries of the caller's organization.
func (s *ActivityService) StreamOrgActivitySSE(c *fiber.Ctx) error {
	orgID, _ := c.Locals("org_id").(string)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	interval := s.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	done := c.Context().Done()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var cursor time.Time
		var latest models.ActivityLog
		if err := s.DB.Where("org_id = ?", orgID).Order("created_at DESC").First(&latest).Error; err == nil {
			cursor = latest.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithField("org_id", orgID).Warnf("activity SSE init: %v", err)
		}

		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-ticker.C:
				var rows []models.ActivityLog
				err := s.DB.Where("org_id = ? AND created_at > ?", orgID, cursor).
					Order("created_at ASC").
					Find(&rows).Error
				if err != nil {
					logrus.WithField("org_id", orgID).Warnf("activity SSE query: %v", err)
					continue
				}
				if len(rows) == 0 {
					// keepalive
					w.WriteString(":\n\n")
				}
				for _, row := range rows {
					payload, _ := json.Marshal(row)
					fmt.Fprintf(w, "event: activity\nid: %s\ndata: %s\n\n", row.ID, payload)
					cursor = row.CreatedAt
				}
				if err := w.Flush(); err != nil {
					// client went away
					return
				}
			case <-done:
				return
			}
		}
	})
	return nil
}
