package services

import (
	"context"
	"strings"
	"time"

	"attendance-rewards/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxKudosMessage = 280

type KudosService struct {
	Store      *ProfileStore
	Activity   *ActivityService
	DailyLimit int
	DefaultLoc *time.Location
}

func NewKudosService(store *ProfileStore, activity *ActivityService, dailyLimit int) *KudosService {
	return &KudosService{Store: store, Activity: activity, DailyLimit: dailyLimit, DefaultLoc: time.UTC}
}

// GiveKudos records peer recognition. The giver's profile lock serializes the daily limit check.
func (s *KudosService) GiveKudos(ctx context.Context, orgID, fromUserID, toUserID, message, timezone string) (*models.Kudos, error) {
	if fromUserID == toUserID {
		return nil, &StateError{Action: "give kudos", Reason: "cannot give kudos to yourself"}
	}
	message = strings.TrimSpace(message)
	if r := []rune(message); len(r) > maxKudosMessage {
		message = string(r[:maxKudosMessage])
	}

	now := s.Store.now()
	_, dayEnd := periodBounds(string(models.PeriodDaily), now, loadLocation(timezone, s.DefaultLoc))
	dayStart := dayEnd.AddDate(0, 0, -1).UTC()
	dayEnd = dayEnd.UTC()

	var out models.Kudos
	err := s.Store.WithLock(ctx, fromUserID, orgID, func(tx *gorm.DB) error {
		if s.DailyLimit > 0 {
			var given int64
			if err := tx.Model(&models.Kudos{}).
				Where("org_id = ? AND from_user_id = ? AND created_at >= ? AND created_at < ?", orgID, fromUserID, dayStart, dayEnd).
				Count(&given).Error; err != nil {
				return err
			}
			if int(given) >= s.DailyLimit {
				return &StateError{Action: "give kudos", Reason: "daily kudos limit reached"}
			}
		}
		out = models.Kudos{
			ID:         uuid.NewString(),
			OrgID:      orgID,
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Message:    message,
			CreatedAt:  now,
		}
		if err := tx.Create(&out).Error; err != nil {
			return err
		}
		if s.Activity != nil {
			return s.Activity.Record(tx, toUserID, orgID, models.ActivityKudos, "Received kudos",
				map[string]interface{}{"from_user_id": fromUserID, "message": message})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
