package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"attendance-rewards/middleware"
	"attendance-rewards/models"
	"attendance-rewards/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Services is everything the rewards routes call into.
type Services struct {
	Engine      *services.RewardsEngine
	Store       *services.ProfileStore
	Progression *services.ProgressionService
	Streaks     *services.StreakService
	Stats       *services.StatsService
	Badges      *services.BadgeService
	Challenges  *services.ChallengeService
	Titles      *services.TitleService
	Kudos       *services.KudosService
	Activity    *services.ActivityService
	Catalog     *services.CatalogService
}

// respondError maps service errors onto status codes.
func respondError(c *fiber.Ctx, what string, err error) error {
	var nf *services.NotFoundError
	var se *services.StateError
	var te *services.TransientStoreError
	status := fiber.StatusInternalServerError
	switch {
	case errors.As(err, &nf):
		status = fiber.StatusNotFound
	case errors.As(err, &se):
		status = fiber.StatusConflict
	case errors.As(err, &te):
		status = fiber.StatusServiceUnavailable
	}
	if status >= fiber.StatusInternalServerError {
		logrus.WithField("path", c.Path()).Warnf("%s: %v", what, err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": what,
		"cause": err.Error(),
	})
}

func identity(c *fiber.Ctx) (userID, orgID, tz string) {
	userID, _ = c.Locals("user_id").(string)
	orgID, _ = c.Locals("org_id").(string)
	tz, _ = c.Locals("timezone").(string)
	if q := c.Query("tz"); q != "" {
		tz = q
	}
	return userID, orgID, tz
}

// SetupServiceRoutes registers routes called by the attendance service and operators.
func SetupServiceRoutes(app *fiber.App, svc *Services, serviceToken string) {
	internal := app.Group("/internal", middleware.GatewayAuthMiddleware(serviceToken))

	internal.Post("/attendance-events", func(c *fiber.Ctx) error {
		type Req struct {
			EntryID   string           `json:"entry_id"`
			UserID    string           `json:"user_id"`
			OrgID     string           `json:"org_id"`
			EntryType models.EntryType `json:"entry_type"`
			Timestamp time.Time        `json:"timestamp"`
			Timezone  string           `json:"timezone"`
			OnSite    *bool            `json:"on_site"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		req.EntryType = models.EntryType(strings.ToUpper(string(req.EntryType)))
		if req.UserID == "" || req.OrgID == "" || !req.EntryType.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user_id, org_id and a valid entry_type are required",
			})
		}
		// Entries without location data count as on-site.
		onSite := req.OnSite == nil || *req.OnSite

		res := svc.Engine.ProcessAttendanceEvent(c.UserContext(), services.AttendanceEvent{
			EntryID:   req.EntryID,
			UserID:    req.UserID,
			OrgID:     req.OrgID,
			EntryType: req.EntryType,
			Entry:     models.AttendanceEntry{OccurredAt: req.Timestamp, OnSite: onSite},
			Timezone:  req.Timezone,
		})
		return c.JSON(res)
	})

	internal.Post("/orgs/:org_id/seed", func(c *fiber.Ctx) error {
		res, err := svc.Catalog.SeedOrganization(c.UserContext(), c.Params("org_id"))
		if err != nil {
			return respondError(c, "catalog seed failed", err)
		}
		status := fiber.StatusCreated
		if res.Skipped {
			status = fiber.StatusOK
		}
		return c.Status(status).JSON(res)
	})
}

// SetupRewardsRoutes registers the user-facing routes under /s/rewards.
// Identity headers are only trusted on requests that carry the gateway token.
func SetupRewardsRoutes(app *fiber.App, svc *Services, serviceToken string) {
	gateway := middleware.GatewayAuthMiddleware(serviceToken)
	secured := app.Group("/s/rewards", gateway, middleware.UserContextMiddleware())

	secured.Get("/profile", func(c *fiber.Ctx) error {
		userID, orgID, _ := identity(c)
		p, err := svc.Store.Get(c.UserContext(), userID, orgID)
		if err != nil {
			return respondError(c, "failed to load profile", err)
		}
		return c.JSON(fiber.Map{
			"profile":          p,
			"level_title":      services.Level(p.Level).Title,
			"next_level_xp":    services.Level(p.Level + 1).MinXP,
			"xp_to_next_level": services.XPToNextLevel(p.TotalXP),
		})
	})

	secured.Get("/levels", func(c *fiber.Ctx) error {
		return c.JSON(services.Levels())
	})

	secured.Get("/ledger", func(c *fiber.Ctx) error {
		userID, orgID, _ := identity(c)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		rows, total, err := svc.Progression.LedgerPage(c.UserContext(), userID, orgID, page, size)
		if err != nil {
			return respondError(c, "failed to get ledger", err)
		}
		return c.JSON(fiber.Map{"entries": rows, "total": total, "page": page})
	})

	secured.Get("/streaks", func(c *fiber.Ctx) error {
		userID, orgID, _ := identity(c)
		p, err := svc.Store.Get(c.UserContext(), userID, orgID)
		if err != nil {
			return respondError(c, "failed to load profile", err)
		}
		history, err := svc.Streaks.History(c.UserContext(), userID, orgID)
		if err != nil {
			return respondError(c, "failed to get streak history", err)
		}
		return c.JSON(fiber.Map{
			"current_streak":   p.CurrentStreak,
			"longest_streak":   p.LongestStreak,
			"last_streak_date": p.LastStreakDate,
			"shields":          p.StreakShields,
			"multiplier":       p.XPMultiplier,
			"history":          history,
		})
	})

	secured.Get("/badges", func(c *fiber.Ctx) error {
		userID, orgID, tz := identity(c)
		stats, err := svc.Stats.ComputeStats(c.UserContext(), userID, orgID, tz)
		if err != nil {
			return respondError(c, "failed to compute stats", err)
		}
		views, err := svc.Badges.ListBadges(c.UserContext(), userID, orgID, stats)
		if err != nil {
			return respondError(c, "failed to get badges", err)
		}
		return c.JSON(fiber.Map{"badges": views, "stats": stats})
	})

	secured.Get("/challenges", func(c *fiber.Ctx) error {
		userID, orgID, _ := identity(c)
		rows, err := svc.Challenges.ListChallenges(c.UserContext(), userID, orgID)
		if err != nil {
			return respondError(c, "failed to get challenges", err)
		}
		return c.JSON(rows)
	})

	secured.Post("/challenges/:id/claim", func(c *fiber.Ctx) error {
		userID, orgID, _ := identity(c)
		res, err := svc.Challenges.ClaimChallenge(c.UserContext(), userID, orgID, c.Params("id"))
		if err != nil {
			return respondError(c, "claim failed", err)
		}
		return c.JSON(res)
	})

	secured.Get("/titles", func(c *fiber.Ctx) error {
		userID, orgID, _ := identity(c)
		rows, err := svc.Titles.ListTitles(c.UserContext(), userID, orgID)
		if err != nil {
			return respondError(c, "failed to get titles", err)
		}
		return c.JSON(rows)
	})

	secured.Post("/titles/:slug/redeem", func(c *fiber.Ctx) error {
		userID, orgID, _ := identity(c)
		res, err := svc.Titles.RedeemTitle(c.UserContext(), userID, orgID, c.Params("slug"))
		if err != nil {
			return respondError(c, "redeem failed", err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	secured.Post("/titles/:slug/equip", func(c *fiber.Ctx) error {
		userID, orgID, _ := identity(c)
		p, err := svc.Titles.EquipTitle(c.UserContext(), userID, orgID, c.Params("slug"))
		if err != nil {
			return respondError(c, "equip failed", err)
		}
		return c.JSON(p)
	})

	secured.Post("/kudos", func(c *fiber.Ctx) error {
		userID, orgID, tz := identity(c)
		type Req struct {
			ToUserID string `json:"to_user_id"`
			Message  string `json:"message"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || req.ToUserID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "to_user_id is required",
			})
		}
		k, err := svc.Kudos.GiveKudos(c.UserContext(), orgID, userID, req.ToUserID, req.Message, tz)
		if err != nil {
			return respondError(c, "kudos failed", err)
		}
		return c.Status(fiber.StatusCreated).JSON(k)
	})

	secured.Get("/activity", func(c *fiber.Ctx) error {
		_, orgID, _ := identity(c)
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		rows, err := svc.Activity.Feed(c.UserContext(), orgID, c.Query("user_id"), limit)
		if err != nil {
			return respondError(c, "failed to get activity", err)
		}
		return c.JSON(rows)
	})

	secured.Get("/activity/stream", svc.Activity.StreamOrgActivitySSE)

	// Admin endpoints
	admin := app.Group("/s/admin/rewards", gateway, middleware.UserContextMiddleware(), requireRole("admin"))

	admin.Post("/xp/grant", func(c *fiber.Ctx) error {
		_, orgID, _ := identity(c)
		type Req struct {
			UserID string `json:"user_id"`
			XP     int64  `json:"xp"`
			Reason string `json:"reason"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.XP <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user_id and a positive xp are required",
			})
		}
		res, err := svc.Progression.GrantXP(c.UserContext(), req.UserID, orgID, req.XP, models.ReasonAdminGrant,
			services.GrantOptions{SkipMultiplier: true, SourceRef: req.Reason})
		if err != nil {
			return respondError(c, "XP grant failed", err)
		}
		return c.JSON(res)
	})
}

func requireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals("user_roles").([]string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "role " + role + " required",
		})
	}
}
