package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance-rewards/catalog"
	"attendance-rewards/config"
	"attendance-rewards/handlers"
	"attendance-rewards/models"
	"attendance-rewards/services"
	"attendance-rewards/utils"
	"attendance-rewards/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupLogging(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Warnf("⚠️  Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// loadCatalog prefers the object-storage override and falls back to the built-in catalog.
func loadCatalog(ctx context.Context, cfg *config.Config) *catalog.Catalog {
	if !cfg.CatalogFromStorage() {
		return catalog.Default()
	}
	client, err := utils.NewR2Client(ctx, cfg.CloudflareAccount, cfg.R2AccessKeyID, cfg.R2AccessKeySecret)
	if err != nil {
		logrus.Warnf("⚠️  R2 client unavailable, using built-in catalog: %v", err)
		return catalog.Default()
	}
	data, err := utils.FetchObject(ctx, client, cfg.CatalogBucket, cfg.CatalogKey)
	if err != nil {
		logrus.Warnf("⚠️  Catalog override not loaded, using built-in catalog: %v", err)
		return catalog.Default()
	}
	c, err := catalog.Parse(data)
	if err != nil {
		logrus.Warnf("⚠️  Catalog override invalid, using built-in catalog: %v", err)
		return catalog.Default()
	}
	logrus.Infof("📚 Catalog %s loaded from %s/%s", c.Version, cfg.CatalogBucket, cfg.CatalogKey)
	return c
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}
	setupLogging(cfg)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaultLoc, _ := time.LoadLocation(cfg.DefaultTimezone) // validated in config.Load

	store := services.NewProfileStore(db)
	activity := services.NewActivityService(db)
	progression := services.NewProgressionService(store, activity)
	streaks := services.NewStreakService(store, progression, activity)
	stats := services.NewStatsService(db)
	badges := services.NewBadgeService(store, progression, activity)
	challenges := services.NewChallengeService(store, progression, activity)
	titles := services.NewTitleService(store, activity)
	kudos := services.NewKudosService(store, activity, cfg.KudosDailyLimit)
	catalogService := services.NewCatalogService(db, loadCatalog(ctx, cfg))

	streaks.DefaultLoc = defaultLoc
	stats.DefaultLoc = defaultLoc
	badges.DefaultLoc = defaultLoc
	challenges.DefaultLoc = defaultLoc
	kudos.DefaultLoc = defaultLoc

	engine := services.NewRewardsEngine(db, store, progression, streaks, stats, badges, challenges)
	engine.BaseXP = cfg.BaseXP()
	engine.DefaultLoc = defaultLoc

	svc := &handlers.Services{
		Engine:      engine,
		Store:       store,
		Progression: progression,
		Streaks:     streaks,
		Stats:       stats,
		Badges:      badges,
		Challenges:  challenges,
		Titles:      titles,
		Kudos:       kudos,
		Activity:    activity,
		Catalog:     catalogService,
	}

	app := fiber.New(fiber.Config{
		AppName: "attendance-rewards",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-Org-ID, X-User-Roles, X-Timezone",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	// 🔐 everything except /healthz requires the gateway token
	handlers.SetupServiceRoutes(app, svc, cfg.ServiceToken)
	handlers.SetupRewardsRoutes(app, svc, cfg.ServiceToken)

	if cfg.ChallengeSweepInterval > 0 {
		sched, err := workers.StartChallengeSweep(ctx, challenges, cfg.ChallengeSweepInterval)
		if err != nil {
			logrus.Fatalf("failed to start challenge sweep: %v", err)
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				logrus.Warnf("scheduler shutdown: %v", err)
			}
		}()
	}

	if cfg.AttendanceSyncURL != "" {
		client := workers.NewAttendanceSyncClient(cfg.AttendanceSyncURL, cfg.ServiceToken)
		go workers.PollAttendance(ctx, client, engine, cfg.AttendanceSyncInterval)
		logrus.Infof("✅ Attendance polling running (every %s)", cfg.AttendanceSyncInterval)
	}

	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			logrus.Errorf("Server error: %v", err)
		}
	}()

	logrus.Infof("✅ Server running on %s", cfg.HTTPAddr)
	logrus.Info("✅ GatewayAuthMiddleware enforced on /internal, /s/rewards and /s/admin/rewards")
	logrus.Infof("✅ CORS configured for origins: %s", cfg.Origins())

	<-ctx.Done()
	logrus.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logrus.Warnf("shutdown: %v", err)
	}
}
