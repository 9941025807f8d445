package config

import (
	"fmt"
	"strings"
	"time"

	"attendance-rewards/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting of the rewards service.
type Config struct {
	// --- Server ---
	HTTPAddr       string `envconfig:"HTTP_ADDR" default:":5200"`
	ServiceToken   string `envconfig:"SERVICE_TOKEN" required:"true"` // bearer token shared with gateway + attendance service
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// --- Database ---
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// --- Logging ---
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"` // text | json

	// --- Rewards ---
	DefaultTimezone string `envconfig:"DEFAULT_TIMEZONE" default:"UTC"`
	XPClockIn       int64  `envconfig:"XP_CLOCK_IN" default:"10"`
	XPClockOut      int64  `envconfig:"XP_CLOCK_OUT" default:"5"`
	XPBreakStart    int64  `envconfig:"XP_BREAK_START" default:"0"`
	XPBreakEnd      int64  `envconfig:"XP_BREAK_END" default:"0"`
	KudosDailyLimit int    `envconfig:"KUDOS_DAILY_LIMIT" default:"3"`

	// --- Workers ---
	// 0 disables the sweep; expiry still happens lazily on clock-in.
	ChallengeSweepInterval time.Duration `envconfig:"CHALLENGE_SWEEP_INTERVAL" default:"15m"`
	AttendanceSyncURL      string        `envconfig:"ATTENDANCE_SYNC_URL"`
	AttendanceSyncInterval time.Duration `envconfig:"ATTENDANCE_SYNC_INTERVAL" default:"1m"`

	// --- Catalog object storage (optional) ---
	CatalogBucket     string `envconfig:"CATALOG_BUCKET"`
	CatalogKey        string `envconfig:"CATALOG_KEY" default:"catalog/rewards.json"`
	CloudflareAccount string `envconfig:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret string `envconfig:"R2_ACCESS_KEY_SECRET"`
}

// BaseXP returns the configured per-entry-type base amounts.
func (c *Config) BaseXP() map[models.EntryType]int64 {
	return map[models.EntryType]int64{
		models.EntryClockIn:    c.XPClockIn,
		models.EntryClockOut:   c.XPClockOut,
		models.EntryBreakStart: c.XPBreakStart,
		models.EntryBreakEnd:   c.XPBreakEnd,
	}
}

// CatalogFromStorage reports whether the catalog override bucket is configured.
func (c *Config) CatalogFromStorage() bool {
	return c.CatalogBucket != ""
}

// Origins splits ALLOWED_ORIGINS and trims every entry.
func (c *Config) Origins() string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE %q: %w", c.DefaultTimezone, err)
	}
	if c.XPClockIn < 0 || c.XPClockOut < 0 || c.XPBreakStart < 0 || c.XPBreakEnd < 0 {
		return fmt.Errorf("XP_* base amounts must be >= 0")
	}
	if c.KudosDailyLimit <= 0 {
		return fmt.Errorf("KUDOS_DAILY_LIMIT must be > 0")
	}
	if c.ChallengeSweepInterval < 0 {
		return fmt.Errorf("CHALLENGE_SWEEP_INTERVAL must be >= 0")
	}
	if c.AttendanceSyncURL != "" && c.AttendanceSyncInterval <= 0 {
		return fmt.Errorf("ATTENDANCE_SYNC_INTERVAL must be > 0 when ATTENDANCE_SYNC_URL is set")
	}
	if c.CatalogFromStorage() && (c.CloudflareAccount == "" || c.R2AccessKeyID == "" || c.R2AccessKeySecret == "") {
		return fmt.Errorf("CATALOG_BUCKET requires CLOUDFLARE_ACCOUNT_ID, R2_ACCESS_KEY_ID and R2_ACCESS_KEY_SECRET")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; variables may come from the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
