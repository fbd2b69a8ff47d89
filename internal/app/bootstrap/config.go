// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/paging"
	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LessonHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: LESSONHUB_MONGO_URI, LESSONHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "lessonhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "lessonhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 24h, 30m)"},

	// Lesson-plan grid
	{Name: "grid_slot_count", Default: weekgrid.DefaultSlotCount, Desc: "Time slots per day (1..12, fixed at startup)"},
	{Name: "grid_sat_start", Default: "15:00", Desc: "First Saturday slot (HH:MM)"},
	{Name: "grid_sun_start", Default: "09:00", Desc: "First Sunday slot (HH:MM)"},
	{Name: "enforce_weekend_range", Default: true, Desc: "Require the Sunday date to be the day after the Saturday date"},
	{Name: "plans_page_size", Default: paging.DefaultPageSize, Desc: "Saved weeks per list page"},

	// Editor drafts
	{Name: "draft_idle_ttl", Default: "2h", Desc: "Drop editor drafts unused for this long"},
	{Name: "draft_sweep_interval", Default: "5m", Desc: "How often idle drafts are swept"},

	// SuperAdmin bootstrap
	{Name: "superadmin_login", Default: "", Desc: "Login ID of the superadmin created on startup"},
	{Name: "superadmin_password", Default: "", Desc: "Password for the superadmin created on startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LESSONHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LESSONHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		// Grid
		GridSlotCount:       appValues.Int("grid_slot_count"),
		GridSatStart:        appValues.String("grid_sat_start"),
		GridSunStart:        appValues.String("grid_sun_start"),
		EnforceWeekendRange: appValues.Bool("enforce_weekend_range"),
		PlansPageSize:       appValues.Int("plans_page_size"),

		// Drafts
		DraftIdleTTL:       appValues.Duration("draft_idle_ttl", 2*time.Hour),
		DraftSweepInterval: appValues.Duration("draft_sweep_interval", 5*time.Minute),

		// SuperAdmin
		SuperAdminLogin:    appValues.String("superadmin_login"),
		SuperAdminPassword: appValues.String("superadmin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// LessonHub checks the MongoDB URI and that the grid configuration can
// actually build a week before anything connects.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateAppConfig(appCfg)
}

// validateAppConfig holds the checks that do not depend on WAFFLE.
func validateAppConfig(appCfg AppConfig) error {
	if err := appCfg.GridConfig().Validate(); err != nil {
		return fmt.Errorf("grid config: %w", err)
	}
	if appCfg.PlansPageSize < 1 || appCfg.PlansPageSize > paging.MaxPageSize {
		return fmt.Errorf("plans_page_size must be between 1 and %d, got %d", paging.MaxPageSize, appCfg.PlansPageSize)
	}
	if appCfg.DraftIdleTTL <= 0 || appCfg.DraftSweepInterval <= 0 {
		return fmt.Errorf("draft_idle_ttl and draft_sweep_interval must be positive")
	}
	if (appCfg.SuperAdminLogin == "") != (appCfg.SuperAdminPassword == "") {
		return fmt.Errorf("superadmin_login and superadmin_password must be set together")
	}
	return nil
}
