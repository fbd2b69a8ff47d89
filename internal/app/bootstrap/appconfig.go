// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where LessonHub keeps everything specific to it: the
// database, the session cookie, the shape of the weekly grid and the
// lifetime of editor drafts.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: lessonhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Lesson-plan grid
	GridSlotCount       int    // Slots per day, fixed at startup
	GridSatStart        string // First Saturday slot, HH:MM
	GridSunStart        string // First Sunday slot, HH:MM
	EnforceWeekendRange bool   // Require end date = start date + 1 day
	PlansPageSize       int    // Weeks per "load more" page

	// Editor drafts
	DraftIdleTTL       time.Duration // Drafts unused this long are dropped
	DraftSweepInterval time.Duration // How often the sweeper runs

	// SuperAdmin bootstrap (created on startup when both are set)
	SuperAdminLogin    string
	SuperAdminPassword string
}

// GridConfig is the weekgrid configuration derived from AppConfig.
func (c AppConfig) GridConfig() weekgrid.Config {
	return weekgrid.Config{
		SlotCount:           c.GridSlotCount,
		SatStart:            c.GridSatStart,
		SunStart:            c.GridSunStart,
		EnforceWeekendRange: c.EnforceWeekendRange,
	}
}
