// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/lessonhub/internal/app/resources"
	userstore "github.com/dalemusser/lessonhub/internal/app/store/users"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts configured from env",
			zap.Duration("ping", cur.Ping),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium),
			zap.Duration("long", cur.Long))
	}

	resources.LoadSharedTemplates()

	if err := ensureSuperAdmin(ctx, deps, appCfg.SuperAdminLogin, appCfg.SuperAdminPassword, logger); err != nil {
		return err
	}

	if deps.DraftSweeper != nil {
		deps.DraftSweeper.Start()
	}
	return nil
}

// ensureSuperAdmin creates the configured superadmin account if it does not
// exist yet. An existing account is left alone.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, loginID, password string, logger *zap.Logger) error {
	if loginID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	created, err := userstore.New(deps.LessonHubMongoDatabase).EnsureSuperAdmin(ctx, loginID, password)
	if err != nil {
		logger.Error("ensure superadmin failed", zap.String("login_id", loginID), zap.Error(err))
		return err
	}
	if created {
		logger.Info("superadmin created", zap.String("login_id", loginID))
	}
	return nil
}
