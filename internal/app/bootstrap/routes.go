// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	dashboardfeature "github.com/dalemusser/lessonhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/lessonhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/lessonhub/internal/app/features/health"
	homefeature "github.com/dalemusser/lessonhub/internal/app/features/home"
	lessonplansfeature "github.com/dalemusser/lessonhub/internal/app/features/lessonplans"
	loginfeature "github.com/dalemusser/lessonhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/lessonhub/internal/app/features/logout"
	systemusersfeature "github.com/dalemusser/lessonhub/internal/app/features/systemusers"
	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// LessonHub initializes the template engine, applies CSRF and session
// middleware, and mounts the feature routers: home, login, logout,
// dashboard, health, the lesson-plan editor and account registration.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()

	// CSRF protection for every state-changing form and HTMX post.
	r.Use(csrfMiddleware(appCfg.SessionKey, secure, errorsHandler, logger))

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.LessonHubMongoClient, deps.Drafts, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.LessonHubMongoDatabase, sessionMgr, deps.Drafts, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, deps.Drafts, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Role-based landing
	dashboardHandler := dashboardfeature.NewHandler(logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Weekly lesson plans
	plansHandler := lessonplansfeature.NewHandler(
		deps.LessonHubMongoDatabase,
		sessionMgr,
		deps.Drafts,
		appCfg.GridConfig(),
		appCfg.PlansPageSize,
		errLog,
		logger,
	)
	r.Mount("/lessonplans", lessonplansfeature.Routes(plansHandler, sessionMgr))

	// Account registration
	usersHandler := systemusersfeature.NewHandler(deps.LessonHubMongoDatabase, errLog, logger)
	r.Mount("/system-users", systemusersfeature.Routes(usersHandler, sessionMgr))

	r.NotFound(errorsHandler.NotFound)

	return r, nil
}

// csrfMiddleware wraps gorilla/csrf. The 32-byte key is derived from the
// session key so a single secret configures both. Over plain http the
// request is marked as such, otherwise the origin check assumes https.
func csrfMiddleware(sessionKey string, secure bool, errorsHandler *errorsfeature.Handler, logger *zap.Logger) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + sessionKey))
	protect := csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			errorsHandler.Forbidden(w, r)
		})),
	)

	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
