// internal/app/features/systemusers/routes.go
package systemusers

import (
	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/dalemusser/lessonhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account screens under /system-users. Superadmins and
// coordinators get in; which roles each may touch is decided per request.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RoleSuperAdmin, authz.RoleCoordinator))

		pr.Get("/", h.ServeList)

		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
		pr.Post("/{id}/status", h.HandleStatus)
	})

	return r
}
