// internal/app/features/lessonplans/routes.go
package lessonplans

import (
	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/dalemusser/lessonhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Students never reach the lesson-plan screens.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RoleSuperAdmin, authz.RoleCoordinator, authz.RoleTeacher))

		// LIST
		pr.Get("/", h.ServeList)
		pr.Get("/more", h.ServeMore)

		// EDITOR
		pr.Get("/new", h.ServeNew)
		pr.Get("/editor", h.ServeEditor)
		pr.Post("/editor/header", h.HandleHeader)
		pr.Post("/editor/slots", h.HandleSlots)
		pr.Post("/editor/cells/{index}/select", h.HandleSelect)
		pr.Post("/editor/cells/{index}", h.HandleCommit)
		pr.Post("/editor/blur", h.HandleBlur)
		pr.Post("/editor/cancel", h.HandleCancel)
		pr.Post("/editor/save", h.HandleSave)

		// SAVED WEEK
		pr.Get("/{id}", h.ServeView)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/duplicate", h.HandleDuplicate)
		pr.Get("/{id}/delete", h.ServeDeleteConfirm)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
