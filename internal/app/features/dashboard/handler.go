// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/policy/lessonplanpolicy"
	"github.com/dalemusser/lessonhub/internal/app/system/authz"
	"github.com/dalemusser/lessonhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type studentDashboardData struct {
	viewdata.BaseVM
}

// ServeDashboard sends each role to its landing screen. Every role that can
// work with lesson plans lands on the lesson-plan list; students get a page
// of their own.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if lessonplanpolicy.ForRole(role).CanView {
		http.Redirect(w, r, "/lessonplans", http.StatusSeeOther)
		return
	}

	switch role {
	case authz.RoleStudent:
		h.ServeStudent(w, r)
	default:
		h.Log.Warn("dashboard for unknown role", zap.String("role", role))
		http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
	}
}

func (h *Handler) ServeStudent(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "student_dashboard", studentDashboardData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/"),
	})
}
