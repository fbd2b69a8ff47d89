// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/dalemusser/lessonhub/internal/app/system/drafts"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Drafts     *drafts.Registry
}

func NewHandler(sessionMgr *auth.SessionManager, reg *drafts.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Drafts:     reg,
	}
}

// ServeLogout handles GET and POST /logout. Unsaved editor work is discarded
// along with the session.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	draftID, err := h.SessionMgr.SignOut(w, r)
	if err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	if draftID != "" && h.Drafts != nil {
		h.Drafts.Drop(draftID)
		h.Log.Debug("editor draft dropped at logout", zap.String("draft_id", draftID))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation to "/".
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	// Non-HTMX: standard redirect home.
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
