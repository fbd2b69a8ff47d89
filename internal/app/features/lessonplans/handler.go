// internal/app/features/lessonplans/handler.go
package lessonplans

import (
	"net/http"

	uierrors "github.com/dalemusser/lessonhub/internal/app/features/errors"
	"github.com/dalemusser/lessonhub/internal/app/policy/lessonplanpolicy"
	lessonweekstore "github.com/dalemusser/lessonhub/internal/app/store/lessonweeks"
	"github.com/dalemusser/lessonhub/internal/app/system/drafts"
	"github.com/dalemusser/lessonhub/internal/app/system/paging"
	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/lessonhub/internal/app/system/weekplan"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DraftKeys remembers which draft belongs to the browser session.
// *auth.SessionManager implements it.
type DraftKeys interface {
	DraftID(r *http.Request) string
	SetDraftID(w http.ResponseWriter, r *http.Request, id string) error
}

// Handler serves the weekly lesson-plan screens for every role. What a role
// may do comes from lessonplanpolicy; the editor state lives in a per-user
// draft.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Drafts   *drafts.Registry
	Keys     DraftKeys
	GridCfg  weekgrid.Config
	PageSize int

	// Weeks builds the persistence collaborator for a capability. Nil means
	// the MongoDB lesson_weeks store.
	Weeks func(c lessonplanpolicy.Capability) weekplan.Collaborator

	// Page rendering hooks; NewHandler points them at the template engine.
	Render   func(w http.ResponseWriter, r *http.Request, name string, data any)
	Snippet  func(w http.ResponseWriter, name string, data any)
	NotFound func(w http.ResponseWriter, r *http.Request, msg, backURL string)
}

// NewHandler constructs a Handler bound to the given database, draft
// registry and grid configuration.
func NewHandler(db *mongo.Database, keys DraftKeys, reg *drafts.Registry, gridCfg weekgrid.Config, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Drafts:   reg,
		Keys:     keys,
		GridCfg:  gridCfg,
		PageSize: paging.ClampSize(pageSize),
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
		Snippet: func(w http.ResponseWriter, name string, data any) {
			templates.RenderSnippet(w, name, data)
		},
		NotFound: uierrors.RenderNotFound,
	}
}

func (h *Handler) collaborator(c lessonplanpolicy.Capability) weekplan.Collaborator {
	if h.Weeks != nil {
		return h.Weeks(c)
	}
	s := lessonweekstore.New(h.DB).As(lessonweekstore.Actor{ID: c.UserID, Name: c.UserName})
	if owner, ok := c.Owner(); ok {
		s = s.WithOwner(owner)
	}
	return s
}

// draft returns the caller's draft, creating one with a fresh grid on first
// use and remembering its id in the session.
func (h *Handler) draft(w http.ResponseWriter, r *http.Request, c lessonplanpolicy.Capability) (*drafts.Draft, error) {
	if d, ok := h.Drafts.Get(h.Keys.DraftID(r), c.UserID); ok {
		return d, nil
	}
	m, err := weekgrid.New(h.GridCfg)
	if err != nil {
		return nil, err
	}
	p := weekplan.New(h.collaborator(c), h.PageSize, h.Log)
	d := h.Drafts.Create(c.UserID, m, p)
	if err := h.Keys.SetDraftID(w, r, d.ID); err != nil {
		h.Drafts.Drop(d.ID)
		return nil, err
	}
	h.Log.Debug("editor draft created",
		zap.String("draft_id", d.ID),
		zap.String("user_id", c.UserID.Hex()))
	return d, nil
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends the browser to url, via HX-Redirect for HTMX requests.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
