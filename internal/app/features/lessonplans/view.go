// internal/app/features/lessonplans/view.go
package lessonplans

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/policy/lessonplanpolicy"
	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/dalemusser/lessonhub/internal/app/system/drafts"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/app/system/viewdata"
	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/lessonhub/internal/app/system/weekplan"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// loadWeek resolves {id} to a stored week the capability can see. It writes
// the error response itself and reports false when there is nothing to show.
func (h *Handler) loadWeek(w http.ResponseWriter, r *http.Request, c lessonplanpolicy.Capability) (*drafts.Draft, models.LessonWeek, bool) {
	d, err := h.draft(w, r, c)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "open editor draft failed", err, "Could not open your lesson plans.", "/lessonplans")
		return nil, models.LessonWeek{}, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.NotFound(w, r, "Lesson plan not found.", "/lessonplans")
		return nil, models.LessonWeek{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	wk, err := d.Planner.Get(ctx, id)
	if errors.Is(err, weekplan.ErrNotFound) || (err == nil && !c.CanSee(wk)) {
		h.NotFound(w, r, "Lesson plan not found.", "/lessonplans")
		return nil, models.LessonWeek{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load lesson week failed", err, weekplan.Message(err), "/lessonplans")
		return nil, models.LessonWeek{}, false
	}
	return d, wk, true
}

// ServeView shows a stored week read-only.
// GET /lessonplans/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	c := lessonplanpolicy.FromRequest(r)
	if !c.CanView {
		auth.Forbidden(w, r)
		return
	}
	_, wk, ok := h.loadWeek(w, r, c)
	if !ok {
		return
	}

	m := weekgrid.FromSnapshot(wk, h.GridCfg)
	data := viewData{
		BaseVM:    viewdata.NewBaseVM(r, wk.Head.ProgramName+" · "+wk.Head.WeekLabel, "/lessonplans"),
		Grid:      weekgrid.Project(m, nil),
		WeekID:    wk.ID.Hex(),
		CreatedBy: wk.CreatedByName,
		CanEdit:   c.CanModify(wk),
		CanDelete: c.CanRemove(wk),
	}
	if !wk.SavedAt.IsZero() {
		data.SavedAt = wk.SavedAt.Local().Format(savedAtLayout)
	}
	h.Render(w, r, "lessonplans_view", data)
}

// HandleDuplicate copies a stored week into a new one at the top of the list.
// POST /lessonplans/{id}/duplicate
func (h *Handler) HandleDuplicate(w http.ResponseWriter, r *http.Request) {
	c := lessonplanpolicy.FromRequest(r)
	if !c.CanEdit {
		auth.Forbidden(w, r)
		return
	}
	d, wk, ok := h.loadWeek(w, r, c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := d.Planner.Duplicate(ctx, wk.ID); err != nil {
		if errors.Is(err, weekplan.ErrNotFound) {
			h.NotFound(w, r, "Lesson plan not found.", "/lessonplans")
			return
		}
		h.ErrLog.LogServerError(w, r, "duplicate lesson week failed", err, weekplan.Message(err), "/lessonplans")
		return
	}
	redirect(w, r, "/lessonplans")
}

// ServeDeleteConfirm asks before deleting; there is no undo.
// GET /lessonplans/{id}/delete
func (h *Handler) ServeDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	c := lessonplanpolicy.FromRequest(r)
	if !c.CanDelete {
		auth.Forbidden(w, r)
		return
	}
	_, wk, ok := h.loadWeek(w, r, c)
	if !ok {
		return
	}
	h.Render(w, r, "lessonplans_delete", deleteData{
		BaseVM:      viewdata.NewBaseVM(r, "Delete lesson plan", "/lessonplans"),
		WeekID:      wk.ID.Hex(),
		ProgramName: wk.Head.ProgramName,
		WeekLabel:   wk.Head.WeekLabel,
	})
}

// HandleDelete removes a stored week. If the editor holds that week, the
// editor copy becomes unsaved so a later save creates a new week.
// POST /lessonplans/{id}/delete
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	c := lessonplanpolicy.FromRequest(r)
	if !c.CanDelete {
		auth.Forbidden(w, r)
		return
	}
	d, err := h.draft(w, r, c)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "open editor draft failed", err, "Could not open your lesson plans.", "/lessonplans")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.NotFound(w, r, "Lesson plan not found.", "/lessonplans")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := d.Planner.Remove(ctx, id); err != nil {
		if errors.Is(err, weekplan.ErrNotFound) {
			h.NotFound(w, r, weekplan.Message(err), "/lessonplans")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete lesson week failed", err, weekplan.Message(err), "/lessonplans")
		return
	}

	d.Lock()
	if d.Model.ID() == id {
		d.Model.Detach()
	}
	d.Unlock()

	redirect(w, r, "/lessonplans")
}
