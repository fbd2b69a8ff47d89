// internal/app/features/lessonplans/editor.go
package lessonplans

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/lessonhub/internal/app/policy/lessonplanpolicy"
	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/dalemusser/lessonhub/internal/app/system/drafts"
	"github.com/dalemusser/lessonhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/app/system/viewdata"
	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/lessonhub/internal/app/system/weekplan"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const editorPath = "/lessonplans/editor"

var errBadDay = errors.New("unknown day")

func editorBase(r *http.Request) viewdata.BaseVM {
	return viewdata.NewBaseVM(r, "Weekly lesson plan", "/lessonplans")
}

// editorMessage turns a grid or planner error into text for the editor.
func editorMessage(err error) string {
	switch {
	case errors.Is(err, errBadDay):
		return "Pick Saturday or Sunday."
	case errors.Is(err, weekgrid.ErrOutOfRange):
		return "That cell is not on the grid."
	case errors.Is(err, weekgrid.ErrInvalidTime):
		return "Start time must look like 15:00."
	case errors.Is(err, weekgrid.ErrCrossesMidnight):
		return "Those slots would run past midnight. Pick an earlier start time."
	case errors.Is(err, weekgrid.ErrUnknownField):
		return "That header field does not exist."
	}
	return weekplan.Message(err)
}

// writeEditor answers an editor request: the body partial for HTMX, the full
// page for GETs and for posts that carry a message, a redirect otherwise.
func (h *Handler) writeEditor(w http.ResponseWriter, r *http.Request, data editorData) {
	switch {
	case isHTMX(r):
		h.Snippet(w, "lessonplans_editor_body", data)
	case r.Method == http.MethodGet || data.Message != "":
		h.Render(w, r, "lessonplans_editor", data)
	default:
		http.Redirect(w, r, editorPath, http.StatusSeeOther)
	}
}

// editable resolves the capability and draft for an editor request.
func (h *Handler) editable(w http.ResponseWriter, r *http.Request) (lessonplanpolicy.Capability, *drafts.Draft, bool) {
	c := lessonplanpolicy.FromRequest(r)
	if !c.CanEdit {
		auth.Forbidden(w, r)
		return c, nil, false
	}
	d, err := h.draft(w, r, c)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "open editor draft failed", err, "Could not open the editor.", "/lessonplans")
		return c, nil, false
	}
	return c, d, true
}

// mutate runs fn against the locked draft and answers with the editor.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(d *drafts.Draft) error) {
	_, d, ok := h.editable(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.HTMXLogBadRequest(w, r, "parse form failed", err, "Invalid form data.", editorPath)
		return
	}

	d.Lock()
	msg := ""
	if err := fn(d); err != nil {
		msg = editorMessage(err)
	}
	data := buildEditor(editorBase(r), d, msg, nil)
	d.Unlock()

	h.writeEditor(w, r, data)
}

func cellIndex(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "index"))
}

// ServeNew starts a fresh, unsaved week in the draft.
// GET /lessonplans/new
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.editable(w, r)
	if !ok {
		return
	}
	m, err := weekgrid.New(h.GridCfg)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "new grid failed", err, "Could not start a new lesson plan.", "/lessonplans")
		return
	}

	d.Lock()
	d.Reset(m)
	data := buildEditor(editorBase(r), d, "", nil)
	d.Unlock()

	h.writeEditor(w, r, data)
}

// ServeEdit loads a stored week into the draft.
// GET /lessonplans/{id}/edit
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	c, d, ok := h.editable(w, r)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.NotFound(w, r, "Lesson plan not found.", "/lessonplans")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	wk, err := d.Planner.Get(ctx, id)
	if errors.Is(err, weekplan.ErrNotFound) {
		h.NotFound(w, r, "Lesson plan not found.", "/lessonplans")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load lesson week failed", err, weekplan.Message(err), "/lessonplans")
		return
	}
	if !c.CanModify(wk) {
		auth.Forbidden(w, r)
		return
	}

	m := weekgrid.FromSnapshot(wk, h.GridCfg)
	d.Lock()
	d.Reset(m)
	data := buildEditor(editorBase(r), d, "", nil)
	d.Unlock()

	h.Log.Debug("lesson week loaded into editor",
		zap.String("draft_id", d.ID),
		zap.String("week_id", id.Hex()))
	h.writeEditor(w, r, data)
}

// ServeEditor shows the draft as it stands.
// GET /lessonplans/editor
func (h *Handler) ServeEditor(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.editable(w, r)
	if !ok {
		return
	}
	d.Lock()
	data := buildEditor(editorBase(r), d, "", nil)
	d.Unlock()
	h.writeEditor(w, r, data)
}

// HandleHeader sets the header fields present in the form. Markup is
// stripped; absent fields keep their value.
// POST /lessonplans/editor/header
func (h *Handler) HandleHeader(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(d *drafts.Draft) error {
		for _, f := range weekgrid.HeaderFields {
			vals, ok := r.PostForm[string(f)]
			if !ok || len(vals) == 0 {
				continue
			}
			if err := d.Model.SetHeaderField(f, htmlsanitize.Line(vals[0])); err != nil {
				return err
			}
		}
		return nil
	})
}

// HandleSlots regenerates one day's time slots from a new start time.
// POST /lessonplans/editor/slots
func (h *Handler) HandleSlots(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(d *drafts.Draft) error {
		day, err := weekgrid.ParseDay(r.PostFormValue("day"))
		if err != nil {
			return errBadDay
		}
		return d.Model.RegenerateSlots(day, r.PostFormValue("start"))
	})
}

// HandleSelect puts a cell into edit mode.
// POST /lessonplans/editor/cells/{index}/select
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(d *drafts.Draft) error {
		i, err := cellIndex(r)
		if err != nil {
			return weekgrid.ErrOutOfRange
		}
		return d.Session.Select(i)
	})
}

// HandleCommit writes a cell's text. With blur=1 the cell also leaves edit mode.
// POST /lessonplans/editor/cells/{index}
func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(d *drafts.Draft) error {
		i, err := cellIndex(r)
		if err != nil {
			return weekgrid.ErrOutOfRange
		}
		if err := d.Session.Commit(i, htmlsanitize.PlainText(r.PostFormValue("text"))); err != nil {
			return err
		}
		if r.PostFormValue("blur") == "1" {
			d.Session.Blur()
		}
		return nil
	})
}

// HandleBlur leaves edit mode, keeping what was typed.
// POST /lessonplans/editor/blur
func (h *Handler) HandleBlur(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(d *drafts.Draft) error {
		d.Session.Blur()
		return nil
	})
}

// HandleCancel leaves edit mode and restores the cell's earlier text.
// POST /lessonplans/editor/cancel
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(d *drafts.Draft) error {
		d.Session.Cancel()
		return nil
	})
}
