// internal/app/features/lessonplans/save.go
package lessonplans

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/lessonhub/internal/app/system/weekplan"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleSave validates the draft's week and stores it: a create the first
// time, an update after that. The draft stays unlocked while the store call
// is outstanding, so a second save of the same week is turned away by the
// planner instead of queueing behind the lock.
// POST /lessonplans/editor/save
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	_, d, ok := h.editable(w, r)
	if !ok {
		return
	}

	d.Lock()
	m := d.Model
	snap, err := d.Planner.Prepare(m)
	if err != nil {
		var verr *weekgrid.ValidationError
		var pe *weekplan.Error
		if errors.As(err, &pe) {
			verr = pe.Validation()
		}
		data := buildEditor(editorBase(r), d, weekplan.Message(err), verr)
		d.Unlock()
		h.writeEditor(w, r, data)
		return
	}
	d.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	// The identity lands on the model before the planner lets go of the
	// in-flight key, so a second save either waits out ErrInFlight or
	// sees the identity and updates.
	stored, err := d.Planner.Store(ctx, snap, func(stored models.LessonWeek) {
		d.Lock()
		defer d.Unlock()
		// The draft may have moved to another week while we were saving.
		if d.Model == m {
			m.MarkSaved(stored.ID, stored.SavedAt)
		}
	})

	d.Lock()
	msg := "Saved."
	if err != nil {
		msg = weekplan.Message(err)
	}
	data := buildEditor(editorBase(r), d, msg, nil)
	d.Unlock()

	if err == nil {
		h.Log.Info("lesson week saved",
			zap.String("draft_id", d.ID),
			zap.String("week_id", stored.ID.Hex()))
	}
	h.writeEditor(w, r, data)
}
