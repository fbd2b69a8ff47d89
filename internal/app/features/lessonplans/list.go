// internal/app/features/lessonplans/list.go
package lessonplans

import (
	"context"
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/policy/lessonplanpolicy"
	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/dalemusser/lessonhub/internal/app/system/drafts"
	"github.com/dalemusser/lessonhub/internal/app/system/normalize"
	"github.com/dalemusser/lessonhub/internal/app/system/paging"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/app/system/viewdata"
	"github.com/dalemusser/lessonhub/internal/app/system/weekplan"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// ServeList shows the saved weeks, newest first, filtered by the q prefix.
// GET /lessonplans
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	c := lessonplanpolicy.FromRequest(r)
	if !c.CanView {
		auth.Forbidden(w, r)
		return
	}
	d, err := h.draft(w, r, c)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "open editor draft failed", err, "Could not open your lesson plans.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	q := normalize.QueryParam(query.Get(r, "q"))
	msg := ""
	if err := d.Planner.Search(ctx, q); err != nil {
		msg = weekplan.Message(err)
	}

	data := h.listData(r, c, d, q, msg)
	if isHTMX(r) && r.Header.Get("HX-Target") == "weeks-table-wrap" {
		h.Snippet(w, "lessonplans_table", data)
		return
	}
	h.Render(w, r, "lessonplans_list", data)
}

// ServeMore appends the next page of saved weeks.
// GET /lessonplans/more?page=N
func (h *Handler) ServeMore(w http.ResponseWriter, r *http.Request) {
	c := lessonplanpolicy.FromRequest(r)
	if !c.CanView {
		auth.Forbidden(w, r)
		return
	}
	d, err := h.draft(w, r, c)
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "open editor draft failed", err, "Could not open your lesson plans.", "/lessonplans")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// Pages are appended in order; the client's page number is advisory.
	if asked, next := paging.ParsePage(r), d.Planner.Page()+1; asked != next {
		h.Log.Debug("stale page requested", zap.Int("asked", asked), zap.Int("next", next))
	}
	msg := ""
	if err := d.Planner.LoadMore(ctx); err != nil {
		msg = weekplan.Message(err)
	}

	data := h.listData(r, c, d, d.Planner.Query(), msg)
	if isHTMX(r) {
		h.Snippet(w, "lessonplans_table", data)
		return
	}
	h.Render(w, r, "lessonplans_list", data)
}

func (h *Handler) listData(r *http.Request, c lessonplanpolicy.Capability, d *drafts.Draft, q, msg string) listData {
	weeks := d.Planner.Weeks()
	items := make([]listItem, 0, len(weeks))
	for _, wk := range weeks {
		items = append(items, toListItem(c, wk))
	}
	total, hasTotal := d.Planner.Total()
	return listData{
		BaseVM:    viewdata.NewBaseVM(r, "Lesson plans", "/dashboard"),
		Q:         q,
		Items:     items,
		Range:     paging.ComputeRange(d.Planner.Page(), len(items), d.Planner.HasMore(), total, hasTotal),
		Message:   msg,
		CanCreate: c.CanEdit,
	}
}
