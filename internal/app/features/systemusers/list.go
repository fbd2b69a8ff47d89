// internal/app/features/systemusers/list.go
package systemusers

import (
	"context"
	"net/http"

	userstore "github.com/dalemusser/lessonhub/internal/app/store/users"
	"github.com/dalemusser/lessonhub/internal/app/system/normalize"
	"github.com/dalemusser/lessonhub/internal/app/system/paging"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeList handles GET /system-users.
//
// It lists the accounts the caller manages, sorted by name, with a prefix
// search over name and login ID and a per-role count.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	roles, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	page := paging.ParsePage(r)
	q := userstore.ListQuery{
		Roles:    roles,
		Query:    normalize.QueryParam(query.Get(r, "q")),
		Page:     page,
		PageSize: h.PageSize,
	}

	users, err := h.Users.List(ctx, q)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing users", err, "A database error occurred.", "/dashboard")
		return
	}
	total, err := h.Users.Count(ctx, q)
	hasTotal := err == nil
	if err != nil {
		h.Log.Warn("user count failed", zap.Error(err))
	}

	counts := make([]roleCount, 0, len(roles))
	for _, role := range roles {
		n, err := h.Users.CountByRole(ctx, role)
		if err != nil {
			h.Log.Warn("role count failed", zap.String("role", role), zap.Error(err))
			continue
		}
		counts = append(counts, roleCount{Role: role, Count: n})
	}

	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{
			ID:        u.ID.Hex(),
			FullName:  u.FullName,
			LoginID:   u.LoginID,
			Role:      normalize.Role(u.Role),
			Status:    statusOf(u.Status),
			CanChange: canChange(r, u.Role),
		})
	}

	templates.Render(w, r, "system_users_list", listData{
		BaseVM:   viewdata.NewBaseVM(r, "Accounts", "/dashboard"),
		Q:        q.Query,
		Rows:     rows,
		Counts:   counts,
		Range:    paging.ComputeRange(page, len(rows), len(rows) == h.PageSize, total, hasTotal),
		Page:     page,
		PrevPage: page - 1,
		Flash:    flashFor(query.Get(r, "done")),
	})
}

func statusOf(s string) string {
	if s = normalize.Status(s); s == "" {
		return userstore.StatusActive
	}
	return s
}

// flashFor maps the ?done= marker a write redirects with to a message.
func flashFor(done string) string {
	switch done {
	case "created":
		return "Account created."
	case "updated":
		return "Account updated."
	case "disabled":
		return "Account disabled."
	case "enabled":
		return "Account enabled."
	}
	return ""
}
