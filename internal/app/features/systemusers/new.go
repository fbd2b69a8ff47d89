// internal/app/features/systemusers/new.go
package systemusers

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/lessonhub/internal/app/store/users"
	"github.com/dalemusser/lessonhub/internal/app/system/authz"
	"github.com/dalemusser/lessonhub/internal/app/system/normalize"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// createInput defines validation rules for registering an account.
type createInput struct {
	FullName string `validate:"required,max=200"`
	LoginID  string `validate:"required,max=254"`
	Password string `validate:"required,min=6,max=128"`
	Role     string `validate:"required"`
}

// ServeNew renders the "Add account" form. Coordinators only see the
// teacher role.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	roles, ok := h.requireManager(w, r)
	if !ok {
		return
	}
	role := authz.RoleTeacher
	if len(roles) == 1 {
		role = roles[0]
	}
	renderForm(w, r, http.StatusOK, formData{Role: role, Status: userstore.StatusActive})
}

// HandleCreate processes the Add account form POST.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireManager(w, r); !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", listURL)
		return
	}

	in := createInput{
		FullName: normalize.Name(r.FormValue("full_name")),
		LoginID:  normalize.LoginID(r.FormValue("login_id")),
		Password: r.FormValue("password"),
		Role:     normalize.Role(r.FormValue("role")),
	}
	reRender := func(status int, msg string) {
		renderForm(w, r, status, formData{
			FullName: in.FullName,
			LoginID:  in.LoginID,
			Role:     in.Role,
			Status:   userstore.StatusActive,
			Error:    msg,
		})
	}

	if err := validate.Struct(in); err != nil {
		reRender(http.StatusUnprocessableEntity, firstProblem(err))
		return
	}
	if !canRegister(r, in.Role) {
		h.ErrLog.LogForbidden(w, r, "register role denied", "You cannot create "+in.Role+" accounts.", listURL)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, userstore.CreateInput{
		FullName: in.FullName,
		LoginID:  in.LoginID,
		Password: in.Password,
		Role:     in.Role,
		Status:   userstore.StatusActive,
	})
	if errors.Is(err, userstore.ErrDuplicateLoginID) {
		reRender(http.StatusConflict, "That login ID is already taken.")
		return
	}
	if err != nil {
		h.Log.Error("failed to create user",
			zap.Error(err),
			zap.String("role", in.Role),
			zap.String("login_id", in.LoginID))
		reRender(http.StatusInternalServerError, "Database error while creating the account.")
		return
	}

	_, _, by, _ := authz.UserCtx(r)
	h.Log.Info("user registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role),
		zap.String("by", by.Hex()))
	http.Redirect(w, r, listURL+"?done=created", http.StatusSeeOther)
}
