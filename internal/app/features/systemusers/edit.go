// internal/app/features/systemusers/edit.go
package systemusers

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/lessonhub/internal/app/features/errors"
	userstore "github.com/dalemusser/lessonhub/internal/app/store/users"
	"github.com/dalemusser/lessonhub/internal/app/system/authz"
	"github.com/dalemusser/lessonhub/internal/app/system/normalize"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// editInput defines validation rules for editing an account.
type editInput struct {
	FullName string `validate:"required,max=200"`
	Role     string `validate:"required"`
}

// loadTarget resolves {id} to an account the caller may change. It answers
// the request itself when it returns false.
func (h *Handler) loadTarget(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	if _, ok := h.requireManager(w, r); !ok {
		return nil, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Account not found.", listURL)
		return nil, false
	}
	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.RenderNotFound(w, r, "Account not found.", listURL)
		return nil, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading user", err, "A database error occurred.", listURL)
		return nil, false
	}
	if !canChange(r, u.Role) {
		h.ErrLog.LogForbidden(w, r, "change user denied", "You cannot change this account.", listURL)
		return nil, false
	}
	return u, true
}

// ServeEdit renders the Edit account form.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}
	renderForm(w, r, http.StatusOK, formData{
		IsEdit:   true,
		ID:       u.ID.Hex(),
		FullName: u.FullName,
		LoginID:  u.LoginID,
		Role:     normalize.Role(u.Role),
		Status:   statusOf(u.Status),
	})
}

// HandleEdit processes the Edit account form POST. The new role must also
// be one the caller manages.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", listURL)
		return
	}

	in := editInput{
		FullName: normalize.Name(r.FormValue("full_name")),
		Role:     normalize.Role(r.FormValue("role")),
	}
	reRender := func(status int, msg string) {
		renderForm(w, r, status, formData{
			IsEdit:   true,
			ID:       u.ID.Hex(),
			FullName: in.FullName,
			LoginID:  u.LoginID,
			Role:     in.Role,
			Status:   statusOf(u.Status),
			Error:    msg,
		})
	}

	if err := validate.Struct(in); err != nil {
		reRender(http.StatusUnprocessableEntity, firstProblem(err))
		return
	}
	if !canRegister(r, in.Role) {
		h.ErrLog.LogForbidden(w, r, "change role denied", "You cannot give an account that role.", listURL)
		return
	}

	err := h.Users.Update(ctx, u.ID, userstore.UpdateInput{FullName: in.FullName, Role: in.Role})
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.RenderNotFound(w, r, "Account not found.", listURL)
		return
	}
	if err != nil {
		h.Log.Error("failed to update user", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		reRender(http.StatusInternalServerError, "Database error while updating the account.")
		return
	}

	h.Log.Info("user updated",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", in.Role))
	http.Redirect(w, r, listURL+"?done=updated", http.StatusSeeOther)
}

// HandleStatus enables or disables an account. A disabled account can no
// longer sign in; its saved lesson weeks stay.
// POST /system-users/{id}/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}
	status := normalize.Status(r.PostFormValue("status"))
	if status != userstore.StatusActive && status != userstore.StatusDisabled {
		h.ErrLog.LogBadRequest(w, r, "bad status", nil, "Unknown account status.", listURL)
		return
	}

	if err := h.Users.SetStatus(ctx, u.ID, status); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "Account not found.", listURL)
			return
		}
		h.ErrLog.LogServerError(w, r, "database error setting status", err, "A database error occurred.", listURL)
		return
	}

	_, _, by, _ := authz.UserCtx(r)
	h.Log.Info("user status changed",
		zap.String("user_id", u.ID.Hex()),
		zap.String("status", status),
		zap.String("by", by.Hex()))

	done := "enabled"
	if status == userstore.StatusDisabled {
		done = "disabled"
	}
	http.Redirect(w, r, listURL+"?done="+done, http.StatusSeeOther)
}
