// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/lessonhub/internal/app/features/errors"
	loginstore "github.com/dalemusser/lessonhub/internal/app/store/logins"
	userstore "github.com/dalemusser/lessonhub/internal/app/store/users"
	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/dalemusser/lessonhub/internal/app/system/drafts"
	"github.com/dalemusser/lessonhub/internal/app/system/normalize"
	"github.com/dalemusser/lessonhub/internal/app/system/timeouts"
	"github.com/dalemusser/lessonhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Users      *userstore.Store
	Logins     *loginstore.Store
	Drafts     *drafts.Registry
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	LoginID   string // What the user typed
	ReturnURL string
}

// loginForm is the posted form after trimming.
type loginForm struct {
	LoginID  string `validate:"required,max=254"`
	Password string `validate:"required,max=128"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, reg *drafts.Registry, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Users:      userstore.New(db),
		Logins:     loginstore.New(db),
		Drafts:     reg,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in: nothing to do here.
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(query.Get(r, "return"), "", "/dashboard"), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	form := loginForm{
		LoginID:  strings.TrimSpace(r.FormValue("login_id")),
		Password: r.FormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		msg := "Please enter your login ID and password."
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 && ve[0].Tag() == "max" {
			msg = "Login ID or password is too long."
		}
		h.renderFormWithError(w, r, msg, form.LoginID)
		return
	}

	/*── look-up and verify (login_id_ci, case/diacritic-insensitive) ──────*/

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, normalize.LoginID(form.LoginID), form.Password)
	switch {
	case errors.Is(err, userstore.ErrBadCredentials):
		h.Log.Info("login rejected", zap.String("login_id", form.LoginID))
		h.renderFormWithError(w, r, "Login ID or password is incorrect.", form.LoginID)
		return
	case errors.Is(err, userstore.ErrDisabled):
		h.Log.Info("login for disabled account", zap.String("login_id", form.LoginID))
		h.renderFormWithError(w, r, "This account has been disabled. Please contact a coordinator.", form.LoginID)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "database error authenticating user", err, "A database error occurred.", "/login")
		return
	}

	// A draft from an earlier sign-in in this browser belongs to that session.
	if old := h.SessionMgr.DraftID(r); old != "" && h.Drafts != nil {
		h.Drafts.Drop(old)
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.FullName,
		LoginID: u.LoginID,
		Role:    u.Role,
	}); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("login_id", u.LoginID))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", form.LoginID)
		return
	}

	// Sign-in history is best effort; a failed insert never blocks the login.
	if err := h.Logins.RecordFrom(ctx, r, *u); err != nil {
		h.Log.Warn("record login failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}

	h.Log.Info("user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.String("role", u.Role))

	dest := urlutil.SafeReturn(r.FormValue("return"), "", "/dashboard")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, loginID string) {
	// From POST, "return" will be in the form; from GET, we might rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:     msg,
		LoginID:   loginID,
		ReturnURL: ret,
	})
}
