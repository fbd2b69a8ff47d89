// internal/app/features/systemusers/helpers.go
package systemusers

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lessonhub/internal/app/system/authz"
	"github.com/dalemusser/lessonhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-playground/validator/v10"
)

const listURL = "/system-users"

var validate = validator.New(validator.WithRequiredStructEnabled())

// requireManager returns the roles the caller manages. RequireRole in
// routes.go already limits the mount to staff; this keeps the handlers safe
// when mounted elsewhere.
func (h *Handler) requireManager(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	if !authz.IsStaff(r) {
		h.ErrLog.LogForbidden(w, r, "system users denied", "You do not have access to accounts.", "/dashboard")
		return nil, false
	}
	return manageable(r), true
}

// roleOptions builds the role picker for the caller with selected checked.
func roleOptions(r *http.Request, selected string) []roleOption {
	roles := manageable(r)
	opts := make([]roleOption, 0, len(roles))
	for _, role := range roles {
		opts = append(opts, roleOption{
			Value:    role,
			Label:    strings.ToUpper(role[:1]) + role[1:],
			Selected: role == selected,
		})
	}
	return opts
}

func renderForm(w http.ResponseWriter, r *http.Request, status int, data formData) {
	title := "Add account"
	if data.IsEdit {
		title = "Edit account"
	}
	data.BaseVM = viewdata.NewBaseVM(r, title, listURL)
	data.Roles = roleOptions(r, data.Role)
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "system_users_form", data)
}

// firstProblem turns the first validation failure into form text.
func firstProblem(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Please check the form."
	}
	fe := ve[0]
	label := map[string]string{
		"FullName": "Full name",
		"LoginID":  "Login ID",
		"Password": "Password",
		"Role":     "Role",
	}[fe.Field()]
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "min":
		return label + " must be at least " + fe.Param() + " characters."
	case "max":
		return label + " must be at most " + fe.Param() + " characters."
	}
	return label + " is not valid."
}
