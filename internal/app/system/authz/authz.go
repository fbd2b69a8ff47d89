// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles known to the application.
const (
	RoleSuperAdmin  = "superadmin"
	RoleCoordinator = "coordinator"
	RoleTeacher     = "teacher"
	RoleStudent     = "student"
)

// AllRoles lists every assignable role.
var AllRoles = []string{RoleSuperAdmin, RoleCoordinator, RoleTeacher, RoleStudent}

// IsValidRole reports whether role (any case) is one of AllRoles.
func IsValidRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false. This ensures callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session: fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsSuperAdmin reports whether the current request's user is a superadmin.
func IsSuperAdmin(r *http.Request) bool {
	return HasRole(r, RoleSuperAdmin)
}

// IsCoordinator reports whether the current request's user is a coordinator.
func IsCoordinator(r *http.Request) bool {
	return HasRole(r, RoleCoordinator)
}

// IsStaff reports whether the user is a superadmin or coordinator.
func IsStaff(r *http.Request) bool {
	return HasAnyRole(r, RoleSuperAdmin, RoleCoordinator)
}
