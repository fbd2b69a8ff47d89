// internal/app/features/systemusers/policy.go
package systemusers

import (
	"net/http"
	"slices"

	"github.com/dalemusser/lessonhub/internal/app/system/authz"
)

// manageable returns the roles the caller may list and register, in the
// order the role picker shows them. Superadmin accounts are only created at
// startup, so no one manages them here.
func manageable(r *http.Request) []string {
	switch {
	case authz.IsSuperAdmin(r):
		return []string{authz.RoleCoordinator, authz.RoleTeacher, authz.RoleStudent}
	case authz.IsCoordinator(r):
		return []string{authz.RoleTeacher}
	}
	return nil
}

// canRegister reports whether the caller may create an account with role.
func canRegister(r *http.Request, role string) bool {
	return slices.Contains(manageable(r), role)
}

// canChange reports whether the caller may edit or disable an account that
// currently has role. Only superadmins change existing accounts.
func canChange(r *http.Request, role string) bool {
	return authz.IsSuperAdmin(r) && canRegister(r, role)
}
