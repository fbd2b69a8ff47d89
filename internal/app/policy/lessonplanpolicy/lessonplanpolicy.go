// Package lessonplanpolicy decides what each role may do with weekly lesson
// plans. One lesson-plan feature serves every role; the differences live in
// the Capability value built here.
//
// Authorization rules:
//   - Superadmins and coordinators see, edit and delete every week
//   - Teachers see and edit only the weeks they created, and cannot delete
//   - Students and signed-out visitors have no access
package lessonplanpolicy

import (
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/system/authz"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DataScope limits which weeks a role sees.
type DataScope string

const (
	ScopeNone DataScope = "none"
	ScopeOwn  DataScope = "own"
	ScopeAll  DataScope = "all"
)

// Capability is the per-request permission set.
type Capability struct {
	Role      string
	UserID    primitive.ObjectID
	UserName  string
	CanView   bool
	CanEdit   bool
	CanDelete bool
	DataScope DataScope
}

// ForRole returns the capability template for a role.
func ForRole(role string) Capability {
	switch role {
	case authz.RoleSuperAdmin, authz.RoleCoordinator:
		return Capability{Role: role, CanView: true, CanEdit: true, CanDelete: true, DataScope: ScopeAll}
	case authz.RoleTeacher:
		return Capability{Role: role, CanView: true, CanEdit: true, DataScope: ScopeOwn}
	}
	return Capability{Role: role, DataScope: ScopeNone}
}

// FromRequest builds the capability for the signed-in user. Visitors get no access.
func FromRequest(r *http.Request) Capability {
	role, name, id, ok := authz.UserCtx(r)
	if !ok {
		return ForRole("visitor")
	}
	c := ForRole(role)
	c.UserID = id
	c.UserName = name
	return c
}

// Owner returns the creator id that scopes reads and writes, or false when
// the capability sees everything.
func (c Capability) Owner() (primitive.ObjectID, bool) {
	if c.DataScope == ScopeOwn {
		return c.UserID, true
	}
	return primitive.NilObjectID, false
}

// CanSee reports whether w is within the capability's scope.
func (c Capability) CanSee(w models.LessonWeek) bool {
	switch c.DataScope {
	case ScopeAll:
		return c.CanView
	case ScopeOwn:
		return c.CanView && w.CreatedByID != nil && *w.CreatedByID == c.UserID
	}
	return false
}

// CanModify reports whether the capability may edit w.
func (c Capability) CanModify(w models.LessonWeek) bool {
	return c.CanEdit && c.CanSee(w)
}

// CanRemove reports whether the capability may delete w.
func (c Capability) CanRemove(w models.LessonWeek) bool {
	return c.CanDelete && c.CanSee(w)
}
