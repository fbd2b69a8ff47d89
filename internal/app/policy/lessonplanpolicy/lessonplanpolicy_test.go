package lessonplanpolicy_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/lessonhub/internal/app/policy/lessonplanpolicy"
	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestForRole(t *testing.T) {
	tests := []struct {
		role            string
		view, edit, del bool
		scope           lessonplanpolicy.DataScope
	}{
		{"superadmin", true, true, true, lessonplanpolicy.ScopeAll},
		{"coordinator", true, true, true, lessonplanpolicy.ScopeAll},
		{"teacher", true, true, false, lessonplanpolicy.ScopeOwn},
		{"student", false, false, false, lessonplanpolicy.ScopeNone},
		{"visitor", false, false, false, lessonplanpolicy.ScopeNone},
	}
	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			c := lessonplanpolicy.ForRole(tc.role)
			assert.Equal(t, tc.view, c.CanView, "CanView")
			assert.Equal(t, tc.edit, c.CanEdit, "CanEdit")
			assert.Equal(t, tc.del, c.CanDelete, "CanDelete")
			assert.Equal(t, tc.scope, c.DataScope)
		})
	}
}

func TestFromRequest_TeacherOwnsScope(t *testing.T) {
	me := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/lessonplans", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: me.Hex(), Name: "Bilal", Role: "teacher"})

	c := lessonplanpolicy.FromRequest(req)
	owner, scoped := c.Owner()
	require.True(t, scoped)
	require.Equal(t, me, owner)

	mine := models.LessonWeek{CreatedByID: &me}
	other := primitive.NewObjectID()
	theirs := models.LessonWeek{CreatedByID: &other}

	assert.True(t, c.CanSee(mine), "teacher sees own week")
	assert.True(t, c.CanModify(mine), "teacher edits own week")
	assert.False(t, c.CanRemove(mine), "teacher cannot delete")
	assert.False(t, c.CanSee(theirs), "teacher does not see other weeks")
	assert.False(t, c.CanSee(models.LessonWeek{}), "weeks without a creator are hidden from teachers")
}

func TestFromRequest_CoordinatorSeesAll(t *testing.T) {
	req := httptest.NewRequest("GET", "/lessonplans", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: "coordinator"})

	c := lessonplanpolicy.FromRequest(req)
	_, scoped := c.Owner()
	assert.False(t, scoped, "coordinator is not owner-scoped")

	other := primitive.NewObjectID()
	w := models.LessonWeek{CreatedByID: &other}
	assert.True(t, c.CanSee(w))
	assert.True(t, c.CanModify(w))
	assert.True(t, c.CanRemove(w))
}

func TestFromRequest_Visitor(t *testing.T) {
	c := lessonplanpolicy.FromRequest(httptest.NewRequest("GET", "/", nil))
	assert.False(t, c.CanView)
	assert.False(t, c.CanSee(models.LessonWeek{}))
}
