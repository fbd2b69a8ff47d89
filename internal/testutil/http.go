package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID      string
	Name    string
	LoginID string
	Role    string
}

// SuperAdminUser returns a TestUser with superadmin role.
func SuperAdminUser() TestUser {
	return TestUser{
		ID:      primitive.NewObjectID().Hex(),
		Name:    "Test Superadmin",
		LoginID: "superadmin",
		Role:    "superadmin",
	}
}

// CoordinatorUser returns a TestUser with coordinator role.
func CoordinatorUser() TestUser {
	return TestUser{
		ID:      primitive.NewObjectID().Hex(),
		Name:    "Test Coordinator",
		LoginID: "coordinator",
		Role:    "coordinator",
	}
}

// TeacherUser returns a TestUser with teacher role.
func TeacherUser() TestUser {
	return TestUser{
		ID:      primitive.NewObjectID().Hex(),
		Name:    "Test Teacher",
		LoginID: "teacher",
		Role:    "teacher",
	}
}

// StudentUser returns a TestUser with student role.
func StudentUser() TestUser {
	return TestUser{
		ID:      primitive.NewObjectID().Hex(),
		Name:    "Test Student",
		LoginID: "student",
		Role:    "student",
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:      user.ID,
		Name:    user.Name,
		LoginID: user.LoginID,
		Role:    user.Role,
	})
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}

// NewFormRequest creates a form-encoded request with a user in context.
func NewFormRequest(method, target string, form url.Values, user TestUser) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return WithUser(req, user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t assert.TestingT, expected int) bool {
	return assert.Equal(t, expected, r.Code, "status code")
}

// AssertRedirect checks for a redirect to the expected location.
func (r *ResponseRecorder) AssertRedirect(t assert.TestingT, expectedLocation string) bool {
	ok := assert.Contains(t, []int{http.StatusSeeOther, http.StatusFound, http.StatusMovedPermanently}, r.Code, "redirect status")
	return assert.Equal(t, expectedLocation, r.Header().Get("Location"), "redirect location") && ok
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t assert.TestingT, expected string) bool {
	return assert.Contains(t, r.Body.String(), expected, "response body")
}

// AssertNotContains checks that the response body does not contain s.
func (r *ResponseRecorder) AssertNotContains(t assert.TestingT, s string) bool {
	return assert.NotContains(t, r.Body.String(), s, "response body")
}
