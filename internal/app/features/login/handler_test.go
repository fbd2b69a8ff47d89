package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/lessonhub/internal/app/features/errors"
	"github.com/dalemusser/lessonhub/internal/app/features/login"
	userstore "github.com/dalemusser/lessonhub/internal/app/store/users"
	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"github.com/dalemusser/lessonhub/internal/app/system/drafts"
	"github.com/dalemusser/lessonhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "correct horse battery"

func newTestHandler(t *testing.T) *login.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	// Create a session manager for testing (dev mode, weak key allowed)
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", time.Hour, false, logger)
	require.NoError(t, err)

	return login.NewHandler(db, sessionMgr, drafts.NewRegistry(), errLog, logger)
}

func createUser(t *testing.T, h *login.Handler, loginID, status string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	_, err := h.Users.Create(ctx, userstore.CreateInput{
		FullName: "Test Teacher",
		LoginID:  loginID,
		Password: testPassword,
		Role:     "teacher",
		Status:   status,
	})
	require.NoError(t, err)
}

// postLogin submits the form. Failure paths render the login page, which
// answers 500 after the status is set when no template engine is booted;
// the status and cookies are what these tests check.
func postLogin(h *login.Handler, form url.Values) *testutil.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := testutil.NewRecorder()
	h.HandleLoginPost(rec, req)
	return rec
}

func hasSessionCookie(rec *testutil.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.Value != "" {
			return true
		}
	}
	return false
}

func TestHandleLoginPost_Success(t *testing.T) {
	h := newTestHandler(t)
	createUser(t, h, "teacher1", "active")

	rec := postLogin(h, url.Values{"login_id": {"teacher1"}, "password": {testPassword}})

	rec.AssertRedirect(t, "/dashboard")
	assert.True(t, hasSessionCookie(rec), "session cookie is set")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	u, err := h.Users.GetByLoginID(ctx, "teacher1")
	require.NoError(t, err)
	recs, err := h.Logins.Last(ctx, *u, 5)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	h := newTestHandler(t)
	createUser(t, h, "teacher1", "active")

	rec := postLogin(h, url.Values{
		"login_id": {"teacher1"},
		"password": {testPassword},
		"return":   {"/lessonplans"},
	})
	rec.AssertRedirect(t, "/lessonplans")
}

func TestHandleLoginPost_CaseInsensitiveLoginID(t *testing.T) {
	h := newTestHandler(t)
	createUser(t, h, "teacher1", "active")

	rec := postLogin(h, url.Values{"login_id": {"  TEACHER1 "}, "password": {testPassword}})
	rec.AssertStatus(t, http.StatusSeeOther)
}

func TestHandleLoginPost_Rejected(t *testing.T) {
	h := newTestHandler(t)
	createUser(t, h, "teacher1", "active")
	createUser(t, h, "gone", "disabled")

	tests := []struct {
		name string
		form url.Values
	}{
		{"wrong password", url.Values{"login_id": {"teacher1"}, "password": {"nope"}}},
		{"unknown user", url.Values{"login_id": {"nobody"}, "password": {testPassword}}},
		{"empty login id", url.Values{"login_id": {""}, "password": {testPassword}}},
		{"empty password", url.Values{"login_id": {"teacher1"}}},
		{"disabled user", url.Values{"login_id": {"gone"}, "password": {testPassword}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postLogin(h, tt.form)
			rec.AssertStatus(t, http.StatusUnauthorized)
			assert.Empty(t, rec.Header().Get("Location"))
			assert.False(t, hasSessionCookie(rec), "no session cookie")
		})
	}
}
