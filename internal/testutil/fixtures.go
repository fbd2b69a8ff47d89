package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user without a password hash. Use the user
// store when a test needs to sign in.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, loginID, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		LoginID:    loginID,
		LoginIDCI:  text.Fold(loginID),
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	require.NoError(f.t, err, "create test user")
	return user
}

// CreateTeacher creates a test teacher.
func (f *Fixtures) CreateTeacher(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, loginID, "teacher")
}

// CreateCoordinator creates a test coordinator.
func (f *Fixtures) CreateCoordinator(ctx context.Context, fullName, loginID string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, loginID, "coordinator")
}

// CreateLessonWeek inserts a saved week with the default header, five slots
// per day and the given cell texts (missing cells are blank). creator may be
// nil.
func (f *Fixtures) CreateLessonWeek(ctx context.Context, programName, weekLabel string, creator *primitive.ObjectID, cells ...string) models.LessonWeek {
	f.t.Helper()

	sat := []string{"1500-1600", "1600-1700", "1700-1800", "1800-1900", "1900-2000"}
	sun := []string{"0900-1000", "1000-1100", "1100-1200", "1200-1300", "1300-1400"}
	lc := make([]models.LessonCell, len(sat)+len(sun))
	for i := range lc {
		if i < len(cells) {
			lc[i].Text = cells[i]
		}
	}

	now := time.Now().UTC()
	w := models.LessonWeek{
		ID: primitive.NewObjectID(),
		Head: models.WeekHead{
			City:        "Islamabad",
			Institute:   "Islamabad Campus 1",
			ProgramName: programName,
			WeekLabel:   weekLabel,
			BannerTitle: "Weekly Lesson Plan",
			StartDate:   "2025-08-16",
			EndDate:     "2025-08-17",
		},
		SatSlots:      sat,
		SunSlots:      sun,
		Cells:         lc,
		ProgramNameCI: text.Fold(programName),
		InstituteCI:   text.Fold("Islamabad Campus 1"),
		WeekLabelCI:   text.Fold(weekLabel),
		CreatedByID:   creator,
		SavedAt:       now,
		CreatedAt:     now,
		UpdatedAt:     &now,
	}

	_, err := f.db.Collection("lesson_weeks").InsertOne(ctx, w)
	require.NoError(f.t, err, "create test lesson week")
	return w
}
