package lessonweekstore_test

import (
	"testing"
	"time"

	lessonweekstore "github.com/dalemusser/lessonhub/internal/app/store/lessonweeks"
	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/lessonhub/internal/app/system/weekplan"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/lessonhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newWeek(t *testing.T, program, label string) models.LessonWeek {
	t.Helper()
	m, err := weekgrid.New(weekgrid.DefaultConfig())
	require.NoError(t, err)
	m.Header.ProgramName = program
	m.Header.WeekLabel = label
	return m.ToSnapshot()
}

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	actor := lessonweekstore.Actor{ID: primitive.NewObjectID(), Name: "Asma Khan"}
	store := lessonweekstore.New(db).As(actor)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	w := newWeek(t, "InterTech", "Week 1")
	w.Cells[2].Text = "Dosage Calculation"

	created, err := store.Create(ctx, w)
	require.NoError(t, err)
	assert.NotEqual(t, primitive.NilObjectID, created.ID)
	assert.False(t, created.SavedAt.IsZero(), "SavedAt set")
	assert.Equal(t, "intertech", created.ProgramNameCI)
	require.NotNil(t, created.CreatedByID)
	assert.Equal(t, actor.ID, *created.CreatedByID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Cells, 10)
	assert.Equal(t, "Dosage Calculation", got.Cells[2].Text)
	assert.Equal(t, "2025-08-16", got.Head.StartDate)
	assert.Equal(t, "2025-08-17", got.Head.EndDate)
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := lessonweekstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, newWeek(t, "  ", "Week 1"))
	var ve *weekgrid.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Field(weekgrid.FieldProgramName))

	w := newWeek(t, "InterTech", "Week 1")
	w.Cells = w.Cells[:3]
	_, err = store.Create(ctx, w)
	assert.ErrorIs(t, err, lessonweekstore.ErrShape)
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := lessonweekstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newWeek(t, "InterTech", "Week 1"))
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	w := created
	w.Head.WeekLabel = "Week 2"
	w.Cells[7].Text = "Revision"
	updated, err := store.Update(ctx, created.ID, w)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "update keeps the ID")
	assert.Equal(t, "Week 2", updated.Head.WeekLabel)
	assert.Equal(t, "week 2", updated.WeekLabelCI)
	assert.Equal(t, "Revision", updated.Cells[7].Text)
	assert.True(t, updated.SavedAt.After(created.SavedAt), "SavedAt advances")

	n, err := db.Collection(lessonweekstore.Collection).CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestStore_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := lessonweekstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Update(ctx, primitive.NewObjectID(), newWeek(t, "InterTech", "Week 1"))
	assert.ErrorIs(t, err, lessonweekstore.ErrNotFound)
	assert.ErrorIs(t, err, weekplan.ErrNotFound, "store misses match the planner's sentinel")
}

func TestStore_Delete_Soft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := lessonweekstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newWeek(t, "InterTech", "Week 1"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err = store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, lessonweekstore.ErrNotFound, "Get after delete")
	assert.ErrorIs(t, store.Delete(ctx, created.ID), lessonweekstore.ErrNotFound, "second Delete")
	_, err = store.Update(ctx, created.ID, created)
	assert.ErrorIs(t, err, lessonweekstore.ErrNotFound, "Update after delete")

	// The document is still there, just marked.
	var raw models.LessonWeek
	require.NoError(t, db.Collection(lessonweekstore.Collection).FindOne(ctx, bson.M{"_id": created.ID}).Decode(&raw))
	assert.True(t, raw.IsDeleted(), "deleted_at set")
}

func TestStore_List_OrderAndPaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := lessonweekstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var ids []primitive.ObjectID
	for _, label := range []string{"Week 1", "Week 2", "Week 3"} {
		w, err := store.Create(ctx, newWeek(t, "InterTech", label))
		require.NoError(t, err)
		ids = append(ids, w.ID)
		time.Sleep(2 * time.Millisecond)
	}

	page1, err := store.List(ctx, weekplan.ListQuery{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, ids[2], page1[0].ID, "newest save first")
	assert.Equal(t, ids[1], page1[1].ID)

	page2, err := store.List(ctx, weekplan.ListQuery{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, ids[0], page2[0].ID)

	total, err := store.Count(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestStore_List_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	store := lessonweekstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f.CreateLessonWeek(ctx, "InterTech", "Week 1", nil)
	f.CreateLessonWeek(ctx, "Nursing Basics", "Week 1", nil)
	f.CreateLessonWeek(ctx, "Pharmacy", "Revision Week", nil)

	got, err := store.List(ctx, weekplan.ListQuery{Page: 1, PageSize: 10, Query: "INTER"})
	require.NoError(t, err)
	require.Len(t, got, 1, "program search")
	assert.Equal(t, "InterTech", got[0].Head.ProgramName)

	got, err = store.List(ctx, weekplan.ListQuery{Page: 1, PageSize: 10, Query: "revision"})
	require.NoError(t, err)
	require.Len(t, got, 1, "label search")
	assert.Equal(t, "Pharmacy", got[0].Head.ProgramName)

	// Every fixture shares the institute.
	n, err := store.Count(ctx, "islamabad")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestStore_WithOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateTeacher(ctx, "Alice", "alice")
	bob := f.CreateTeacher(ctx, "Bob", "bob")
	mine := f.CreateLessonWeek(ctx, "InterTech", "Week 1", &alice.ID)
	theirs := f.CreateLessonWeek(ctx, "InterTech", "Week 2", &bob.ID)

	own := lessonweekstore.New(db).WithOwner(alice.ID)

	rows, err := own.List(ctx, weekplan.ListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].ID)

	_, err = own.Get(ctx, theirs.ID)
	assert.ErrorIs(t, err, lessonweekstore.ErrNotFound, "Get outside scope")
	assert.ErrorIs(t, own.Delete(ctx, theirs.ID), lessonweekstore.ErrNotFound, "Delete outside scope")

	created, err := own.Create(ctx, newWeek(t, "InterTech", "Week 3"))
	require.NoError(t, err)
	require.NotNil(t, created.CreatedByID)
	assert.Equal(t, alice.ID, *created.CreatedByID, "owner-scoped create records the owner")

	n, err := own.Count(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestStore_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := lessonweekstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	src := newWeek(t, "InterTech", "Week 4")
	src.Cells[0].Text = "Intro"
	created, err := store.Create(ctx, src)
	require.NoError(t, err)

	cp, err := store.Duplicate(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, cp.ID, "duplicate gets a new ID")
	assert.Equal(t, "Week 4 (copy)", cp.Head.WeekLabel)
	assert.Equal(t, "Intro", cp.Cells[0].Text)

	_, err = store.Duplicate(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, lessonweekstore.ErrNotFound)
}

func TestStore_DrivesPlanner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := weekplan.New(lessonweekstore.New(db), 10, nil)
	m, err := weekgrid.New(weekgrid.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, m.SetCellText(2, "Dosage Calculation"))

	stored, err := p.Save(ctx, m)
	require.NoError(t, err)
	require.NoError(t, p.Refresh(ctx))
	weeks := p.Weeks()
	require.Len(t, weeks, 1)
	assert.Equal(t, stored.ID, weeks[0].ID)
	total, ok := p.Total()
	assert.True(t, ok)
	assert.EqualValues(t, 1, total)

	require.NoError(t, p.Remove(ctx, stored.ID))
	assert.ErrorIs(t, p.Remove(ctx, stored.ID), weekplan.ErrNotFound, "second Remove")
}
