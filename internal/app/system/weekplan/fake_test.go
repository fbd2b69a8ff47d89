package weekplan

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/lessonhub/internal/domain/models"
)

var errNetwork = errors.New("connection refused")

// fakeColl is an in-memory Collaborator that records calls and can be primed
// to fail or to block inside Create.
type fakeColl struct {
	mu      sync.Mutex
	rows    []models.LessonWeek
	creates []models.LessonWeek
	updates []models.LessonWeek
	deletes []primitive.ObjectID
	lists   []ListQuery

	failCreate error
	failUpdate error
	failDelete error
	failList   error

	entered chan struct{}
	block   chan struct{}
}

func (f *fakeColl) Create(ctx context.Context, w models.LessonWeek) (models.LessonWeek, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, w)
	if f.failCreate != nil {
		return models.LessonWeek{}, f.failCreate
	}
	w.ID = primitive.NewObjectID()
	w.SavedAt = time.Now().UTC()
	f.rows = append([]models.LessonWeek{w}, f.rows...)
	return w, nil
}

func (f *fakeColl) List(ctx context.Context, q ListQuery) ([]models.LessonWeek, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, q)
	if f.failList != nil {
		return nil, f.failList
	}
	start := (q.Page - 1) * q.PageSize
	if start >= len(f.rows) {
		return nil, nil
	}
	end := min(start+q.PageSize, len(f.rows))
	out := make([]models.LessonWeek, end-start)
	copy(out, f.rows[start:end])
	return out, nil
}

func (f *fakeColl) Update(ctx context.Context, id primitive.ObjectID, w models.LessonWeek) (models.LessonWeek, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, w)
	if f.failUpdate != nil {
		return models.LessonWeek{}, f.failUpdate
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			w.ID = id
			w.SavedAt = time.Now().UTC()
			f.rows[i] = w
			return w, nil
		}
	}
	return models.LessonWeek{}, ErrNotFound
}

func (f *fakeColl) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	if f.failDelete != nil {
		return f.failDelete
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeColl) Count(ctx context.Context, query string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeColl) Get(ctx context.Context, id primitive.ObjectID) (models.LessonWeek, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return models.LessonWeek{}, ErrNotFound
}

func (f *fakeColl) Duplicate(ctx context.Context, id primitive.ObjectID) (models.LessonWeek, error) {
	src, err := f.Get(ctx, id)
	if err != nil {
		return models.LessonWeek{}, err
	}
	src.ID = primitive.NilObjectID
	src.Head.WeekLabel += " (copy)"
	return f.Create(ctx, src)
}

func (f *fakeColl) seed(n int) {
	for i := 0; i < n; i++ {
		f.rows = append(f.rows, models.LessonWeek{
			ID:   primitive.NewObjectID(),
			Head: models.WeekHead{ProgramName: "Seed"},
		})
	}
}

// bareColl hides the optional interfaces of fakeColl.
type bareColl struct{ f *fakeColl }

func (b bareColl) Create(ctx context.Context, w models.LessonWeek) (models.LessonWeek, error) {
	return b.f.Create(ctx, w)
}
func (b bareColl) List(ctx context.Context, q ListQuery) ([]models.LessonWeek, error) {
	return b.f.List(ctx, q)
}
func (b bareColl) Update(ctx context.Context, id primitive.ObjectID, w models.LessonWeek) (models.LessonWeek, error) {
	return b.f.Update(ctx, id, w)
}
func (b bareColl) Delete(ctx context.Context, id primitive.ObjectID) error {
	return b.f.Delete(ctx, id)
}
