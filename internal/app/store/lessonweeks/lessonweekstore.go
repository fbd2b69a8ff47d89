// internal/app/store/lessonweeks/lessonweekstore.go
package lessonweekstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/lessonhub/internal/app/system/weekplan"
	"github.com/dalemusser/lessonhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection that holds lesson weeks.
const Collection = "lesson_weeks"

// ErrNotFound is weekplan.ErrNotFound so the planner can classify store misses
// without knowing about Mongo.
var ErrNotFound = weekplan.ErrNotFound

// ErrShape is returned when a week's cell count does not match its slots.
var ErrShape = errors.New("cell count does not match slot count")

// Actor is the signed-in user a write is attributed to.
type Actor struct {
	ID   primitive.ObjectID
	Name string
}

// Store reads and writes lesson weeks. A Store may be scoped to one owner, in
// which case every read and write only sees weeks that owner created.
type Store struct {
	c     *mongo.Collection
	owner *primitive.ObjectID
	actor *Actor
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// WithOwner returns a copy of the store limited to weeks created by id.
func (s *Store) WithOwner(id primitive.ObjectID) *Store {
	cp := *s
	cp.owner = &id
	return &cp
}

// As returns a copy of the store that records a as creator/updater.
func (s *Store) As(a Actor) *Store {
	cp := *s
	cp.actor = &a
	return &cp
}

func (s *Store) scope(f bson.M) bson.M {
	f["deleted_at"] = bson.M{"$exists": false}
	if s.owner != nil {
		f["created_by_id"] = *s.owner
	}
	return f
}

// searchFilter builds the visible-weeks filter with an optional prefix search
// over program name, institute and week label.
func (s *Store) searchFilter(q string) bson.M {
	f := s.scope(bson.M{})
	if lo, hi := text.PrefixRange(strings.TrimSpace(q)); lo != "" {
		f["$or"] = []bson.M{
			{"program_name_ci": bson.M{"$gte": lo, "$lt": hi}},
			{"institute_ci": bson.M{"$gte": lo, "$lt": hi}},
			{"week_label_ci": bson.M{"$gte": lo, "$lt": hi}},
		}
	}
	return f
}

func fold(w *models.LessonWeek) {
	w.ProgramNameCI = text.Fold(w.Head.ProgramName)
	w.InstituteCI = text.Fold(w.Head.Institute)
	w.WeekLabelCI = text.Fold(w.Head.WeekLabel)
}

func validate(w models.LessonWeek) error {
	if strings.TrimSpace(w.Head.ProgramName) == "" {
		return &weekgrid.ValidationError{Fields: map[string]string{
			string(weekgrid.FieldProgramName): "Program name is required.",
		}}
	}
	if len(w.Cells) != len(w.SatSlots)+len(w.SunSlots) {
		return fmt.Errorf("cells (%d) vs slots (%d+%d): %w",
			len(w.Cells), len(w.SatSlots), len(w.SunSlots), ErrShape)
	}
	return nil
}

func normalizeArrays(w *models.LessonWeek) {
	if w.SatSlots == nil {
		w.SatSlots = []string{}
	}
	if w.SunSlots == nil {
		w.SunSlots = []string{}
	}
	if w.Cells == nil {
		w.Cells = []models.LessonCell{}
	}
}

// Create inserts a new week with a fresh ID, folded search fields and timestamps.
func (s *Store) Create(ctx context.Context, w models.LessonWeek) (models.LessonWeek, error) {
	normalizeArrays(&w)
	if err := validate(w); err != nil {
		return models.LessonWeek{}, err
	}

	now := time.Now().UTC()
	w.ID = primitive.NewObjectID()
	fold(&w)
	w.SavedAt = now
	w.CreatedAt = now
	w.UpdatedAt = &now
	w.DeletedAt = nil
	if s.actor != nil {
		id := s.actor.ID
		w.CreatedByID = &id
		w.CreatedByName = s.actor.Name
		w.UpdatedByID = &id
		w.UpdatedByName = s.actor.Name
	} else if s.owner != nil {
		id := *s.owner
		w.CreatedByID = &id
	}

	if _, err := s.c.InsertOne(ctx, w); err != nil {
		return models.LessonWeek{}, err
	}
	return w, nil
}

// Update replaces the header, slots and cells of a visible week and returns
// the stored result. Weeks that are deleted or outside the owner scope are
// reported as ErrNotFound.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, w models.LessonWeek) (models.LessonWeek, error) {
	normalizeArrays(&w)
	if err := validate(w); err != nil {
		return models.LessonWeek{}, err
	}
	fold(&w)

	now := time.Now().UTC()
	set := bson.M{
		"head":            w.Head,
		"sat_slots":       w.SatSlots,
		"sun_slots":       w.SunSlots,
		"cells":           w.Cells,
		"program_name_ci": w.ProgramNameCI,
		"institute_ci":    w.InstituteCI,
		"week_label_ci":   w.WeekLabelCI,
		"saved_at":        now,
		"updated_at":      now,
	}
	if s.actor != nil {
		set["updated_by_id"] = s.actor.ID
		set["updated_by_name"] = s.actor.Name
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.LessonWeek
	err := s.c.FindOneAndUpdate(ctx, s.scope(bson.M{"_id": id}), bson.M{"$set": set}, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LessonWeek{}, fmt.Errorf("update %s: %w", id.Hex(), ErrNotFound)
	}
	if err != nil {
		return models.LessonWeek{}, err
	}
	return out, nil
}

// Delete soft-deletes a visible week. Deleting an already deleted or unknown
// week returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	set := bson.M{"deleted_at": now, "updated_at": now}
	if s.actor != nil {
		set["updated_by_id"] = s.actor.ID
		set["updated_by_name"] = s.actor.Name
	}
	res, err := s.c.UpdateOne(ctx, s.scope(bson.M{"_id": id}), bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("delete %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

// Get returns a visible week by ID.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.LessonWeek, error) {
	var w models.LessonWeek
	err := s.c.FindOne(ctx, s.scope(bson.M{"_id": id})).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LessonWeek{}, fmt.Errorf("get %s: %w", id.Hex(), ErrNotFound)
	}
	if err != nil {
		return models.LessonWeek{}, err
	}
	return w, nil
}

// Duplicate copies a visible week into a new one. The copy's week label gets
// a " (copy)" suffix and is attributed to the store's actor.
func (s *Store) Duplicate(ctx context.Context, id primitive.ObjectID) (models.LessonWeek, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return models.LessonWeek{}, err
	}
	cp := models.LessonWeek{
		Head:     src.Head,
		SatSlots: src.SatSlots,
		SunSlots: src.SunSlots,
		Cells:    src.Cells,
	}
	cp.Head.WeekLabel = strings.TrimSpace(cp.Head.WeekLabel + " (copy)")
	return s.Create(ctx, cp)
}

// List returns one page of visible weeks, newest save first.
func (s *Store) List(ctx context.Context, q weekplan.ListQuery) ([]models.LessonWeek, error) {
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = weekplan.DefaultPageSize
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "saved_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * size)).
		SetLimit(int64(size))
	return s.find(ctx, s.searchFilter(q.Query), opts)
}

// Count returns the exact number of visible weeks matching the prefix query.
func (s *Store) Count(ctx context.Context, query string) (int64, error) {
	return s.c.CountDocuments(ctx, s.searchFilter(query))
}

// find runs a filter as given; callers apply scope.
func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.LessonWeek, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.LessonWeek{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
