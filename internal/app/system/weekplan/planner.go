// Package weekplan persists week grids through a Collaborator and keeps the
// in-memory list of saved weeks that the list screen renders.
//
// Every operation is a single attempt: no retries, no queue. The collection
// only changes after the collaborator reports success.
package weekplan

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/lessonhub/internal/domain/models"
)

const (
	opSave      = "save"
	opRemove    = "remove"
	opList      = "list"
	opDuplicate = "duplicate"
	opGet       = "get"

	// DefaultPageSize is used when a Planner is built with a size < 1.
	DefaultPageSize = 10
)

// ListQuery selects one page of saved weeks. Query is an optional prefix
// search on program name, institute or week label.
type ListQuery struct {
	Page     int
	PageSize int
	Query    string
}

// Collaborator is the persistence service the planner drives.
type Collaborator interface {
	Create(ctx context.Context, w models.LessonWeek) (models.LessonWeek, error)
	List(ctx context.Context, q ListQuery) ([]models.LessonWeek, error)
	Update(ctx context.Context, id primitive.ObjectID, w models.LessonWeek) (models.LessonWeek, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Getter is implemented by collaborators that can fetch one week.
type Getter interface {
	Get(ctx context.Context, id primitive.ObjectID) (models.LessonWeek, error)
}

// Duplicator is implemented by collaborators that can copy a week server-side.
type Duplicator interface {
	Duplicate(ctx context.Context, id primitive.ObjectID) (models.LessonWeek, error)
}

// Counter is implemented by collaborators that can report an exact total.
type Counter interface {
	Count(ctx context.Context, query string) (int64, error)
}

// Planner owns one user's SavedWeeksCollection. It is safe for concurrent
// use; the mutex is never held across a collaborator call, so a second save
// for the same week can observe the first one in flight.
type Planner struct {
	coll     Collaborator
	pageSize int
	log      *zap.Logger

	mu       sync.Mutex
	weeks    []models.LessonWeek
	page     int
	hasMore  bool
	total    int64
	hasTotal bool
	query    string
	inflight map[string]struct{}
}

// New builds a Planner with an empty collection.
func New(coll Collaborator, pageSize int, log *zap.Logger) *Planner {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{
		coll:     coll,
		pageSize: pageSize,
		log:      log,
		inflight: make(map[string]struct{}),
	}
}

// PageSize returns the configured page size.
func (p *Planner) PageSize() int { return p.pageSize }

// Weeks returns a copy of the collection in display order.
func (p *Planner) Weeks() []models.LessonWeek {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.LessonWeek, len(p.weeks))
	copy(out, p.weeks)
	return out
}

// Page returns the last page loaded (0 before any load).
func (p *Planner) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// HasMore reports whether the last page came back full. A full last page
// reads as "more" too; the next LoadMore then returns nothing and clears it.
func (p *Planner) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Total returns the exact count from the last load, when the collaborator
// offers one.
func (p *Planner) Total() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total, p.hasTotal
}

// Query returns the active search prefix.
func (p *Planner) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// InFlight reports whether a mutating call for id (or, with the nil id, a
// create) is outstanding.
func (p *Planner) InFlight(id primitive.ObjectID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.inflight[flightKey(id)]
	return ok
}

func flightKey(id primitive.ObjectID) string {
	if id.IsZero() {
		return "new"
	}
	return id.Hex()
}

func (p *Planner) acquire(op string, id primitive.ObjectID) (func(), error) {
	key := flightKey(id)
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inflight[key]; busy {
		return nil, &Error{Op: op, Kind: KindInFlight, Err: ErrInFlight}
	}
	p.inflight[key] = struct{}{}
	return func() {
		p.mu.Lock()
		delete(p.inflight, key)
		p.mu.Unlock()
	}, nil
}

func (p *Planner) fail(op string, id primitive.ObjectID, err error) error {
	pe := classify(op, err)
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("kind", pe.Kind.String()),
		zap.Error(pe.Err),
	}
	if !id.IsZero() {
		fields = append(fields, zap.String("week_id", id.Hex()))
	}
	if pe.Kind == KindTransport {
		p.log.Warn("lesson week operation failed", fields...)
	} else {
		p.log.Debug("lesson week operation rejected", fields...)
	}
	return pe
}

// Save validates m and stores it: create when m has no identity, update
// otherwise. On success m is tagged with the stored identity and savedAt and
// the collection gains (create) or replaces (update) one entry.
//
// Save does not lock m; callers sharing m must hold their own lock.
func (p *Planner) Save(ctx context.Context, m *weekgrid.Model) (models.LessonWeek, error) {
	snap, err := p.Prepare(m)
	if err != nil {
		return models.LessonWeek{}, err
	}
	return p.Store(ctx, snap, func(stored models.LessonWeek) {
		m.MarkSaved(stored.ID, stored.SavedAt)
	})
}

// Prepare validates m and returns the snapshot Store expects. It is the model
// half of Save, run while the caller holds its model lock.
func (p *Planner) Prepare(m *weekgrid.Model) (models.LessonWeek, error) {
	if err := m.Validate(); err != nil {
		return models.LessonWeek{}, p.fail(opSave, m.ID(), err)
	}
	return m.ToSnapshot(), nil
}

// Store writes an already-validated snapshot. It is the I/O half of Save, for
// callers that release their model lock while the call is outstanding.
//
// onStored, when not nil, runs after a successful write and before the
// in-flight key is released. Callers tag their model with the stored identity
// there; until it returns, a second Store of the same unsaved model fails
// with ErrInFlight instead of creating a second week.
func (p *Planner) Store(ctx context.Context, snap models.LessonWeek, onStored func(models.LessonWeek)) (models.LessonWeek, error) {
	release, err := p.acquire(opSave, snap.ID)
	if err != nil {
		return models.LessonWeek{}, p.fail(opSave, snap.ID, err)
	}
	defer release()

	if snap.ID.IsZero() {
		stored, err := p.coll.Create(ctx, snap)
		if err != nil {
			return models.LessonWeek{}, p.fail(opSave, snap.ID, err)
		}
		p.mu.Lock()
		p.weeks = append([]models.LessonWeek{stored}, p.weeks...)
		if p.hasTotal {
			p.total++
		}
		p.mu.Unlock()
		p.log.Info("lesson week created", zap.String("week_id", stored.ID.Hex()))
		if onStored != nil {
			onStored(stored)
		}
		return stored, nil
	}

	stored, err := p.coll.Update(ctx, snap.ID, snap)
	if err != nil {
		return models.LessonWeek{}, p.fail(opSave, snap.ID, err)
	}
	p.mu.Lock()
	if i := p.indexOf(stored.ID); i >= 0 {
		p.weeks[i] = stored
	} else {
		// Saved from a list position not loaded yet; show it at the top.
		p.weeks = append([]models.LessonWeek{stored}, p.weeks...)
	}
	p.mu.Unlock()
	p.log.Info("lesson week updated", zap.String("week_id", stored.ID.Hex()))
	if onStored != nil {
		onStored(stored)
	}
	return stored, nil
}

// Remove deletes the week and drops it from the collection. Callers confirm
// with the user first; there is no undo.
func (p *Planner) Remove(ctx context.Context, id primitive.ObjectID) error {
	release, err := p.acquire(opRemove, id)
	if err != nil {
		return p.fail(opRemove, id, err)
	}
	defer release()

	if err := p.coll.Delete(ctx, id); err != nil {
		return p.fail(opRemove, id, err)
	}
	p.mu.Lock()
	if i := p.indexOf(id); i >= 0 {
		p.weeks = append(p.weeks[:i:i], p.weeks[i+1:]...)
	}
	if p.hasTotal && p.total > 0 {
		p.total--
	}
	p.mu.Unlock()
	p.log.Info("lesson week deleted", zap.String("week_id", id.Hex()))
	return nil
}

// LoadPage fetches one page. With appendTo false the collection is replaced;
// otherwise the page is appended. hasMore is set to returned == pageSize.
func (p *Planner) LoadPage(ctx context.Context, page int, appendTo bool) error {
	if page < 1 {
		page = 1
	}
	q := ListQuery{Page: page, PageSize: p.pageSize, Query: p.Query()}
	rows, err := p.coll.List(ctx, q)
	if err != nil {
		return p.fail(opList, primitive.NilObjectID, err)
	}

	var (
		total    int64
		hasTotal bool
	)
	if c, ok := p.coll.(Counter); ok && !appendTo {
		n, err := c.Count(ctx, q.Query)
		if err != nil {
			// The count is decoration; the page itself loaded.
			p.log.Warn("lesson week count failed", zap.Error(err))
		} else {
			total, hasTotal = n, true
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if appendTo {
		p.weeks = append(p.weeks, rows...)
	} else {
		p.weeks = append([]models.LessonWeek(nil), rows...)
		p.total, p.hasTotal = total, hasTotal
	}
	p.page = page
	p.hasMore = len(rows) == p.pageSize
	return nil
}

// Refresh reloads page one, replacing the collection.
func (p *Planner) Refresh(ctx context.Context) error {
	return p.LoadPage(ctx, 1, false)
}

// LoadMore appends the page after the last one loaded.
func (p *Planner) LoadMore(ctx context.Context) error {
	return p.LoadPage(ctx, p.Page()+1, true)
}

// Search sets the prefix query and reloads page one. An empty query lists everything.
func (p *Planner) Search(ctx context.Context, query string) error {
	p.mu.Lock()
	prev := p.query
	p.query = query
	p.mu.Unlock()
	if err := p.Refresh(ctx); err != nil {
		p.mu.Lock()
		p.query = prev
		p.mu.Unlock()
		return err
	}
	return nil
}

// Get fetches one stored week.
func (p *Planner) Get(ctx context.Context, id primitive.ObjectID) (models.LessonWeek, error) {
	g, ok := p.coll.(Getter)
	if !ok {
		return models.LessonWeek{}, p.fail(opGet, id, ErrUnsupported)
	}
	w, err := g.Get(ctx, id)
	if err != nil {
		return models.LessonWeek{}, p.fail(opGet, id, err)
	}
	return w, nil
}

// Duplicate copies a stored week into a new one and prepends the copy.
func (p *Planner) Duplicate(ctx context.Context, id primitive.ObjectID) (models.LessonWeek, error) {
	d, ok := p.coll.(Duplicator)
	if !ok {
		return models.LessonWeek{}, p.fail(opDuplicate, id, ErrUnsupported)
	}
	copied, err := d.Duplicate(ctx, id)
	if err != nil {
		return models.LessonWeek{}, p.fail(opDuplicate, id, err)
	}
	p.mu.Lock()
	p.weeks = append([]models.LessonWeek{copied}, p.weeks...)
	if p.hasTotal {
		p.total++
	}
	p.mu.Unlock()
	p.log.Info("lesson week duplicated",
		zap.String("week_id", id.Hex()),
		zap.String("copy_id", copied.ID.Hex()))
	return copied, nil
}

// Find returns the collection entry for id, if loaded.
func (p *Planner) Find(id primitive.ObjectID) (models.LessonWeek, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i := p.indexOf(id); i >= 0 {
		return p.weeks[i], true
	}
	return models.LessonWeek{}, false
}

// indexOf requires p.mu.
func (p *Planner) indexOf(id primitive.ObjectID) int {
	for i := range p.weeks {
		if p.weeks[i].ID == id {
			return i
		}
	}
	return -1
}
