// Package drafts owns the per-user editor state: the week being edited, its
// cell edit session and the user's saved-weeks planner. A draft lives from the
// first editor visit until logout or until it sits idle past the TTL.
package drafts

import (
	"sync"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/lessonhub/internal/app/system/weekplan"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Draft is one user's editor state. Callers must hold the draft (Lock/Unlock)
// while reading or mutating Model or Session; the Planner has its own lock.
type Draft struct {
	ID      string
	OwnerID primitive.ObjectID

	mu       sync.Mutex
	Model    *weekgrid.Model
	Session  *weekgrid.EditSession
	Planner  *weekplan.Planner
	lastUsed time.Time
}

func (d *Draft) Lock()   { d.mu.Lock() }
func (d *Draft) Unlock() { d.mu.Unlock() }

// Reset swaps in a new model and rebinds the edit session to it.
// The caller holds the draft.
func (d *Draft) Reset(m *weekgrid.Model) {
	d.Model = m
	d.Session.Rebind(m)
}

// Registry maps draft ids to drafts.
type Registry struct {
	mu     sync.Mutex
	drafts map[string]*Draft
	now    func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{drafts: make(map[string]*Draft), now: time.Now}
}

// Create registers a new draft for owner with a fresh model and planner.
func (r *Registry) Create(owner primitive.ObjectID, m *weekgrid.Model, p *weekplan.Planner) *Draft {
	d := &Draft{
		ID:      uuid.NewString(),
		OwnerID: owner,
		Model:   m,
		Session: weekgrid.NewEditSession(m),
		Planner: p,
	}
	r.mu.Lock()
	d.lastUsed = r.now()
	r.drafts[d.ID] = d
	r.mu.Unlock()
	return d
}

// Get returns the draft for id if it exists and belongs to owner, and marks
// it used. A draft id presented by a different user is treated as unknown.
func (r *Registry) Get(id string, owner primitive.ObjectID) (*Draft, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drafts[id]
	if !ok || d.OwnerID != owner {
		return nil, false
	}
	d.lastUsed = r.now()
	return d, true
}

// Drop removes a draft. Unknown ids are ignored.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	delete(r.drafts, id)
	r.mu.Unlock()
}

// Len is the number of live drafts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

// Evict removes drafts unused for longer than ttl and returns how many went.
func (r *Registry) Evict(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, d := range r.drafts {
		if d.lastUsed.Before(cutoff) {
			delete(r.drafts, id)
			n++
		}
	}
	return n
}
