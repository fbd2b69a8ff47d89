package drafts

import (
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/lessonhub/internal/app/system/weekplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newDraftParts(t *testing.T) (*weekgrid.Model, *weekplan.Planner) {
	t.Helper()
	m, err := weekgrid.New(weekgrid.DefaultConfig())
	require.NoError(t, err)
	return m, weekplan.New(nil, 10, nil)
}

func TestRegistry_CreateGetDrop(t *testing.T) {
	reg := NewRegistry()
	owner := primitive.NewObjectID()
	m, p := newDraftParts(t)

	d := reg.Create(owner, m, p)
	require.NotEmpty(t, d.ID)
	assert.Same(t, m, d.Session.Model(), "session edits the draft's model")

	got, ok := reg.Get(d.ID, owner)
	require.True(t, ok)
	require.Same(t, d, got)

	_, ok = reg.Get(d.ID, primitive.NewObjectID())
	assert.False(t, ok, "another user must not see the draft")
	_, ok = reg.Get("", owner)
	assert.False(t, ok, "empty id is never a draft")

	reg.Drop(d.ID)
	_, ok = reg.Get(d.ID, owner)
	assert.False(t, ok, "dropped draft still present")
	reg.Drop("unknown")
}

func TestRegistry_Evict(t *testing.T) {
	reg := NewRegistry()
	now := time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	owner := primitive.NewObjectID()
	m1, p1 := newDraftParts(t)
	m2, p2 := newDraftParts(t)
	old := reg.Create(owner, m1, p1)

	now = now.Add(90 * time.Minute)
	fresh := reg.Create(owner, m2, p2)

	now = now.Add(45 * time.Minute)
	require.Equal(t, 1, reg.Evict(2*time.Hour))

	_, ok := reg.Get(old.ID, owner)
	assert.False(t, ok, "idle draft is evicted")
	_, ok = reg.Get(fresh.ID, owner)
	assert.True(t, ok, "recent draft survives")
}

func TestRegistry_GetRefreshesLastUsed(t *testing.T) {
	reg := NewRegistry()
	now := time.Date(2025, 8, 16, 9, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	owner := primitive.NewObjectID()
	m, p := newDraftParts(t)
	d := reg.Create(owner, m, p)

	now = now.Add(time.Hour)
	reg.Get(d.ID, owner)
	now = now.Add(90 * time.Minute)

	assert.Zero(t, reg.Evict(2*time.Hour), "touched draft evicted")
}

func TestDraft_Reset(t *testing.T) {
	reg := NewRegistry()
	m, p := newDraftParts(t)
	d := reg.Create(primitive.NewObjectID(), m, p)

	d.Lock()
	require.NoError(t, d.Session.Select(1))
	other, _ := newDraftParts(t)
	d.Reset(other)
	d.Unlock()

	assert.Same(t, other, d.Model)
	assert.Same(t, other, d.Session.Model())
	_, editing := d.Session.Active()
	assert.False(t, editing, "reset returns to viewing")
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	owner := primitive.NewObjectID()
	m, p := newDraftParts(t)
	d := reg.Create(owner, m, p)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, ok := reg.Get(d.ID, owner)
			if !ok {
				return
			}
			got.Lock()
			_ = got.Model.SetCellText(i%got.Model.Len(), "x")
			got.Unlock()
			reg.Evict(time.Hour)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, reg.Len())
}
