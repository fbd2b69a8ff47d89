package weekgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditSession_StartsViewing(t *testing.T) {
	s := NewEditSession(newModel(t))
	_, editing := s.Active()
	assert.False(t, editing)
	assert.Equal(t, SessionState{}, s.State())
}

func TestEditSession_SelectIsExclusive(t *testing.T) {
	m := newModel(t)
	s := NewEditSession(m)

	require.NoError(t, s.Select(1))
	require.NoError(t, s.Commit(1, "Pharmacology"))

	require.NoError(t, s.Select(6))
	st := s.State()
	assert.True(t, st.Editing, "switching cells never passes through Viewing")
	assert.Equal(t, 6, st.Index)

	text, _ := m.CellText(1)
	assert.Equal(t, "Pharmacology", text, "previous cell keeps its committed text")

	// Every observable state names at most one cell.
	v := Project(m, s)
	active := 0
	for _, d := range v.Days {
		for _, c := range d.Cells {
			if c.Active {
				active++
				assert.Equal(t, 6, c.Index)
			}
		}
	}
	assert.Equal(t, 1, active)
}

func TestEditSession_SelectOutOfRange(t *testing.T) {
	s := NewEditSession(newModel(t))
	require.NoError(t, s.Select(2))

	assert.ErrorIs(t, s.Select(99), ErrOutOfRange)
	idx, editing := s.Active()
	assert.True(t, editing)
	assert.Equal(t, 2, idx, "failed select keeps the current cell")
}

func TestEditSession_CommitSelects(t *testing.T) {
	m := newModel(t)
	s := NewEditSession(m)

	require.NoError(t, s.Commit(4, "Anatomy"))
	idx, editing := s.Active()
	assert.True(t, editing)
	assert.Equal(t, 4, idx)

	assert.ErrorIs(t, s.Commit(-1, "x"), ErrOutOfRange)
}

func TestEditSession_BlurKeepsText(t *testing.T) {
	m := newModel(t)
	s := NewEditSession(m)
	require.NoError(t, s.Commit(0, "Intro"))
	s.Blur()

	_, editing := s.Active()
	assert.False(t, editing)
	text, _ := m.CellText(0)
	assert.Equal(t, "Intro", text)
}

func TestEditSession_CancelRestores(t *testing.T) {
	m := newModel(t)
	require.NoError(t, m.SetCellText(3, "Original"))
	s := NewEditSession(m)

	require.NoError(t, s.Select(3))
	require.NoError(t, s.Commit(3, "Orig"))
	require.NoError(t, s.Commit(3, "Overwritten"))
	s.Cancel()

	text, _ := m.CellText(3)
	assert.Equal(t, "Original", text)
	_, editing := s.Active()
	assert.False(t, editing)

	s.Cancel() // no-op while viewing
	text, _ = m.CellText(3)
	assert.Equal(t, "Original", text)
}

func TestEditSession_Rebind(t *testing.T) {
	s := NewEditSession(newModel(t))
	require.NoError(t, s.Select(1))

	other := newModel(t)
	s.Rebind(other)
	assert.Same(t, other, s.Model())
	_, editing := s.Active()
	assert.False(t, editing)
}
