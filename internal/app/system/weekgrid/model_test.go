package weekgrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/lessonhub/internal/domain/models"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(DefaultConfig())
	require.NoError(t, err)
	return m
}

func assertIndexInvariant(t *testing.T, m *Model) {
	t.Helper()
	sat, sun := m.Slots(Saturday), m.Slots(Sunday)
	require.Equal(t, len(sat)+len(sun), m.Len())
	for i := range sat {
		idx, err := m.CellIndex(Saturday, i)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	for j := range sun {
		idx, err := m.CellIndex(Sunday, j)
		require.NoError(t, err)
		assert.Equal(t, len(sat)+j, idx)
	}
}

func TestNew_Defaults(t *testing.T) {
	m := newModel(t)

	assert.Equal(t, "2025-08-16", m.Header.StartDate)
	assert.Equal(t, "2025-08-17", m.Header.EndDate)
	assert.Equal(t, "InterTech", m.Header.ProgramName)
	assert.Equal(t, 10, m.Len())
	assert.Equal(t, "1500-1600", m.Slots(Saturday)[0].Label())
	assert.Equal(t, "0900-1000", m.Slots(Sunday)[0].Label())
	assert.False(t, m.Persisted())
	for _, c := range m.Cells() {
		assert.Empty(t, c.Text)
	}
	assertIndexInvariant(t, m)
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SlotCount = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, ErrInvalidSlotCount)

	cfg = DefaultConfig()
	cfg.SunStart = "22:00"
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrCrossesMidnight)
}

func TestIndexInvariant_HoldsAcrossMutations(t *testing.T) {
	m := newModel(t)
	assertIndexInvariant(t, m)

	require.NoError(t, m.SetCellText(3, "Anatomy"))
	assertIndexInvariant(t, m)

	require.NoError(t, m.RegenerateSlots(Saturday, "08:00"))
	assertIndexInvariant(t, m)

	require.NoError(t, m.RegenerateSlots(Sunday, "12:30"))
	assertIndexInvariant(t, m)

	require.NoError(t, m.SetHeaderField(FieldUnitSat, "Unit 1"))
	assertIndexInvariant(t, m)

	text, err := m.CellText(3)
	require.NoError(t, err)
	assert.Equal(t, "Anatomy", text, "regenerating slots keeps cell text in place")
}

func TestRegenerateSlots(t *testing.T) {
	m := newModel(t)
	require.NoError(t, m.RegenerateSlots(Sunday, "10:00"))
	assert.Equal(t, []string{"1000-1100", "1100-1200", "1200-1300", "1300-1400", "1400-1500"}, Labels(m.Slots(Sunday)))
	assert.Equal(t, "1500-1600", m.Slots(Saturday)[0].Label(), "other day untouched")

	before := m.Slots(Saturday)
	err := m.RegenerateSlots(Saturday, "21:00")
	assert.ErrorIs(t, err, ErrCrossesMidnight)
	assert.Equal(t, before, m.Slots(Saturday), "failed regenerate leaves slots")

	assert.ErrorIs(t, m.RegenerateSlots(Saturday, "nope"), ErrInvalidTime)
}

func TestRegenerateSlots_ReflowsPartialSnapshot(t *testing.T) {
	w := models.LessonWeek{
		SatSlots: []string{"1500-1600", "1600-1700"},
		SunSlots: []string{"0900-1000"},
		Cells: []models.LessonCell{
			{Text: "sat0"}, {Text: "sat1"}, {Text: "sun0"},
		},
	}
	m := FromSnapshot(w, DefaultConfig())
	require.Equal(t, 3, m.Len())

	require.NoError(t, m.RegenerateSlots(Saturday, "14:00"))
	assertIndexInvariant(t, m)
	require.Equal(t, 5+1, m.Len())

	cells := m.Cells()
	assert.Equal(t, "sat0", cells[0].Text)
	assert.Equal(t, "sat1", cells[1].Text)
	assert.Equal(t, "", cells[2].Text)
	assert.Equal(t, "sun0", cells[5].Text, "sunday text moves with its day")
}

func TestSetCellText_OutOfRange(t *testing.T) {
	m := newModel(t)
	require.NoError(t, m.SetCellText(0, "keep"))
	before := m.Cells()

	assert.ErrorIs(t, m.SetCellText(-1, "x"), ErrOutOfRange)
	assert.ErrorIs(t, m.SetCellText(m.Len(), "x"), ErrOutOfRange)
	assert.Equal(t, before, m.Cells())

	_, err := m.CellText(m.Len())
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCellIndexAndLocate(t *testing.T) {
	m := newModel(t)

	_, err := m.CellIndex(Saturday, 5)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.CellIndex(Sunday, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	for i := 0; i < m.Len(); i++ {
		d, slot, err := m.Locate(i)
		require.NoError(t, err)
		idx, err := m.CellIndex(d, slot)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	_, _, err = m.Locate(m.Len())
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSetHeaderField(t *testing.T) {
	m := newModel(t)
	for _, f := range HeaderFields {
		require.NoError(t, m.SetHeaderField(f, "v-"+string(f)))
		got, err := m.Header.Get(f)
		require.NoError(t, err)
		assert.Equal(t, "v-"+string(f), got)
	}
	require.NoError(t, m.SetHeaderField(FieldCity, ""))
	assert.Empty(t, m.Header.City)

	assert.ErrorIs(t, m.SetHeaderField("nope", "x"), ErrUnknownField)
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("SAT")
	require.NoError(t, err)
	assert.Equal(t, Saturday, d)
	d, err = ParseDay("sunday")
	require.NoError(t, err)
	assert.Equal(t, Sunday, d)
	_, err = ParseDay("monday")
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	m := newModel(t)
	id := primitive.NewObjectID()
	m.MarkSaved(id, time.Now())

	c := m.Clone()
	require.NoError(t, c.SetCellText(0, "changed"))
	require.NoError(t, c.RegenerateSlots(Saturday, "08:00"))

	text, _ := m.CellText(0)
	assert.Empty(t, text)
	assert.Equal(t, "1500-1600", m.Slots(Saturday)[0].Label())
	assert.Equal(t, id, c.ID())

	c.Detach()
	assert.False(t, c.Persisted())
	assert.True(t, m.Persisted())
}
