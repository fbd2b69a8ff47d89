package weekgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SaturdayDefaults(t *testing.T) {
	slots, err := Generate("15:00", 5)
	require.NoError(t, err)
	require.Len(t, slots, 5)

	starts := make([]string, len(slots))
	for i, s := range slots {
		starts[i] = s.Start.String()
	}
	assert.Equal(t, []string{"15:00", "16:00", "17:00", "18:00", "19:00"}, starts)
	assert.Equal(t,
		[]string{"1500-1600", "1600-1700", "1700-1800", "1800-1900", "1900-2000"},
		Labels(slots))
}

func TestGenerate_Properties(t *testing.T) {
	for _, start := range []string{"00:00", "09:00", "9:30", "13:15", "18:59"} {
		for count := 1; count <= 5; count++ {
			a, err := Generate(start, count)
			require.NoError(t, err, "start=%s count=%d", start, count)
			b, err := Generate(start, count)
			require.NoError(t, err)

			assert.Len(t, a, count)
			assert.Equal(t, a, b, "same inputs give same slots")
			for i := 1; i < len(a); i++ {
				assert.Equal(t, Clock(SlotMinutes), a[i].Start-a[i-1].Start)
			}
		}
	}
}

func TestGenerate_MinuteOffsets(t *testing.T) {
	slots, err := Generate("09:30", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"0930-1030", "1030-1130"}, Labels(slots))
}

func TestGenerate_LastSlotEndsAtMidnight(t *testing.T) {
	slots, err := Generate("19:00", 5)
	require.NoError(t, err)
	assert.Equal(t, "2300-2400", slots[4].Label())
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		start string
		count int
		want  error
	}{
		{"crosses midnight", "20:00", 5, ErrCrossesMidnight},
		{"hour too large", "24:00", 1, ErrInvalidTime},
		{"minutes too large", "10:60", 1, ErrInvalidTime},
		{"no separator", "1500", 1, ErrInvalidTime},
		{"empty", "", 1, ErrInvalidTime},
		{"letters", "ab:cd", 1, ErrInvalidTime},
		{"zero count", "09:00", 0, ErrInvalidSlotCount},
		{"count too large", "00:00", MaxSlotCount + 1, ErrInvalidSlotCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.start, tt.count)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseLabel(t *testing.T) {
	s, err := ParseLabel("0900-1000")
	require.NoError(t, err)
	assert.Equal(t, "09:00", s.Start.String())

	s, err = ParseLabel("2300-2400")
	require.NoError(t, err)
	assert.Equal(t, "2300-2400", s.Label())

	for _, bad := range []string{"", "0900", "0900-1100", "09:00-10:00", "2500-2600"} {
		_, err := ParseLabel(bad)
		assert.ErrorIs(t, err, ErrInvalidLabel, "label %q", bad)
	}
}
