// Package weekgrid models one week's lesson-plan grid: two weekend days, each
// with a run of hour-long time slots, and one free-text cell per slot.
//
// The package is pure: nothing here performs I/O. Persistence lives in
// weekplan and the Mongo store; rendering lives in the lessonplans feature.
package weekgrid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// SlotMinutes is the fixed length of every slot.
	SlotMinutes = 60
	// DefaultSlotCount is the number of slots per day when none is configured.
	DefaultSlotCount = 5
	// MaxSlotCount bounds the configurable slots per day.
	MaxSlotCount = 12

	minutesPerDay = 24 * 60
)

var (
	ErrInvalidTime      = errors.New("time must be HH:MM (00:00-23:59)")
	ErrInvalidSlotCount = fmt.Errorf("slot count must be between 1 and %d", MaxSlotCount)
	ErrCrossesMidnight  = errors.New("slots would run past midnight")
	ErrInvalidLabel     = errors.New(`slot label must look like "0900-1000"`)
)

// Clock is a time of day in minutes since midnight. 24:00 is allowed as the
// end of the last slot of a day.
type Clock int

// ParseClock parses "HH:MM" (24-hour). Single-digit hours ("9:00") are accepted.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(mm) != 2 || hh == "" || len(hh) > 2 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidTime)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidTime)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidTime)
	}
	return Clock(h*60 + m), nil
}

// String renders the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Compact renders the clock without the separator: "09:00" -> "0900".
func (c Clock) Compact() string {
	return fmt.Sprintf("%02d%02d", int(c)/60, int(c)%60)
}

// TimeSlot is one hour-long interval identified by its start.
type TimeSlot struct {
	Start Clock
}

// End returns the start plus SlotMinutes.
func (s TimeSlot) End() Clock {
	return s.Start + SlotMinutes
}

// Label is the display form "<compact-start>-<compact-end>", e.g. "1500-1600".
func (s TimeSlot) Label() string {
	return s.Start.Compact() + "-" + s.End().Compact()
}

// Generate derives count consecutive slots beginning at start. It is pure and
// deterministic, so callers may use it to preview labels before committing
// them to a Model.
//
// A run that would end after midnight is rejected with ErrCrossesMidnight.
func Generate(start string, count int) ([]TimeSlot, error) {
	if count < 1 || count > MaxSlotCount {
		return nil, ErrInvalidSlotCount
	}
	c, err := ParseClock(start)
	if err != nil {
		return nil, err
	}
	if int(c)+count*SlotMinutes > minutesPerDay {
		return nil, fmt.Errorf("%d slots from %s: %w", count, c, ErrCrossesMidnight)
	}

	slots := make([]TimeSlot, count)
	for i := range slots {
		slots[i] = TimeSlot{Start: c + Clock(i*SlotMinutes)}
	}
	return slots, nil
}

// Labels maps slots to their display labels.
func Labels(slots []TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Label()
	}
	return out
}

// ParseLabel is the inverse of TimeSlot.Label. The end half must be exactly
// SlotMinutes after the start.
func ParseLabel(label string) (TimeSlot, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(label), "-")
	if !ok || len(start) != 4 || len(end) != 4 {
		return TimeSlot{}, fmt.Errorf("%q: %w", label, ErrInvalidLabel)
	}
	sc, err := ParseClock(start[:2] + ":" + start[2:])
	if err != nil {
		return TimeSlot{}, fmt.Errorf("%q: %w", label, ErrInvalidLabel)
	}
	slot := TimeSlot{Start: sc}
	if slot.End().Compact() != end {
		return TimeSlot{}, fmt.Errorf("%q: %w", label, ErrInvalidLabel)
	}
	return slot, nil
}
