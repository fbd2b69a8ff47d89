package weekgrid

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrOutOfRange signals a cell or slot index outside the grid. It indicates a
// caller bug, not bad user input.
var ErrOutOfRange = errors.New("index out of range")

// ErrUnknownField is returned by SetHeaderField for a field name it does not know.
var ErrUnknownField = errors.New("unknown header field")

// Day is one of the two weekend days the grid covers.
type Day int

const (
	Saturday Day = iota
	Sunday
)

// Days lists the grid's days in display order.
var Days = []Day{Saturday, Sunday}

func (d Day) String() string {
	switch d {
	case Saturday:
		return "Saturday"
	case Sunday:
		return "Sunday"
	}
	return fmt.Sprintf("Day(%d)", int(d))
}

// Key is the short form used in forms and URLs ("sat", "sun").
func (d Day) Key() string {
	if d == Sunday {
		return "sun"
	}
	return "sat"
}

// ParseDay accepts "sat"/"saturday"/"sun"/"sunday" in any case.
func ParseDay(s string) (Day, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sat", "saturday":
		return Saturday, nil
	case "sun", "sunday":
		return Sunday, nil
	}
	return 0, fmt.Errorf("day %q: %w", s, ErrUnknownField)
}

// HeaderField names one editable header field. The values double as form
// field names in the editor.
type HeaderField string

const (
	FieldCity        HeaderField = "city"
	FieldInstitute   HeaderField = "institute"
	FieldProgramName HeaderField = "programName"
	FieldWeekLabel   HeaderField = "weekLabel"
	FieldBannerTitle HeaderField = "bannerTitle"
	FieldStartDate   HeaderField = "startDate"
	FieldEndDate     HeaderField = "endDate"
	FieldUnitSat     HeaderField = "unitSat"
	FieldUnitSun     HeaderField = "unitSun"
	FieldUnitTag     HeaderField = "unitTag"
)

// HeaderFields lists every editable header field.
var HeaderFields = []HeaderField{
	FieldCity, FieldInstitute, FieldProgramName, FieldWeekLabel, FieldBannerTitle,
	FieldStartDate, FieldEndDate, FieldUnitSat, FieldUnitSun, FieldUnitTag,
}

// Header is the week's metadata.
type Header struct {
	City        string `json:"city"`
	Institute   string `json:"institute"`
	ProgramName string `json:"programName" validate:"required"`
	WeekLabel   string `json:"weekLabel"`
	BannerTitle string `json:"bannerTitle"`
	StartDate   string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	UnitSat     string `json:"unitSat"`
	UnitSun     string `json:"unitSun"`
	UnitTag     string `json:"unitTag"`
}

// Get returns the value of a header field.
func (h Header) Get(f HeaderField) (string, error) {
	p, err := h.ptr(f)
	if err != nil {
		return "", err
	}
	return *p, nil
}

func (h *Header) ptr(f HeaderField) (*string, error) {
	switch f {
	case FieldCity:
		return &h.City, nil
	case FieldInstitute:
		return &h.Institute, nil
	case FieldProgramName:
		return &h.ProgramName, nil
	case FieldWeekLabel:
		return &h.WeekLabel, nil
	case FieldBannerTitle:
		return &h.BannerTitle, nil
	case FieldStartDate:
		return &h.StartDate, nil
	case FieldEndDate:
		return &h.EndDate, nil
	case FieldUnitSat:
		return &h.UnitSat, nil
	case FieldUnitSun:
		return &h.UnitSun, nil
	case FieldUnitTag:
		return &h.UnitTag, nil
	}
	return nil, fmt.Errorf("%q: %w", string(f), ErrUnknownField)
}

// DefaultHeader is the header a fresh editor starts from.
func DefaultHeader() Header {
	return Header{
		City:        "Islamabad",
		Institute:   "Islamabad Campus 1",
		ProgramName: "InterTech",
		WeekLabel:   "Week 1",
		BannerTitle: "Weekly Lesson Plan",
		StartDate:   "2025-08-16",
		EndDate:     "2025-08-17",
	}
}

// Cell is the content of one (day, slot) position. Empty text renders as a placeholder.
type Cell struct {
	Text string
}

// Config fixes the grid's shape. SlotCount is chosen once at construction and
// is never changed by edits, so a cell index always means the same position.
type Config struct {
	SlotCount int
	SatStart  string
	SunStart  string

	// EnforceWeekendRange requires EndDate to be the day after StartDate.
	EnforceWeekendRange bool
}

// DefaultConfig is 5 slots per day from 15:00 on Saturday and 09:00 on Sunday.
func DefaultConfig() Config {
	return Config{
		SlotCount:           DefaultSlotCount,
		SatStart:            "15:00",
		SunStart:            "09:00",
		EnforceWeekendRange: true,
	}
}

// Validate checks that the configuration can build a grid.
func (c Config) Validate() error {
	if _, err := Generate(c.SatStart, c.SlotCount); err != nil {
		return fmt.Errorf("saturday: %w", err)
	}
	if _, err := Generate(c.SunStart, c.SlotCount); err != nil {
		return fmt.Errorf("sunday: %w", err)
	}
	return nil
}

// Model is one week's grid. It is not safe for concurrent use; callers that
// share a Model across goroutines must serialize access.
//
// Invariant: len(cells) == len(satSlots) + len(sunSlots). Saturday slot i maps
// to cells[i] and Sunday slot j to cells[len(satSlots)+j].
type Model struct {
	Header Header

	satSlots []TimeSlot
	sunSlots []TimeSlot
	cells    []Cell
	cfg      Config

	id      primitive.ObjectID
	savedAt time.Time
}

// New builds an empty grid with the default header and cfg's slot runs.
func New(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sat, _ := Generate(cfg.SatStart, cfg.SlotCount)
	sun, _ := Generate(cfg.SunStart, cfg.SlotCount)
	return &Model{
		Header:   DefaultHeader(),
		satSlots: sat,
		sunSlots: sun,
		cells:    make([]Cell, len(sat)+len(sun)),
		cfg:      cfg,
	}, nil
}

// Config returns the configuration the model was built with.
func (m *Model) Config() Config { return m.cfg }

// ID returns the server identity, or NilObjectID before the first save.
func (m *Model) ID() primitive.ObjectID { return m.id }

// SavedAt returns the time of the last successful save.
func (m *Model) SavedAt() time.Time { return m.savedAt }

// Persisted reports whether the model carries a server identity.
func (m *Model) Persisted() bool { return !m.id.IsZero() }

// MarkSaved tags the model with the identity and timestamp the store assigned.
func (m *Model) MarkSaved(id primitive.ObjectID, at time.Time) {
	m.id = id
	m.savedAt = at
}

// Detach clears the server identity so the next save creates a new week.
func (m *Model) Detach() {
	m.id = primitive.NilObjectID
	m.savedAt = time.Time{}
}

// Len is the number of cells.
func (m *Model) Len() int { return len(m.cells) }

// Slots returns a copy of the given day's slots.
func (m *Model) Slots(d Day) []TimeSlot {
	src := m.satSlots
	if d == Sunday {
		src = m.sunSlots
	}
	out := make([]TimeSlot, len(src))
	copy(out, src)
	return out
}

// Cells returns a copy of all cells.
func (m *Model) Cells() []Cell {
	out := make([]Cell, len(m.cells))
	copy(out, m.cells)
	return out
}

// CellIndex maps (day, slot) to a position in Cells.
func (m *Model) CellIndex(d Day, slot int) (int, error) {
	switch d {
	case Saturday:
		if slot < 0 || slot >= len(m.satSlots) {
			return 0, fmt.Errorf("saturday slot %d: %w", slot, ErrOutOfRange)
		}
		return slot, nil
	case Sunday:
		if slot < 0 || slot >= len(m.sunSlots) {
			return 0, fmt.Errorf("sunday slot %d: %w", slot, ErrOutOfRange)
		}
		return len(m.satSlots) + slot, nil
	}
	return 0, fmt.Errorf("%v: %w", d, ErrOutOfRange)
}

// Locate is the inverse of CellIndex.
func (m *Model) Locate(index int) (Day, int, error) {
	if index < 0 || index >= len(m.cells) {
		return 0, 0, fmt.Errorf("cell %d: %w", index, ErrOutOfRange)
	}
	if index < len(m.satSlots) {
		return Saturday, index, nil
	}
	return Sunday, index - len(m.satSlots), nil
}

// SetHeaderField sets one header field. Empty values are allowed.
func (m *Model) SetHeaderField(f HeaderField, value string) error {
	p, err := m.Header.ptr(f)
	if err != nil {
		return err
	}
	*p = value
	return nil
}

// RegenerateSlots replaces a day's slots with a fresh run from start. The run
// keeps the configured slot count. If the day held a different number of
// slots (only possible for a model read from a partial snapshot) the cells are
// reflowed: text keeps its day and relative position and the day is padded or
// truncated to the new length.
func (m *Model) RegenerateSlots(d Day, start string) error {
	if d != Saturday && d != Sunday {
		return fmt.Errorf("%v: %w", d, ErrOutOfRange)
	}
	slots, err := Generate(start, m.cfg.SlotCount)
	if err != nil {
		return err
	}

	sat, sun := m.satSlots, m.sunSlots
	if d == Saturday {
		sat = slots
	} else {
		sun = slots
	}
	if len(sat) != len(m.satSlots) || len(sun) != len(m.sunSlots) {
		m.cells = reflow(m.cells, len(m.satSlots), len(sat), len(sun))
	}
	m.satSlots, m.sunSlots = sat, sun
	return nil
}

// reflow rebuilds cells for new day lengths, keeping each day's text in place.
func reflow(cells []Cell, oldSat, newSat, newSun int) []Cell {
	out := make([]Cell, newSat+newSun)
	oldSatCells := cells[:min(oldSat, len(cells))]
	oldSunCells := cells[min(oldSat, len(cells)):]
	copy(out[:newSat], oldSatCells)
	copy(out[newSat:], oldSunCells)
	return out
}

// SetCellText writes text at index. Indices outside [0, Len()) fail with
// ErrOutOfRange and leave the cells untouched.
func (m *Model) SetCellText(index int, text string) error {
	if index < 0 || index >= len(m.cells) {
		return fmt.Errorf("cell %d of %d: %w", index, len(m.cells), ErrOutOfRange)
	}
	m.cells[index].Text = text
	return nil
}

// CellText returns the text at index.
func (m *Model) CellText(index int) (string, error) {
	if index < 0 || index >= len(m.cells) {
		return "", fmt.Errorf("cell %d of %d: %w", index, len(m.cells), ErrOutOfRange)
	}
	return m.cells[index].Text, nil
}

// Clone returns a deep copy, identity included.
func (m *Model) Clone() *Model {
	c := *m
	c.satSlots = m.Slots(Saturday)
	c.sunSlots = m.Slots(Sunday)
	c.cells = m.Cells()
	return &c
}
