package weekgrid

import (
	"strings"

	"github.com/dalemusser/lessonhub/internal/domain/models"
)

// ToSnapshot produces the stored form of the model: header verbatim, slot
// label arrays, and cells with surrounding whitespace trimmed. The model's
// identity and savedAt are carried over when set.
func (m *Model) ToSnapshot() models.LessonWeek {
	cells := make([]models.LessonCell, len(m.cells))
	for i, c := range m.cells {
		cells[i] = models.LessonCell{Text: strings.TrimSpace(c.Text)}
	}
	return models.LessonWeek{
		ID: m.id,
		Head: models.WeekHead{
			City:        m.Header.City,
			Institute:   m.Header.Institute,
			ProgramName: m.Header.ProgramName,
			WeekLabel:   m.Header.WeekLabel,
			BannerTitle: m.Header.BannerTitle,
			StartDate:   m.Header.StartDate,
			EndDate:     m.Header.EndDate,
			UnitSat:     m.Header.UnitSat,
			UnitSun:     m.Header.UnitSun,
			UnitTag:     m.Header.UnitTag,
		},
		SatSlots: Labels(m.satSlots),
		SunSlots: Labels(m.sunSlots),
		Cells:    cells,
		SavedAt:  m.savedAt,
	}
}

// FromSnapshot rebuilds a model from its stored form. Missing slot or cell
// arrays become empty sequences, and labels that do not parse are dropped.
// The cell array is padded or truncated to match the slots so the index
// invariant holds; the identity and savedAt are restored from the snapshot.
func FromSnapshot(w models.LessonWeek, cfg Config) *Model {
	m := &Model{
		Header: Header{
			City:        w.Head.City,
			Institute:   w.Head.Institute,
			ProgramName: w.Head.ProgramName,
			WeekLabel:   w.Head.WeekLabel,
			BannerTitle: w.Head.BannerTitle,
			StartDate:   w.Head.StartDate,
			EndDate:     w.Head.EndDate,
			UnitSat:     w.Head.UnitSat,
			UnitSun:     w.Head.UnitSun,
			UnitTag:     w.Head.UnitTag,
		},
		satSlots: parseLabels(w.SatSlots),
		sunSlots: parseLabels(w.SunSlots),
		cfg:      cfg,
		id:       w.ID,
		savedAt:  w.SavedAt,
	}

	m.cells = make([]Cell, len(m.satSlots)+len(m.sunSlots))
	for i := range m.cells {
		if i < len(w.Cells) {
			m.cells[i] = Cell{Text: w.Cells[i].Text}
		}
	}
	return m
}

func parseLabels(labels []string) []TimeSlot {
	out := make([]TimeSlot, 0, len(labels))
	for _, l := range labels {
		s, err := ParseLabel(l)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}
