package weekgrid

import "strings"

// Placeholder is shown in place of an empty cell.
const Placeholder = "Click to add a lesson"

// GridView is the read-only projection a template renders. It never aliases
// model state.
type GridView struct {
	Header   Header
	Title    string
	Days     []DayView
	Editable bool
	Editing  bool
	Active   int
}

// DayView is one day's section: its label row and content row.
type DayView struct {
	Day   Day
	Key   string
	Name  string
	Date  string
	Unit  string
	Start string
	Cells []CellView
}

// CellView is one slot/content pair.
type CellView struct {
	Index       int
	Label       string
	Text        string
	Empty       bool
	Placeholder string
	Active      bool
}

// Project builds the view for m. A nil session yields the read-only variant.
func Project(m *Model, s *EditSession) GridView {
	v := GridView{
		Header: m.Header,
		Title:  m.Header.BannerTitle,
	}
	if s != nil {
		v.Editable = true
		st := s.State()
		v.Editing = st.Editing
		v.Active = st.Index
	}

	for _, d := range Days {
		slots := m.Slots(d)
		dv := DayView{
			Day:   d,
			Key:   d.Key(),
			Name:  d.String(),
			Cells: make([]CellView, 0, len(slots)),
		}
		if d == Saturday {
			dv.Date = m.Header.StartDate
			dv.Unit = UnitLabel(m.Header.UnitSat, m.Header.UnitTag)
		} else {
			dv.Date = m.Header.EndDate
			dv.Unit = UnitLabel(m.Header.UnitSun, m.Header.UnitTag)
		}
		if len(slots) > 0 {
			dv.Start = slots[0].Start.String()
		}
		for i, slot := range slots {
			idx, err := m.CellIndex(d, i)
			if err != nil {
				continue
			}
			text, _ := m.CellText(idx)
			cv := CellView{
				Index:  idx,
				Label:  slot.Label(),
				Text:   text,
				Empty:  strings.TrimSpace(text) == "",
				Active: v.Editing && v.Active == idx,
			}
			if cv.Empty {
				cv.Placeholder = Placeholder
			}
			dv.Cells = append(dv.Cells, cv)
		}
		v.Days = append(v.Days, dv)
	}
	return v
}

// UnitLabel joins a day's unit with the shared tag: "Unit 3 (Revision)".
func UnitLabel(unit, tag string) string {
	unit = strings.TrimSpace(unit)
	tag = strings.TrimSpace(tag)
	switch {
	case tag == "":
		return unit
	case unit == "":
		return tag
	}
	return unit + " (" + tag + ")"
}
