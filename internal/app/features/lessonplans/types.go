// internal/app/features/lessonplans/types.go
package lessonplans

import (
	"strings"

	"github.com/dalemusser/lessonhub/internal/app/policy/lessonplanpolicy"
	"github.com/dalemusser/lessonhub/internal/app/system/drafts"
	"github.com/dalemusser/lessonhub/internal/app/system/paging"
	"github.com/dalemusser/lessonhub/internal/app/system/viewdata"
	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
	"github.com/dalemusser/lessonhub/internal/domain/models"
)

const savedAtLayout = "Jan 2, 2006 3:04 PM"

// listItem is one saved week in the list.
type listItem struct {
	ID          string
	ProgramName string
	WeekLabel   string
	Institute   string
	StartDate   string
	EndDate     string
	SavedAt     string
	CreatedBy   string
	Filled      int
	Cells       int
	CanEdit     bool
	CanDelete   bool
}

// listData is the saved-weeks screen.
type listData struct {
	viewdata.BaseVM

	Q       string
	Items   []listItem
	Range   paging.Range
	Message string

	CanCreate bool
}

// headerInput is one editable header field.
type headerInput struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

// editorData is the editor page and its HTMX body partial.
type editorData struct {
	viewdata.BaseVM

	Grid    weekgrid.GridView
	Fields  []headerInput
	Message string
	Invalid bool

	WeekID   string
	SavedAt  string
	Saving   bool
	SatStart string
	SunStart string
	Filled   int
	Cells    int
}

// viewData is the read-only week page.
type viewData struct {
	viewdata.BaseVM

	Grid      weekgrid.GridView
	WeekID    string
	SavedAt   string
	CreatedBy string
	CanEdit   bool
	CanDelete bool
}

// deleteData is the delete confirmation page.
type deleteData struct {
	viewdata.BaseVM

	WeekID      string
	ProgramName string
	WeekLabel   string
}

var fieldLabels = map[weekgrid.HeaderField]string{
	weekgrid.FieldCity:        "City",
	weekgrid.FieldInstitute:   "Institute",
	weekgrid.FieldProgramName: "Program",
	weekgrid.FieldWeekLabel:   "Week",
	weekgrid.FieldBannerTitle: "Banner title",
	weekgrid.FieldStartDate:   "Saturday date",
	weekgrid.FieldEndDate:     "Sunday date",
	weekgrid.FieldUnitSat:     "Saturday unit",
	weekgrid.FieldUnitSun:     "Sunday unit",
	weekgrid.FieldUnitTag:     "Unit tag",
}

func toListItem(c lessonplanpolicy.Capability, w models.LessonWeek) listItem {
	filled := 0
	for _, cell := range w.Cells {
		if strings.TrimSpace(cell.Text) != "" {
			filled++
		}
	}
	it := listItem{
		ID:          w.ID.Hex(),
		ProgramName: w.Head.ProgramName,
		WeekLabel:   w.Head.WeekLabel,
		Institute:   w.Head.Institute,
		StartDate:   w.Head.StartDate,
		EndDate:     w.Head.EndDate,
		CreatedBy:   w.CreatedByName,
		Filled:      filled,
		Cells:       len(w.Cells),
		CanEdit:     c.CanEdit,
		CanDelete:   c.CanDelete,
	}
	if !w.SavedAt.IsZero() {
		it.SavedAt = w.SavedAt.Local().Format(savedAtLayout)
	}
	return it
}

// buildEditor projects the draft. The caller holds the draft.
func buildEditor(base viewdata.BaseVM, d *drafts.Draft, msg string, verr *weekgrid.ValidationError) editorData {
	m := d.Model
	data := editorData{
		BaseVM:  base,
		Grid:    weekgrid.Project(m, d.Session),
		Message: msg,
		Invalid: verr != nil,
		Saving:  d.Planner.InFlight(m.ID()),
		Cells:   m.Len(),
	}
	if m.Persisted() {
		data.WeekID = m.ID().Hex()
		data.SavedAt = m.SavedAt().Local().Format(savedAtLayout)
	}
	if s := m.Slots(weekgrid.Saturday); len(s) > 0 {
		data.SatStart = s[0].Start.String()
	}
	if s := m.Slots(weekgrid.Sunday); len(s) > 0 {
		data.SunStart = s[0].Start.String()
	}
	for _, c := range m.Cells() {
		if strings.TrimSpace(c.Text) != "" {
			data.Filled++
		}
	}
	for _, f := range weekgrid.HeaderFields {
		v, _ := m.Header.Get(f)
		in := headerInput{
			Name:  string(f),
			Label: fieldLabels[f],
			Type:  "text",
			Value: v,
			Error: verr.Field(f),
		}
		if f == weekgrid.FieldStartDate || f == weekgrid.FieldEndDate {
			in.Type = "date"
		}
		data.Fields = append(data.Fields, in)
	}
	return data
}
