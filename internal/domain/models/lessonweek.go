// internal/domain/models/lessonweek.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeekHead is the header block of one week's lesson plan: where it is taught,
// which program it belongs to, the weekend dates it covers, and the unit labels
// shown above each day's row.
//
// Dates are ISO "2006-01-02" strings as entered; they are not parsed on write.
type WeekHead struct {
	City        string `bson:"city" json:"city"`
	Institute   string `bson:"institute" json:"institute"`
	ProgramName string `bson:"program_name" json:"programName"`
	WeekLabel   string `bson:"week_label" json:"weekLabel"`
	BannerTitle string `bson:"banner_title" json:"bannerTitle"`
	StartDate   string `bson:"start_date" json:"startDate"` // Saturday
	EndDate     string `bson:"end_date" json:"endDate"`     // Sunday
	UnitSat     string `bson:"unit_sat" json:"unitSat"`
	UnitSun     string `bson:"unit_sun" json:"unitSun"`
	UnitTag     string `bson:"unit_tag,omitempty" json:"unitTag,omitempty"`
}

// LessonCell is the free-text content of one (day, slot) position.
type LessonCell struct {
	Text string `bson:"text" json:"text"`
}

// LessonWeek is the stored snapshot of a weekly lesson-plan grid.
//
// Cells are laid out Saturday first: cells[0..len(SatSlots)-1] belong to
// Saturday and cells[len(SatSlots)..] to Sunday.
type LessonWeek struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Head     WeekHead           `bson:"head" json:"head"`
	SatSlots []string           `bson:"sat_slots" json:"satSlots"`
	SunSlots []string           `bson:"sun_slots" json:"sunSlots"`
	Cells    []LessonCell       `bson:"cells" json:"cells"`

	// Folded copies for prefix search.
	ProgramNameCI string `bson:"program_name_ci" json:"-"`
	InstituteCI   string `bson:"institute_ci" json:"-"`
	WeekLabelCI   string `bson:"week_label_ci" json:"-"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`

	SavedAt   time.Time  `bson:"saved_at" json:"savedAt"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"`
}

// IsDeleted reports whether the week has been removed.
func (w *LessonWeek) IsDeleted() bool {
	return w.DeletedAt != nil
}
