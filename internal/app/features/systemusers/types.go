// internal/app/features/systemusers/types.go
package systemusers

import (
	"github.com/dalemusser/lessonhub/internal/app/system/paging"
	"github.com/dalemusser/lessonhub/internal/app/system/viewdata"
)

// Row used in the system users list.
type userRow struct {
	ID        string
	FullName  string
	LoginID   string
	Role      string
	Status    string
	CanChange bool
}

// roleCount is one entry of the per-role summary above the list.
type roleCount struct {
	Role  string
	Count int64
}

type listData struct {
	viewdata.BaseVM

	Q        string
	Rows     []userRow
	Counts   []roleCount
	Range    paging.Range
	Page     int
	PrevPage int
	Flash    string
}

// roleOption is one choice in the role picker.
type roleOption struct {
	Value    string
	Label    string
	Selected bool
}

// formData backs both the Add and the Edit form.
type formData struct {
	viewdata.BaseVM

	IsEdit   bool
	ID       string
	FullName string
	LoginID  string
	Role     string
	Status   string
	Roles    []roleOption

	Error string
}
