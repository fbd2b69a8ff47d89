// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultPageSize is the number of rows in one page of a "load more" list
// when nothing else is configured.
const DefaultPageSize = 10

// MaxPageSize bounds configured page sizes.
const MaxPageSize = 100

// ClampSize returns n bounded to [1, MaxPageSize], or DefaultPageSize when n < 1.
func ClampSize(n int) int {
	if n < 1 {
		return DefaultPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Range describes what a "load more" list currently shows.
type Range struct {
	Shown    int   // rows on screen
	Total    int64 // exact total, when known
	HasTotal bool
	NextPage int // page number for the next "load more" request
	HasMore  bool
}

// ComputeRange builds the display range after loading pages 1..page.
func ComputeRange(page, shown int, hasMore bool, total int64, hasTotal bool) Range {
	if page < 1 {
		page = 1
	}
	return Range{
		Shown:    shown,
		Total:    total,
		HasTotal: hasTotal,
		NextPage: page + 1,
		HasMore:  hasMore,
	}
}
