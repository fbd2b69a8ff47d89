// internal/app/features/lessonplans/templates.go
package lessonplans

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "lessonplans",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
