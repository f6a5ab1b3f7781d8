// internal/app/features/approve/templates.go
package approve

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "approve",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
