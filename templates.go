package formgen

import (
	"io/fs"

	"github.com/goliatone/go-formgen-clinical/pkg/theme"
)

// EmbeddedTemplates exposes the built-in clinical theme templates so callers
// can reuse or extend them without importing the theme package directly.
func EmbeddedTemplates() fs.FS {
	return theme.Templates()
}
