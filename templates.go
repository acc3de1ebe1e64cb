package admincustomizer

import (
	"io/fs"

	vanilla "github.com/goliatone/go-admincustomizer/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the admin stylesheet and scripts.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
