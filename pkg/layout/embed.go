package layout

import (
	"embed"
	"io/fs"
)

//go:embed layouts
var embeddedLayouts embed.FS

// EmbeddedFS exposes the default layout bundle shipped with the module.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedLayouts, "layouts")
	if err != nil {
		return nil
	}
	return sub
}
