package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded template bundle. Callers can layer their
// own templates over it with WithTemplatesDir or WithTemplatesFS.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
