// Package template defines the engine seam renderers rely on, mirroring the
// github.com/goliatone/go-template contract.
package template

import "io"

// Renderer abstracts the template engine so output renderers can swap
// implementations (embedded bundle, disk directory, custom engine).
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
