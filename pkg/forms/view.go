package forms

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-adminforms/pkg/formstate"
	"github.com/goliatone/go-adminforms/pkg/layout"
	"github.com/goliatone/go-adminforms/pkg/relationship"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

// View is everything a renderer needs to draw one edit form: the schema,
// the resolved layout, the current value tree, and per-field feedback.
type View struct {
	// Collection is the slug of the collection being edited.
	Collection string

	// RecordID is empty in create mode.
	RecordID string

	// Locale selects which localized variant the form operates on.
	Locale string

	// Fields is the collection's editable field schema, in declaration
	// order.
	Fields []schema.Field

	// Layout arranges fields into sections. Nil means natural order.
	Layout *layout.FormLayout

	// State is the current value tree.
	State formstate.State

	// Relationships carries the pre-fetched option lists keyed by field
	// path. A field present with a nil slice failed to load; its error
	// text lives in FieldErrors.
	Relationships map[string][]relationship.Option

	// FieldErrors maps dotted field paths to messages.
	FieldErrors map[string]string

	// Message is the aggregate banner shown above the form.
	Message string
}

// EditMode reports whether the view edits an existing record.
func (v View) EditMode() bool {
	return v.RecordID != ""
}

// Field returns the top-level field with the given name.
func (v View) Field(name string) (schema.Field, bool) {
	for _, field := range v.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return schema.Field{}, false
}

// RenderOptions carries per-request instructions renderers can surface
// without mutating the view itself.
type RenderOptions struct {
	// Action overrides the form's submit URL.
	Action string

	// Method overrides the HTTP method (renderers translate PATCH into a
	// POST plus a hidden _method input for browsers).
	Method string

	// CancelURL is bound to the cancel/back affordance by the host.
	CancelURL string

	// Hidden adds hidden inputs (CSRF tokens and the like).
	Hidden map[string]string

	// Theme carries resolved go-theme configuration: partial overrides,
	// design tokens, CSS variables.
	Theme *theme.RendererConfig
}
