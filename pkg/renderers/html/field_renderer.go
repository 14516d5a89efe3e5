package html

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/goliatone/go-adminforms/pkg/forms"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

// Widget writes the control markup for one field into buf. The surrounding
// label/description chrome is added by the field renderer.
type Widget func(buf *bytes.Buffer, rc RenderContext) error

// RenderContext carries everything a widget needs for one field instance.
type RenderContext struct {
	Field schema.Field

	// Path is the dotted input path ("gallery.2.caption").
	Path string

	// Value is the current form value for this path.
	Value any

	// View grants access to relationship options and per-field errors.
	View forms.View

	// RenderChild recurses into a nested field with a scoped path.
	RenderChild func(field schema.Field, path string) (string, error)

	// ChildValue resolves a child's current value from the state tree.
	ChildValue func(path string) any
}

// Error returns the error message attached to this field's path. Messages
// keyed at the index-free wire path (array rows, tab children) match as a
// fallback so structured API errors reach their fields.
func (rc RenderContext) Error() string {
	if message, ok := rc.View.FieldErrors[rc.Path]; ok {
		return message
	}
	if key := forms.ErrorKey(rc.View.Fields, rc.Path); key != "" && key != rc.Path {
		return rc.View.FieldErrors[key]
	}
	return ""
}

// WidgetRegistry maps widget names to implementations. Callers can override
// defaults or register new widgets before constructing the renderer.
type WidgetRegistry struct {
	mu      sync.RWMutex
	widgets map[string]Widget
}

// NewWidgetRegistry creates an empty registry.
func NewWidgetRegistry() *WidgetRegistry {
	return &WidgetRegistry{widgets: make(map[string]Widget)}
}

// Register associates a widget with a name, replacing any existing entry.
func (r *WidgetRegistry) Register(name string, widget Widget) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("html: widget name is required")
	}
	if widget == nil {
		return fmt.Errorf("html: widget %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widgets[name] = widget
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *WidgetRegistry) MustRegister(name string, widget Widget) {
	if err := r.Register(name, widget); err != nil {
		panic(err)
	}
}

// Widget fetches a widget by name.
func (r *WidgetRegistry) Widget(name string) (Widget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	widget, ok := r.widgets[strings.ToLower(strings.TrimSpace(name))]
	return widget, ok
}

// widgetNameFor is the exhaustive dispatch over the closed kind set. The
// boolean result is how genuinely unknown kinds (new backend vocabulary)
// reach the graceful-degradation path in render.
func widgetNameFor(kind schema.FieldKind) (string, bool) {
	switch kind {
	case schema.KindText, schema.KindEmail:
		return "input", true
	case schema.KindTextarea:
		return "textarea", true
	case schema.KindNumber:
		return "number", true
	case schema.KindDate:
		return "date", true
	case schema.KindCheckbox:
		return "checkbox", true
	case schema.KindSelect:
		return "select", true
	case schema.KindRichText:
		return "richtext", true
	case schema.KindUpload:
		return "upload", true
	case schema.KindRelationship:
		return "relationship", true
	case schema.KindArray:
		return "array", true
	case schema.KindGroup:
		return "group", true
	case schema.KindRow:
		return "rowgroup", true
	case schema.KindTabs:
		return "tabs", true
	case schema.KindCollapsible:
		return "collapsible", true
	default:
		return "", false
	}
}

type fieldRenderer struct {
	widgets *WidgetRegistry
	view    forms.View
}

func newFieldRenderer(widgets *WidgetRegistry, view forms.View) *fieldRenderer {
	return &fieldRenderer{widgets: widgets, view: view}
}

func (r *fieldRenderer) renderFields(fields []schema.Field, prefix string) (string, error) {
	var builder strings.Builder
	for _, field := range fields {
		path := joinPath(prefix, field.Name)
		markup, err := r.render(field, path)
		if err != nil {
			return "", err
		}
		builder.WriteString(markup)
	}
	return builder.String(), nil
}

// render produces the full markup for one field: chrome wrapper, label,
// widget control, error and description lines. A schema kind this build
// does not recognise renders as a plain text input; the form must never
// fail because the backend's vocabulary moved ahead of the console's.
func (r *fieldRenderer) render(field schema.Field, path string) (string, error) {
	widgetName, known := widgetNameFor(field.Kind)
	if !known {
		widgetName = "input"
	}

	widget, ok := r.widgets.Widget(widgetName)
	if !ok {
		return "", fmt.Errorf("html: widget %q not registered for field %q", widgetName, path)
	}

	rc := RenderContext{
		Field:       field,
		Path:        path,
		Value:       r.valueAt(path),
		View:        r.view,
		RenderChild: r.render,
		ChildValue:  r.valueAt,
	}

	var control bytes.Buffer
	if err := widget(&control, rc); err != nil {
		return "", fmt.Errorf("html: render widget %q for field %q: %w", widgetName, path, err)
	}

	return buildFieldMarkup(field, path, widgetName, control.String(), rc.Error()), nil
}

func (r *fieldRenderer) valueAt(path string) any {
	value, ok := r.view.State.Get(path)
	if !ok {
		return nil
	}
	return value
}

func buildFieldMarkup(field schema.Field, path, widgetName, control, errorText string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="af-field" data-widget="`)
	builder.WriteString(html.EscapeString(widgetName))
	builder.WriteString(`" data-kind="`)
	builder.WriteString(html.EscapeString(string(field.Kind)))
	builder.WriteString(`"`)
	if errorText != "" {
		builder.WriteString(` data-invalid="true"`)
	}
	builder.WriteString(">\n")

	if shouldRenderLabel(field) {
		builder.WriteString(`  <label for="af-`)
		builder.WriteString(html.EscapeString(path))
		builder.WriteString(`" class="af-label">`)
		builder.WriteString(html.EscapeString(field.DisplayLabel()))
		if field.Required {
			builder.WriteString(` *`)
		}
		if field.Localized {
			builder.WriteString(`<span class="af-localized" title="Localized field">(localized)</span>`)
		}
		builder.WriteString("</label>\n")
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("  ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if errorText != "" {
		builder.WriteString(`  <small class="af-error">`)
		builder.WriteString(html.EscapeString(errorText))
		builder.WriteString("</small>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}

func shouldRenderLabel(field schema.Field) bool {
	switch field.Kind {
	case schema.KindGroup, schema.KindArray, schema.KindTabs, schema.KindCollapsible, schema.KindRow:
		// Composite widgets render their own heading.
		return false
	}
	return strings.TrimSpace(field.DisplayLabel()) != ""
}

func joinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}
