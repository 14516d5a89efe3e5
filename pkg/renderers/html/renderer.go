// Package html renders edit forms as server-side HTML for the admin
// console. Widgets produce structural markup with dotted input names so a
// submitted form rebuilds the nested value tree.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/goliatone/go-adminforms/pkg/forms"
	"github.com/goliatone/go-adminforms/pkg/layout"
	"github.com/goliatone/go-adminforms/pkg/schema"
	"github.com/goliatone/go-adminforms/pkg/template"
	"github.com/goliatone/go-adminforms/pkg/template/gotemplate"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer template.Renderer
	widgets          *WidgetRegistry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path != "" {
			cfg.templateFS = os.DirFS(path)
		}
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer template.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithWidgetRegistry overrides the default widget set.
func WithWidgetRegistry(registry *WidgetRegistry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// Renderer implements forms.Renderer with HTML output.
type Renderer struct {
	templates template.Renderer
	widgets   *WidgetRegistry
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	engine := cfg.templateRenderer
	if engine == nil {
		built, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template engine: %w", err)
		}
		engine = built
	}

	widgets := cfg.widgets
	if widgets == nil {
		widgets = NewDefaultWidgets()
	}

	return &Renderer{templates: engine, widgets: widgets}, nil
}

func (r *Renderer) Name() string { return "html" }

func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render draws the full edit form: layout columns, sections, fields,
// aggregate banner, and the action row.
func (r *Renderer) Render(ctx context.Context, view forms.View, options forms.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, fmt.Errorf("html renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := schema.EditableFields(view.Fields)
	renderer := newFieldRenderer(r.widgets, view)

	left, right, err := r.renderColumns(renderer, view, fields)
	if err != nil {
		return nil, err
	}

	action := options.Action
	if action == "" {
		action = defaultAction(view)
	}
	method := options.Method
	if method == "" {
		method = http.MethodPost
		if view.EditMode() {
			method = http.MethodPatch
		}
	}

	data := map[string]any{
		"title":       formTitle(view),
		"collection":  view.Collection,
		"record_id":   view.RecordID,
		"locale":      view.Locale,
		"message":     view.Message,
		"action":      action,
		"method":      browserMethod(method),
		"real_method": method,
		"cancel_url":  options.CancelURL,
		"hidden":      options.Hidden,
		"columns":     columnCount(view.Layout),
		"left":        left,
		"right":       right,
		"chrome":      chromeContext(options.Theme),
	}

	rendered, err := r.templates.RenderTemplate("templates/form", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(rendered), nil
}

type sectionHTML struct {
	Title       string
	Description string
	Wrap        bool
	Body        string
}

func (r *Renderer) renderColumns(renderer *fieldRenderer, view forms.View, fields []schema.Field) (left, right []sectionHTML, err error) {
	if view.Layout == nil {
		body, err := renderer.renderFields(fields, "")
		if err != nil {
			return nil, nil, err
		}
		return []sectionHTML{{Body: body}}, nil, nil
	}

	index := make(map[string]schema.Field, len(fields))
	for _, field := range fields {
		index[field.Name] = field
	}

	render := func(sections []layout.Section) ([]sectionHTML, error) {
		out := make([]sectionHTML, 0, len(sections))
		for _, section := range sections {
			var body strings.Builder
			for _, name := range section.Fields {
				field, ok := index[name]
				if !ok {
					// Hand-authored layouts may reference fields the live
					// schema no longer carries; skip rather than fail.
					continue
				}
				markup, err := renderer.render(field, field.Name)
				if err != nil {
					return nil, err
				}
				body.WriteString(markup)
			}
			out = append(out, sectionHTML{
				Title:       section.Title,
				Description: section.Description,
				Wrap:        section.Wrap,
				Body:        body.String(),
			})
		}
		return out, nil
	}

	if left, err = render(view.Layout.Left); err != nil {
		return nil, nil, err
	}
	if right, err = render(view.Layout.Right); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func defaultAction(view forms.View) string {
	if view.EditMode() {
		return "/admin/" + view.Collection + "/" + view.RecordID
	}
	return "/admin/" + view.Collection
}

func formTitle(view forms.View) string {
	verb := "Create"
	if view.EditMode() {
		verb = "Edit"
	}
	return verb + " " + titleCase(view.Collection)
}

func titleCase(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for idx, word := range words {
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// browserMethod translates non-POST verbs into a browser-friendly POST; the
// real verb travels in a hidden _method input.
func browserMethod(method string) string {
	if strings.EqualFold(method, http.MethodGet) {
		return http.MethodGet
	}
	return http.MethodPost
}

func columnCount(form *layout.FormLayout) int {
	if form == nil || len(form.Right) == 0 {
		return 1
	}
	return form.Columns
}
