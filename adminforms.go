// Package adminforms wires the admin form pipeline end to end: a document
// API client, layout resolution, and a renderer, behind a couple of
// convenience entry points. Callers needing finer control use the pkg/
// packages directly.
package adminforms

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-adminforms/pkg/content"
	"github.com/goliatone/go-adminforms/pkg/editor"
	"github.com/goliatone/go-adminforms/pkg/forms"
	"github.com/goliatone/go-adminforms/pkg/layout"
	"github.com/goliatone/go-adminforms/pkg/relationship"
	"github.com/goliatone/go-adminforms/pkg/renderers/html"
	"github.com/goliatone/go-adminforms/pkg/server"
)

// View is the renderer-facing snapshot of an edit session.
type View = forms.View

// RenderOptions carries per-render overrides (action URL, theme, hidden
// inputs).
type RenderOptions = forms.RenderOptions

// Renderer is the output seam; pkg/renderers/html and pkg/renderers/tui
// implement it.
type Renderer = forms.Renderer

// Session is one record's edit lifecycle: load, mutate, validate, submit.
type Session = editor.Session

// Admin bundles the collaborators every form operation needs.
type Admin struct {
	client  *content.Client
	loader  *relationship.Loader
	layouts *layout.Resolver
	theme   *theme.RendererConfig
	locale  string
	logger  *zap.Logger
}

// Option configures the Admin pipeline.
type Option func(*settings)

type settings struct {
	layoutFS      fs.FS
	theme         *theme.RendererConfig
	defaultLocale string
	logger        *zap.Logger
	clientOptions []content.Option
}

// WithLayoutsFS loads hand-authored layouts from the given filesystem
// instead of the embedded bundle.
func WithLayoutsFS(fsys fs.FS) Option {
	return func(s *settings) {
		if fsys != nil {
			s.layoutFS = fsys
		}
	}
}

// WithLayoutsDir loads hand-authored layouts from a directory on disk.
func WithLayoutsDir(path string) Option {
	return func(s *settings) {
		if path != "" {
			s.layoutFS = os.DirFS(path)
		}
	}
}

// WithTheme applies a go-theme renderer configuration to HTML output.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *settings) {
		s.theme = cfg
	}
}

// WithDefaultLocale sets the locale used when a caller passes none.
func WithDefaultLocale(locale string) Option {
	return func(s *settings) {
		if locale != "" {
			s.defaultLocale = locale
		}
	}
}

// WithLogger attaches a structured logger to every component.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClientOptions forwards options to the document API client.
func WithClientOptions(options ...content.Option) Option {
	return func(s *settings) {
		s.clientOptions = append(s.clientOptions, options...)
	}
}

// New connects to the document API at baseURL and assembles the pipeline.
func New(baseURL string, options ...Option) (*Admin, error) {
	cfg := settings{
		layoutFS:      layout.EmbeddedFS(),
		defaultLocale: "en",
		logger:        zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	clientOptions := append([]content.Option{content.WithLogger(cfg.logger)}, cfg.clientOptions...)
	client, err := content.New(baseURL, clientOptions...)
	if err != nil {
		return nil, err
	}

	store, err := layout.LoadFS(cfg.layoutFS)
	if err != nil {
		return nil, fmt.Errorf("adminforms: load layouts: %w", err)
	}

	return &Admin{
		client:  client,
		loader:  relationship.NewLoader(client),
		layouts: layout.NewResolver(store),
		theme:   cfg.theme,
		locale:  cfg.defaultLocale,
		logger:  cfg.logger,
	}, nil
}

// OpenSession loads a collection's form (and record, when recordID is
// non-empty) and returns the ready session.
func (a *Admin) OpenSession(ctx context.Context, collection, recordID, locale string) (*Session, error) {
	session, err := editor.NewSession(a.client, collection, recordID, a.resolveLocale(locale),
		editor.WithLayoutResolver(a.layouts),
		editor.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	if err := session.Load(ctx); err != nil {
		return nil, err
	}
	if session.Status() == editor.StatusLoadError {
		return nil, session.LoadError()
	}
	return session, nil
}

// RenderHTML loads a record's edit form and renders it as a full HTML page.
func (a *Admin) RenderHTML(ctx context.Context, collection, recordID, locale string) ([]byte, error) {
	renderer, err := html.New()
	if err != nil {
		return nil, err
	}
	session, err := a.OpenSession(ctx, collection, recordID, locale)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, session.View(), forms.RenderOptions{Theme: a.theme})
}

// Handler returns the HTTP admin surface backed by this pipeline.
func (a *Admin) Handler(renderer Renderer, allowedOrigins []string) http.Handler {
	return server.NewRouter(server.Dependencies{
		API:            a.client,
		Renderer:       renderer,
		Layouts:        a.layouts,
		Theme:          a.theme,
		DefaultLocale:  a.locale,
		AllowedOrigins: allowedOrigins,
		Logger:         a.logger,
	})
}

func (a *Admin) resolveLocale(locale string) string {
	if locale != "" {
		return locale
	}
	return a.locale
}
