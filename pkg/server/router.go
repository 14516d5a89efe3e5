package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-adminforms/pkg/editor"
	"github.com/goliatone/go-adminforms/pkg/forms"
	"github.com/goliatone/go-adminforms/pkg/layout"
)

// Dependencies holds the injectable collaborators route handlers use.
type Dependencies struct {
	// API is the document store client.
	API editor.API

	// Renderer draws form pages; typically the HTML renderer.
	Renderer forms.Renderer

	// Layouts supplies hand-authored form layouts. Optional.
	Layouts *layout.Resolver

	// Theme is passed through to the renderer. Optional.
	Theme *theme.RendererConfig

	// DefaultLocale applies when the request carries no ?locale=.
	DefaultLocale string

	// AllowedOrigins configures CORS for embedding admin tooling.
	AllowedOrigins []string

	Logger *zap.Logger
}

// NewRouter builds the chi router with the admin form routes.
func NewRouter(deps Dependencies) chi.Router {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(deps.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"status":"ok"}`))
	})

	h := &formHandlers{deps: deps}
	r.Route("/admin/{collection}", func(r chi.Router) {
		r.Get("/new", h.newForm)
		r.Post("/", h.submit)
		r.Get("/{id}", h.editForm)
		r.Post("/{id}", h.submit)
	})

	return r
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
