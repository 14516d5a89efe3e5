// Package editor orchestrates one record's edit session: loading schema and
// record, holding the working state, validating, and submitting. The session
// is the server- and CLI-side counterpart of the admin console's edit form.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-adminforms/pkg/content"
	"github.com/goliatone/go-adminforms/pkg/forms"
	"github.com/goliatone/go-adminforms/pkg/formstate"
	"github.com/goliatone/go-adminforms/pkg/layout"
	"github.com/goliatone/go-adminforms/pkg/relationship"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

// Status names the session's lifecycle phase.
type Status string

const (
	// StatusLoading covers the schema-then-record fetch sequence.
	StatusLoading Status = "loading"
	// StatusLoadError is terminal until Load is retried.
	StatusLoadError Status = "load_error"
	// StatusReady accepts edits and submits.
	StatusReady Status = "ready"
	// StatusSaving covers an in-flight submit.
	StatusSaving Status = "saving"
)

// API is the slice of the document client the session depends on.
type API interface {
	Schema(ctx context.Context, collection, locale string) (schema.Document, error)
	Get(ctx context.Context, collection, id, locale string) (content.Document, error)
	Create(ctx context.Context, collection, locale string, payload map[string]any) (content.Document, error)
	Update(ctx context.Context, collection, id, locale string, payload map[string]any) (content.Document, error)
	List(ctx context.Context, collection, locale string, params content.ListParams) (content.ListResult, error)
}

// Session drives one record's edit lifecycle. Safe for concurrent use.
type Session struct {
	api     API
	loader  *relationship.Loader
	layouts *layout.Resolver
	logger  *zap.Logger

	collection string
	recordID   string
	locale     string

	mu            sync.Mutex
	status        Status
	loadErr       error
	fields        []schema.Field
	state         formstate.State
	layout        *layout.FormLayout
	relationships map[string][]relationship.Option
	fieldErrors   map[string]string
	message       string
	savedID       string
}

// Option configures a Session.
type Option func(*Session)

// WithLayoutResolver supplies hand-authored layouts.
func WithLayoutResolver(resolver *layout.Resolver) Option {
	return func(s *Session) {
		if resolver != nil {
			s.layouts = resolver
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession builds a session for one collection record. An empty recordID
// means create mode.
func NewSession(api API, collection, recordID, locale string, options ...Option) (*Session, error) {
	if api == nil {
		return nil, errors.New("editor: api client is required")
	}
	if collection == "" {
		return nil, errors.New("editor: collection is required")
	}
	session := &Session{
		api:        api,
		loader:     relationship.NewLoader(api),
		layouts:    layout.NewResolver(nil),
		logger:     zap.NewNop(),
		collection: collection,
		recordID:   recordID,
		locale:     locale,
		status:     StatusLoading,
	}
	for _, opt := range options {
		if opt != nil {
			opt(session)
		}
	}
	return session, nil
}

// Load fetches the schema, then (edit mode) the record, seeds the working
// state, resolves the layout, and pre-fetches relationship options. A
// cancelled context leaves the session exactly as it was and reports no
// error: abandoning a half-open form is not a failure.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	s.status = StatusLoading
	s.loadErr = nil
	s.mu.Unlock()

	doc, err := s.api.Schema(ctx, s.collection, s.locale)
	if err != nil {
		return s.failLoad(err)
	}

	var record content.Document
	if s.recordID != "" {
		record, err = s.api.Get(ctx, s.collection, s.recordID, s.locale)
		if err != nil {
			return s.failLoad(err)
		}
	}

	relationships, fieldErrors := s.loadRelationships(ctx, doc.Fields)
	if err := ctx.Err(); err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = doc.Fields
	s.state = formstate.Initialize(doc.Fields, record)
	s.layout = s.layouts.Resolve(s.collection, doc.Fields)
	s.relationships = relationships
	s.fieldErrors = fieldErrors
	s.message = ""
	s.status = StatusReady
	return nil
}

func (s *Session) failLoad(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusLoadError
	s.loadErr = err
	s.logger.Warn("edit session load failed",
		zap.String("collection", s.collection),
		zap.String("record", s.recordID),
		zap.Error(err))
	return err
}

// loadRelationships fetches candidate options for every relationship field.
// A field whose load fails gets an error entry instead of a partial list;
// the rest of the form stays usable.
func (s *Session) loadRelationships(ctx context.Context, fields []schema.Field) (map[string][]relationship.Option, map[string]string) {
	options := make(map[string][]relationship.Option)
	fieldErrors := make(map[string]string)

	var walk func(fields []schema.Field, prefix string)
	walk = func(fields []schema.Field, prefix string) {
		for _, field := range fields {
			path := field.Name
			if prefix != "" {
				path = prefix + "." + field.Name
			}
			switch field.Kind {
			case schema.KindRelationship:
				loaded, err := s.loader.Options(ctx, field, s.locale)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return
					}
					if errors.Is(err, relationship.ErrNoTargets) {
						options[path] = nil
						fieldErrors[path] = "No target collections configured"
						continue
					}
					options[path] = nil
					fieldErrors[path] = "Could not load options"
					s.logger.Warn("relationship options load failed",
						zap.String("field", path), zap.Error(err))
					continue
				}
				options[path] = loaded
			case schema.KindGroup, schema.KindArray:
				walk(field.Children, path)
			case schema.KindRow, schema.KindCollapsible:
				walk(field.Children, prefix)
			case schema.KindTabs:
				for _, tab := range field.Tabs {
					walk(tab.Children, path)
				}
			}
		}
	}
	walk(fields, "")
	return options, fieldErrors
}

// SetValue writes one field's working value and clears only that field's
// error.
func (s *Session) SetValue(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusReady {
		return fmt.Errorf("editor: session is %s, not ready", s.status)
	}
	next, err := s.state.WithValue(path, value)
	if err != nil {
		return fmt.Errorf("editor: set %q: %w", path, err)
	}
	s.state = next
	delete(s.fieldErrors, path)
	return nil
}

// ReplaceState swaps the whole working state (form re-submission decode).
// Field errors are kept; they clear on the next validate or submit.
func (s *Session) ReplaceState(state formstate.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
}

// AppendRow adds a seeded row to an array field.
func (s *Session) AppendRow(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	field, ok := schema.FieldAt(s.fields, path)
	if !ok || field.Kind != schema.KindArray {
		return fmt.Errorf("editor: %q is not an array field", path)
	}
	next, err := s.state.WithRowAppended(path, schema.RowSeed(field))
	if err != nil {
		return fmt.Errorf("editor: append row at %q: %w", path, err)
	}
	s.state = next
	return nil
}

// RemoveRow deletes a row from an array field by index.
func (s *Session) RemoveRow(path string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.WithRowRemoved(path, index)
	if err != nil {
		return fmt.Errorf("editor: remove row %d at %q: %w", index, path, err)
	}
	s.state = next
	return nil
}

// Status reports the current lifecycle phase.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LoadError returns the error that put the session into StatusLoadError.
func (s *Session) LoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// SavedID returns the record id assigned by a successful create.
func (s *Session) SavedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savedID
}

// View snapshots the session for a renderer.
func (s *Session) View() forms.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	fieldErrors := make(map[string]string, len(s.fieldErrors))
	for path, msg := range s.fieldErrors {
		fieldErrors[path] = msg
	}
	return forms.View{
		Collection:    s.collection,
		RecordID:      s.recordID,
		Locale:        s.locale,
		Fields:        s.fields,
		Layout:        s.layout,
		State:         s.state.Clone(),
		Relationships: s.relationships,
		FieldErrors:   fieldErrors,
		Message:       s.message,
	}
}

