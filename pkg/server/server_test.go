package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-adminforms/pkg/content"
	"github.com/goliatone/go-adminforms/pkg/renderers/html"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

type stubAPI struct {
	schemaDoc schema.Document
	record    content.Document
	created   map[string]any
	updated   map[string]any
	writeDoc  content.Document
	writeErr  error
}

func (s *stubAPI) Schema(ctx context.Context, collection, locale string) (schema.Document, error) {
	return s.schemaDoc, nil
}

func (s *stubAPI) Get(ctx context.Context, collection, id, locale string) (content.Document, error) {
	return s.record, nil
}

func (s *stubAPI) Create(ctx context.Context, collection, locale string, payload map[string]any) (content.Document, error) {
	s.created = payload
	return s.writeDoc, s.writeErr
}

func (s *stubAPI) Update(ctx context.Context, collection, id, locale string, payload map[string]any) (content.Document, error) {
	s.updated = payload
	return s.writeDoc, s.writeErr
}

func (s *stubAPI) List(ctx context.Context, collection, locale string, params content.ListParams) (content.ListResult, error) {
	return content.ListResult{}, nil
}

func testRouter(t *testing.T, api *stubAPI) http.Handler {
	t.Helper()
	renderer, err := html.New()
	require.NoError(t, err)
	return NewRouter(Dependencies{
		API:           api,
		Renderer:      renderer,
		DefaultLocale: "en",
	})
}

func testSchema() schema.Document {
	return schema.Document{
		Slug: "shops",
		Fields: []schema.Field{
			{Name: "title", Kind: schema.KindText, Required: true},
			{Name: "floor", Kind: schema.KindNumber},
		},
	}
}

func TestHealth(t *testing.T) {
	router := testRouter(t, &stubAPI{schemaDoc: testSchema()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNewFormRenders(t *testing.T) {
	router := testRouter(t, &stubAPI{schemaDoc: testSchema()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/shops/new", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `name="title"`)
	assert.Contains(t, body, `name="floor"`)
	assert.Contains(t, body, "Create Shops")
}

func TestEditFormShowsRecordValues(t *testing.T) {
	api := &stubAPI{
		schemaDoc: testSchema(),
		record:    content.Document{"id": "42", "title": "Grand Hall"},
	}
	router := testRouter(t, api)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/shops/42", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Grand Hall"`)
	assert.Contains(t, body, `name="_method"`)
	assert.Contains(t, body, "PATCH")
}

func TestSubmitCreateRedirects(t *testing.T) {
	api := &stubAPI{
		schemaDoc: testSchema(),
		writeDoc:  content.Document{"id": "99"},
	}
	router := testRouter(t, api)

	form := url.Values{"title": {"Grand Hall"}, "floor": {"3"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/shops/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/shops/99", rec.Header().Get("Location"))
	assert.Equal(t, "Grand Hall", api.created["title"])
	assert.Equal(t, 3, api.created["floor"])
}

func TestSubmitValidationFailureRerendersForm(t *testing.T) {
	api := &stubAPI{schemaDoc: testSchema()}
	router := testRouter(t, api)

	form := url.Values{"title": {""}}
	req := httptest.NewRequest(http.MethodPost, "/admin/shops/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "This field is required")
	assert.Contains(t, body, "Please fill in all required fields")
	assert.Nil(t, api.created)
}

func TestSubmitAPIErrorMapsToField(t *testing.T) {
	api := &stubAPI{
		schemaDoc: testSchema(),
		writeErr: &content.APIError{
			Status:  400,
			Message: "validation failed",
			Fields: []content.FieldError{
				{Path: "title", Message: "already taken"},
			},
		},
	}
	router := testRouter(t, api)

	form := url.Values{"title": {"Grand Hall"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/shops/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "already taken")
}

func TestRowActionAddsRowWithoutSaving(t *testing.T) {
	doc := schema.Document{
		Slug: "shops",
		Fields: []schema.Field{
			{Name: "title", Kind: schema.KindText},
			{
				Name: "gallery",
				Kind: schema.KindArray,
				Children: []schema.Field{
					{Name: "caption", Kind: schema.KindText},
				},
			},
		},
	}
	api := &stubAPI{schemaDoc: doc}
	router := testRouter(t, api)

	form := url.Values{
		"title":   {"Grand Hall"},
		"_action": {"row:add:gallery"},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/shops/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="gallery.0.caption"`)
	assert.Nil(t, api.created)
}
