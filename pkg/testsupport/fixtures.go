// Package testsupport provides shared fixtures for the form pipeline tests:
// a representative collection schema and an in-process document API stub.
package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-adminforms/pkg/schema"
)

// ShopSchema returns a schema document covering every field kind the admin
// console renders, shaped like a retail collection.
func ShopSchema() schema.Document {
	return schema.Document{
		Slug: "shops",
		Fields: []schema.Field{
			{Name: "id", Kind: schema.KindText},
			{Name: "title", Kind: schema.KindText, Label: "Title", Required: true, Localized: true},
			{Name: "slug", Kind: schema.KindText, Required: true},
			{Name: "email", Kind: schema.KindEmail},
			{Name: "floor", Kind: schema.KindNumber},
			{Name: "openDate", Kind: schema.KindDate},
			{Name: "featured", Kind: schema.KindCheckbox},
			{Name: "status", Kind: schema.KindSelect, Options: []schema.Option{
				{Label: "Draft", Value: "draft"},
				{Label: "Published", Value: "published"},
			}},
			{Name: "description", Kind: schema.KindRichText, Localized: true},
			{Name: "logo", Kind: schema.KindUpload, RelationTo: []string{"media"}},
			{Name: "category", Kind: schema.KindRelationship, RelationTo: []string{"categories"}},
			{Name: "related", Kind: schema.KindRelationship, HasMany: true,
				RelationTo: []string{"shops", "dinings"}},
			{Name: "gallery", Kind: schema.KindArray, Children: []schema.Field{
				{Name: "image", Kind: schema.KindUpload, RelationTo: []string{"media"}},
				{Name: "caption", Kind: schema.KindText},
			}},
			{Name: "location", Kind: schema.KindGroup, Children: []schema.Field{
				{Name: "zone", Kind: schema.KindText},
				{Name: "unit", Kind: schema.KindText},
			}},
			{Name: "meta", Kind: schema.KindTabs, Tabs: []schema.Tab{
				{Label: "SEO", Children: []schema.Field{
					{Name: "metaTitle", Kind: schema.KindText},
					{Name: "metaDescription", Kind: schema.KindTextarea},
				}},
				{Label: "Hours", Children: []schema.Field{
					{Name: "openingHours", Kind: schema.KindText},
				}},
			}},
		},
	}
}

// ShopRecord returns a stored document matching ShopSchema.
func ShopRecord() map[string]any {
	return map[string]any{
		"id":       "42",
		"title":    "Grand Hall",
		"slug":     "grand-hall",
		"floor":    float64(3),
		"openDate": "2024-03-05T10:30:00.000Z",
		"featured": true,
		"status":   "published",
		"category": map[string]any{"id": "7", "name": "Fashion"},
		"location": map[string]any{"zone": "A", "unit": "101"},
	}
}

// DocumentAPI is an httptest-backed stub of the document store's REST
// surface: schema mode, get, list, create, and update.
type DocumentAPI struct {
	Server *httptest.Server

	mu      sync.Mutex
	schemas map[string]schema.Document
	docs    map[string]map[string]any
	lists   map[string][]map[string]any
	created []map[string]any
	updated []map[string]any
	failure *failure
}

type failure struct {
	status int
	body   string
}

// NewDocumentAPI starts the stub. It is shut down with the test.
func NewDocumentAPI(t *testing.T) *DocumentAPI {
	t.Helper()
	api := &DocumentAPI{
		schemas: map[string]schema.Document{},
		docs:    map[string]map[string]any{},
		lists:   map[string][]map[string]any{},
	}
	api.Server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.Server.Close)
	return api
}

// URL returns the stub's base URL for client construction.
func (a *DocumentAPI) URL() string { return a.Server.URL }

// SetSchema registers the schema served for a collection.
func (a *DocumentAPI) SetSchema(collection string, doc schema.Document) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.schemas[collection] = doc
}

// SetDocument registers a stored record at collection/id.
func (a *DocumentAPI) SetDocument(collection, id string, doc map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.docs[collection+"/"+id] = doc
}

// SetListing registers the documents returned by a collection listing.
func (a *DocumentAPI) SetListing(collection string, docs []map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lists[collection] = docs
}

// FailWith makes every subsequent request return the given status and body.
func (a *DocumentAPI) FailWith(status int, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failure = &failure{status: status, body: body}
}

// Created returns the payloads received via POST, in order.
func (a *DocumentAPI) Created() []map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]map[string]any(nil), a.created...)
}

// Updated returns the payloads received via PATCH, in order.
func (a *DocumentAPI) Updated() []map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]map[string]any(nil), a.updated...)
}

func (a *DocumentAPI) handle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.failure != nil {
		w.WriteHeader(a.failure.status)
		w.Write([]byte(a.failure.body))
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	collection := parts[0]
	id := ""
	if len(parts) > 1 {
		id = parts[1]
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Query().Get("schema") == "true":
		doc, ok := a.schemas[collection]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, doc)

	case r.Method == http.MethodGet && id != "":
		doc, ok := a.docs[collection+"/"+id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, doc)

	case r.Method == http.MethodGet:
		docs := a.lists[collection]
		writeJSON(w, http.StatusOK, map[string]any{
			"docs":      docs,
			"totalDocs": len(docs),
			"page":      1,
		})

	case r.Method == http.MethodPost:
		payload := decodeBody(r)
		a.created = append(a.created, payload)
		stored := map[string]any{"id": "created-1"}
		for key, value := range payload {
			stored[key] = value
		}
		writeJSON(w, http.StatusCreated, stored)

	case r.Method == http.MethodPatch && id != "":
		payload := decodeBody(r)
		a.updated = append(a.updated, payload)
		stored := map[string]any{"id": id}
		for key, value := range payload {
			stored[key] = value
		}
		writeJSON(w, http.StatusOK, stored)

	default:
		http.Error(w, "unsupported", http.StatusMethodNotAllowed)
	}
}

func decodeBody(r *http.Request) map[string]any {
	var payload map[string]any
	json.NewDecoder(r.Body).Decode(&payload)
	return payload
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
