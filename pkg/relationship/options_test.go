package relationship

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-adminforms/pkg/content"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

type fakeLister struct {
	mu      sync.Mutex
	docs    map[string][]content.Document
	errs    map[string]error
	locales []string
}

func (f *fakeLister) List(ctx context.Context, collection, locale string, params content.ListParams) (content.ListResult, error) {
	f.mu.Lock()
	f.locales = append(f.locales, locale)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return content.ListResult{}, err
	}
	if err := f.errs[collection]; err != nil {
		return content.ListResult{}, err
	}
	docs := f.docs[collection]
	return content.ListResult{Docs: docs, TotalDocs: len(docs)}, nil
}

func relationField(targets ...string) schema.Field {
	return schema.Field{Name: "related", Kind: schema.KindRelationship, RelationTo: targets}
}

func TestOptionsLabelsByPriority(t *testing.T) {
	lister := &fakeLister{docs: map[string][]content.Document{
		"shops": {
			{"id": "1", "title": "Grand Hall"},
			{"id": "2", "name": "Unnamed Shop"},
			{"id": float64(3)},
		},
	}}
	loader := NewLoader(lister)

	options, err := loader.Options(context.Background(), relationField("shops"), "en")
	if err != nil {
		t.Fatalf("options: %v", err)
	}

	want := []Option{
		{Collection: "shops", Value: "1", Label: "Grand Hall"},
		{Collection: "shops", Value: "2", Label: "Unnamed Shop"},
		{Collection: "shops", Value: "3", Label: "Record 3"},
	}
	if diff := cmp.Diff(want, options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsPreserveDeclarationOrderAcrossCollections(t *testing.T) {
	lister := &fakeLister{docs: map[string][]content.Document{
		"shops":   {{"id": "s1", "title": "Shop"}},
		"dinings": {{"id": "d1", "title": "Diner"}},
	}}
	loader := NewLoader(lister)

	options, err := loader.Options(context.Background(), relationField("dinings", "shops"), "en")
	if err != nil {
		t.Fatalf("options: %v", err)
	}

	if options[0].Collection != "dinings" || options[1].Collection != "shops" {
		t.Fatalf("order = %+v", options)
	}
}

func TestOptionsFailClosedOnAnyCollection(t *testing.T) {
	boom := errors.New("listing exploded")
	lister := &fakeLister{
		docs: map[string][]content.Document{"shops": {{"id": "s1", "title": "Shop"}}},
		errs: map[string]error{"dinings": boom},
	}
	loader := NewLoader(lister)

	_, err := loader.Options(context.Background(), relationField("shops", "dinings"), "en")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapping %v", err, boom)
	}
}

func TestOptionsNoTargets(t *testing.T) {
	loader := NewLoader(&fakeLister{})

	_, err := loader.Options(context.Background(), relationField(), "en")
	if !errors.Is(err, ErrNoTargets) {
		t.Fatalf("err = %v, want ErrNoTargets", err)
	}
}

func TestOptionsRejectsNonRelationKinds(t *testing.T) {
	loader := NewLoader(&fakeLister{})
	field := schema.Field{Name: "title", Kind: schema.KindText}

	if _, err := loader.Options(context.Background(), field, "en"); err == nil {
		t.Fatal("expected kind error")
	}
}

func TestOptionsDeduplicates(t *testing.T) {
	lister := &fakeLister{docs: map[string][]content.Document{
		"shops": {
			{"id": "1", "title": "Grand Hall"},
			{"id": "1", "title": "Grand Hall (dup)"},
		},
	}}
	loader := NewLoader(lister)

	options, err := loader.Options(context.Background(), relationField("shops"), "en")
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(options) != 1 {
		t.Fatalf("options = %+v", options)
	}
}

func TestOptionsThreadsLocale(t *testing.T) {
	lister := &fakeLister{docs: map[string][]content.Document{"shops": {}}}
	loader := NewLoader(lister)

	if _, err := loader.Options(context.Background(), relationField("shops"), "th"); err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(lister.locales) != 1 || lister.locales[0] != "th" {
		t.Fatalf("locales = %v", lister.locales)
	}
}

func TestGroupByCollection(t *testing.T) {
	options := []Option{
		{Collection: "shops", Value: "1"},
		{Collection: "dinings", Value: "2"},
		{Collection: "shops", Value: "3"},
	}

	grouped := GroupByCollection(options)

	if len(grouped["shops"]) != 2 || len(grouped["dinings"]) != 1 {
		t.Fatalf("grouped = %+v", grouped)
	}
	if got := Collections(options); len(got) != 2 || got[0] != "dinings" {
		t.Fatalf("collections = %v", got)
	}
}
