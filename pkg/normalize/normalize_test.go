package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-adminforms/pkg/schema"
)

func TestPayloadScalarsPassThrough(t *testing.T) {
	fields := []schema.Field{
		{Name: "title", Kind: schema.KindText},
		{Name: "featured", Kind: schema.KindCheckbox},
	}
	state := map[string]any{"title": "", "featured": false}

	got := Payload(fields, state)

	// Cleared text persists as the empty string; nothing is dropped.
	want := map[string]any{"title": "", "featured": false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestPayloadNumberCoercion(t *testing.T) {
	fields := []schema.Field{
		{Name: "floor", Kind: schema.KindNumber},
		{Name: "rating", Kind: schema.KindNumber},
		{Name: "blank", Kind: schema.KindNumber},
	}
	state := map[string]any{"floor": "3", "rating": "4.5", "blank": ""}

	got := Payload(fields, state)

	want := map[string]any{"floor": 3, "rating": 4.5, "blank": nil}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestPayloadClearedDateBecomesNull(t *testing.T) {
	fields := []schema.Field{{Name: "openDate", Kind: schema.KindDate}}

	got := Payload(fields, map[string]any{"openDate": ""})

	if got["openDate"] != nil {
		t.Fatalf("openDate = %v, want nil", got["openDate"])
	}
	if _, present := got["openDate"]; !present {
		t.Fatal("openDate must be present as an explicit null")
	}
}

func TestPayloadEmptyRelationshipOmitted(t *testing.T) {
	fields := []schema.Field{
		{Name: "category", Kind: schema.KindRelationship, RelationTo: []string{"categories"}},
		{Name: "logo", Kind: schema.KindUpload, RelationTo: []string{"media"}},
	}
	state := map[string]any{"category": "", "logo": nil}

	got := Payload(fields, state)

	if _, present := got["category"]; present {
		t.Fatalf("empty relationship must be omitted, got %v", got["category"])
	}
	if _, present := got["logo"]; present {
		t.Fatalf("empty upload must be omitted, got %v", got["logo"])
	}
}

func TestPayloadRelationshipShapes(t *testing.T) {
	fields := []schema.Field{
		{Name: "category", Kind: schema.KindRelationship, RelationTo: []string{"categories"}},
		{Name: "related", Kind: schema.KindRelationship, HasMany: true,
			RelationTo: []string{"shops", "dinings"}},
	}
	state := map[string]any{
		// Populated document from a read; reduces to its id.
		"category": map[string]any{"id": "7", "name": "Fashion"},
		"related": []any{
			map[string]any{"relationTo": "dinings", "value": "12"},
			map[string]any{"collection": "shops", "id": "abc-9"},
		},
	}

	got := Payload(fields, state)

	want := map[string]any{
		"category": 7,
		"related": []any{
			Reference{RelationTo: "dinings", Value: 12},
			Reference{RelationTo: "shops", Value: "abc-9"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestPayloadUploadReducesToID(t *testing.T) {
	fields := []schema.Field{{Name: "logo", Kind: schema.KindUpload, RelationTo: []string{"media"}}}
	state := map[string]any{
		"logo": map[string]any{"id": "m-1", "url": "/media/m-1.png"},
	}

	got := Payload(fields, state)

	if got["logo"] != "m-1" {
		t.Fatalf("logo = %v, want m-1", got["logo"])
	}
}

func TestPayloadArrayRowsRecurse(t *testing.T) {
	fields := []schema.Field{
		{Name: "gallery", Kind: schema.KindArray, Children: []schema.Field{
			{Name: "caption", Kind: schema.KindText},
			{Name: "image", Kind: schema.KindUpload, RelationTo: []string{"media"}},
		}},
	}
	state := map[string]any{
		"gallery": []any{
			map[string]any{"caption": "lobby", "image": map[string]any{"id": "m-1"}},
			map[string]any{"caption": "atrium", "image": nil},
		},
	}

	got := Payload(fields, state)

	want := map[string]any{
		"gallery": []any{
			map[string]any{"caption": "lobby", "image": "m-1"},
			map[string]any{"caption": "atrium"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestPayloadFlattensWrappersAndTabs(t *testing.T) {
	fields := []schema.Field{
		{Name: "dims", Kind: schema.KindRow, Children: []schema.Field{
			{Name: "width", Kind: schema.KindNumber},
		}},
		{Name: "meta", Kind: schema.KindTabs, Tabs: []schema.Tab{
			{Label: "SEO", Children: []schema.Field{
				{Name: "metaTitle", Kind: schema.KindText},
			}},
		}},
	}
	state := map[string]any{
		"width": "10",
		"meta": map[string]any{
			"0": map[string]any{"metaTitle": "Shops"},
		},
	}

	got := Payload(fields, state)

	want := map[string]any{"width": 10, "metaTitle": "Shops"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestPayloadStripsSystemFields(t *testing.T) {
	fields := []schema.Field{
		{Name: "id", Kind: schema.KindText},
		{Name: "updatedAt", Kind: schema.KindDate},
		{Name: "title", Kind: schema.KindText},
	}
	state := map[string]any{"id": "42", "updatedAt": "2024-01-01", "title": "x"}

	got := Payload(fields, state)

	want := map[string]any{"title": "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}
