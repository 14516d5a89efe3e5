package layout

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-adminforms/pkg/schema"
)

func TestSynthesizeBucketsByKind(t *testing.T) {
	fields := []schema.Field{
		{Name: "id", Kind: schema.KindText},
		{Name: "title", Kind: schema.KindText},
		{Name: "slug", Kind: schema.KindText},
		{Name: "status", Kind: schema.KindSelect},
		{Name: "description", Kind: schema.KindRichText},
		{Name: "logo", Kind: schema.KindUpload},
		{Name: "category", Kind: schema.KindRelationship},
		{Name: "location", Kind: schema.KindGroup, Label: "Location",
			Children: []schema.Field{{Name: "zone", Kind: schema.KindText}}},
	}

	form := Synthesize(fields)
	if form == nil {
		t.Fatal("expected a layout")
	}

	wantLeft := []Section{
		{Title: "Basic Info", Fields: []string{"title"}, Wrap: true},
		{Title: "Content", Fields: []string{"description"}, Wrap: true},
		{Title: "Media", Fields: []string{"logo"}, Wrap: true},
		{Title: "Relationships", Fields: []string{"category"}, Wrap: true},
		{Title: "Location", Fields: []string{"location"}},
	}
	if diff := cmp.Diff(wantLeft, form.Left); diff != "" {
		t.Fatalf("left column mismatch (-want +got):\n%s", diff)
	}

	wantRight := []Section{
		{Title: "Status", Fields: []string{"status"}},
		{Title: "SEO Setting", Fields: []string{"slug"}},
	}
	if diff := cmp.Diff(wantRight, form.Right); diff != "" {
		t.Fatalf("right column mismatch (-want +got):\n%s", diff)
	}
	if form.Columns != 2 {
		t.Fatalf("columns = %d, want 2", form.Columns)
	}
}

func TestSynthesizeSingleColumnWithoutStatusOrSEO(t *testing.T) {
	fields := []schema.Field{{Name: "title", Kind: schema.KindText}}

	form := Synthesize(fields)

	if form.Columns != 1 || len(form.Right) != 0 {
		t.Fatalf("form = %+v", form)
	}
}

func TestSynthesizeEmptyFieldsYieldsNil(t *testing.T) {
	if form := Synthesize(nil); form != nil {
		t.Fatalf("form = %+v, want nil", form)
	}
	system := []schema.Field{{Name: "id", Kind: schema.KindText}}
	if form := Synthesize(system); form != nil {
		t.Fatalf("form = %+v, want nil", form)
	}
}

func TestResolvePrefersAuthoredLayout(t *testing.T) {
	fsys := fstest.MapFS{
		"shops.yml": &fstest.MapFile{Data: []byte(`
collections:
  shops:
    columns: 2
    left:
      - title: Everything
        fields: [title]
    right:
      - title: Status
        fields: [status]
`)},
	}
	store, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	resolver := NewResolver(store)

	fields := []schema.Field{
		{Name: "title", Kind: schema.KindText},
		{Name: "status", Kind: schema.KindSelect},
	}

	form := resolver.Resolve("shops", fields)
	if len(form.Left) != 1 || form.Left[0].Title != "Everything" {
		t.Fatalf("authored layout not used: %+v", form)
	}

	// Unknown collections fall back to synthesis.
	fallback := resolver.Resolve("dinings", fields)
	if len(fallback.Left) == 0 || fallback.Left[0].Title != "Basic Info" {
		t.Fatalf("fallback = %+v", fallback)
	}
}

func TestLoadFSRejectsBrokenDocuments(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad columns", `
collections:
  shops:
    columns: 3
    left: []
`},
		{"right without two columns", `
collections:
  shops:
    columns: 1
    left:
      - title: A
        fields: [x]
    right:
      - title: B
        fields: [y]
`},
		{"duplicate field", `
collections:
  shops:
    columns: 1
    left:
      - title: A
        fields: [x, x]
`},
		{"untitled section", `
collections:
  shops:
    columns: 1
    left:
      - fields: [x]
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fsys := fstest.MapFS{"broken.yml": &fstest.MapFile{Data: []byte(tc.body)}}
			if _, err := LoadFS(fsys); err == nil {
				t.Fatal("expected load error")
			}
		})
	}
}

func TestLoadFSRejectsDuplicateCollections(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yml": &fstest.MapFile{Data: []byte("collections:\n  shops:\n    columns: 1\n    left: []\n")},
		"b.yml": &fstest.MapFile{Data: []byte("collections:\n  shops:\n    columns: 1\n    left: []\n")},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Fatal("expected duplicate collection error")
	}
}

func TestEmbeddedLayoutsLoad(t *testing.T) {
	store, err := LoadFS(EmbeddedFS())
	if err != nil {
		t.Fatalf("embedded layouts broken: %v", err)
	}
	if store.Empty() {
		t.Fatal("embedded bundle is empty")
	}
}

func TestFieldNamesOrder(t *testing.T) {
	form := FormLayout{
		Left:  []Section{{Title: "A", Fields: []string{"one", "two"}}},
		Right: []Section{{Title: "B", Fields: []string{"three"}}},
	}
	want := []string{"one", "two", "three"}
	if diff := cmp.Diff(want, form.FieldNames()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
