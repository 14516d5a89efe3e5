package formstate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWithValueCreatesIntermediateNodes(t *testing.T) {
	state := State{}

	next, err := state.WithValue("location.zone", "A")
	if err != nil {
		t.Fatalf("with value: %v", err)
	}

	want := State{"location": map[string]any{"zone": "A"}}
	if diff := cmp.Diff(want, next); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if len(state) != 0 {
		t.Fatalf("original state mutated: %v", state)
	}
}

func TestWithValueIndexesIntoRows(t *testing.T) {
	state := State{
		"gallery": []any{
			map[string]any{"caption": "old"},
			map[string]any{"caption": "keep"},
		},
	}

	next, err := state.WithValue("gallery.0.caption", "new")
	if err != nil {
		t.Fatalf("with value: %v", err)
	}

	got, _ := next.Get("gallery.0.caption")
	if got != "new" {
		t.Fatalf("gallery.0.caption = %v", got)
	}
	kept, _ := next.Get("gallery.1.caption")
	if kept != "keep" {
		t.Fatalf("sibling row changed: %v", kept)
	}
	original, _ := state.Get("gallery.0.caption")
	if original != "old" {
		t.Fatalf("original tree mutated: %v", original)
	}
}

func TestWithValueDescendsIndexKeyedMaps(t *testing.T) {
	// Tab panels are stored as maps keyed by decimal index, not slices.
	state := State{
		"meta": map[string]any{
			"0": map[string]any{"metaTitle": ""},
			"1": map[string]any{"openingHours": ""},
		},
	}

	next, err := state.WithValue("meta.0.metaTitle", "Shops at ICONSIAM")
	if err != nil {
		t.Fatalf("with value: %v", err)
	}

	got, _ := next.Get("meta.0.metaTitle")
	if got != "Shops at ICONSIAM" {
		t.Fatalf("meta.0.metaTitle = %v", got)
	}
	if _, ok := next.Get("meta.1.openingHours"); !ok {
		t.Fatal("sibling tab panel lost")
	}
}

func TestWithRowAppendedAndRemoved(t *testing.T) {
	state := State{}

	next, err := state.WithRowAppended("gallery", map[string]any{"caption": ""})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	next, err = next.WithRowAppended("gallery", map[string]any{"caption": ""})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	next, err = next.WithValue("gallery.1.caption", "second")
	if err != nil {
		t.Fatalf("with value: %v", err)
	}

	next, err = next.WithRowRemoved("gallery", 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	rows, _ := next.Get("gallery")
	want := []any{map[string]any{"caption": "second"}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWithRowRemovedOutOfRange(t *testing.T) {
	state := State{"gallery": []any{map[string]any{}}}
	if _, err := state.WithRowRemoved("gallery", 3); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestCloneIsDeep(t *testing.T) {
	state := State{
		"location": map[string]any{"zone": "A"},
		"gallery":  []any{map[string]any{"caption": "x"}},
	}
	clone := state.Clone()

	clone["location"].(map[string]any)["zone"] = "B"
	clone["gallery"].([]any)[0].(map[string]any)["caption"] = "y"

	if zone, _ := state.Get("location.zone"); zone != "A" {
		t.Fatalf("clone shares map: %v", zone)
	}
	if caption, _ := state.Get("gallery.0.caption"); caption != "x" {
		t.Fatalf("clone shares slice: %v", caption)
	}
}

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"empty slice", []any{}, true},
		{"empty map", map[string]any{}, true},
		{"zero number", 0, false},
		{"false", false, false},
		{"text", "x", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEmpty(tc.value); got != tc.want {
				t.Fatalf("IsEmpty(%v) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}
