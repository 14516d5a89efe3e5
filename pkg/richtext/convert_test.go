package richtext

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func storedFixture() []Block {
	return []Block{
		{Type: BlockParagraph, Children: []Leaf{
			{Text: "Welcome to "},
			{Text: "ICONSIAM", Bold: true},
			{Text: ", by the river.", Italic: true},
		}},
		EmptyParagraph(),
		{Type: BlockUpload, RelationTo: "media", Value: &MediaRef{ID: "m-1"}},
		{Type: BlockParagraph, Children: []Leaf{
			{Text: "inline()", Code: true},
		}},
	}
}

func TestRoundTripIsExactOnBackendShapes(t *testing.T) {
	stored := storedFixture()

	doc := ToEditorTree(stored)
	back := ToStoredTree(doc)

	if diff := cmp.Diff(stored, back); diff != "" {
		t.Fatalf("round trip not exact (-want +got):\n%s", diff)
	}
}

func TestToEditorTreeBareString(t *testing.T) {
	doc := ToEditorTree("plain legacy value")

	want := Node{Type: NodeDoc, Content: []Node{{
		Type:    NodeParagraph,
		Content: []Node{{Type: NodeText, Text: "plain legacy value"}},
	}}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestToEditorTreeNilAndEmpty(t *testing.T) {
	for _, value := range []any{nil, "", []any{}} {
		doc := ToEditorTree(value)
		if doc.Type != NodeDoc || len(doc.Content) != 1 || doc.Content[0].Type != NodeParagraph {
			t.Fatalf("ToEditorTree(%v) = %+v, want single empty paragraph", value, doc)
		}
	}
}

func TestToEditorTreeUnknownBlockDegrades(t *testing.T) {
	doc := ToEditorTree([]Block{{Type: "callout"}})

	want := Node{Type: NodeDoc, Content: []Node{emptyEditorParagraph()}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestToStoredTreeDropsDanglingImages(t *testing.T) {
	doc := Node{Type: NodeDoc, Content: []Node{
		{Type: NodeImage, Attrs: map[string]any{"mediaId": nil}},
		{Type: NodeImage},
		{Type: NodeParagraph, Content: []Node{{Type: NodeText, Text: "kept"}}},
	}}

	blocks := ToStoredTree(doc)

	want := []Block{
		{Type: BlockParagraph, Children: []Leaf{{Text: "kept"}}},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestToStoredTreeNonDefaultCollectionSurvives(t *testing.T) {
	stored := []Block{
		{Type: BlockUpload, RelationTo: "videos", Value: &MediaRef{ID: 9}},
	}

	back := ToStoredTree(ToEditorTree(stored))

	if diff := cmp.Diff(stored, back); diff != "" {
		t.Fatalf("collection tag lost (-want +got):\n%s", diff)
	}
}

func TestDecodeBlocksFromRecordJSON(t *testing.T) {
	raw := []any{
		map[string]any{
			"type": "paragraph",
			"children": []any{
				map[string]any{"text": "hello", "bold": true},
				"not-a-leaf",
			},
		},
		map[string]any{
			"type":       "upload",
			"relationTo": "media",
			"value":      map[string]any{"id": "m-2"},
		},
		"not-a-block",
	}

	blocks := DecodeBlocks(raw)

	want := []Block{
		{Type: BlockParagraph, Children: []Leaf{{Text: "hello", Bold: true}}},
		{Type: BlockUpload, RelationTo: "media", Value: &MediaRef{ID: "m-2"}},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestPreviewHTMLEscapesAndSanitizes(t *testing.T) {
	blocks := []Block{
		{Type: BlockParagraph, Children: []Leaf{
			{Text: "<script>alert(1)</script>"},
			{Text: "safe", Bold: true},
		}},
	}

	html := PreviewHTML(blocks, nil)

	if want := "<strong>safe</strong>"; !strings.Contains(html, want) {
		t.Fatalf("preview missing %q: %s", want, html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("script tag survived sanitization: %s", html)
	}
}

func TestBridgeSkipsOwnUpdates(t *testing.T) {
	bridge := NewBridge(nil)

	edited := Node{Type: NodeDoc, Content: []Node{
		{Type: NodeParagraph, Content: []Node{{Type: NodeText, Text: "typed"}}},
	}}
	stored := bridge.ApplyEditor(edited)

	// The state change caused by our own edit must not re-seed the editor.
	if _, ok := bridge.Sync(stored); ok {
		t.Fatal("bridge re-rendered its own update")
	}

	// A genuinely external change does re-seed.
	doc, ok := bridge.Sync([]Block{EmptyParagraph()})
	if !ok {
		t.Fatal("external change was swallowed")
	}
	if doc.Type != NodeDoc {
		t.Fatalf("doc = %+v", doc)
	}
}
