// Package richtext converts between the document store's rich-text block
// format and the editing widget's node tree. The two transforms are exact
// inverses on everything the backend actually produces; the inbound
// direction additionally tolerates malformed trees without ever failing.
package richtext

const (
	// BlockParagraph and BlockUpload are the two block kinds the document
	// store emits.
	BlockParagraph = "paragraph"
	BlockUpload    = "upload"

	// Editor node kinds.
	NodeDoc       = "doc"
	NodeParagraph = "paragraph"
	NodeImage     = "image"
	NodeText      = "text"

	// DefaultMediaCollection is assumed for upload blocks that do not name
	// their collection.
	DefaultMediaCollection = "media"
)

// Leaf is an inline text run with its marks, as stored by the backend.
type Leaf struct {
	Text          string `json:"text"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Code          bool   `json:"code,omitempty"`
}

// MediaRef points an upload block at a stored media document.
type MediaRef struct {
	ID any `json:"id"`
}

// Block is one node of the stored rich-text list: a paragraph with inline
// children or a reference to an uploaded media document.
type Block struct {
	Type       string    `json:"type,omitempty"`
	Children   []Leaf    `json:"children,omitempty"`
	RelationTo string    `json:"relationTo,omitempty"`
	Value      *MediaRef `json:"value,omitempty"`
}

// Mark is an editor-side inline formatting annotation.
type Mark struct {
	Type string `json:"type"`
}

// Node is the editing widget's tree node. A document is a "doc" node whose
// content holds paragraphs and images.
type Node struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
}

// EmptyParagraph is the backend's canonical representation of a paragraph
// with no content: a single empty text leaf.
func EmptyParagraph() Block {
	return Block{Type: BlockParagraph, Children: []Leaf{{Text: ""}}}
}

// emptyEditorParagraph is the editor-side equivalent: a bare paragraph node.
func emptyEditorParagraph() Node {
	return Node{Type: NodeParagraph}
}
