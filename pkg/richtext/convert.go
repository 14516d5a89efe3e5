package richtext

const (
	attrMediaID    = "mediaId"
	attrRelationTo = "relationTo"
)

// markOrder fixes the mark emission order so conversions are deterministic.
var markOrder = []string{"bold", "italic", "underline", "strikethrough", "code"}

// ToEditorTree maps a stored rich-text value into the editing widget's tree.
// A bare string becomes a single-paragraph document; unrecognised block
// kinds degrade to an empty paragraph. The function never fails: whatever
// the backend (or an older schema) hands over, the editor receives a valid
// document.
func ToEditorTree(value any) Node {
	switch typed := value.(type) {
	case nil:
		return Node{Type: NodeDoc, Content: []Node{emptyEditorParagraph()}}
	case string:
		return stringDocument(typed)
	case []Block:
		return blocksToDocument(typed)
	case []any:
		return blocksToDocument(DecodeBlocks(typed))
	default:
		return Node{Type: NodeDoc, Content: []Node{emptyEditorParagraph()}}
	}
}

// ToStoredTree maps an editor document back into the stored block list.
// Image nodes without a resolved media identifier are dropped entirely: an
// image inserted before its upload finished must not persist as a dangling
// reference. Paragraphs without children become the canonical empty
// paragraph.
func ToStoredTree(doc Node) []Block {
	blocks := make([]Block, 0, len(doc.Content))
	for _, node := range doc.Content {
		switch node.Type {
		case NodeParagraph:
			blocks = append(blocks, paragraphToBlock(node))
		case NodeImage:
			if block, ok := imageToBlock(node); ok {
				blocks = append(blocks, block)
			}
		}
	}
	return blocks
}

func stringDocument(text string) Node {
	if text == "" {
		return Node{Type: NodeDoc, Content: []Node{emptyEditorParagraph()}}
	}
	return Node{Type: NodeDoc, Content: []Node{{
		Type:    NodeParagraph,
		Content: []Node{{Type: NodeText, Text: text}},
	}}}
}

func blocksToDocument(blocks []Block) Node {
	content := make([]Node, 0, len(blocks))
	for _, block := range blocks {
		switch block.Type {
		case BlockParagraph, "":
			content = append(content, paragraphToNode(block))
		case BlockUpload:
			if node, ok := uploadToNode(block); ok {
				content = append(content, node)
				continue
			}
			content = append(content, emptyEditorParagraph())
		default:
			// Lossy by policy: block kinds this build does not understand
			// must not break the editor.
			content = append(content, emptyEditorParagraph())
		}
	}
	if len(content) == 0 {
		content = []Node{emptyEditorParagraph()}
	}
	return Node{Type: NodeDoc, Content: content}
}

func paragraphToNode(block Block) Node {
	if isEmptyParagraph(block) {
		return emptyEditorParagraph()
	}
	runs := make([]Node, 0, len(block.Children))
	for _, leaf := range block.Children {
		runs = append(runs, Node{
			Type:  NodeText,
			Text:  leaf.Text,
			Marks: leafMarks(leaf),
		})
	}
	return Node{Type: NodeParagraph, Content: runs}
}

func uploadToNode(block Block) (Node, bool) {
	if block.Value == nil || block.Value.ID == nil || block.Value.ID == "" {
		return Node{}, false
	}
	attrs := map[string]any{attrMediaID: block.Value.ID}
	if block.RelationTo != "" && block.RelationTo != DefaultMediaCollection {
		attrs[attrRelationTo] = block.RelationTo
	}
	return Node{Type: NodeImage, Attrs: attrs}, true
}

func paragraphToBlock(node Node) Block {
	if len(node.Content) == 0 {
		return EmptyParagraph()
	}
	leaves := make([]Leaf, 0, len(node.Content))
	for _, run := range node.Content {
		if run.Type != NodeText {
			continue
		}
		leaves = append(leaves, leafFromNode(run))
	}
	if len(leaves) == 0 {
		return EmptyParagraph()
	}
	return Block{Type: BlockParagraph, Children: leaves}
}

func imageToBlock(node Node) (Block, bool) {
	id, ok := node.Attrs[attrMediaID]
	if !ok || id == nil || id == "" {
		return Block{}, false
	}
	relation := DefaultMediaCollection
	if tag, ok := node.Attrs[attrRelationTo].(string); ok && tag != "" {
		relation = tag
	}
	return Block{
		Type:       BlockUpload,
		RelationTo: relation,
		Value:      &MediaRef{ID: id},
	}, true
}

func isEmptyParagraph(block Block) bool {
	if len(block.Children) == 0 {
		return true
	}
	if len(block.Children) != 1 {
		return false
	}
	leaf := block.Children[0]
	return leaf.Text == "" && !leaf.Bold && !leaf.Italic &&
		!leaf.Underline && !leaf.Strikethrough && !leaf.Code
}

func leafMarks(leaf Leaf) []Mark {
	var marks []Mark
	for _, kind := range markOrder {
		if leafHasMark(leaf, kind) {
			marks = append(marks, Mark{Type: kind})
		}
	}
	return marks
}

func leafFromNode(node Node) Leaf {
	leaf := Leaf{Text: node.Text}
	for _, mark := range node.Marks {
		switch mark.Type {
		case "bold":
			leaf.Bold = true
		case "italic":
			leaf.Italic = true
		case "underline":
			leaf.Underline = true
		case "strikethrough", "strike":
			leaf.Strikethrough = true
		case "code":
			leaf.Code = true
		}
	}
	return leaf
}

func leafHasMark(leaf Leaf, kind string) bool {
	switch kind {
	case "bold":
		return leaf.Bold
	case "italic":
		return leaf.Italic
	case "underline":
		return leaf.Underline
	case "strikethrough":
		return leaf.Strikethrough
	case "code":
		return leaf.Code
	default:
		return false
	}
}

// DecodeBlocks maps a JSON-decoded block list (as returned inside a record)
// into typed blocks. Entries that are not objects are skipped.
func DecodeBlocks(raw []any) []Block {
	blocks := make([]Block, 0, len(raw))
	for _, item := range raw {
		node, ok := item.(map[string]any)
		if !ok {
			continue
		}
		blocks = append(blocks, decodeBlock(node))
	}
	return blocks
}

func decodeBlock(node map[string]any) Block {
	block := Block{}
	if kind, ok := node["type"].(string); ok {
		block.Type = kind
	}
	if relation, ok := node["relationTo"].(string); ok {
		block.RelationTo = relation
	}
	if value, ok := node["value"].(map[string]any); ok {
		if id, ok := value["id"]; ok {
			block.Value = &MediaRef{ID: id}
		}
	}
	if children, ok := node["children"].([]any); ok {
		for _, child := range children {
			leaf, ok := child.(map[string]any)
			if !ok {
				continue
			}
			block.Children = append(block.Children, decodeLeaf(leaf))
		}
	}
	return block
}

func decodeLeaf(node map[string]any) Leaf {
	leaf := Leaf{}
	if text, ok := node["text"].(string); ok {
		leaf.Text = text
	}
	leaf.Bold, _ = node["bold"].(bool)
	leaf.Italic, _ = node["italic"].(bool)
	leaf.Underline, _ = node["underline"].(bool)
	leaf.Strikethrough, _ = node["strikethrough"].(bool)
	leaf.Code, _ = node["code"].(bool)
	return leaf
}
