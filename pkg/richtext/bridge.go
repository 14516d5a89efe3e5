package richtext

import "sync"

// Bridge coordinates the two conversion directions for one editor instance.
// Outbound writes (editor -> stored) raise a one-shot flag so the next
// inbound sync pass recognises its own update and skips the re-render that
// would otherwise reformat the document under the user's cursor.
type Bridge struct {
	mu       sync.Mutex
	internal bool
	stored   []Block
}

// NewBridge seeds the bridge with the record's current stored value.
func NewBridge(value any) *Bridge {
	bridge := &Bridge{}
	doc := ToEditorTree(value)
	bridge.stored = ToStoredTree(doc)
	return bridge
}

// ApplyEditor records an edit coming from the widget and returns the stored
// shape to place into form state. The internal flag stays set until the next
// Sync call observes it.
func (b *Bridge) ApplyEditor(doc Node) []Block {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.internal = true
	b.stored = ToStoredTree(doc)
	return b.stored
}

// Sync handles an inbound stored-value change. When the change originated
// from ApplyEditor the flag is cleared and ok is false: the editor must not
// be re-seeded. External changes (record reload, locale switch) convert and
// report ok true.
func (b *Bridge) Sync(value any) (Node, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.internal {
		b.internal = false
		return Node{}, false
	}
	doc := ToEditorTree(value)
	b.stored = ToStoredTree(doc)
	return doc, true
}

// Stored returns the last stored-shape snapshot the bridge produced.
func (b *Bridge) Stored() []Block {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Block, len(b.stored))
	copy(out, b.stored)
	return out
}
