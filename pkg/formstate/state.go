// Package formstate holds the in-memory value tree an edit session mutates
// between load and submit. Updates are pure structural operations: every
// write returns a new tree sharing unchanged branches, so update logic stays
// referentially transparent and testable without any UI plumbing.
package formstate

import (
	"fmt"
	"strconv"
	"strings"
)

// State maps top-level field names to their current values. Value shapes are
// kind-dependent: scalars for primitives, map[string]any for groups, []any of
// maps for array rows, index-keyed maps for tabs.
type State map[string]any

// Clone performs a deep copy of the state tree.
func (s State) Clone() State {
	if s == nil {
		return State{}
	}
	return State(cloneMap(map[string]any(s)))
}

// Get resolves a dotted path ("gallery.2.caption") into the tree. Numeric
// segments index into slices.
func (s State) Get(path string) (any, bool) {
	return getPath(map[string]any(s), path)
}

// WithValue returns a new tree with the value at the dotted path replaced.
// Intermediate maps and slices are created as needed; every node along the
// path is copied, siblings are shared.
func (s State) WithValue(path string, value any) (State, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, fmt.Errorf("formstate: empty path")
	}
	updated, err := setIn(map[string]any(s.orEmpty()), segments, value)
	if err != nil {
		return nil, err
	}
	return State(updated), nil
}

// WithRowAppended returns a new tree with seed appended to the slice at path.
// A missing or nil entry is treated as an empty slice.
func (s State) WithRowAppended(path string, seed map[string]any) (State, error) {
	rows := s.rowsAt(path)
	next := make([]any, 0, len(rows)+1)
	next = append(next, rows...)
	next = append(next, cloneMap(seed))
	return s.WithValue(path, next)
}

// WithRowRemoved returns a new tree with the row at index dropped from the
// slice at path. Row order of the remaining entries is preserved.
func (s State) WithRowRemoved(path string, index int) (State, error) {
	rows := s.rowsAt(path)
	if index < 0 || index >= len(rows) {
		return nil, fmt.Errorf("formstate: row index %d out of range at %q", index, path)
	}
	next := make([]any, 0, len(rows)-1)
	next = append(next, rows[:index]...)
	next = append(next, rows[index+1:]...)
	return s.WithValue(path, next)
}

func (s State) rowsAt(path string) []any {
	current, ok := s.Get(path)
	if !ok || current == nil {
		return nil
	}
	rows, _ := current.([]any)
	return rows
}

func (s State) orEmpty() State {
	if s == nil {
		return State{}
	}
	return s
}

// IsEmpty reports whether value counts as empty for required-field
// validation: nil, empty string, empty slice, or empty map.
func IsEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func splitPath(path string) []string {
	trimmed := strings.Trim(strings.TrimSpace(path), ".")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, ".")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getPath(node any, path string) (any, bool) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, false
	}
	current := node
	for _, segment := range segments {
		switch typed := current.(type) {
		case map[string]any:
			value, ok := typed[segment]
			if !ok {
				return nil, false
			}
			current = value
		case State:
			value, ok := typed[segment]
			if !ok {
				return nil, false
			}
			current = value
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func setIn(node map[string]any, segments []string, value any) (map[string]any, error) {
	out := make(map[string]any, len(node)+1)
	for key, existing := range node {
		out[key] = existing
	}

	head := segments[0]
	if len(segments) == 1 {
		out[head] = value
		return out, nil
	}

	child := out[head]
	rest := segments[1:]

	if idx, err := strconv.Atoi(rest[0]); err == nil {
		// Tab panels are index-keyed maps, not slices; descend as a map when
		// one is already in place.
		if childMap, ok := child.(map[string]any); ok {
			updated, err := setIn(childMap, rest, value)
			if err != nil {
				return nil, err
			}
			out[head] = updated
			return out, nil
		}
		slice, _ := child.([]any)
		updated, err := setInSlice(slice, idx, rest[1:], value)
		if err != nil {
			return nil, fmt.Errorf("%w at %q", err, head)
		}
		out[head] = updated
		return out, nil
	}

	childMap, ok := child.(map[string]any)
	if child != nil && !ok {
		return nil, fmt.Errorf("formstate: cannot descend into %T at %q", child, head)
	}
	if childMap == nil {
		childMap = map[string]any{}
	}
	updated, err := setIn(childMap, rest, value)
	if err != nil {
		return nil, err
	}
	out[head] = updated
	return out, nil
}

func setInSlice(slice []any, index int, rest []string, value any) ([]any, error) {
	if index < 0 {
		return nil, fmt.Errorf("formstate: negative index %d", index)
	}
	length := len(slice)
	if index >= length {
		length = index + 1
	}
	out := make([]any, length)
	copy(out, slice)

	if len(rest) == 0 {
		out[index] = value
		return out, nil
	}

	childMap, ok := out[index].(map[string]any)
	if out[index] != nil && !ok {
		return nil, fmt.Errorf("formstate: cannot descend into %T", out[index])
	}
	if childMap == nil {
		childMap = map[string]any{}
	}
	updated, err := setIn(childMap, rest, value)
	if err != nil {
		return nil, err
	}
	out[index] = updated
	return out, nil
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneMap(typed)
	case State:
		return cloneMap(map[string]any(typed))
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
