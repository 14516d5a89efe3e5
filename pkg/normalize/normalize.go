// Package normalize flattens an edit session's value tree into the exact
// write payload the document API expects. Read shapes and write shapes are
// asymmetric for several kinds (relationships and uploads in particular), so
// this walk is the single place those rules live.
package normalize

import (
	"strconv"

	"github.com/goliatone/go-adminforms/pkg/schema"
)

// Payload walks the field list and state in parallel and produces the
// document to POST or PATCH. It is pure: neither input is mutated.
//
// Omission semantics: empty relationships and uploads are left out of the
// payload entirely. Whether the backend reads a missing key as "unchanged"
// or "cleared" belongs to its PATCH contract, not to this function.
func Payload(fields []schema.Field, state map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		if schema.IsSystemField(field.Name) {
			continue
		}
		switch field.Kind {
		case schema.KindRow, schema.KindCollapsible:
			for name, value := range Payload(field.Children, state) {
				out[name] = value
			}
		case schema.KindTabs:
			flattenTabs(out, field, state)
		default:
			value, include := normalizeField(field, state[field.Name])
			if include {
				out[field.Name] = value
			}
		}
	}
	return out
}

// flattenTabs merges each tab panel's normalized children into the parent
// payload. The tab wrapper is presentational; the wire format has no notion
// of it.
func flattenTabs(out map[string]any, field schema.Field, state map[string]any) {
	panels, _ := state[field.Name].(map[string]any)
	for idx, tab := range field.Tabs {
		panel, _ := panels[strconv.Itoa(idx)].(map[string]any)
		for name, value := range Payload(tab.Children, panel) {
			out[name] = value
		}
	}
}

func normalizeField(field schema.Field, value any) (any, bool) {
	switch field.Kind {
	case schema.KindGroup:
		nested, _ := value.(map[string]any)
		// Groups always emit, even when empty.
		return Payload(field.Children, nested), true

	case schema.KindRelationship:
		return normalizeRelationship(field, value)

	case schema.KindUpload:
		return normalizeUpload(value)

	case schema.KindArray:
		rows, _ := value.([]any)
		out := make([]any, 0, len(rows))
		for _, row := range rows {
			rowMap, _ := row.(map[string]any)
			out = append(out, Payload(field.Children, rowMap))
		}
		return out, true

	case schema.KindNumber:
		return normalizeNumber(value), true

	case schema.KindDate:
		if value == "" {
			return nil, true
		}
		return value, true

	default:
		// Text-like kinds pass through verbatim, including the empty
		// string: clearing a text field must persist the cleared value.
		return value, true
	}
}

func normalizeUpload(value any) (any, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, false
	case map[string]any:
		if id, ok := typed["id"]; ok && id != nil && id != "" {
			return id, true
		}
		return nil, false
	case string:
		if typed == "" {
			return nil, false
		}
		return typed, true
	default:
		return typed, true
	}
}

func normalizeNumber(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		if typed == "" {
			// Explicit clear, distinct from omission.
			return nil
		}
		if n, err := strconv.Atoi(typed); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(typed, 64); err == nil {
			return f
		}
		return typed
	default:
		return typed
	}
}
