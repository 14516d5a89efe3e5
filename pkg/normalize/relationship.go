package normalize

import (
	"strconv"

	"github.com/goliatone/go-adminforms/pkg/schema"
)

// Reference is the write shape for a polymorphic relationship value: the id
// plus the collection it belongs to.
type Reference struct {
	RelationTo string `json:"relationTo"`
	Value      any    `json:"value"`
}

func normalizeRelationship(field schema.Field, value any) (any, bool) {
	polymorphic := len(field.RelationTo) > 1

	if field.HasMany {
		items, _ := value.([]any)
		if polymorphic {
			out := make([]any, 0, len(items))
			for _, item := range items {
				if ref, ok := resolveReference(field, item); ok {
					out = append(out, ref)
				}
			}
			return out, true
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			if id, ok := resolveIdentifier(item); ok {
				out = append(out, id)
			}
		}
		return out, true
	}

	if polymorphic {
		ref, ok := resolveReference(field, value)
		if !ok {
			return nil, false
		}
		return ref, true
	}

	id, ok := resolveIdentifier(value)
	if !ok {
		return nil, false
	}
	return id, true
}

// resolveIdentifier accepts the shapes the document API hands back for a
// relation (bare id, populated document carrying {id}, selection carrying
// {value}) and reduces them to a single coerced identifier.
func resolveIdentifier(value any) (any, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, false
	case string:
		if typed == "" {
			return nil, false
		}
		return coerceID(typed), true
	case map[string]any:
		if inner, ok := typed["value"]; ok {
			return resolveIdentifier(inner)
		}
		if inner, ok := typed["id"]; ok {
			return resolveIdentifier(inner)
		}
		return nil, false
	case float64, int, int64:
		return typed, true
	default:
		return nil, false
	}
}

// resolveReference resolves both halves of a polymorphic relation. The
// collection tag comes from the value's own relationTo tag, its collection
// property, or, as a last resort, the field's first declared target.
func resolveReference(field schema.Field, value any) (Reference, bool) {
	collection := ""
	var rawID any = value

	if typed, ok := value.(map[string]any); ok {
		if tag, ok := typed["relationTo"].(string); ok && tag != "" {
			collection = tag
		} else if tag, ok := typed["collection"].(string); ok && tag != "" {
			collection = tag
		}
		if inner, ok := typed["value"]; ok {
			rawID = inner
		} else if inner, ok := typed["id"]; ok {
			rawID = inner
		}
	}

	if collection == "" && len(field.RelationTo) > 0 {
		collection = field.RelationTo[0]
	}

	id, ok := resolveIdentifier(rawID)
	if !ok || collection == "" {
		return Reference{}, false
	}
	return Reference{RelationTo: collection, Value: id}, true
}

// coerceID turns numeric-string identifiers into numbers; anything else
// passes through untouched (UUID-style ids stay strings).
func coerceID(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}
