package formstate

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-adminforms/pkg/schema"
)

// Decode rebuilds the nested state tree from a submitted urlencoded form.
// Input names are the dotted paths the HTML renderer emits; values are
// coerced by the owning field's kind. Keys starting with "_" are control
// inputs (method override, row actions, upload staging) and are skipped.
// Array rows whose values are all empty are pruned, so an appended-but-blank
// row does not change the payload.
func Decode(fields []schema.Field, form url.Values) (State, error) {
	state := Initialize(fields, nil)

	keys := make([]string, 0, len(form))
	for key := range form {
		if strings.HasPrefix(key, "_") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		values := form[key]
		if len(values) == 0 {
			continue
		}
		path := strings.TrimSuffix(key, "[]")
		multi := strings.HasSuffix(key, "[]")

		field, known := schema.FieldAt(fields, path)
		decoded := decodeValue(field, known, values, multi)

		next, err := state.WithValue(path, decoded)
		if err != nil {
			return nil, fmt.Errorf("formstate: decode %q: %w", key, err)
		}
		state = next
	}

	return pruneBlankRows(fields, state, "")
}

// decodeValue coerces the posted strings by field kind. Unknown paths keep
// the raw string so nothing typed into a degraded input is lost.
func decodeValue(field schema.Field, known bool, values []string, multi bool) any {
	// Paired hidden+checkbox inputs post two values; the last one wins.
	raw := values[len(values)-1]

	if !known {
		return raw
	}

	switch field.Kind {
	case schema.KindCheckbox:
		return raw == "true" || raw == "on" || raw == "1"
	case schema.KindRichText:
		return decodeRichText(raw)
	case schema.KindRelationship:
		if multi || field.HasMany {
			out := make([]any, 0, len(values))
			for _, value := range values {
				if decoded := decodeRelationValue(field, value); decoded != nil {
					out = append(out, decoded)
				}
			}
			return out
		}
		decoded := decodeRelationValue(field, raw)
		if decoded == nil {
			return ""
		}
		return decoded
	default:
		return raw
	}
}

// decodeRelationValue maps a posted option value back into the state shape:
// polymorphic options post "collection:id" and become tagged references.
func decodeRelationValue(field schema.Field, raw string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if len(field.RelationTo) <= 1 {
		return raw
	}
	collection, id, found := strings.Cut(raw, ":")
	if !found || collection == "" || id == "" {
		return raw
	}
	return map[string]any{"relationTo": collection, "value": id}
}

func decodeRichText(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []any{}
	}
	if strings.HasPrefix(trimmed, "[") {
		var blocks []any
		if err := json.Unmarshal([]byte(trimmed), &blocks); err == nil {
			return blocks
		}
	}
	return raw
}

// pruneBlankRows drops array rows whose every value is empty, walking nested
// arrays depth-first.
func pruneBlankRows(fields []schema.Field, state State, prefix string) (State, error) {
	current := state
	for _, field := range fields {
		path := field.Name
		if prefix != "" {
			path = prefix + "." + field.Name
		}
		switch field.Kind {
		case schema.KindRow, schema.KindCollapsible:
			next, err := pruneBlankRows(field.Children, current, prefix)
			if err != nil {
				return nil, err
			}
			current = next
		case schema.KindGroup:
			next, err := pruneBlankRows(field.Children, current, path)
			if err != nil {
				return nil, err
			}
			current = next
		case schema.KindTabs:
			for idx, tab := range field.Tabs {
				next, err := pruneBlankRows(tab.Children, current, path+"."+strconv.Itoa(idx))
				if err != nil {
					return nil, err
				}
				current = next
			}
		case schema.KindArray:
			value, ok := current.Get(path)
			if !ok {
				continue
			}
			rows, isList := value.([]any)
			if !isList {
				continue
			}

			kept := make([]any, 0, len(rows))
			for idx := range rows {
				rowPrefix := path + "." + strconv.Itoa(idx)
				next, err := pruneBlankRows(field.Children, current, rowPrefix)
				if err != nil {
					return nil, err
				}
				current = next
			}
			if refreshed, ok := current.Get(path); ok {
				rows, _ = refreshed.([]any)
			}
			for _, row := range rows {
				if !rowIsBlank(row) {
					kept = append(kept, row)
				}
			}
			next, err := current.WithValue(path, kept)
			if err != nil {
				return nil, err
			}
			current = next
		}
	}
	return current, nil
}

func rowIsBlank(row any) bool {
	values, ok := row.(map[string]any)
	if !ok {
		return IsEmpty(row)
	}
	for _, value := range values {
		switch typed := value.(type) {
		case map[string]any:
			if !rowIsBlank(typed) {
				return false
			}
		case []any:
			for _, item := range typed {
				if !rowIsBlank(item) {
					return false
				}
			}
		case bool:
			// An unchecked box alone does not make a row meaningful.
			if typed {
				return false
			}
		default:
			if !IsEmpty(value) {
				return false
			}
		}
	}
	return true
}
