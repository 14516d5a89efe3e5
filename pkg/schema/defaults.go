package schema

import "strconv"

// ZeroValue returns the initial form value for a field when neither a stored
// record nor a declared default provides one. Controlled editors never
// receive a missing value, so every kind maps to a concrete zero shape.
func ZeroValue(field Field) any {
	if field.Default != nil {
		return field.Default
	}
	switch field.Kind {
	case KindGroup:
		return BuildDefaults(field.Children)
	case KindTabs:
		out := make(map[string]any, len(field.Tabs))
		for idx, tab := range field.Tabs {
			out[strconv.Itoa(idx)] = BuildDefaults(tab.Children)
		}
		return out
	case KindArray:
		return []any{}
	case KindRelationship:
		if field.HasMany {
			return []any{}
		}
		return ""
	case KindCheckbox:
		return false
	default:
		return ""
	}
}

// BuildDefaults seeds a value map for a field list, one entry per field.
// Group values nest under the group name; tabs values nest under the tabs
// name keyed by decimal tab index so edits survive tab switches. Row and
// collapsible fields are presentational wrappers: their children live at the
// parent level, matching how the document API stores them.
func BuildDefaults(fields []Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		if IsSystemField(field.Name) {
			continue
		}
		switch field.Kind {
		case KindRow, KindCollapsible:
			for name, value := range BuildDefaults(field.Children) {
				out[name] = value
			}
		default:
			out[field.Name] = ZeroValue(field)
		}
	}
	return out
}

// RowSeed builds the default value map for one new array row.
func RowSeed(field Field) map[string]any {
	if field.Kind != KindArray {
		return map[string]any{}
	}
	return BuildDefaults(field.Children)
}
