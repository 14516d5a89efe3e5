package formstate

import (
	"strconv"

	"github.com/goliatone/go-adminforms/pkg/schema"
)

// Initialize builds the state for an edit session: per-kind defaults first,
// then the stored record's values overlaid with per-kind coercion. A nil
// record yields pure defaults (create mode).
func Initialize(fields []schema.Field, record map[string]any) State {
	state := State(schema.BuildDefaults(fields))
	if record == nil {
		return state
	}
	overlay(state, fields, record)
	return state
}

func overlay(state map[string]any, fields []schema.Field, record map[string]any) {
	for _, field := range fields {
		if schema.IsSystemField(field.Name) {
			continue
		}
		switch field.Kind {
		case schema.KindRow, schema.KindCollapsible:
			// Wrapper children live at this level in both state and record.
			overlay(state, field.Children, record)
		case schema.KindTabs:
			overlayTabs(state, field, record)
		default:
			raw, ok := record[field.Name]
			if !ok || raw == nil {
				continue
			}
			state[field.Name] = coerce(field, raw)
		}
	}
}

func overlayTabs(state map[string]any, field schema.Field, record map[string]any) {
	panels, ok := state[field.Name].(map[string]any)
	if !ok {
		return
	}
	for idx, tab := range field.Tabs {
		panel, ok := panels[strconv.Itoa(idx)].(map[string]any)
		if !ok {
			continue
		}
		overlay(panel, tab.Children, record)
	}
}

func coerce(field schema.Field, raw any) any {
	switch field.Kind {
	case schema.KindDate:
		return truncateToDay(raw)
	case schema.KindGroup:
		nested, ok := raw.(map[string]any)
		if !ok {
			return schema.ZeroValue(field)
		}
		sub := schema.BuildDefaults(field.Children)
		overlay(sub, field.Children, nested)
		return sub
	case schema.KindArray:
		rows, ok := raw.([]any)
		if !ok {
			return []any{}
		}
		out := make([]any, 0, len(rows))
		for _, row := range rows {
			rowMap, ok := row.(map[string]any)
			if !ok {
				continue
			}
			sub := schema.RowSeed(field)
			overlay(sub, field.Children, rowMap)
			out = append(out, sub)
		}
		return out
	case schema.KindRelationship, schema.KindUpload:
		// Read shapes vary (bare id, populated document, {relationTo,value}
		// pair). Normalization to the write shape happens at submit time.
		return raw
	default:
		return raw
	}
}

// truncateToDay trims an ISO timestamp down to its calendar-day prefix so
// date inputs receive "2006-01-02" regardless of how the record stores it.
func truncateToDay(raw any) any {
	value, ok := raw.(string)
	if !ok {
		return raw
	}
	if len(value) > 10 && (value[10] == 'T' || value[10] == ' ') {
		return value[:10]
	}
	return value
}
