package schema

import "strings"

// FieldAt resolves a dotted state path ("gallery.0.caption") to the schema
// field that owns it. Numeric row/panel segments are skipped; presentational
// wrappers (row, collapsible) are looked through because their children live
// at the parent's path level.
func FieldAt(fields []Field, path string) (Field, bool) {
	segments := strings.Split(path, ".")
	clean := segments[:0]
	for _, segment := range segments {
		if segment != "" {
			clean = append(clean, segment)
		}
	}
	return fieldAt(fields, clean)
}

func fieldAt(fields []Field, segments []string) (Field, bool) {
	if len(segments) == 0 {
		return Field{}, false
	}
	head := segments[0]
	for _, field := range fields {
		switch field.Kind {
		case KindRow, KindCollapsible:
			if found, ok := fieldAt(field.Children, segments); ok {
				return found, true
			}
		case KindTabs:
			if field.Name != head {
				continue
			}
			rest := skipNumeric(segments[1:])
			if len(rest) == 0 {
				return field, true
			}
			for _, tab := range field.Tabs {
				if found, ok := fieldAt(tab.Children, rest); ok {
					return found, true
				}
			}
		default:
			if field.Name != head {
				continue
			}
			rest := skipNumeric(segments[1:])
			if len(rest) == 0 {
				return field, true
			}
			if found, ok := fieldAt(field.Children, rest); ok {
				return found, true
			}
		}
	}
	return Field{}, false
}

func skipNumeric(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}
	if isDigits(segments[0]) {
		return segments[1:]
	}
	return segments
}

func isDigits(segment string) bool {
	if segment == "" {
		return false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
