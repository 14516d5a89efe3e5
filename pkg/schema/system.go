package schema

// System fields are owned by the document store. They never render as
// editable inputs and the normalizer strips them from write payloads.
var systemFieldNames = map[string]struct{}{
	"id":        {},
	"_id":       {},
	"createdAt": {},
	"updatedAt": {},
	"_status":   {},
}

// IsSystemField reports whether name identifies a backend-managed field.
func IsSystemField(name string) bool {
	_, ok := systemFieldNames[name]
	return ok
}

// EditableFields filters out system fields from a top-level field list.
func EditableFields(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, field := range fields {
		if IsSystemField(field.Name) {
			continue
		}
		out = append(out, field)
	}
	return out
}
