package schema

// FieldKind is the closed enumeration of editable field kinds the admin
// console understands. Values mirror the document API's schema vocabulary.
type FieldKind string

const (
	KindText         FieldKind = "text"
	KindTextarea     FieldKind = "textarea"
	KindNumber       FieldKind = "number"
	KindEmail        FieldKind = "email"
	KindDate         FieldKind = "date"
	KindCheckbox     FieldKind = "checkbox"
	KindSelect       FieldKind = "select"
	KindRichText     FieldKind = "richText"
	KindUpload       FieldKind = "upload"
	KindRelationship FieldKind = "relationship"
	KindArray        FieldKind = "array"
	KindGroup        FieldKind = "group"
	KindRow          FieldKind = "row"
	KindTabs         FieldKind = "tabs"
	KindCollapsible  FieldKind = "collapsible"
)

// Option is a single entry in a select-like field's option list. Order is
// significant and preserved from the schema document.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Tab groups a labelled subset of fields inside a tabs field.
type Tab struct {
	Label    string  `json:"label"`
	Children []Field `json:"fields"`
}

// Field is the declarative description of one editable attribute of a
// document. It is recursive: composite kinds (group, array, row, collapsible)
// carry Children, tabs carries Tabs. Exactly one of the two is populated per
// kind; primitive kinds carry neither.
type Field struct {
	Name       string    `json:"name"`
	Kind       FieldKind `json:"type"`
	Label      string    `json:"label,omitempty"`
	Required   bool      `json:"required,omitempty"`
	Localized  bool      `json:"localized,omitempty"`
	Default    any       `json:"defaultValue,omitempty"`
	Options    []Option  `json:"options,omitempty"`
	RelationTo []string  `json:"relationTo,omitempty"`
	HasMany    bool      `json:"hasMany,omitempty"`
	Children   []Field   `json:"fields,omitempty"`
	Tabs       []Tab     `json:"tabs,omitempty"`
}

// Composite reports whether the field owns nested children (directly or via
// tabs).
func (f Field) Composite() bool {
	switch f.Kind {
	case KindGroup, KindArray, KindRow, KindTabs, KindCollapsible:
		return true
	default:
		return false
	}
}

// Known reports whether the kind belongs to the closed enumeration. Schemas
// served by a newer backend may carry kinds this build has never seen; the
// render boundary degrades those to a plain text input.
func (f Field) Known() bool {
	switch f.Kind {
	case KindText, KindTextarea, KindNumber, KindEmail, KindDate,
		KindCheckbox, KindSelect, KindRichText, KindUpload,
		KindRelationship, KindArray, KindGroup, KindRow, KindTabs,
		KindCollapsible:
		return true
	default:
		return false
	}
}

// DisplayLabel returns the label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// AllChildren flattens the field's direct children, including every tab's
// children for tabs fields. Order follows declaration order.
func (f Field) AllChildren() []Field {
	if f.Kind == KindTabs {
		var out []Field
		for _, tab := range f.Tabs {
			out = append(out, tab.Children...)
		}
		return out
	}
	return f.Children
}
