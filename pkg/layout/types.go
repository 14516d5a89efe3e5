package layout

// Section is a named grouping of field names for one column of the edit
// form. It is purely presentational: field identity stays with the schema.
type Section struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []string `json:"fields" yaml:"fields"`
	Wrap        bool     `json:"wrap,omitempty" yaml:"wrap,omitempty"`
}

// FormLayout arranges a collection's edit form into one or two columns.
type FormLayout struct {
	Columns int       `json:"columns" yaml:"columns"`
	Left    []Section `json:"left" yaml:"left"`
	Right   []Section `json:"right,omitempty" yaml:"right,omitempty"`
}

// FieldNames returns every field name referenced by the layout, left column
// first, preserving section order.
func (l FormLayout) FieldNames() []string {
	var out []string
	for _, section := range l.Left {
		out = append(out, section.Fields...)
	}
	for _, section := range l.Right {
		out = append(out, section.Fields...)
	}
	return out
}
