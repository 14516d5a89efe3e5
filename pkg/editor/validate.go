package editor

import (
	"strconv"

	"github.com/goliatone/go-adminforms/pkg/formstate"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

const requiredMessage = "This field is required"

// aggregateMessage is the banner shown when any required field is empty.
const aggregateMessage = "Please fill in all required fields"

// Validate checks required fields against the working state and installs
// per-field errors plus the aggregate banner. It reports whether the state
// is submittable.
func (s *Session) Validate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	missing := requiredViolations(s.fields, s.state, "")
	if len(missing) == 0 {
		s.message = ""
		return true
	}
	if s.fieldErrors == nil {
		s.fieldErrors = make(map[string]string)
	}
	for _, path := range missing {
		s.fieldErrors[path] = requiredMessage
	}
	s.message = aggregateMessage
	return false
}

// requiredViolations walks schema and state in parallel and collects the
// dotted paths of required fields whose value is empty. Presentational
// wrappers pass through; tabs scope their panels by index; array rows are
// checked per existing row.
func requiredViolations(fields []schema.Field, state formstate.State, prefix string) []string {
	var out []string
	for _, field := range fields {
		path := field.Name
		if prefix != "" {
			path = prefix + "." + field.Name
		}
		switch field.Kind {
		case schema.KindRow, schema.KindCollapsible:
			out = append(out, requiredViolations(field.Children, state, prefix)...)
		case schema.KindTabs:
			for idx := range field.Tabs {
				panelPrefix := path + "." + strconv.Itoa(idx)
				out = append(out, requiredViolations(field.Tabs[idx].Children, state, panelPrefix)...)
			}
		case schema.KindGroup:
			out = append(out, requiredViolations(field.Children, state, path)...)
		case schema.KindArray:
			rows := 0
			if value, ok := state.Get(path); ok {
				if list, isList := value.([]any); isList {
					rows = len(list)
				}
			}
			if field.Required && rows == 0 {
				out = append(out, path)
			}
			for idx := 0; idx < rows; idx++ {
				rowPrefix := path + "." + strconv.Itoa(idx)
				out = append(out, requiredViolations(field.Children, state, rowPrefix)...)
			}
		default:
			if !field.Required {
				continue
			}
			value, _ := state.Get(path)
			if formstate.IsEmpty(value) {
				out = append(out, path)
			}
		}
	}
	return out
}
