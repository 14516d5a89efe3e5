package forms

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-adminforms/pkg/content"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

// ErrorMapping splits a document API error payload into field-level and
// form-level messages keyed by the dotted field paths used throughout the
// pipeline.
type ErrorMapping struct {
	Fields map[string]string
	Form   []string
}

// MapAPIError normalises a structured API failure into dotted field
// identifiers the renderers understand. Paths that match no schema field
// are kept as form-level messages so nothing is lost.
func MapAPIError(fields []schema.Field, apiErr *content.APIError) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string]string)}
	if apiErr == nil {
		return mapping
	}

	known := make(map[string]struct{})
	collectFieldPaths(fields, "", known)

	for _, fieldErr := range apiErr.Fields {
		message := strings.TrimSpace(fieldErr.Message)
		if message == "" {
			continue
		}
		if path := matchFieldPath(fieldErr.Path, known); path != "" {
			if _, exists := mapping.Fields[path]; !exists {
				mapping.Fields[path] = message
			}
			continue
		}
		mapping.Form = append(mapping.Form, message)
	}

	if len(mapping.Fields) == 0 && len(mapping.Form) == 0 {
		if msg := strings.TrimSpace(apiErr.Message); msg != "" {
			mapping.Form = append(mapping.Form, msg)
		}
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	return mapping
}

// ErrorKey reduces a dotted state path to the index-free identifier
// MapAPIError keys on: array row indices drop out and tab wrappers collapse
// so their children surface at the wrapper's level, matching the wire shape.
// An empty result means the path resolves to no schema field.
func ErrorKey(fields []schema.Field, path string) string {
	segments := strings.Split(path, ".")
	out := make([]string, 0, len(segments))
	scope := fields
	for idx := 0; idx < len(segments); idx++ {
		segment := segments[idx]
		field, children, ok := scopeField(scope, segment)
		if !ok {
			return ""
		}
		switch field.Kind {
		case schema.KindTabs:
			// The wrapper and its panel index never appear on the wire.
			if idx+1 < len(segments) && isIndexSegment(segments[idx+1]) {
				idx++
			}
		case schema.KindArray:
			out = append(out, segment)
			if idx+1 < len(segments) && isIndexSegment(segments[idx+1]) {
				idx++
			}
		default:
			out = append(out, segment)
		}
		scope = children
	}
	return strings.Join(out, ".")
}

// scopeField finds the named field in scope, looking through presentational
// wrappers. For tabs the returned child scope merges every panel.
func scopeField(fields []schema.Field, name string) (schema.Field, []schema.Field, bool) {
	for _, field := range fields {
		switch field.Kind {
		case schema.KindRow, schema.KindCollapsible:
			if found, children, ok := scopeField(field.Children, name); ok {
				return found, children, true
			}
		case schema.KindTabs:
			if field.Name != name {
				continue
			}
			var merged []schema.Field
			for _, tab := range field.Tabs {
				merged = append(merged, tab.Children...)
			}
			return field, merged, true
		default:
			if field.Name == name {
				return field, field.Children, true
			}
		}
	}
	return schema.Field{}, nil, false
}

func isIndexSegment(segment string) bool {
	_, err := strconv.Atoi(segment)
	return err == nil && segment != ""
}

// matchFieldPath tries the raw path, then variants with request wrappers and
// numeric row indices stripped, returning the longest known prefix.
func matchFieldPath(raw string, known map[string]struct{}) string {
	segments := parsePathSegments(raw)
	if len(segments) == 0 {
		return ""
	}

	best := ""
	for _, variant := range [][]string{
		segments,
		dropWrapperSegments(segments),
		stripNumericSegments(segments),
		stripNumericSegments(dropWrapperSegments(segments)),
	} {
		if path := longestKnownPrefix(variant, known); len(path) > len(best) {
			best = path
		}
	}
	return best
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$.")
	replacer := strings.NewReplacer("[", ".", "]", "", "/", ".")
	clean = strings.Trim(replacer.Replace(clean), ".")
	if clean == "" {
		return nil
	}
	parts := strings.Split(clean, ".")
	out := parts[:0]
	for _, part := range parts {
		if segment := strings.TrimSpace(part); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	wrappers := map[string]struct{}{
		"body": {}, "request": {}, "payload": {}, "data": {}, "doc": {},
	}
	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestKnownPrefix(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func collectFieldPaths(fields []schema.Field, prefix string, dest map[string]struct{}) {
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		dest[path] = struct{}{}

		switch field.Kind {
		case schema.KindTabs:
			for _, tab := range field.Tabs {
				// Tab children surface at the wrapper's level on the wire.
				collectFieldPaths(tab.Children, prefix, dest)
			}
		case schema.KindRow, schema.KindCollapsible:
			collectFieldPaths(field.Children, prefix, dest)
		case schema.KindGroup, schema.KindArray:
			collectFieldPaths(field.Children, path, dest)
		}
	}
}
