package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document is the payload returned by the document API's schema mode
// (`GET /api/{collection}?schema=true`).
type Document struct {
	Slug   string  `json:"slug,omitempty"`
	Fields []Field `json:"fields"`
}

// Decode parses a schema document as served by the document API. Unknown
// field kinds are preserved verbatim; only structurally broken documents
// (missing names, composite children on primitive kinds) are rejected.
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("schema: decode document: %w", err)
	}
	if err := validateFields(doc.Fields, ""); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func validateFields(fields []Field, parent string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("schema: field with empty name under %q", pathOrRoot(parent))
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("schema: duplicate field %q under %q", name, pathOrRoot(parent))
		}
		seen[name] = struct{}{}

		path := name
		if parent != "" {
			path = parent + "." + name
		}

		switch field.Kind {
		case KindTabs:
			if len(field.Children) > 0 {
				return fmt.Errorf("schema: tabs field %q must not declare fields directly", path)
			}
			for _, tab := range field.Tabs {
				if err := validateFields(tab.Children, path); err != nil {
					return err
				}
			}
		case KindGroup, KindArray, KindRow, KindCollapsible:
			if len(field.Tabs) > 0 {
				return fmt.Errorf("schema: %s field %q must not declare tabs", field.Kind, path)
			}
			if err := validateFields(field.Children, path); err != nil {
				return err
			}
		default:
			// Primitive or unknown kind: nested structure is not allowed.
			// Unknown kinds are tolerated but only as leaves.
			if len(field.Children) > 0 || len(field.Tabs) > 0 {
				return fmt.Errorf("schema: %s field %q cannot carry nested fields", field.Kind, path)
			}
		}
	}
	return nil
}

func pathOrRoot(parent string) string {
	if parent == "" {
		return "(root)"
	}
	return parent
}
