// Package openapi bootstraps collection field schemas from OpenAPI component
// schemas, so collections backed by an existing service spec need no
// hand-written field list.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-adminforms/pkg/schema"
)

const (
	// extensionKind lets a spec pin a property to a CMS field kind
	// ("richText", "upload", ...) that plain JSON types cannot express.
	extensionKind = "x-cms-kind"
	// extensionRelation names the target collections of a relationship
	// property (string or list of strings).
	extensionRelation = "x-cms-relation"
	// extensionLocalized marks a property as locale-scoped.
	extensionLocalized = "x-cms-localized"
)

// Importer converts OpenAPI component schemas into field schemas.
type Importer struct {
	resolveExternalRefs bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithExternalRefs allows the loader to chase external $ref targets.
func WithExternalRefs() Option {
	return func(i *Importer) {
		i.resolveExternalRefs = true
	}
}

// New constructs an Importer.
func New(options ...Option) *Importer {
	importer := &Importer{}
	for _, opt := range options {
		if opt != nil {
			opt(importer)
		}
	}
	return importer
}

// Import loads an OpenAPI document and converts the named component schema
// into a field list in declaration-stable (sorted) property order.
func (i *Importer) Import(ctx context.Context, data []byte, component string) ([]schema.Field, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi import: document payload is empty")
	}
	if component == "" {
		return nil, errors.New("openapi import: component name is required")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: i.resolveExternalRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi import: load document: %w", err)
	}
	if spec.Components == nil || spec.Components.Schemas == nil {
		return nil, errors.New("openapi import: document has no component schemas")
	}
	ref, ok := spec.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi import: component %q not found", component)
	}
	if !typeIs(ref.Value, "object") {
		return nil, fmt.Errorf("openapi import: component %q is not an object schema", component)
	}
	return objectFields(ref.Value), nil
}

func objectFields(value *openapi3.Schema) []schema.Field {
	required := make(map[string]struct{}, len(value.Required))
	for _, name := range value.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(value.Properties))
	for name := range value.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]schema.Field, 0, len(names))
	for _, name := range names {
		ref := value.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field := fieldFromProperty(name, ref.Value)
		_, field.Required = required[name]
		fields = append(fields, field)
	}
	return fields
}

func fieldFromProperty(name string, prop *openapi3.Schema) schema.Field {
	field := schema.Field{
		Name:    name,
		Label:   prop.Title,
		Default: prop.Default,
	}
	if localized, ok := prop.Extensions[extensionLocalized].(bool); ok {
		field.Localized = localized
	}

	if kind, ok := extensionKindOf(prop); ok {
		field.Kind = kind
		if field.Kind == schema.KindRelationship || field.Kind == schema.KindUpload {
			field.RelationTo = relationTargets(prop)
			field.HasMany = typeIs(prop, "array")
		}
		return field
	}

	switch {
	case len(prop.Enum) > 0:
		field.Kind = schema.KindSelect
		field.Options = enumOptions(prop.Enum)
	case typeIs(prop, "boolean"):
		field.Kind = schema.KindCheckbox
	case typeIs(prop, "integer"), typeIs(prop, "number"):
		field.Kind = schema.KindNumber
	case typeIs(prop, "array"):
		field.Kind = schema.KindArray
		field.Children = arrayChildren(prop)
	case typeIs(prop, "object"):
		field.Kind = schema.KindGroup
		field.Children = objectFields(prop)
	default:
		field.Kind = stringKind(prop)
	}
	return field
}

func arrayChildren(prop *openapi3.Schema) []schema.Field {
	if prop.Items == nil || prop.Items.Value == nil {
		return nil
	}
	items := prop.Items.Value
	if typeIs(items, "object") {
		return objectFields(items)
	}
	// Scalar rows surface as a single "value" column.
	child := fieldFromProperty("value", items)
	return []schema.Field{child}
}

func stringKind(prop *openapi3.Schema) schema.FieldKind {
	switch prop.Format {
	case "email":
		return schema.KindEmail
	case "date", "date-time":
		return schema.KindDate
	}
	if prop.MaxLength == nil && prop.MinLength == 0 && prop.Format == "" && looksLongForm(prop) {
		return schema.KindTextarea
	}
	return schema.KindText
}

// looksLongForm treats explicitly multi-line hints as textarea material.
func looksLongForm(prop *openapi3.Schema) bool {
	return strings.Contains(strings.ToLower(prop.Description), "multiline") ||
		strings.Contains(strings.ToLower(prop.Description), "multi-line")
}

func enumOptions(values []any) []schema.Option {
	options := make([]schema.Option, 0, len(values))
	for _, value := range values {
		text := fmt.Sprint(value)
		options = append(options, schema.Option{Label: text, Value: text})
	}
	return options
}

func extensionKindOf(prop *openapi3.Schema) (schema.FieldKind, bool) {
	raw, ok := prop.Extensions[extensionKind].(string)
	if !ok || raw == "" {
		return "", false
	}
	kind := schema.FieldKind(raw)
	if !(schema.Field{Kind: kind}).Known() {
		return "", false
	}
	return kind, true
}

func relationTargets(prop *openapi3.Schema) []string {
	switch raw := prop.Extensions[extensionRelation].(type) {
	case string:
		if raw == "" {
			return nil
		}
		return []string{raw}
	case []any:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if text, ok := item.(string); ok && text != "" {
				out = append(out, text)
			}
		}
		return out
	default:
		return nil
	}
}

func typeIs(value *openapi3.Schema, kind string) bool {
	if value == nil || value.Type == nil {
		return false
	}
	for _, entry := range value.Type.Slice() {
		if entry == kind {
			return true
		}
	}
	return false
}
