package layout

import (
	"strings"

	"github.com/goliatone/go-adminforms/pkg/schema"
)

// Synthesized left-column section titles, in their fixed emission order.
const (
	sectionBasicInfo     = "Basic Info"
	sectionContent       = "Content"
	sectionMedia         = "Media"
	sectionRelationships = "Relationships"
	sectionOther         = "Other Fields"

	sectionStatus = "Status"
	sectionSEO    = "SEO Setting"
)

// Resolver combines hand-authored layouts with the synthesized fallback.
type Resolver struct {
	store *Store
}

// NewResolver builds a Resolver. A nil store means every collection gets the
// synthesized layout.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the layout for a collection's edit form. A hand-authored
// layout wins verbatim: it may reference any subset of the schema,
// including omitting fields, and is honoured even for an empty field list.
// Otherwise a layout is synthesized from the field kinds; zero fields yield
// nil and the caller renders fields in natural order.
func (r *Resolver) Resolve(collection string, fields []schema.Field) *FormLayout {
	if r != nil && r.store != nil {
		if authored, ok := r.store.Layout(collection); ok {
			return &authored
		}
	}
	return Synthesize(fields)
}

// Synthesize buckets fields into conventional sections. Status and SEO
// fields pin to a right column; everything else lands in left-column
// sections by kind. Output is deterministic for a given field-kind set so
// the form does not reflow between reloads.
func Synthesize(fields []schema.Field) *FormLayout {
	editable := schema.EditableFields(fields)
	if len(editable) == 0 {
		return nil
	}

	var status, seo []string
	buckets := map[string][]string{}
	var groupSections []Section

	for _, field := range editable {
		switch {
		case field.Name == "status":
			status = append(status, field.Name)
		case isSEOField(field.Name):
			seo = append(seo, field.Name)
		default:
			switch field.Kind {
			case schema.KindText, schema.KindEmail, schema.KindNumber,
				schema.KindDate, schema.KindCheckbox, schema.KindSelect:
				buckets[sectionBasicInfo] = append(buckets[sectionBasicInfo], field.Name)
			case schema.KindRichText, schema.KindTextarea:
				buckets[sectionContent] = append(buckets[sectionContent], field.Name)
			case schema.KindUpload:
				buckets[sectionMedia] = append(buckets[sectionMedia], field.Name)
			case schema.KindRelationship:
				buckets[sectionRelationships] = append(buckets[sectionRelationships], field.Name)
			case schema.KindGroup:
				groupSections = append(groupSections, Section{
					Title:  field.DisplayLabel(),
					Fields: []string{field.Name},
				})
			default:
				buckets[sectionOther] = append(buckets[sectionOther], field.Name)
			}
		}
	}

	left := make([]Section, 0, 6)
	for _, title := range []string{sectionBasicInfo, sectionContent, sectionMedia, sectionRelationships} {
		if names := buckets[title]; len(names) > 0 {
			left = append(left, Section{Title: title, Fields: names, Wrap: true})
		}
	}
	left = append(left, groupSections...)
	if names := buckets[sectionOther]; len(names) > 0 {
		left = append(left, Section{Title: sectionOther, Fields: names, Wrap: true})
	}

	var right []Section
	if len(status) > 0 {
		right = append(right, Section{Title: sectionStatus, Fields: status})
	}
	if len(seo) > 0 {
		right = append(right, Section{Title: sectionSEO, Fields: seo})
	}

	columns := 1
	if len(right) > 0 {
		columns = 2
	}
	return &FormLayout{Columns: columns, Left: left, Right: right}
}

func isSEOField(name string) bool {
	return name == "slug" || strings.HasPrefix(name, "meta_")
}
