// Package relationship loads candidate documents for relationship fields.
// Each target collection is fetched concurrently; any single failure fails
// the whole load so the editor never shows a silently partial option list.
package relationship

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-adminforms/pkg/content"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

// ErrNoTargets marks a relationship field that names zero collections. The
// renderer shows an explanatory disabled control instead of an empty
// dropdown.
var ErrNoTargets = errors.New("relationship: field declares no target collections")

const defaultFetchLimit = 100

// Option is one selectable candidate document, tagged with the collection it
// came from.
type Option struct {
	Collection string
	Value      string
	Label      string
}

// Lister is the slice of the document API the loader needs.
type Lister interface {
	List(ctx context.Context, collection, locale string, params content.ListParams) (content.ListResult, error)
}

// Loader fetches and labels relationship options.
type Loader struct {
	client Lister
	limit  int
}

// NewLoader builds a Loader on top of a document API client.
func NewLoader(client Lister) *Loader {
	return &Loader{client: client, limit: defaultFetchLimit}
}

// Options fetches candidates from every target collection of the field,
// concurrently, and returns a unified, de-duplicated option list. Options
// keep collection-listing order within each collection; collections appear
// in the order the field declares them.
func (l *Loader) Options(ctx context.Context, field schema.Field, locale string) ([]Option, error) {
	if field.Kind != schema.KindRelationship && field.Kind != schema.KindUpload {
		return nil, fmt.Errorf("relationship: field %q has kind %s", field.Name, field.Kind)
	}
	if len(field.RelationTo) == 0 {
		return nil, ErrNoTargets
	}

	results := make([][]Option, len(field.RelationTo))
	group, groupCtx := errgroup.WithContext(ctx)
	for idx, collection := range field.RelationTo {
		group.Go(func() error {
			listing, err := l.client.List(groupCtx, collection, locale, content.ListParams{Limit: l.limit})
			if err != nil {
				return fmt.Errorf("relationship: load %q options: %w", collection, err)
			}
			options := make([]Option, 0, len(listing.Docs))
			for _, doc := range listing.Docs {
				option, ok := optionFromDocument(collection, doc)
				if !ok {
					continue
				}
				options = append(options, option)
			}
			results[idx] = options
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var unified []Option
	for _, options := range results {
		for _, option := range options {
			key := option.Collection + "\x00" + option.Value
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			unified = append(unified, option)
		}
	}
	return unified, nil
}

// optionFromDocument derives the display label by attribute priority:
// title, then name, then a generated "Record {id}" fallback.
func optionFromDocument(collection string, doc content.Document) (Option, bool) {
	id, ok := documentID(doc)
	if !ok {
		return Option{}, false
	}
	label := ""
	if title, ok := doc["title"].(string); ok && title != "" {
		label = title
	} else if name, ok := doc["name"].(string); ok && name != "" {
		label = name
	} else {
		label = "Record " + id
	}
	return Option{Collection: collection, Value: id, Label: label}, true
}

func documentID(doc content.Document) (string, bool) {
	raw, ok := doc["id"]
	if !ok {
		raw, ok = doc["_id"]
	}
	if !ok || raw == nil {
		return "", false
	}
	switch typed := raw.(type) {
	case string:
		return typed, typed != ""
	case float64:
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed)), true
		}
		return fmt.Sprint(typed), true
	default:
		return fmt.Sprint(typed), true
	}
}

// GroupByCollection splits a unified option list back into per-collection
// buckets, preserving order. Useful for grouped select rendering.
func GroupByCollection(options []Option) map[string][]Option {
	out := make(map[string][]Option)
	for _, option := range options {
		out[option.Collection] = append(out[option.Collection], option)
	}
	return out
}

// Collections returns the sorted collection names present in options.
func Collections(options []Option) []string {
	set := make(map[string]struct{})
	for _, option := range options {
		set[option.Collection] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
