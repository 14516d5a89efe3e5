// Package tui drives an edit session through terminal prompts. It walks the
// same schema the HTML renderer does, asking one question per field, and
// emits the normalized write payload when the walk completes.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-adminforms/pkg/forms"
	"github.com/goliatone/go-adminforms/pkg/formstate"
	"github.com/goliatone/go-adminforms/pkg/normalize"
	"github.com/goliatone/go-adminforms/pkg/relationship"
	"github.com/goliatone/go-adminforms/pkg/richtext"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

// Renderer implements forms.Renderer for terminal-driven sessions.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
}

var _ forms.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

func (r *Renderer) Name() string { return "tui" }

func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render walks the form interactively and serializes the resulting write
// payload. An interrupted session surfaces ErrAborted; a cancelled context
// surfaces the context error untouched.
func (r *Renderer) Render(ctx context.Context, view forms.View, _ forms.RenderOptions) ([]byte, error) {
	state, err := r.Collect(ctx, view)
	if err != nil {
		return nil, err
	}
	payload := normalize.Payload(schema.EditableFields(view.Fields), state)
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(payload)), nil
	}
	return json.Marshal(payload)
}

// Collect prompts for every editable field and returns the resulting state.
func (r *Renderer) Collect(ctx context.Context, view forms.View) (formstate.State, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	session := &session{driver: r.driver, view: view, state: view.State.Clone()}
	for _, field := range schema.EditableFields(view.Fields) {
		if err := session.promptField(ctx, field, field.Name); err != nil {
			return nil, err
		}
	}
	return session.state, nil
}

type session struct {
	driver PromptDriver
	view   forms.View
	state  formstate.State
}

func (s *session) promptField(ctx context.Context, field schema.Field, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg := s.view.FieldErrors[path]; msg != "" {
		_ = s.driver.Info(ctx, fmt.Sprintf("! %s: %s", field.DisplayLabel(), msg))
	}

	switch field.Kind {
	case schema.KindCheckbox:
		return s.promptCheckbox(ctx, field, path)
	case schema.KindNumber:
		return s.promptNumber(ctx, field, path)
	case schema.KindDate:
		return s.promptDate(ctx, field, path)
	case schema.KindTextarea:
		return s.promptTextarea(ctx, field, path)
	case schema.KindSelect:
		return s.promptSelect(ctx, field, path)
	case schema.KindRichText:
		return s.promptRichText(ctx, field, path)
	case schema.KindUpload:
		return s.promptUpload(ctx, field, path)
	case schema.KindRelationship:
		return s.promptRelationship(ctx, field, path)
	case schema.KindGroup:
		return s.promptGroup(ctx, field, path)
	case schema.KindArray:
		return s.promptArray(ctx, field, path)
	case schema.KindTabs:
		return s.promptTabs(ctx, field, path)
	case schema.KindRow:
		return s.promptFlattened(ctx, field, path)
	case schema.KindCollapsible:
		_ = s.driver.Info(ctx, "-- "+field.DisplayLabel()+" --")
		return s.promptFlattened(ctx, field, path)
	default:
		// Unknown kinds degrade to a plain text prompt.
		return s.promptText(ctx, field, path)
	}
}

func (s *session) promptText(ctx context.Context, field schema.Field, path string) error {
	answer, err := s.driver.Input(ctx, InputConfig{
		Message:   field.DisplayLabel(),
		Default:   s.currentString(path),
		Validator: requiredValidator(field),
	})
	if err != nil {
		return err
	}
	return s.set(path, answer)
}

func (s *session) promptTextarea(ctx context.Context, field schema.Field, path string) error {
	answer, err := s.driver.TextArea(ctx, TextAreaConfig{
		Message: field.DisplayLabel(),
		Default: s.currentString(path),
	})
	if err != nil {
		return err
	}
	return s.set(path, answer)
}

func (s *session) promptCheckbox(ctx context.Context, field schema.Field, path string) error {
	preset := false
	if value, ok := s.state.Get(path); ok {
		preset, _ = value.(bool)
	}
	answer, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: field.DisplayLabel(),
		Default: preset,
	})
	if err != nil {
		return err
	}
	return s.set(path, answer)
}

func (s *session) promptNumber(ctx context.Context, field schema.Field, path string) error {
	answer, err := s.driver.Input(ctx, InputConfig{
		Message: field.DisplayLabel(),
		Default: s.currentString(path),
		Validator: func(text string) error {
			text = strings.TrimSpace(text)
			if text == "" {
				if field.Required {
					return errors.New("required")
				}
				return nil
			}
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return errors.New("must be a number")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	return s.set(path, strings.TrimSpace(answer))
}

func (s *session) promptDate(ctx context.Context, field schema.Field, path string) error {
	answer, err := s.driver.Input(ctx, InputConfig{
		Message: field.DisplayLabel(),
		Default: s.currentString(path),
		Help:    "YYYY-MM-DD",
		Validator: func(text string) error {
			text = strings.TrimSpace(text)
			if text == "" {
				if field.Required {
					return errors.New("required")
				}
				return nil
			}
			if len(text) != 10 || text[4] != '-' || text[7] != '-' {
				return errors.New("use YYYY-MM-DD")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	return s.set(path, strings.TrimSpace(answer))
}

func (s *session) promptSelect(ctx context.Context, field schema.Field, path string) error {
	labels := make([]string, 0, len(field.Options)+1)
	values := make([]string, 0, len(field.Options)+1)
	if !field.Required {
		labels = append(labels, "(none)")
		values = append(values, "")
	}
	for _, option := range field.Options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		labels = append(labels, label)
		values = append(values, option.Value)
	}

	current := s.currentString(path)
	defaultIdx := -1
	for idx, value := range values {
		if value == current {
			defaultIdx = idx
			break
		}
	}

	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      field.DisplayLabel(),
		Options:      labels,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(values) {
		return fmt.Errorf("tui: invalid selection for %q", path)
	}
	return s.set(path, values[idx])
}

// promptRichText edits the block list as plain text, one paragraph per line.
// An unchanged answer keeps the stored blocks intact so formatting and
// embedded uploads survive a pass through the prompt.
func (s *session) promptRichText(ctx context.Context, field schema.Field, path string) error {
	current, _ := s.state.Get(path)
	blocks := decodeRichTextValue(current)
	preset := plainText(blocks)

	answer, err := s.driver.TextArea(ctx, TextAreaConfig{
		Message: field.DisplayLabel(),
		Default: preset,
	})
	if err != nil {
		return err
	}
	if answer == preset {
		return nil
	}
	return s.set(path, paragraphBlocks(answer))
}

func (s *session) promptUpload(ctx context.Context, field schema.Field, path string) error {
	answer, err := s.driver.Input(ctx, InputConfig{
		Message:   field.DisplayLabel() + " (media id)",
		Default:   s.currentString(path),
		Validator: requiredValidator(field),
	})
	if err != nil {
		return err
	}
	return s.set(path, strings.TrimSpace(answer))
}

func (s *session) promptRelationship(ctx context.Context, field schema.Field, path string) error {
	options := s.view.Relationships[path]
	if options == nil {
		options = s.view.Relationships[field.Name]
	}
	if len(options) == 0 {
		// No candidates loaded; fall back to manual id entry.
		return s.promptText(ctx, field, path)
	}

	polymorphic := len(field.RelationTo) > 1
	labels := make([]string, len(options))
	for idx, option := range options {
		labels[idx] = option.Label
		if polymorphic {
			labels[idx] = option.Collection + ": " + option.Label
		}
	}

	if field.HasMany {
		defaults := s.selectedIndices(path, options)
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  field.DisplayLabel(),
			Options:  labels,
			Defaults: defaults,
		})
		if err != nil {
			return err
		}
		values := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(options) {
				values = append(values, relationValue(options[idx], polymorphic))
			}
		}
		return s.set(path, values)
	}

	defaultIdx := -1
	if selected := s.selectedIndices(path, options); len(selected) > 0 {
		defaultIdx = selected[0]
	}
	idx, err := s.driver.Select(ctx, SelectConfig{
		Message:      field.DisplayLabel(),
		Options:      labels,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: invalid selection for %q", path)
	}
	return s.set(path, relationValue(options[idx], polymorphic))
}

func (s *session) promptGroup(ctx context.Context, field schema.Field, path string) error {
	_ = s.driver.Info(ctx, "-- "+field.DisplayLabel()+" --")
	for _, child := range field.Children {
		if err := s.promptField(ctx, child, path+"."+child.Name); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) promptArray(ctx context.Context, field schema.Field, path string) error {
	rows := 0
	if value, ok := s.state.Get(path); ok {
		if list, ok := value.([]any); ok {
			rows = len(list)
		}
	}

	for idx := 0; idx < rows; idx++ {
		_ = s.driver.Info(ctx, fmt.Sprintf("-- %s #%d --", field.DisplayLabel(), idx+1))
		rowPath := path + "." + strconv.Itoa(idx)
		for _, child := range field.Children {
			if err := s.promptField(ctx, child, rowPath+"."+child.Name); err != nil {
				return err
			}
		}
	}

	for {
		more, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: "Add " + field.DisplayLabel() + " entry?",
			Default: false,
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		next, err := s.state.WithRowAppended(path, schema.RowSeed(field))
		if err != nil {
			return fmt.Errorf("tui: append row at %q: %w", path, err)
		}
		s.state = next
		rowPath := path + "." + strconv.Itoa(rows)
		rows++
		for _, child := range field.Children {
			if err := s.promptField(ctx, child, rowPath+"."+child.Name); err != nil {
				return err
			}
		}
	}
}

func (s *session) promptTabs(ctx context.Context, field schema.Field, path string) error {
	for idx, tab := range field.Tabs {
		label := tab.Label
		if label == "" {
			label = "Tab " + strconv.Itoa(idx+1)
		}
		_ = s.driver.Info(ctx, "== "+label+" ==")
		panelPath := path + "." + strconv.Itoa(idx)
		for _, child := range tab.Children {
			if err := s.promptField(ctx, child, panelPath+"."+child.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// promptFlattened walks presentational wrappers whose children live at the
// parent's path level.
func (s *session) promptFlattened(ctx context.Context, field schema.Field, path string) error {
	parent := ""
	if trimmed := strings.TrimSuffix(path, field.Name); trimmed != path {
		parent = strings.TrimSuffix(trimmed, ".")
	}
	for _, child := range field.Children {
		childPath := child.Name
		if parent != "" {
			childPath = parent + "." + child.Name
		}
		if err := s.promptField(ctx, child, childPath); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) set(path string, value any) error {
	next, err := s.state.WithValue(path, value)
	if err != nil {
		return fmt.Errorf("tui: set %q: %w", path, err)
	}
	s.state = next
	return nil
}

func (s *session) currentString(path string) string {
	value, ok := s.state.Get(path)
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func (s *session) selectedIndices(path string, options []relationship.Option) []int {
	value, ok := s.state.Get(path)
	if !ok {
		return nil
	}
	selected := make(map[string]struct{})
	add := func(item any) {
		switch typed := item.(type) {
		case map[string]any:
			if id, ok := typed["value"]; ok {
				selected[fmt.Sprint(id)] = struct{}{}
			} else if id, ok := typed["id"]; ok {
				selected[fmt.Sprint(id)] = struct{}{}
			}
		case nil:
		default:
			selected[fmt.Sprint(typed)] = struct{}{}
		}
	}
	switch typed := value.(type) {
	case []any:
		for _, item := range typed {
			add(item)
		}
	default:
		add(typed)
	}

	var out []int
	for idx, option := range options {
		if _, ok := selected[option.Value]; ok {
			out = append(out, idx)
		}
	}
	return out
}

func relationValue(option relationship.Option, polymorphic bool) any {
	if polymorphic {
		return map[string]any{"relationTo": option.Collection, "value": option.Value}
	}
	return option.Value
}

func requiredValidator(field schema.Field) func(string) error {
	if !field.Required {
		return nil
	}
	return func(text string) error {
		if strings.TrimSpace(text) == "" {
			return errors.New("required")
		}
		return nil
	}
}

func decodeRichTextValue(value any) []richtext.Block {
	switch typed := value.(type) {
	case []richtext.Block:
		return typed
	case []any:
		return richtext.DecodeBlocks(typed)
	case string:
		if typed == "" {
			return nil
		}
		return []richtext.Block{{
			Type:     richtext.BlockParagraph,
			Children: []richtext.Leaf{{Text: typed}},
		}}
	default:
		return nil
	}
}

func plainText(blocks []richtext.Block) string {
	var lines []string
	for _, block := range blocks {
		if block.Type != richtext.BlockParagraph && block.Type != "" {
			continue
		}
		var line strings.Builder
		for _, leaf := range block.Children {
			line.WriteString(leaf.Text)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func paragraphBlocks(text string) []richtext.Block {
	if strings.TrimSpace(text) == "" {
		return []richtext.Block{}
	}
	lines := strings.Split(text, "\n")
	blocks := make([]richtext.Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, richtext.Block{
			Type:     richtext.BlockParagraph,
			Children: []richtext.Leaf{{Text: line}},
		})
	}
	return blocks
}

func prettyPrint(values map[string]any) string {
	var builder strings.Builder
	writePretty(&builder, "", values)
	return builder.String()
}

func writePretty(builder *strings.Builder, prefix string, value any) {
	switch typed := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(builder, next, typed[key])
		}
	case []any:
		for idx, item := range typed {
			writePretty(builder, fmt.Sprintf("%s[%d]", prefix, idx), item)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(builder, "%s=%v\n", prefix, typed)
		}
	}
}
