package html

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-adminforms/pkg/relationship"
	"github.com/goliatone/go-adminforms/pkg/richtext"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

// NewDefaultWidgets builds the stock widget set covering every schema kind.
func NewDefaultWidgets() *WidgetRegistry {
	registry := NewWidgetRegistry()
	registry.MustRegister("input", inputWidget)
	registry.MustRegister("textarea", textareaWidget)
	registry.MustRegister("number", numberWidget)
	registry.MustRegister("date", dateWidget)
	registry.MustRegister("checkbox", checkboxWidget)
	registry.MustRegister("select", selectWidget)
	registry.MustRegister("richtext", richTextWidget)
	registry.MustRegister("upload", uploadWidget)
	registry.MustRegister("relationship", relationshipWidget)
	registry.MustRegister("group", groupWidget)
	registry.MustRegister("array", arrayWidget)
	registry.MustRegister("rowgroup", rowWidget)
	registry.MustRegister("tabs", tabsWidget)
	registry.MustRegister("collapsible", collapsibleWidget)
	return registry
}

func inputWidget(buf *bytes.Buffer, rc RenderContext) error {
	inputType := "text"
	if rc.Field.Kind == schema.KindEmail {
		inputType = "email"
	}
	writeInput(buf, rc, inputType, stringValue(rc.Value))
	return nil
}

func textareaWidget(buf *bytes.Buffer, rc RenderContext) error {
	fmt.Fprintf(buf, `<textarea id="af-%s" name="%s" class="af-control" rows="4"%s>%s</textarea>`,
		esc(rc.Path), esc(rc.Path), requiredAttr(rc.Field), esc(stringValue(rc.Value)))
	buf.WriteByte('\n')
	return nil
}

func numberWidget(buf *bytes.Buffer, rc RenderContext) error {
	writeInput(buf, rc, "number", stringValue(rc.Value))
	return nil
}

func dateWidget(buf *bytes.Buffer, rc RenderContext) error {
	writeInput(buf, rc, "date", stringValue(rc.Value))
	return nil
}

// checkboxWidget pairs the checkbox with a hidden false so an unchecked box
// still submits a value for its path.
func checkboxWidget(buf *bytes.Buffer, rc RenderContext) error {
	checked := ""
	if boolValue(rc.Value) {
		checked = " checked"
	}
	fmt.Fprintf(buf, `<input type="hidden" name="%s" value="false">`, esc(rc.Path))
	buf.WriteByte('\n')
	fmt.Fprintf(buf, `<input type="checkbox" id="af-%s" name="%s" value="true" class="af-control af-checkbox"%s>`,
		esc(rc.Path), esc(rc.Path), checked)
	buf.WriteByte('\n')
	return nil
}

func selectWidget(buf *bytes.Buffer, rc RenderContext) error {
	current := stringValue(rc.Value)
	fmt.Fprintf(buf, `<select id="af-%s" name="%s" class="af-control"%s>`,
		esc(rc.Path), esc(rc.Path), requiredAttr(rc.Field))
	buf.WriteByte('\n')
	if !rc.Field.Required {
		buf.WriteString(`<option value=""></option>` + "\n")
	}
	for _, option := range rc.Field.Options {
		selected := ""
		if option.Value == current {
			selected = " selected"
		}
		label := option.Label
		if label == "" {
			label = option.Value
		}
		fmt.Fprintf(buf, `<option value="%s"%s>%s</option>`, esc(option.Value), selected, esc(label))
		buf.WriteByte('\n')
	}
	buf.WriteString("</select>\n")
	return nil
}

// richTextWidget serializes the stored block list into a textarea the
// client-side editor hydrates from, plus a sanitized preview for non-JS
// review. The posted value is re-parsed as a block list on submit.
func richTextWidget(buf *bytes.Buffer, rc RenderContext) error {
	blocks := richTextBlocks(rc.Value)
	serialized, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("serialize rich text: %w", err)
	}
	fmt.Fprintf(buf, `<textarea id="af-%s" name="%s" class="af-control af-richtext" data-richtext="true" rows="8">%s</textarea>`,
		esc(rc.Path), esc(rc.Path), esc(string(serialized)))
	buf.WriteByte('\n')
	if preview := richtext.PreviewHTML(blocks, nil); preview != "" {
		fmt.Fprintf(buf, `<div class="af-richtext-preview">%s</div>`, preview)
		buf.WriteByte('\n')
	}
	return nil
}

func richTextBlocks(value any) []richtext.Block {
	switch typed := value.(type) {
	case nil:
		return []richtext.Block{}
	case []richtext.Block:
		return typed
	case []any:
		return richtext.DecodeBlocks(typed)
	case string:
		if typed == "" {
			return []richtext.Block{}
		}
		return []richtext.Block{{
			Type:     richtext.BlockParagraph,
			Children: []richtext.Leaf{{Text: typed}},
		}}
	default:
		return []richtext.Block{}
	}
}

func uploadWidget(buf *bytes.Buffer, rc RenderContext) error {
	current := uploadID(rc.Value)
	fmt.Fprintf(buf, `<input type="text" id="af-%s" name="%s" value="%s" class="af-control af-upload" placeholder="media id"%s>`,
		esc(rc.Path), esc(rc.Path), esc(current), requiredAttr(rc.Field))
	buf.WriteByte('\n')
	fmt.Fprintf(buf, `<input type="file" name="%s" class="af-upload-file" data-upload-for="%s">`,
		esc("_upload."+rc.Path), esc(rc.Path))
	buf.WriteByte('\n')
	return nil
}

func uploadID(value any) string {
	switch typed := value.(type) {
	case map[string]any:
		if id, ok := typed["id"]; ok {
			return stringValue(id)
		}
		return ""
	default:
		return stringValue(value)
	}
}

// relationshipWidget renders a select over the pre-fetched options. Option
// values carry "collection:id" when the field targets several collections so
// the submit decoder can rebuild the polymorphic reference.
func relationshipWidget(buf *bytes.Buffer, rc RenderContext) error {
	options := rc.View.Relationships[rc.Path]
	if options == nil {
		options = rc.View.Relationships[rc.Field.Name]
	}
	if len(rc.Field.RelationTo) == 0 {
		fmt.Fprintf(buf, `<select id="af-%s" class="af-control" disabled><option>No target collections configured</option></select>`,
			esc(rc.Path))
		buf.WriteByte('\n')
		return nil
	}

	polymorphic := len(rc.Field.RelationTo) > 1
	selected := selectedRelationKeys(rc.Value, polymorphic, rc.Field.RelationTo[0])

	multiple := ""
	name := rc.Path
	if rc.Field.HasMany {
		multiple = " multiple"
		name += "[]"
	}
	fmt.Fprintf(buf, `<select id="af-%s" name="%s" class="af-control af-relationship"%s%s>`,
		esc(rc.Path), esc(name), multiple, requiredAttr(rc.Field))
	buf.WriteByte('\n')
	if !rc.Field.HasMany && !rc.Field.Required {
		buf.WriteString(`<option value=""></option>` + "\n")
	}

	if polymorphic {
		grouped := relationship.GroupByCollection(options)
		for _, collection := range rc.Field.RelationTo {
			group := grouped[collection]
			if len(group) == 0 {
				continue
			}
			fmt.Fprintf(buf, `<optgroup label="%s">`, esc(collection))
			buf.WriteByte('\n')
			for _, option := range group {
				writeRelationOption(buf, option.Collection+":"+option.Value, option.Label, selected)
			}
			buf.WriteString("</optgroup>\n")
		}
	} else {
		for _, option := range options {
			writeRelationOption(buf, option.Value, option.Label, selected)
		}
	}
	buf.WriteString("</select>\n")
	return nil
}

func writeRelationOption(buf *bytes.Buffer, value, label string, selected map[string]struct{}) {
	attr := ""
	if _, ok := selected[value]; ok {
		attr = " selected"
	}
	fmt.Fprintf(buf, `<option value="%s"%s>%s</option>`, esc(value), attr, esc(label))
	buf.WriteByte('\n')
}

// selectedRelationKeys flattens the current value (bare id, {value}, tagged
// reference, or a list of those) into the option-value key space.
func selectedRelationKeys(value any, polymorphic bool, firstTarget string) map[string]struct{} {
	keys := make(map[string]struct{})
	add := func(item any) {
		collection, id := relationParts(item)
		if id == "" {
			return
		}
		if polymorphic {
			if collection == "" {
				collection = firstTarget
			}
			keys[collection+":"+id] = struct{}{}
			return
		}
		keys[id] = struct{}{}
	}
	switch typed := value.(type) {
	case []any:
		for _, item := range typed {
			add(item)
		}
	case nil:
	default:
		add(typed)
	}
	return keys
}

func relationParts(item any) (collection, id string) {
	switch typed := item.(type) {
	case map[string]any:
		if tag, ok := typed["relationTo"].(string); ok {
			collection = tag
		}
		if value, ok := typed["value"]; ok {
			return collection, stringValue(value)
		}
		if value, ok := typed["id"]; ok {
			return collection, stringValue(value)
		}
		return collection, ""
	default:
		return "", stringValue(item)
	}
}

func groupWidget(buf *bytes.Buffer, rc RenderContext) error {
	fmt.Fprintf(buf, `<fieldset class="af-group"><legend>%s</legend>`, esc(rc.Field.DisplayLabel()))
	buf.WriteByte('\n')
	for _, child := range rc.Field.Children {
		markup, err := rc.RenderChild(child, joinPath(rc.Path, child.Name))
		if err != nil {
			return err
		}
		buf.WriteString(markup)
	}
	buf.WriteString("</fieldset>\n")
	return nil
}

func arrayWidget(buf *bytes.Buffer, rc RenderContext) error {
	rows, _ := rc.Value.([]any)
	fmt.Fprintf(buf, `<fieldset class="af-array" data-array="%s"><legend>%s</legend>`,
		esc(rc.Path), esc(rc.Field.DisplayLabel()))
	buf.WriteByte('\n')
	for idx := range rows {
		rowPath := rc.Path + "." + strconv.Itoa(idx)
		fmt.Fprintf(buf, `<div class="af-array-row" data-row="%d">`, idx)
		buf.WriteByte('\n')
		for _, child := range rc.Field.Children {
			markup, err := rc.RenderChild(child, joinPath(rowPath, child.Name))
			if err != nil {
				return err
			}
			buf.WriteString(markup)
		}
		fmt.Fprintf(buf, `<button type="submit" name="_action" value="row:remove:%s" class="af-row-remove" formnovalidate>Remove</button>`,
			esc(rowPath))
		buf.WriteString("\n</div>\n")
	}
	fmt.Fprintf(buf, `<button type="submit" name="_action" value="row:add:%s" class="af-row-add" formnovalidate>Add %s</button>`,
		esc(rc.Path), esc(rc.Field.DisplayLabel()))
	buf.WriteString("\n</fieldset>\n")
	return nil
}

// rowWidget lays children side by side. Row is presentational only, so the
// children keep the parent's path scope.
func rowWidget(buf *bytes.Buffer, rc RenderContext) error {
	buf.WriteString(`<div class="af-row">` + "\n")
	parent := parentPath(rc.Path, rc.Field.Name)
	for _, child := range rc.Field.Children {
		markup, err := rc.RenderChild(child, joinPath(parent, child.Name))
		if err != nil {
			return err
		}
		buf.WriteString(markup)
	}
	buf.WriteString("</div>\n")
	return nil
}

// tabsWidget renders every panel so inactive tabs keep their inputs in the
// submitted form; CSS toggles visibility.
func tabsWidget(buf *bytes.Buffer, rc RenderContext) error {
	fmt.Fprintf(buf, `<div class="af-tabs" data-tabs="%s">`, esc(rc.Path))
	buf.WriteByte('\n')
	buf.WriteString(`<div class="af-tabs-nav" role="tablist">` + "\n")
	for idx, tab := range rc.Field.Tabs {
		label := tab.Label
		if label == "" {
			label = "Tab " + strconv.Itoa(idx+1)
		}
		active := ""
		if idx == 0 {
			active = ` data-active="true"`
		}
		fmt.Fprintf(buf, `<button type="button" role="tab" data-tab-index="%d"%s>%s</button>`,
			idx, active, esc(label))
		buf.WriteByte('\n')
	}
	buf.WriteString("</div>\n")
	for idx, tab := range rc.Field.Tabs {
		hidden := ""
		if idx != 0 {
			hidden = " hidden"
		}
		fmt.Fprintf(buf, `<div class="af-tab-panel" role="tabpanel" data-tab-index="%d"%s>`, idx, hidden)
		buf.WriteByte('\n')
		panelPrefix := joinPath(rc.Path, strconv.Itoa(idx))
		for _, child := range tab.Children {
			markup, err := rc.RenderChild(child, joinPath(panelPrefix, child.Name))
			if err != nil {
				return err
			}
			buf.WriteString(markup)
		}
		buf.WriteString("</div>\n")
	}
	buf.WriteString("</div>\n")
	return nil
}

// collapsibleWidget uses a native details element; collapsed content still
// submits because it stays in the DOM.
func collapsibleWidget(buf *bytes.Buffer, rc RenderContext) error {
	fmt.Fprintf(buf, `<details class="af-collapsible"><summary>%s</summary>`, esc(rc.Field.DisplayLabel()))
	buf.WriteByte('\n')
	parent := parentPath(rc.Path, rc.Field.Name)
	for _, child := range rc.Field.Children {
		markup, err := rc.RenderChild(child, joinPath(parent, child.Name))
		if err != nil {
			return err
		}
		buf.WriteString(markup)
	}
	buf.WriteString("</details>\n")
	return nil
}

func writeInput(buf *bytes.Buffer, rc RenderContext, inputType, value string) {
	fmt.Fprintf(buf, `<input type="%s" id="af-%s" name="%s" value="%s" class="af-control"%s>`,
		inputType, esc(rc.Path), esc(rc.Path), esc(value), requiredAttr(rc.Field))
	buf.WriteByte('\n')
}

func requiredAttr(field schema.Field) string {
	if field.Required {
		return " required"
	}
	return ""
}

// parentPath strips the presentational wrapper's own segment from its path.
func parentPath(path, name string) string {
	if path == name {
		return ""
	}
	return strings.TrimSuffix(path, "."+name)
}

func esc(value string) string {
	return html.EscapeString(value)
}

func stringValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return fmt.Sprint(typed)
	}
}

func boolValue(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		return typed == "true" || typed == "on" || typed == "1"
	default:
		return false
	}
}
