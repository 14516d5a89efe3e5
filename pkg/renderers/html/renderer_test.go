package html

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-adminforms/pkg/forms"
	"github.com/goliatone/go-adminforms/pkg/formstate"
	"github.com/goliatone/go-adminforms/pkg/relationship"
	"github.com/goliatone/go-adminforms/pkg/schema"
)

func renderView(t *testing.T, view forms.View, options forms.RenderOptions) string {
	t.Helper()
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	page, err := renderer.Render(context.Background(), view, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(page)
}

func assertContains(t *testing.T, page string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func baseView(fields []schema.Field) forms.View {
	return forms.View{
		Collection: "shops",
		Locale:     "en",
		Fields:     fields,
		State:      formstate.Initialize(fields, nil),
	}
}

func TestRenderPrimitiveInputs(t *testing.T) {
	fields := []schema.Field{
		{Name: "title", Kind: schema.KindText, Label: "Title", Required: true},
		{Name: "email", Kind: schema.KindEmail},
		{Name: "floor", Kind: schema.KindNumber},
		{Name: "openDate", Kind: schema.KindDate},
		{Name: "notes", Kind: schema.KindTextarea},
	}
	view := baseView(fields)
	state, _ := view.State.WithValue("title", "Grand Hall")
	view.State = state

	page := renderView(t, view, forms.RenderOptions{})

	assertContains(t, page,
		`name="title"`, `value="Grand Hall"`, `required`,
		`type="email"`, `type="number"`, `type="date"`,
		`<textarea`, `name="notes"`,
		`Create Shops`,
	)
}

func TestRenderCheckboxPostsPairedInputs(t *testing.T) {
	fields := []schema.Field{{Name: "featured", Kind: schema.KindCheckbox}}

	page := renderView(t, baseView(fields), forms.RenderOptions{})

	hidden := strings.Index(page, `type="hidden" name="featured" value="false"`)
	box := strings.Index(page, `type="checkbox" id="af-featured" name="featured"`)
	if hidden < 0 || box < 0 || hidden > box {
		t.Fatalf("paired checkbox inputs missing or misordered:\n%s", page)
	}
}

func TestRenderSelectMarksCurrentValue(t *testing.T) {
	fields := []schema.Field{
		{Name: "status", Kind: schema.KindSelect, Options: []schema.Option{
			{Label: "Draft", Value: "draft"},
			{Label: "Published", Value: "published"},
		}},
	}
	view := baseView(fields)
	state, _ := view.State.WithValue("status", "published")
	view.State = state

	page := renderView(t, view, forms.RenderOptions{})

	assertContains(t, page, `<option value="published" selected>`)
	if strings.Contains(page, `<option value="draft" selected>`) {
		t.Fatal("draft option wrongly selected")
	}
}

func TestRenderPolymorphicRelationshipGroupsOptions(t *testing.T) {
	fields := []schema.Field{
		{Name: "related", Kind: schema.KindRelationship, HasMany: true,
			RelationTo: []string{"shops", "dinings"}},
	}
	view := baseView(fields)
	view.Relationships = map[string][]relationship.Option{
		"related": {
			{Collection: "shops", Value: "1", Label: "Grand Hall"},
			{Collection: "dinings", Value: "7", Label: "Sky Bar"},
		},
	}

	page := renderView(t, view, forms.RenderOptions{})

	assertContains(t, page,
		`name="related[]"`, `multiple`,
		`<optgroup`, `value="shops:1"`, `value="dinings:7"`,
	)
}

func TestRenderRelationshipWithoutTargetsDisabled(t *testing.T) {
	fields := []schema.Field{{Name: "broken", Kind: schema.KindRelationship}}
	view := baseView(fields)
	view.FieldErrors = map[string]string{"broken": "No target collections configured"}

	page := renderView(t, view, forms.RenderOptions{})

	assertContains(t, page, `disabled`, `No target collections configured`)
}

func TestRenderArrayRowsWithActions(t *testing.T) {
	fields := []schema.Field{
		{Name: "gallery", Kind: schema.KindArray, Children: []schema.Field{
			{Name: "caption", Kind: schema.KindText},
		}},
	}
	view := baseView(fields)
	state, _ := view.State.WithRowAppended("gallery", schema.RowSeed(fields[0]))
	state, _ = state.WithValue("gallery.0.caption", "lobby")
	view.State = state

	page := renderView(t, view, forms.RenderOptions{})

	assertContains(t, page,
		`name="gallery.0.caption"`, `value="lobby"`,
		`value="row:remove:gallery.0"`, `value="row:add:gallery"`,
		`formnovalidate`,
	)
}

func TestRenderTabsHidesInactivePanels(t *testing.T) {
	fields := []schema.Field{
		{Name: "meta", Kind: schema.KindTabs, Tabs: []schema.Tab{
			{Label: "SEO", Children: []schema.Field{{Name: "metaTitle", Kind: schema.KindText}}},
			{Label: "Hours", Children: []schema.Field{{Name: "openingHours", Kind: schema.KindText}}},
		}},
	}

	page := renderView(t, baseView(fields), forms.RenderOptions{})

	// Every panel renders so no typed value is lost on submit; only the
	// first is visible.
	assertContains(t, page, `name="meta.0.metaTitle"`, `name="meta.1.openingHours"`, `hidden`)
}

func TestRenderUnknownKindDegradesToTextInput(t *testing.T) {
	fields := []schema.Field{{Name: "geo", Kind: schema.FieldKind("point")}}

	page := renderView(t, baseView(fields), forms.RenderOptions{})

	assertContains(t, page, `name="geo"`, `type="text"`)
}

func TestRenderFieldErrorsAndBanner(t *testing.T) {
	fields := []schema.Field{{Name: "title", Kind: schema.KindText, Required: true}}
	view := baseView(fields)
	view.FieldErrors = map[string]string{"title": "This field is required"}
	view.Message = "Please fill in all required fields"

	page := renderView(t, view, forms.RenderOptions{})

	assertContains(t, page,
		`data-invalid`, `This field is required`,
		`Please fill in all required fields`,
	)
}

func TestRenderCollapsibleStartsCollapsed(t *testing.T) {
	fields := []schema.Field{
		{Name: "advanced", Kind: schema.KindCollapsible, Label: "Advanced", Children: []schema.Field{
			{Name: "slug", Kind: schema.KindText},
		}},
	}

	page := renderView(t, baseView(fields), forms.RenderOptions{})

	assertContains(t, page, `<details class="af-collapsible">`, `name="slug"`)
	if strings.Contains(page, `<details class="af-collapsible" open`) {
		t.Fatal("collapsible renders expanded, want initial state collapsed")
	}
}

func TestRenderArrayRowShowsWireKeyedError(t *testing.T) {
	fields := []schema.Field{
		{Name: "gallery", Kind: schema.KindArray, Children: []schema.Field{
			{Name: "caption", Kind: schema.KindText},
		}},
	}
	view := baseView(fields)
	state, _ := view.State.WithRowAppended("gallery", schema.RowSeed(fields[0]))
	view.State = state
	view.FieldErrors = map[string]string{"gallery.caption": "too long"}

	page := renderView(t, view, forms.RenderOptions{})

	assertContains(t, page, `name="gallery.0.caption"`, `data-invalid`, `too long`)
}

func TestRenderTabChildShowsWireKeyedError(t *testing.T) {
	fields := []schema.Field{
		{Name: "meta", Kind: schema.KindTabs, Tabs: []schema.Tab{
			{Label: "SEO", Children: []schema.Field{{Name: "metaTitle", Kind: schema.KindText}}},
		}},
	}
	view := baseView(fields)
	view.FieldErrors = map[string]string{"metaTitle": "too short"}

	page := renderView(t, view, forms.RenderOptions{})

	assertContains(t, page, `name="meta.0.metaTitle"`, `data-invalid`, `too short`)
}

func TestRenderEditModeMethodOverride(t *testing.T) {
	fields := []schema.Field{{Name: "title", Kind: schema.KindText}}
	view := baseView(fields)
	view.RecordID = "42"

	page := renderView(t, view, forms.RenderOptions{})

	assertContains(t, page,
		`method="POST"`,
		`name="_method" value="PATCH"`,
		`action="/admin/shops/42"`,
	)
}

func TestRenderHiddenInputsAndCancel(t *testing.T) {
	fields := []schema.Field{{Name: "title", Kind: schema.KindText}}

	page := renderView(t, baseView(fields), forms.RenderOptions{
		Hidden:    map[string]string{"csrf_token": "tok-1"},
		CancelURL: "/admin/shops",
	})

	assertContains(t, page, `name="csrf_token" value="tok-1"`, `href="/admin/shops"`)
}

func TestRenderThemeChrome(t *testing.T) {
	fields := []schema.Field{{Name: "title", Kind: schema.KindText}}

	page := renderView(t, baseView(fields), forms.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "iconsiam",
			Variant: "dark",
			CSSVars: map[string]string{"--af-accent": "#b08d57"},
		},
	})

	assertContains(t, page, `theme-iconsiam`, `variant-dark`, `--af-accent: #b08d57`)
}

func TestRenderThemeStylesheetUsesAssetResolver(t *testing.T) {
	fields := []schema.Field{{Name: "title", Kind: schema.KindText}}

	page := renderView(t, baseView(fields), forms.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme: "iconsiam",
			AssetURL: func(name string) string {
				return "/static/themes/iconsiam/" + name
			},
		},
	})

	assertContains(t, page, `href="/static/themes/iconsiam/admin.css"`)
}

func TestRenderEscapesValues(t *testing.T) {
	fields := []schema.Field{{Name: "title", Kind: schema.KindText}}
	view := baseView(fields)
	state, _ := view.State.WithValue("title", `<script>"x"</script>`)
	view.State = state

	page := renderView(t, view, forms.RenderOptions{})

	if strings.Contains(page, `<script>"x"</script>`) {
		t.Fatal("unescaped value in markup")
	}
	assertContains(t, page, `&lt;script&gt;`)
}

func TestRenderCancelledContext(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fields := []schema.Field{{Name: "title", Kind: schema.KindText}}
	if _, err := renderer.Render(ctx, baseView(fields), forms.RenderOptions{}); err == nil {
		t.Fatal("expected context error")
	}
}
