package html

import (
	"fmt"
	"html"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// chromeContext converts resolved theme configuration into the template
// context: class hooks, an inline CSS-variable block, and the resolved
// stylesheet URL.
func chromeContext(cfg *theme.RendererConfig) map[string]any {
	out := map[string]any{
		"theme":      "",
		"variant":    "",
		"css_vars":   "",
		"stylesheet": "",
		"body_class": "af-admin",
	}
	if cfg == nil {
		return out
	}

	out["theme"] = cfg.Theme
	out["variant"] = cfg.Variant
	if cfg.AssetURL != nil {
		out["stylesheet"] = cfg.AssetURL("admin.css")
	}

	classes := []string{"af-admin"}
	if cfg.Theme != "" {
		classes = append(classes, "theme-"+cfg.Theme)
	}
	if cfg.Variant != "" {
		classes = append(classes, "variant-"+cfg.Variant)
	}
	out["body_class"] = strings.Join(classes, " ")

	if block := cssVariableBlock(cfg.CSSVars); block != "" {
		out["css_vars"] = block
	}
	return out
}

// cssVariableBlock emits a deterministic :root block from the theme's CSS
// variables.
func cssVariableBlock(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	builder.WriteString(":root {\n")
	for _, name := range names {
		clean := strings.TrimSpace(name)
		if clean == "" {
			continue
		}
		if !strings.HasPrefix(clean, "--") {
			clean = "--" + clean
		}
		fmt.Fprintf(&builder, "  %s: %s;\n", html.EscapeString(clean), html.EscapeString(vars[name]))
	}
	builder.WriteString("}")
	return builder.String()
}
