package main

import (
	"testing"

	"github.com/goliatone/go-adminforms/pkg/config"
)

func TestThemeConfigBuildsAssetResolver(t *testing.T) {
	cfg := themeConfig(config.ThemeConfig{
		Name:     "iconsiam",
		Variant:  "dark",
		AssetURL: "/static/themes/iconsiam/",
	})
	if cfg == nil {
		t.Fatal("themeConfig() = nil, want config")
	}
	if cfg.Theme != "iconsiam" || cfg.Variant != "dark" {
		t.Fatalf("theme = %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.AssetURL == nil {
		t.Fatal("AssetURL = nil, want resolver")
	}
	if got := cfg.AssetURL("admin.css"); got != "/static/themes/iconsiam/admin.css" {
		t.Fatalf("AssetURL(admin.css) = %q", got)
	}
	if got := cfg.AssetURL("/admin.css"); got != "/static/themes/iconsiam/admin.css" {
		t.Fatalf("AssetURL(/admin.css) = %q", got)
	}
}

func TestThemeConfigWithoutBaseOmitsResolver(t *testing.T) {
	cfg := themeConfig(config.ThemeConfig{Name: "iconsiam"})
	if cfg == nil {
		t.Fatal("themeConfig() = nil, want config")
	}
	if cfg.AssetURL != nil {
		t.Fatal("AssetURL = resolver, want nil without a base")
	}
}

func TestThemeConfigWithoutName(t *testing.T) {
	if cfg := themeConfig(config.ThemeConfig{AssetURL: "/static"}); cfg != nil {
		t.Fatalf("themeConfig() = %+v, want nil", cfg)
	}
}
