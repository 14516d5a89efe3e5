// Package config loads the admin server's configuration from an optional
// YAML file, with ADMINFORMS_ environment variables taking precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything the admin form server needs to start.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds. Default: ":8087".
	ListenAddr string `yaml:"listen_addr"`

	// API configures the document store client.
	API APIConfig `yaml:"api"`

	// DefaultLocale applies when a request carries no locale. Default: "en".
	DefaultLocale string `yaml:"default_locale"`

	// LayoutsDir points at a directory of hand-authored layout documents.
	// Empty means the embedded bundle only.
	LayoutsDir string `yaml:"layouts_dir"`

	// TemplatesDir overrides the embedded HTML templates. Optional.
	TemplatesDir string `yaml:"templates_dir"`

	// Theme selects the admin chrome.
	Theme ThemeConfig `yaml:"theme"`

	// AllowedOrigins configures CORS. Empty disables cross-origin access.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// LogLevel is a zap level name: debug, info, warn, error. Default: "info".
	LogLevel string `yaml:"log_level"`
}

// APIConfig locates the document store.
type APIConfig struct {
	// BaseURL is the API root, e.g. "https://cms.example.com/api".
	BaseURL string `yaml:"base_url"`
}

// ThemeConfig names the visual theme applied to rendered forms.
type ThemeConfig struct {
	Name     string `yaml:"name"`
	Variant  string `yaml:"variant"`
	AssetURL string `yaml:"asset_url"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		ListenAddr:    ":8087",
		DefaultLocale: "en",
		LogLevel:      "info",
	}
}

// Load reads path (when non-empty) over the defaults, then applies
// environment overrides. A missing file at an explicitly given path is an
// error; an empty path skips the file step.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("config: api.base_url is required")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr is required")
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.ListenAddr, "ADMINFORMS_LISTEN_ADDR")
	setString(&cfg.API.BaseURL, "ADMINFORMS_API_BASE_URL")
	setString(&cfg.DefaultLocale, "ADMINFORMS_DEFAULT_LOCALE")
	setString(&cfg.LayoutsDir, "ADMINFORMS_LAYOUTS_DIR")
	setString(&cfg.TemplatesDir, "ADMINFORMS_TEMPLATES_DIR")
	setString(&cfg.Theme.Name, "ADMINFORMS_THEME")
	setString(&cfg.Theme.Variant, "ADMINFORMS_THEME_VARIANT")
	setString(&cfg.Theme.AssetURL, "ADMINFORMS_THEME_ASSET_URL")
	setString(&cfg.LogLevel, "ADMINFORMS_LOG_LEVEL")

	if origins := os.Getenv("ADMINFORMS_ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		cfg.AllowedOrigins = out
	}
}

func setString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}
