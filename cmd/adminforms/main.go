// Command adminforms hosts the admin form server and offers one-shot
// rendering and interactive editing against a document API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	adminforms "github.com/goliatone/go-adminforms"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-adminforms/pkg/config"
	"github.com/goliatone/go-adminforms/pkg/editor"
	"github.com/goliatone/go-adminforms/pkg/renderers/html"
	"github.com/goliatone/go-adminforms/pkg/renderers/tui"
	"github.com/goliatone/go-adminforms/pkg/server"
)

var (
	configPath string
	apiBaseURL string
	locale     string
	outputPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "adminforms",
	Short: "Schema-driven admin forms for a headless CMS",
	Long: `adminforms turns a document API's collection schemas into edit forms.

The serve command hosts the HTML admin surface; render emits a single form
page; edit runs an interactive terminal session against a record.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		built, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the HTML admin form server",
	RunE:  runServe,
}

var renderCmd = &cobra.Command{
	Use:   "render [collection] [record-id]",
	Short: "Render a collection's edit form as HTML",
	Long: `Renders the create form for a collection, or the edit form when a
record id is given, and writes the page to stdout or --output.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRender,
}

var editCmd = &cobra.Command{
	Use:   "edit [collection] [record-id]",
	Short: "Edit a record interactively in the terminal",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runEdit,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to adminforms.yaml")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "document API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "content locale (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the page to a file instead of stdout")

	rootCmd.AddCommand(serveCmd, renderCmd, editCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if apiBaseURL != "" {
		os.Setenv("ADMINFORMS_API_BASE_URL", apiBaseURL)
	}
	if locale != "" {
		os.Setenv("ADMINFORMS_DEFAULT_LOCALE", locale)
	}
	return config.Load(configPath)
}

func buildAdmin(cfg config.Config) (*adminforms.Admin, error) {
	options := []adminforms.Option{
		adminforms.WithDefaultLocale(cfg.DefaultLocale),
		adminforms.WithLogger(logger),
	}
	if cfg.LayoutsDir != "" {
		options = append(options, adminforms.WithLayoutsDir(cfg.LayoutsDir))
	}
	if themeCfg := themeConfig(cfg.Theme); themeCfg != nil {
		options = append(options, adminforms.WithTheme(themeCfg))
	}
	return adminforms.New(cfg.API.BaseURL, options...)
}

// themeConfig adapts the flat theme settings into go-theme's renderer
// config. The configured asset base becomes a resolver over relative asset
// names.
func themeConfig(cfg config.ThemeConfig) *theme.RendererConfig {
	if cfg.Name == "" {
		return nil
	}
	out := &theme.RendererConfig{
		Theme:   cfg.Name,
		Variant: cfg.Variant,
	}
	if base := strings.TrimRight(cfg.AssetURL, "/"); base != "" {
		out.AssetURL = func(name string) string {
			return base + "/" + strings.TrimPrefix(name, "/")
		}
	}
	return out
}

func buildHTMLRenderer(cfg config.Config) (*html.Renderer, error) {
	var options []html.Option
	if cfg.TemplatesDir != "" {
		options = append(options, html.WithTemplatesDir(cfg.TemplatesDir))
	}
	return html.New(options...)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	admin, err := buildAdmin(cfg)
	if err != nil {
		return err
	}
	renderer, err := buildHTMLRenderer(cfg)
	if err != nil {
		return err
	}

	srv := server.New(cfg.ListenAddr, admin.Handler(renderer, cfg.AllowedOrigins))

	logger.Info("starting admin form server", zap.String("addr", cfg.ListenAddr))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	admin, err := buildAdmin(cfg)
	if err != nil {
		return err
	}

	recordID := ""
	if len(args) > 1 {
		recordID = args[1]
	}

	page, err := admin.RenderHTML(cmd.Context(), args[0], recordID, cfg.DefaultLocale)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, page, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("form written to %s\n", outputPath)
		return nil
	}
	fmt.Println(string(page))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	admin, err := buildAdmin(cfg)
	if err != nil {
		return err
	}

	recordID := ""
	if len(args) > 1 {
		recordID = args[1]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := admin.OpenSession(ctx, args[0], recordID, cfg.DefaultLocale)
	if err != nil {
		return err
	}

	prompter, err := tui.New()
	if err != nil {
		return err
	}

	state, err := prompter.Collect(ctx, session.View())
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Println("aborted, nothing saved")
			return nil
		}
		return err
	}
	session.ReplaceState(state)

	if err := session.Submit(ctx); err != nil {
		if errors.Is(err, editor.ErrValidation) {
			view := session.View()
			for path, message := range view.FieldErrors {
				fmt.Printf("  %s: %s\n", path, message)
			}
			return errors.New("record not saved")
		}
		return err
	}

	fmt.Printf("saved %s/%s\n", args[0], session.SavedID())
	return nil
}
