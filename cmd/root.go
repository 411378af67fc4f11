package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/blink/internal/config"
	"github.com/kamusis/blink/internal/plugins"
	"github.com/kamusis/blink/internal/search"
)

var (
	flagDebug      bool
	flagPluginRoot string
)

var rootCmd = &cobra.Command{
	Use:          "blink",
	Short:        "Blink: a plugin-driven query launcher",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `Blink turns a short query into actionable results supplied by plugins
found under ~/.blink/plugins/, and launches the command you pick.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log plugin discovery and execution details to stderr")
	rootCmd.PersistentFlags().StringVar(&flagPluginRoot, "plugins", "", "Plugin root directory (overrides plugin_root)")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtimeEnv is the resolved configuration shared by the query commands.
type runtimeEnv struct {
	cfg    *config.Config
	logger *slog.Logger
}

// loadRuntime loads blink.yaml and applies the global flags on top of it.
func loadRuntime() (*runtimeEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	if flagPluginRoot != "" {
		root, err := config.ExpandPath(flagPluginRoot)
		if err != nil {
			return nil, err
		}
		cfg.PluginRoot = root
	}
	if flagDebug {
		cfg.Debug = true
	}
	return &runtimeEnv{cfg: cfg, logger: newLogger(cfg.Debug)}, nil
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (r *runtimeEnv) loader() *plugins.Loader {
	return plugins.NewLoader(r.cfg.PluginRoot, plugins.WithLogger(r.logger))
}

func (r *runtimeEnv) dispatcher(src search.Source) *search.Dispatcher {
	return search.NewDispatcher(src,
		search.WithDefaults(defaultEntries(r.cfg.DefaultItems)),
		search.WithLogger(r.logger),
	)
}

// defaultEntries converts configured default items; nil keeps the built-in listing.
func defaultEntries(items []config.DefaultItem) []search.ResultEntry {
	if len(items) == 0 {
		return nil
	}
	out := make([]search.ResultEntry, 0, len(items))
	for _, it := range items {
		out = append(out, search.ResultEntry{Title: it.Title, Description: it.Description, Actions: []search.Action{}})
	}
	return out
}
