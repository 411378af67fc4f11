package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamusis/blink/internal/config"
	"github.com/kamusis/blink/internal/plugins"
)

// sampleEntries is the keyword table of the data plugin written on first init.
const sampleEntries = `[
  {
    "keyword": "calc",
    "title": "Calculator",
    "description": "Open the system calculator",
    "universalCommand": "",
    "windowsCommand": "calc.exe",
    "macCommand": "open -a Calculator"
  },
  {
    "keyword": "docs",
    "title": "Go documentation",
    "description": "Open pkg.go.dev in the browser",
    "universalCommand": "xdg-open https://pkg.go.dev",
    "windowsCommand": "start https://pkg.go.dev",
    "macCommand": "open https://pkg.go.dev"
  }
]
`

var flagInitNoSample bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create ~/.blink with a default config and a sample plugin",
	Long: `Initialize blink's home at ~/.blink/.

Creates blink.yaml, a .env template for overrides, the plugin root and a
sample data plugin. Existing files are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagInitNoSample, "no-sample", false, "Do not create the sample data plugin")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Resolve and create ~/.blink ───────────────────────────────────────
	dir, err := config.BlinkDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	printOK("", fmt.Sprintf("blink directory ready: %s", dir))

	// ── 2. Write blink.yaml if missing ───────────────────────────────────────
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg, err := config.DefaultConfig()
		if err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", cfgPath))
	}

	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	envPath, _ := config.DotEnvPath()
	printOK("", fmt.Sprintf("Overrides file ready: %s", envPath))

	// ── 3. Plugin root and sample plugin ─────────────────────────────────────
	env, err := loadRuntime()
	if err != nil {
		return err
	}
	root := env.cfg.PluginRoot
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("cannot create plugin root %s: %w", root, err)
	}
	printOK("", fmt.Sprintf("Plugin root ready: %s", root))

	if flagInitNoSample {
		return nil
	}
	created, err := writeSamplePlugin(filepath.Join(root, "sample"))
	if err != nil {
		return err
	}
	if created {
		printOK("sample", "data plugin created (try 'blink search calc')")
	} else {
		printSkip("sample", "already exists")
	}
	return nil
}

// writeSamplePlugin creates a data plugin in dir unless dir already exists.
func writeSamplePlugin(dir string) (bool, error) {
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("cannot stat %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("cannot create %s: %w", dir, err)
	}

	m := plugins.Manifest{ID: "sample", Name: "Sample shortcuts", Version: "1.0.0", Entry: "entries.json", Kind: plugins.KindData}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return false, fmt.Errorf("cannot marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), append(b, '\n'), 0o644); err != nil {
		return false, fmt.Errorf("cannot write manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, m.Entry), []byte(sampleEntries), 0o644); err != nil {
		return false, fmt.Errorf("cannot write entries: %w", err)
	}
	return true, nil
}
