package cmd

import (
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/kamusis/blink/internal/config"
	"github.com/kamusis/blink/internal/plugins"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that blink's configuration and plugin directory are usable.
Run this command when a plugin does not show up in results.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("blink doctor")
	fmt.Println()

	// ── Check 1: ~/.blink and blink.yaml ─────────────────────────────────────
	fmt.Println("[ blink directory ]")
	if dir, err := config.BlinkDir(); err != nil {
		failD("cannot determine home directory: %v", err)
	} else if _, err := os.Stat(dir); os.IsNotExist(err) {
		printWarn("", fmt.Sprintf("%s not found, using defaults (run 'blink init' to create it)", dir))
	} else {
		printOK("", fmt.Sprintf("~/.blink/ exists: %s", dir))
	}
	fmt.Println()

	fmt.Println("[ blink.yaml ]")
	env, loadErr := loadRuntime()
	if loadErr != nil {
		failD("%v", loadErr)
	} else {
		cfgPath, _ := config.ConfigPath()
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			printSkip("", "blink.yaml not found, defaults in effect")
		} else {
			printOK("", fmt.Sprintf("valid YAML: %s", cfgPath))
		}
		quiet, _ := env.cfg.Interval()
		printInfo("", fmt.Sprintf("quiet interval: %s", quiet))
		if n := len(env.cfg.DefaultItems); n > 0 {
			printInfo("", fmt.Sprintf("%d custom default item(s)", n))
		}
	}
	fmt.Println()

	// ── Check 2: plugin root ─────────────────────────────────────────────────
	fmt.Println("[ Plugin root ]")
	rootOK := false
	if loadErr != nil {
		printWarn("", "skipped (configuration not loaded)")
	} else if info, err := os.Stat(env.cfg.PluginRoot); os.IsNotExist(err) {
		failD("plugin root not found: %s (run 'blink init')", env.cfg.PluginRoot)
	} else if err != nil {
		failD("cannot stat plugin root %s: %v", env.cfg.PluginRoot, err)
	} else if !info.IsDir() {
		failD("plugin root is not a directory: %s", env.cfg.PluginRoot)
	} else {
		rootOK = true
		printOK("", env.cfg.PluginRoot)
	}
	fmt.Println()

	// ── Check 3: each plugin directory loads ─────────────────────────────────
	fmt.Println("[ Plugins ]")
	if rootOK {
		reports := env.loader().Inspect(cmd.Context())
		loaded, broken := printReports(os.Stdout, reports)
		switch {
		case len(reports) == 0:
			printWarn("", "no plugin directories found")
		case broken > 0:
			failD("%d plugin director(ies) failed to load", broken)
		case loaded > 0:
			fmt.Printf("  All %d loadable plugin(s) are healthy.\n", loaded)
		}
	} else {
		printWarn("", "skipped (plugin root unavailable)")
	}
	fmt.Println()

	// ── Check 4: native plugin support ───────────────────────────────────────
	fmt.Println("[ Native plugins ]")
	if plugins.NativeSupported() {
		printOK("", "native plugin modules can be opened by this build")
	} else {
		printSkip("", "this build cannot open native plugin modules (data plugins still work)")
	}
	fmt.Println()

	// ── Check 5: launcher lock ───────────────────────────────────────────────
	fmt.Println("[ Launcher lock ]")
	if p, err := launcherLockPath(); err != nil {
		failD("%v", err)
	} else {
		l := flock.New(p)
		locked, err := l.TryLock()
		switch {
		case err != nil:
			failD("cannot lock %s: %v", p, err)
		case locked:
			_ = l.Unlock()
			printOK("", fmt.Sprintf("no launcher running (lock: %s)", p))
		default:
			printInfo("", fmt.Sprintf("a launcher is currently running (lock: %s)", p))
		}
	}
	fmt.Println()

	// ── Summary ──────────────────────────────────────────────────────────────
	fmt.Println("===================")
	if allOK {
		fmt.Println("✓  All checks passed. blink is ready to use.")
	} else {
		fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	return nil
}
