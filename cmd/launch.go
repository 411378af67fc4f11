package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/blink/internal/plugins"
	"github.com/kamusis/blink/internal/tui"
)

var flagLaunchWait time.Duration

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Open the interactive launcher",
	Long: `Open the interactive launcher.

Results refresh once typing pauses for the configured quiet_interval. Use the
arrow keys to pick a result, tab to pick an action and enter to run it.
Plugins are scanned once when the launcher opens.`,
	Args: cobra.NoArgs,
	RunE: runLaunch,
}

func init() {
	launchCmd.Flags().DurationVar(&flagLaunchWait, "wait", 0, "How long to wait for another launcher to exit")
	rootCmd.AddCommand(launchCmd)
}

func runLaunch(cmd *cobra.Command, _ []string) error {
	env, err := loadRuntime()
	if err != nil {
		return err
	}
	quiet, err := env.cfg.Interval()
	if err != nil {
		return err
	}

	_, release, err := acquireLauncherLock(flagLaunchWait)
	if err != nil {
		return err
	}
	defer release()

	src := plugins.NewCache(env.loader())
	launched, err := tui.Run(cmd.Context(), tui.Options{
		Searcher: env.dispatcher(src),
		Quiet:    quiet,
		Launch:   startCommand,
	})
	if err != nil {
		return err
	}
	if launched != "" {
		printOK("", "launched: "+launched)
	}
	return nil
}
