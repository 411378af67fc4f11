package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamusis/blink/internal/launch"
	"github.com/kamusis/blink/internal/search"
)

var (
	flagRunResult   int
	flagRunAction   int
	flagRunPreferOS bool
	flagRunDryRun   bool
)

// startCommand is swapped in tests.
var startCommand = launch.Command

var runCmd = &cobra.Command{
	Use:   "run <query...>",
	Short: "Dispatch a query and launch the chosen action",
	Long: `Dispatch a query and launch one action of one result.

By default the first action of the first result is launched. Use --result and
--action (1-based) to pick another, or --prefer-os to choose the action that
matches this operating system.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVarP(&flagRunResult, "result", "r", 1, "Result number to run (1-based)")
	runCmd.Flags().IntVarP(&flagRunAction, "action", "a", 1, "Action number within the result (1-based)")
	runCmd.Flags().BoolVar(&flagRunPreferOS, "prefer-os", false, "Pick the action matching this OS instead of --action")
	runCmd.Flags().BoolVar(&flagRunDryRun, "dry-run", false, "Print the command instead of launching it")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	env, err := loadRuntime()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	entries := dispatch(cmd.Context(), env, query)

	a, err := chooseAction(entries, flagRunResult, flagRunAction, flagRunPreferOS, runtime.GOOS)
	if err != nil {
		return err
	}
	if flagRunDryRun {
		printInfo(a.Title, a.Command)
		return nil
	}
	if err := startCommand(a.Command); err != nil {
		return err
	}
	printOK(a.Title, a.Command)
	return nil
}

// chooseAction picks one action using 1-based result and action numbers.
func chooseAction(entries []search.ResultEntry, result, action int, preferOS bool, goos string) (search.Action, error) {
	if result < 1 || result > len(entries) {
		return search.Action{}, fmt.Errorf("result %d out of range (1-%d)", result, len(entries))
	}
	e := entries[result-1]
	if len(e.Actions) == 0 {
		return search.Action{}, fmt.Errorf("result %d (%s) has no actions", result, e.Title)
	}
	if preferOS {
		a, _ := launch.Preferred(e.Actions, goos)
		return a, nil
	}
	if action < 1 || action > len(e.Actions) {
		return search.Action{}, fmt.Errorf("action %d out of range (1-%d) for %s", action, len(e.Actions), e.Title)
	}
	return e.Actions[action-1], nil
}
