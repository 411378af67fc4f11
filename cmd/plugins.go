package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List plugin directories and whether each one loads",
	Args:  cobra.NoArgs,
	RunE:  runPlugins,
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}

func runPlugins(cmd *cobra.Command, _ []string) error {
	env, err := loadRuntime()
	if err != nil {
		return err
	}
	root := env.cfg.PluginRoot

	printSection("blink plugins")
	fmt.Printf("  root: %s\n", root)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		printMiss("", "plugin root does not exist (run 'blink init' to create it)")
		return nil
	}

	reports := env.loader().Inspect(cmd.Context())
	if len(reports) == 0 {
		printMiss("", "no plugin directories found")
		return nil
	}
	loaded, _ := printReports(os.Stdout, reports)
	fmt.Printf("\n  %d loaded, %d skipped\n", loaded, len(reports)-loaded)
	return nil
}
