package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/blink/internal/search"
)

var flagSearchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Ask every plugin about a query and print the results",
	Long: `Dispatch a query to all loaded plugins and print the aggregated results.

With no query the default listing is printed. When no plugin answers, a single
entry echoing the query is printed.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := loadRuntime()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	entries := dispatch(cmd.Context(), env, query)

	if flagSearchJSON {
		return writeEntriesJSON(entries)
	}
	printSearchResults(query, entries)
	return nil
}

// dispatch runs one query against a freshly scanned plugin root.
func dispatch(ctx context.Context, env *runtimeEnv, query string) []search.ResultEntry {
	return env.dispatcher(env.loader()).Search(ctx, query)
}

type entryJSON struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Actions     []actionJSON `json:"actions"`
}

type actionJSON struct {
	Title   string `json:"title"`
	Icon    string `json:"icon,omitempty"`
	Command string `json:"command"`
}

func writeEntriesJSON(entries []search.ResultEntry) error {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		actions := make([]actionJSON, 0, len(e.Actions))
		for _, a := range e.Actions {
			actions = append(actions, actionJSON{Title: a.Title, Icon: a.Icon, Command: a.Command})
		}
		out = append(out, entryJSON{Title: e.Title, Description: e.Description, Actions: actions})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("cannot encode results: %w", err)
	}
	return nil
}

func printSearchResults(query string, entries []search.ResultEntry) {
	fmt.Printf("\nblink search %q\n\n", query)
	fmt.Printf("Results (%d found):\n", len(entries))
	if len(entries) == 0 {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, e := range entries {
		fmt.Fprintf(w, "  %d.\t%s\t%s\n", i+1, e.Title, strings.TrimSpace(e.Description))
		for j, a := range e.Actions {
			fmt.Fprintf(w, "  \t  [%d] %s\t%s\n", j+1, a.Title, a.Command)
		}
	}
	_ = w.Flush()
}
