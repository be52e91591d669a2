package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add an action",
	Long: `Add a new action: something you want to reflect on and log entries against.

The new action starts with an empty description and no entries.

Examples:
  lookback add Read a Book
  lookback add "Met an Old Friend"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		addAction(args)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}

// addAction creates an action titled with the joined arguments
func addAction(args []string) {
	title := strings.TrimSpace(strings.Join(args, " "))

	a := openApp()
	if a == nil {
		return
	}
	defer a.Close()

	action := a.Store.AddAction(title)
	if warnIfUnsaved(a) {
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Added action %s: %s\n", shortID(action.ID), displayTitle(action.Title))
	_, _ = fmt.Fprintf(deps.Stdout, "Hint: Log an entry with 'lookback log %s <description>'\n", shortID(action.ID))
}
