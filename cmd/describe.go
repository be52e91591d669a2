package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <action> [description]",
	Short: "Set an action's description",
	Long: `Replace the description of an action.

Omitting the description clears it.

Examples:
  lookback describe "Read a Book" Reading log
  lookback describe 3f2a91c0`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		describeAction(args)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

// describeAction replaces the description of the action named by args[0]
func describeAction(args []string) {
	description := strings.TrimSpace(strings.Join(args[1:], " "))

	a := openApp()
	if a == nil {
		return
	}
	defer a.Close()

	action, err := resolveAction(a.Store.Actions(), args[0])
	if err != nil {
		fail("Action not found", err, "List actions with 'lookback list'")
		return
	}

	if !a.Store.UpdateActionDescription(action.ID, description) {
		fail("Action not found", fmt.Errorf("%w %q", ErrActionNotFound, action.ID), "")
		return
	}
	if warnIfUnsaved(a) {
		return
	}

	if description == "" {
		_, _ = fmt.Fprintf(deps.Stdout, "Cleared description of %s\n", displayTitle(action.Title))
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Updated description of %s: %s\n", displayTitle(action.Title), description)
}
