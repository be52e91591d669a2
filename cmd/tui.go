package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xolan/lookback/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive Terminal User Interface for lookback.

Views available:
  - Actions: Browse actions, open one to see its entries by date,
    add actions and entries, edit descriptions
  - Stats: Journal statistics
  - Config: View configuration and pick a color theme

Keyboard shortcuts:
  - Tab/Shift+Tab: Navigate between views
  - 1-3: Jump to specific view
  - j/k or arrows: Navigate within lists
  - ?: Show help
  - q: Quit`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI opens the journal and runs the TUI until the user quits
func runTUI() {
	a := openApp()
	if a == nil {
		return
	}
	defer a.Close()

	if err := tui.Run(a); err != nil {
		fail("Failed to run TUI", err, "")
	}
}
