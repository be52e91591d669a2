package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/lookback/internal/journal"
	"github.com/xolan/lookback/internal/timeline"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <action>",
	Short: "Show an action and its entries by date",
	Long: `Show an action's description, the dates that have entries, and the
entries of one date.

By default the most recent date is shown. Use --date to pick another
day, or --all to list every date with its entries.

Examples:
  lookback show "Read a Book"
  lookback show 3f2a91c0 --date 2024-01-15
  lookback show "Read a Book" --all`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showAction(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().String("date", "", "Day to show (YYYY-MM-DD, DD/MM/YYYY, today, yesterday)")
	showCmd.Flags().Bool("all", false, "Show the entries of every date")
}

// showAction prints the detail view of the action named by args[0]
func showAction(cmd *cobra.Command, args []string) {
	dateStr, _ := cmd.Flags().GetString("date")
	showAll, _ := cmd.Flags().GetBool("all")

	a := openApp()
	if a == nil {
		return
	}
	defer a.Close()
	loc := a.Location

	action, err := resolveAction(a.Store.Actions(), args[0])
	if err != nil {
		fail("Action not found", err, "List actions with 'lookback list'")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "%s (%s)\n", displayTitle(action.Title), shortID(action.ID))
	if action.Description != "" {
		_, _ = fmt.Fprintf(deps.Stdout, "Description: %s\n", action.Description)
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))

	days := timeline.Group(action, loc)
	if len(days) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No entries yet")
		_, _ = fmt.Fprintf(deps.Stdout, "Hint: Log one with 'lookback log %s <description>'\n", shortID(action.ID))
		return
	}

	if showAll {
		for i, day := range days {
			if i > 0 {
				_, _ = fmt.Fprintln(deps.Stdout)
			}
			_, _ = fmt.Fprintf(deps.Stdout, "%s:\n", timeline.FormatDay(day.Date))
			printEntries(day.Entries, loc)
		}
		return
	}

	selected, _ := timeline.LatestDate(action, loc)
	if dateStr != "" {
		selected, err = timeline.ParseDate(dateStr, deps.Now(), loc)
		if err != nil {
			fail("Invalid --date", err, "")
			return
		}
		selected = timeline.DayOf(selected, loc)
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Dates with entries:")
	for _, day := range days {
		marker := " "
		if day.Date.Equal(selected) {
			marker = "*"
		}
		_, _ = fmt.Fprintf(deps.Stdout, "%s %s (%d %s)\n",
			marker, timeline.FormatDay(day.Date), len(day.Entries), pluralize("entry", len(day.Entries)))
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))

	entries := timeline.EntriesForDate(action, selected, loc)
	if len(entries) == 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "No entries on %s\n", timeline.FormatDay(selected))
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Entries for %s:\n", timeline.FormatDay(selected))
	printEntries(entries, loc)
}

// printEntries prints entries in insertion order, one per line
func printEntries(entries []journal.Entry, loc *time.Location) {
	for _, e := range entries {
		line := fmt.Sprintf("  [%s] %s  %s", shortID(e.ID), formatTimestamp(e.Timestamp, loc), e.Description)
		if e.HasImage() {
			line += "  [image]"
		}
		_, _ = fmt.Fprintln(deps.Stdout, line)
	}
}
