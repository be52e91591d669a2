package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/lookback/internal/stats"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics for the journal",
	Long: `Show aggregated statistics for your journal.

Display summary statistics including:
  - Number of entries and attached images
  - Actions with entries and days with entries
  - Average entries per day (with --last)
  - Current streak of consecutive days with entries
  - Breakdown by action

Examples:
  lookback stats             Statistics over the whole journal
  lookback stats --last 7    Statistics for the last 7 days`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runStats(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int("last", 0, "Only count the last N days (0 = all time)")
}

// runStats handles the stats command logic
func runStats(cmd *cobra.Command) {
	lastDays, _ := cmd.Flags().GetInt("last")
	if lastDays < 0 {
		fail(fmt.Sprintf("--last must not be negative (got %d)", lastDays), nil, "")
		return
	}

	a := openApp()
	if a == nil {
		return
	}
	defer a.Close()

	actions := a.Store.Actions()
	now := deps.Now()

	var start, end time.Time
	periodName := "all time"
	if lastDays > 0 {
		start, end = stats.LastNDays(now, lastDays, a.Location)
		periodName = fmt.Sprintf("the last %d %s", lastDays, pluralize("day", lastDays))
	}

	statistics := stats.CalculateStatistics(actions, start, end, a.Location)

	_, _ = fmt.Fprintf(deps.Stdout, "Statistics for %s\n", periodName)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "Entries:         %d %s\n", statistics.EntryCount, pluralize("entry", statistics.EntryCount))
	_, _ = fmt.Fprintf(deps.Stdout, "Images:          %d\n", statistics.ImageCount)
	_, _ = fmt.Fprintf(deps.Stdout, "Actions:         %d of %d with entries\n", statistics.ActiveActions, len(actions))
	_, _ = fmt.Fprintf(deps.Stdout, "Days Logged:     %d %s\n", statistics.DaysWithEntries, pluralize("day", statistics.DaysWithEntries))
	if lastDays > 0 {
		_, _ = fmt.Fprintf(deps.Stdout, "Average/Day:     %.1f\n", statistics.AverageEntriesPerDay)
	}
	streak := stats.CurrentStreak(actions, now, a.Location)
	_, _ = fmt.Fprintf(deps.Stdout, "Current Streak:  %d %s\n", streak, pluralize("day", streak))
	_, _ = fmt.Fprintln(deps.Stdout)

	breakdowns := stats.CalculateActionBreakdown(actions, start, end)
	if len(breakdowns) == 0 {
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "By Action:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	for _, b := range breakdowns {
		_, _ = fmt.Fprintf(deps.Stdout, "  %-28s  %4d %-7s  last %s\n",
			displayTitle(b.Title),
			b.EntryCount,
			pluralize("entry", b.EntryCount),
			b.LastEntry.In(a.Location).Format("2006-01-02"))
	}
	_, _ = fmt.Fprintln(deps.Stdout)
}
