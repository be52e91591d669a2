package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/lookback/internal/app"
	"github.com/xolan/lookback/internal/storage"
)

var (
	dataDirFlag    string
	configPathFlag string
)

var rootCmd = &cobra.Command{
	Use:   "lookback",
	Short: "A journal of actions and the dated entries logged against them",
	Long: `lookback keeps a local journal of actions (things you want to reflect on)
and dated entries logged against each of them.

Usage:
  lookback                                   List actions
  lookback add <title>                       Add an action
  lookback log <action> <description>        Log an entry for an action
  lookback describe <action> <description>   Set an action's description
  lookback image <entry-id> [file]           Attach or clear an entry image
  lookback show <action>                     Show an action by date
  lookback export [--format json|csv]        Export the journal
  lookback validate                          Check storage file health
  lookback restore [n]                       Restore from backup (default: most recent)
  lookback tui                               Interactive terminal UI

<action> is an action id, a unique id prefix or the exact title (any case).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listActions()
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List actions with their entry counts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		listActions()
	},
}

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check storage file health",
	Long: `Validate the storage file and report on its health: whether it parses,
how many actions, entries and images it holds, and which backups exist.
The file is only read, never rewritten.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		validateStorage()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding actions.json (overrides data_dir)")
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to the config file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
}

// globalOptions returns the app options selected by the global flags.
func globalOptions() app.Options {
	return app.Options{ConfigPath: configPathFlag, DataDir: dataDirFlag}
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"lookback version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// listActions prints every action in creation order
func listActions() {
	a := openApp()
	if a == nil {
		return
	}
	defer a.Close()

	actions := a.Store.Actions()
	if len(actions) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No actions yet")
		_, _ = fmt.Fprintln(deps.Stdout, "Hint: Add one with 'lookback add <title>'")
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Actions:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))

	maxIndexWidth := len(fmt.Sprintf("%d", len(actions)))
	for i, action := range actions {
		_, _ = fmt.Fprintf(deps.Stdout, "[%*d] %s  %s (%d %s)\n",
			maxIndexWidth,
			i+1,
			shortID(action.ID),
			displayTitle(action.Title),
			len(action.Entries),
			pluralize("entry", len(action.Entries)))
	}
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 50))
	_, _ = fmt.Fprintf(deps.Stdout, "Total: %d %s, %d %s\n",
		len(actions), pluralize("action", len(actions)),
		actions.EntryCount(), pluralize("entry", actions.EntryCount()))
}

// validateStorage checks the storage file health and reports status
func validateStorage() {
	cfg, _, err := deps.LoadConfig(globalOptions())
	if err != nil {
		fail("Failed to load configuration", err, "")
		return
	}

	storagePath, err := storage.GetStoragePathIn(cfg.DataDir)
	if err != nil {
		fail("Failed to get storage path", err, "")
		return
	}

	health, err := storage.ValidateStorage(storagePath, storage.MaxBackupCount)
	if err != nil {
		fail("Failed to validate storage", err, "")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Storage file: %s\n", storagePath)
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))

	if !health.Exists {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: No storage file yet (it is created on first use)")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Size:      %d bytes\n", health.Size)
	_, _ = fmt.Fprintf(deps.Stdout, "Actions:   %d\n", health.Actions)
	_, _ = fmt.Fprintf(deps.Stdout, "Entries:   %d\n", health.Entries)
	_, _ = fmt.Fprintf(deps.Stdout, "Images:    %d\n", health.Images)
	_, _ = fmt.Fprintf(deps.Stdout, "Backups:   %d\n", len(health.Backups))
	for _, q := range health.Quarantined {
		_, _ = fmt.Fprintf(deps.Stdout, "Quarantined file present: %s\n", q)
	}
	if health.TempLeft {
		_, _ = fmt.Fprintf(deps.Stdout, "Leftover temp file present: %s%s\n", storagePath, storage.TempSuffix)
	}

	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 50))
	if health.Healthy() {
		_, _ = fmt.Fprintln(deps.Stdout, "Status: ✓ Storage file is healthy")
		return
	}
	_, _ = fmt.Fprintf(deps.Stderr, "Status: ⚠ Storage file is unusable: %s\n", health.Problem)
	_, _ = fmt.Fprintln(deps.Stderr, "Hint: The next command that opens the journal moves it aside and starts over; 'lookback restore' brings back a backup")
	deps.Exit(1)
}
