package cmd

import (
	"encoding/csv"
	"fmt"

	"github.com/xolan/lookback/internal/app"
)

// fail prints an Error/Details/Hint block to stderr and exits 1.
// Empty details or hint lines are skipped.
func fail(msg string, err error, hint string) {
	_, _ = fmt.Fprintf(deps.Stderr, "Error: %s\n", msg)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
	}
	if hint != "" {
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: %s\n", hint)
	}
	deps.Exit(1)
}

// openApp opens the journal selected by the global flags. On failure it
// reports the error, calls deps.Exit and returns nil.
func openApp() *app.App {
	a, err := deps.OpenApp(globalOptions())
	if err != nil {
		fail("Failed to open journal", err, "Check your config file and that the data directory is writable")
		return nil
	}
	return a
}

// warnIfUnsaved reports a failed save after a mutation. The change is kept
// in memory only, so the command still exits non-zero.
func warnIfUnsaved(a *app.App) bool {
	if err := a.Store.SaveErr(); err != nil {
		fail("Change could not be saved", err, fmt.Sprintf("Check that the directory is writable: %s", a.StoragePath()))
		return true
	}
	return false
}

func writeCSVHeader(writer *csv.Writer, headers []string) error {
	if err := writer.Write(headers); err != nil {
		fail("Failed to write CSV headers", err, "")
		return err
	}
	return nil
}

func writeCSVRow(writer *csv.Writer, row []string) error {
	if err := writer.Write(row); err != nil {
		fail("Failed to write CSV row", err, "")
		return err
	}
	return nil
}

func handleListBackupsError(err error) {
	_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to list backups: %v\n", err)
	deps.Exit(1)
}
