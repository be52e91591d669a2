package cmd

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/lookback/internal/journal"
	"github.com/xolan/lookback/internal/storage"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal as JSON or CSV",
	Long: `Export every action and entry for backup, migration or analysis.

Available formats:
  json    The same encoding as the journal file (images as base64)
  csv     One row per entry, with its action's columns repeated

Actions without entries appear in JSON only.

Examples:
  lookback export                           Export as JSON to stdout
  lookback export --format csv              Export entries as CSV
  lookback export --output backup.json      Write the export to a file`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exportJournal(cmd)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("format", "json", "Output format: json or csv")
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}

// csvHeaders are the columns of the CSV export
var csvHeaders = []string{"action_id", "action_title", "action_description", "entry_id", "timestamp", "description", "has_image"}

// exportJournal handles the export command logic
func exportJournal(cmd *cobra.Command) {
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if format != "json" && format != "csv" {
		fail(fmt.Sprintf("Unsupported format '%s'", format), nil, "Supported formats: json, csv")
		return
	}

	a := openApp()
	if a == nil {
		return
	}
	defer a.Close()

	actions := a.Store.Actions()

	var buf bytes.Buffer
	out := io.Writer(deps.Stdout)
	if outputPath != "" {
		out = &buf
	}

	switch format {
	case "json":
		data, err := journal.Encode(actions)
		if err != nil {
			fail("Failed to encode JSON output", err, "")
			return
		}
		if _, err := out.Write(data); err != nil {
			fail("Failed to write JSON output", err, "")
			return
		}
	case "csv":
		if !writeCSV(out, actions) {
			return
		}
	}

	if outputPath == "" {
		return
	}
	if err := storage.WriteFileAtomic(outputPath, buf.Bytes()); err != nil {
		fail("Failed to write export file", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stderr, "Exported %d %s and %d %s to %s\n",
		len(actions), pluralize("action", len(actions)),
		actions.EntryCount(), pluralize("entry", actions.EntryCount()),
		outputPath)
}

// writeCSV writes one row per entry. Returns false after reporting a
// write failure.
func writeCSV(out io.Writer, actions journal.Collection) bool {
	writer := csv.NewWriter(out)

	if err := writeCSVHeader(writer, csvHeaders); err != nil {
		return false
	}

	for _, action := range actions {
		for _, e := range action.Entries {
			row := []string{
				action.ID,
				action.Title,
				action.Description,
				e.ID,
				e.Timestamp.Format(time.RFC3339),
				e.Description,
				strconv.FormatBool(e.HasImage()),
			}
			if err := writeCSVRow(writer, row); err != nil {
				return false
			}
		}
	}

	// Ensure all buffered data is written
	writer.Flush()
	if err := writer.Error(); err != nil {
		fail("Failed to flush CSV output", err, "")
		return false
	}
	return true
}
