package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/lookback/internal/timeline"
)

// logCmd represents the log command
var logCmd = &cobra.Command{
	Use:   "log <action> <description>",
	Short: "Log an entry for an action",
	Long: `Log a dated entry against an action.

The entry is dated now unless --date is given. A day-only date keeps the
current time of day; an RFC3339 timestamp is used as given.

Date formats:
  today, yesterday
  2024-01-15            ISO format
  15/01/2024            European format
  2024-01-15T09:30:00Z  RFC3339

Examples:
  lookback log "Read a Book" Finished chapter 1
  lookback log 3f2a91c0 Coffee with Sam --date yesterday
  lookback log "Read a Book" Cover --image cover.jpg`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		logEntry(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().String("date", "", "Date of the entry (YYYY-MM-DD, DD/MM/YYYY, RFC3339, today, yesterday)")
	logCmd.Flags().String("image", "", "Image file to attach to the entry")
}

// logEntry appends an entry to the action named by args[0]
func logEntry(cmd *cobra.Command, args []string) {
	dateStr, _ := cmd.Flags().GetString("date")
	imagePath, _ := cmd.Flags().GetString("image")
	description := strings.TrimSpace(strings.Join(args[1:], " "))

	var image []byte
	if imagePath != "" {
		var err error
		image, err = readImageFile(imagePath)
		if err != nil {
			fail("Failed to read image", err, "Images must be JPEG, PNG, GIF, WebP or HEIC files")
			return
		}
	}

	a := openApp()
	if a == nil {
		return
	}
	defer a.Close()

	timestamp := deps.Now()
	if dateStr != "" {
		var err error
		timestamp, err = timeline.ParseEntryTime(dateStr, deps.Now(), a.Location)
		if err != nil {
			fail("Invalid --date", err, "")
			return
		}
	}

	action, err := resolveAction(a.Store.Actions(), args[0])
	if err != nil {
		fail("Action not found", err, "List actions with 'lookback list'")
		return
	}

	e, ok := a.Store.AddEntry(action.ID, description, timestamp, image)
	if !ok {
		fail("Action not found", fmt.Errorf("%w %q", ErrActionNotFound, action.ID), "")
		return
	}
	if warnIfUnsaved(a) {
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Logged entry %s for %s on %s\n",
		shortID(e.ID), displayTitle(action.Title), formatTimestamp(e.Timestamp, a.Location))
	if e.HasImage() {
		_, _ = fmt.Fprintf(deps.Stdout, "Attached image (%d bytes)\n", len(e.ImageData))
	}
}
