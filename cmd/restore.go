package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xolan/lookback/internal/storage"
)

// restoreCmd represents the restore command
var restoreCmd = &cobra.Command{
	Use:   "restore [backup_number]",
	Short: "Restore from a backup file",
	Long: `Restore the journal file from a backup.

A backup of the journal is taken before every change (see backup_count in
the config). By default, restores from the most recent backup (.bak.1).
The current file is itself backed up before it is replaced.

Examples:
  lookback restore       Restore from most recent backup
  lookback restore 2     Restore from backup #2`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		restoreFromBackup(args)
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

// restoreFromBackup handles the restore command logic
func restoreFromBackup(args []string) {
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

	backups, err := storage.ListBackups(storagePath, storage.MaxBackupCount)
	if err != nil {
		handleListBackupsError(err)
		return
	}

	if len(backups) == 0 {
		_, _ = fmt.Fprintln(deps.Stdout, "No backups available")
		deps.Exit(1)
		return
	}

	// Display available backups
	_, _ = fmt.Fprintln(deps.Stdout, "Available backups:")
	for _, backup := range backups {
		if backup.Number == 1 {
			_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s (most recent)\n", backup.Number, backup.Path)
		} else {
			_, _ = fmt.Fprintf(deps.Stdout, "  %d: %s\n", backup.Number, backup.Path)
		}
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	backupNum := 1
	if len(args) > 0 {
		num, err := strconv.Atoi(args[0])
		if err != nil {
			fail(fmt.Sprintf("Invalid backup number '%s'", args[0]), nil, "")
			return
		}
		if num < 1 || num > storage.MaxBackupCount {
			fail(fmt.Sprintf("Backup number must be between 1 and %d (got %d)", storage.MaxBackupCount, num), nil, "")
			return
		}
		backupNum = num
	}

	// Rotation must keep at least the backup being restored.
	keep := max(cfg.BackupCount, backupNum)
	if err := storage.RestoreBackup(storagePath, backupNum, keep); err != nil {
		fail("Failed to restore backup", err, "")
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Successfully restored from backup %d\n", backupNum)
}
