package storage

import (
	"errors"
	"fmt"
	"os"
)

const (
	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
	// DefaultBackupCount is the number of backups kept when not configured
	DefaultBackupCount = 3
	// MaxBackupCount is the upper bound for the configured backup count
	MaxBackupCount = 10
)

// Backup errors
var (
	ErrInvalidBackupNumber = errors.New("invalid backup number")
	ErrBackupNotFound      = errors.New("backup does not exist")
)

// BackupPath returns the path of backup n for the given storage file.
// Lower numbers are more recent (.bak.1 is the most recent backup).
func BackupPath(storagePath string, n int) string {
	return fmt.Sprintf("%s%s.%d", storagePath, BackupSuffix, n)
}

// rotateBackups shifts .bak.1 -> .bak.2 ... and drops the oldest so that at
// most keep backups remain after the next one is written.
// Missing files are skipped.
func rotateBackups(storagePath string, keep int) error {
	if err := os.Remove(BackupPath(storagePath, keep)); err != nil && !os.IsNotExist(err) {
		return err
	}

	for i := keep - 1; i >= 1; i-- {
		if err := os.Rename(BackupPath(storagePath, i), BackupPath(storagePath, i+1)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// CreateBackup copies the current storage file to .bak.1 after rotating
// older backups. keep <= 0 disables backups. A missing storage file is not
// an error: there is nothing to back up yet.
func CreateBackup(storagePath string, keep int) error {
	if keep <= 0 {
		return nil
	}
	if keep > MaxBackupCount {
		keep = MaxBackupCount
	}

	if _, err := os.Stat(storagePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := rotateBackups(storagePath, keep); err != nil {
		return fmt.Errorf("storage error rotating backups: %w", err)
	}
	if err := copyFile(storagePath, BackupPath(storagePath, 1)); err != nil {
		return fmt.Errorf("storage error creating backup: %w", err)
	}
	return nil
}

// BackupInfo describes one backup file
type BackupInfo struct {
	Number int    // 1 is the most recent
	Path   string // Full path to the backup file
}

// ListBackups returns the existing backups of storagePath, most recent first.
func ListBackups(storagePath string, keep int) ([]BackupInfo, error) {
	var backups []BackupInfo
	for i := 1; i <= keep; i++ {
		path := BackupPath(storagePath, i)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		backups = append(backups, BackupInfo{Number: i, Path: path})
	}
	return backups, nil
}

// RestoreBackup replaces the storage file with backup num. The backup is
// read before rotation, and the pre-restore file becomes the new .bak.1.
func RestoreBackup(storagePath string, num, keep int) error {
	if num < 1 || num > keep {
		return fmt.Errorf("%w %d, must be between 1 and %d", ErrInvalidBackupNumber, num, keep)
	}

	backupPath := BackupPath(storagePath, num)
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup %d: %w", num, ErrBackupNotFound)
		}
		return err
	}

	if err := CreateBackup(storagePath, keep); err != nil {
		return err
	}
	return WriteFileAtomic(storagePath, data)
}
