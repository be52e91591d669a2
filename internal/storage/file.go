// Package storage owns the on-disk representation of the action collection:
// locating the backing file, reading it, replacing it atomically, keeping
// rotating backups and checking its health.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xolan/lookback/internal/osutil"
)

const (
	// ActionsFile is the name of the backing file
	ActionsFile = "actions.json"
	// TempSuffix is appended to the backing file while it is being replaced
	TempSuffix = ".tmp"
	// CorruptSuffix is appended to a backing file that could not be parsed
	CorruptSuffix = ".corrupt"
)

// GetStoragePath returns <UserConfigDir>/lookback/actions.json.
// Creates the application directory if it doesn't exist.
func GetStoragePath() (string, error) {
	dir, err := osutil.AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ActionsFile), nil
}

// GetStoragePathIn returns the backing file path inside dir, creating dir.
// An empty dir falls back to GetStoragePath.
func GetStoragePathIn(dir string) (string, error) {
	if dir == "" {
		return GetStoragePath()
	}
	if _, err := osutil.EnsureDir(dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, ActionsFile), nil
}

// ReadFile reads the whole backing file. A missing file yields an error
// satisfying errors.Is(err, os.ErrNotExist).
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	return data, nil
}

// WriteFileAtomic replaces path with data: write to a temp file, sync,
// then rename over the target. On failure the previous file is untouched
// and the temp file is removed.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	tmpPath := path + TempSuffix
	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("storage error creating temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error syncing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// maxQuarantined bounds the numbered quarantine names tried per file.
const maxQuarantined = 1000

// QuarantineCorrupt moves an unusable backing file aside so it can be
// inspected later. The first quarantine goes to path.corrupt, later ones to
// path.corrupt.1, path.corrupt.2 and so on; an earlier quarantined file is
// never replaced. The entry itself is moved with Lstat semantics, so a
// dangling or looping symlink is quarantined too. Returns the new path. A
// missing file is not an error and returns "".
func QuarantineCorrupt(path string) (string, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("storage error quarantining %s: %w", path, err)
	}

	for n := 0; n < maxQuarantined; n++ {
		corruptPath := path + CorruptSuffix
		if n > 0 {
			corruptPath = fmt.Sprintf("%s%s.%d", path, CorruptSuffix, n)
		}
		if _, err := os.Lstat(corruptPath); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("storage error quarantining %s: %w", path, err)
		}
		if err := os.Rename(path, corruptPath); err != nil {
			return "", fmt.Errorf("storage error quarantining %s: %w", path, err)
		}
		return corruptPath, nil
	}
	return "", fmt.Errorf("storage error quarantining %s: %d quarantined files already present", path, maxQuarantined)
}

// ListQuarantined returns the quarantined copies of path, oldest first.
func ListQuarantined(path string) ([]string, error) {
	var found []string
	for n := 0; n < maxQuarantined; n++ {
		corruptPath := path + CorruptSuffix
		if n > 0 {
			corruptPath = fmt.Sprintf("%s%s.%d", path, CorruptSuffix, n)
		}
		if _, err := os.Lstat(corruptPath); err != nil {
			if os.IsNotExist(err) {
				break
			}
			return nil, err
		}
		found = append(found, corruptPath)
	}
	return found, nil
}

// copyFile copies src over dst, creating dst with 0600 permissions.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = sourceFile.Close() }()

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		_ = destFile.Close()
		return err
	}
	return destFile.Close()
}
