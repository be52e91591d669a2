package storage

import (
	"os"

	"github.com/xolan/lookback/internal/journal"
)

// Health describes the state of the backing file.
type Health struct {
	Exists bool
	Size   int64
	// Parsed is true when the file decoded as an action collection
	Parsed bool
	// Problem holds the decode or validation problem, empty when healthy
	Problem string
	Actions int
	Entries int
	Images  int
	Backups []BackupInfo
	// Quarantined lists the .corrupt copies of earlier unusable files
	Quarantined []string
	// TempLeft is true when a stale .tmp file from an interrupted write is present
	TempLeft bool
}

// Healthy reports whether the file exists, parses and passes validation.
func (h Health) Healthy() bool {
	return h.Exists && h.Parsed && h.Problem == ""
}

// ValidateStorage inspects the backing file without modifying it.
// A missing file is reported through Exists=false, not as an error.
func ValidateStorage(path string, keep int) (Health, error) {
	var health Health

	backups, err := ListBackups(path, keep)
	if err != nil {
		return health, err
	}
	health.Backups = backups
	quarantined, err := ListQuarantined(path)
	if err != nil {
		return health, err
	}
	health.Quarantined = quarantined
	health.TempLeft = fileExists(path + TempSuffix)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return health, nil
		}
		return health, err
	}
	health.Exists = true
	health.Size = info.Size()

	data, err := ReadFile(path)
	if err != nil {
		return health, err
	}

	c, err := journal.Decode(data)
	if err != nil {
		health.Problem = err.Error()
		return health, nil
	}
	health.Parsed = true
	health.Actions = len(c)
	health.Entries = c.EntryCount()
	for _, a := range c {
		for _, e := range a.Entries {
			if e.HasImage() {
				health.Images++
			}
		}
	}

	if err := c.Validate(); err != nil {
		health.Problem = err.Error()
	}
	return health, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
