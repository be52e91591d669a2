// Package osutil abstracts the OS calls used to locate per-user application
// directories, so path resolution failures can be simulated in tests.
package osutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppName is the directory name used under the user config directory.
const AppName = "lookback"

// PathProvider resolves and creates per-user directories.
type PathProvider interface {
	UserConfigDir() (string, error)
	MkdirAll(path string, perm os.FileMode) error
}

// DefaultPathProvider uses real OS functions.
type DefaultPathProvider struct{}

// UserConfigDir returns os.UserConfigDir().
func (DefaultPathProvider) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// MkdirAll calls os.MkdirAll.
func (DefaultPathProvider) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Provider is the package-level path provider. Tests can replace it.
var Provider PathProvider = DefaultPathProvider{}

// SetProvider sets a custom provider (for testing).
func SetProvider(p PathProvider) {
	Provider = p
}

// ResetProvider restores DefaultPathProvider.
func ResetProvider() {
	Provider = DefaultPathProvider{}
}

// AppDir returns <UserConfigDir>/lookback, creating it if needed.
func AppDir() (string, error) {
	configDir, err := Provider.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return EnsureDir(filepath.Join(configDir, AppName))
}

// EnsureDir creates dir (0700) and returns it.
func EnsureDir(dir string) (string, error) {
	if err := Provider.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("cannot create directory %s: %w", dir, err)
	}
	return dir, nil
}
