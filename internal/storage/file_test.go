package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xolan/lookback/internal/osutil"
)

type mockPathProvider struct {
	configDir string
	err       error
}

func (m mockPathProvider) UserConfigDir() (string, error) { return m.configDir, m.err }

func (m mockPathProvider) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func TestGetStoragePath(t *testing.T) {
	base := t.TempDir()
	osutil.SetProvider(mockPathProvider{configDir: base})
	defer osutil.ResetProvider()

	path, err := GetStoragePath()
	if err != nil {
		t.Fatalf("GetStoragePath() returned unexpected error: %v", err)
	}

	expected := filepath.Join(base, osutil.AppName, ActionsFile)
	if path != expected {
		t.Errorf("GetStoragePath() = %q, expected %q", path, expected)
	}
}

func TestGetStoragePath_Error(t *testing.T) {
	osutil.SetProvider(mockPathProvider{err: errors.New("no config dir")})
	defer osutil.ResetProvider()

	if _, err := GetStoragePath(); err == nil {
		t.Error("GetStoragePath() expected error, got nil")
	}
}

func TestGetStoragePathIn(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom", "data")

	path, err := GetStoragePathIn(dir)
	if err != nil {
		t.Fatalf("GetStoragePathIn() returned unexpected error: %v", err)
	}
	if path != filepath.Join(dir, ActionsFile) {
		t.Errorf("GetStoragePathIn() = %q", path)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("GetStoragePathIn() did not create %s", dir)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, expected os.ErrNotExist", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	path := createTempStorage(t, "old content")

	if err := WriteFileAtomic(path, []byte("new content")); err != nil {
		t.Fatalf("WriteFileAtomic() returned unexpected error: %v", err)
	}

	if got := readFileContent(t, path); got != "new content" {
		t.Errorf("content = %q, expected %q", got, "new content")
	}
	if fileExists(path + TempSuffix) {
		t.Error("temp file left behind after successful write")
	}
}

func TestWriteFileAtomic_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", ActionsFile)

	if err := WriteFileAtomic(path, []byte("[]")); err != nil {
		t.Fatalf("WriteFileAtomic() returned unexpected error: %v", err)
	}
	if got := readFileContent(t, path); got != "[]" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteFileAtomic_FailureKeepsOldFile(t *testing.T) {
	path := createTempStorage(t, "keep me")

	// A directory where the temp file should go makes the write fail.
	if err := os.Mkdir(path+TempSuffix, 0o700); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(path, []byte("lost")); err == nil {
		t.Fatal("WriteFileAtomic() expected error, got nil")
	}
	if got := readFileContent(t, path); got != "keep me" {
		t.Errorf("content after failed write = %q, expected %q", got, "keep me")
	}
}

func TestQuarantineCorrupt(t *testing.T) {
	path := createTempStorage(t, "{bad json")

	corruptPath, err := QuarantineCorrupt(path)
	if err != nil {
		t.Fatalf("QuarantineCorrupt() returned unexpected error: %v", err)
	}
	if corruptPath != path+CorruptSuffix {
		t.Errorf("QuarantineCorrupt() = %q, expected %q", corruptPath, path+CorruptSuffix)
	}
	if fileExists(path) {
		t.Error("original file still present after quarantine")
	}
	if got := readFileContent(t, corruptPath); got != "{bad json" {
		t.Errorf("quarantined content = %q", got)
	}
}

func TestQuarantineCorrupt_KeepsEarlierCopies(t *testing.T) {
	path := createTempStorage(t, "garbage A")
	if _, err := QuarantineCorrupt(path); err != nil {
		t.Fatalf("QuarantineCorrupt() returned unexpected error: %v", err)
	}

	for i, content := range []string{"garbage B", "garbage C"} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		corruptPath, err := QuarantineCorrupt(path)
		if err != nil {
			t.Fatalf("QuarantineCorrupt() returned unexpected error: %v", err)
		}
		expected := fmt.Sprintf("%s%s.%d", path, CorruptSuffix, i+1)
		if corruptPath != expected {
			t.Errorf("QuarantineCorrupt() = %q, expected %q", corruptPath, expected)
		}
	}

	if got := readFileContent(t, path+CorruptSuffix); got != "garbage A" {
		t.Errorf("first quarantined content = %q, expected %q", got, "garbage A")
	}
	quarantined, err := ListQuarantined(path)
	if err != nil {
		t.Fatalf("ListQuarantined() returned unexpected error: %v", err)
	}
	if len(quarantined) != 3 {
		t.Errorf("ListQuarantined() = %v, expected 3 files", quarantined)
	}
}

func TestQuarantineCorrupt_SymlinkLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), ActionsFile)
	if err := os.Symlink(path, path); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	corruptPath, err := QuarantineCorrupt(path)
	if err != nil {
		t.Fatalf("QuarantineCorrupt() returned unexpected error: %v", err)
	}
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s moved away, Lstat error = %v", path, err)
	}
	if _, err := os.Lstat(corruptPath); err != nil {
		t.Errorf("expected quarantined link at %s: %v", corruptPath, err)
	}
}

func TestQuarantineCorrupt_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), ActionsFile)

	corruptPath, err := QuarantineCorrupt(path)
	if err != nil {
		t.Fatalf("QuarantineCorrupt() returned unexpected error: %v", err)
	}
	if corruptPath != "" {
		t.Errorf("QuarantineCorrupt() = %q, expected empty", corruptPath)
	}
}
