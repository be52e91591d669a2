package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/xolan/lookback/internal/app"
	"github.com/xolan/lookback/internal/config"
	"github.com/xolan/lookback/internal/journal"
	"github.com/xolan/lookback/internal/storage"
	"github.com/xolan/lookback/internal/store"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

// testDeps creates test dependencies with captured output. The journal and
// config file live in dataDir, days are UTC and nothing is seeded.
func testDeps(t *testing.T, dataDir string) (*Deps, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	configPath := filepath.Join(dataDir, config.ConfigFile)

	loadConfig := func(opts app.Options) (config.Config, string, error) {
		path := opts.ConfigPath
		if path == "" {
			path = configPath
		}
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			return config.Config{}, "", err
		}
		if cfg.DataDir == "" {
			cfg.DataDir = dataDir
		}
		if opts.DataDir != "" {
			cfg.DataDir = opts.DataDir
		}
		cfg.Timezone = "UTC"
		cfg.SeedSamples = false
		return cfg, path, nil
	}

	return &Deps{
		Stdout:     stdout,
		Stderr:     stderr,
		Stdin:      strings.NewReader(""),
		Exit:       func(code int) {},
		Now:        func() time.Time { return testNow },
		LoadConfig: loadConfig,
		OpenApp: func(opts app.Options) (*app.App, error) {
			cfg, path, err := loadConfig(opts)
			if err != nil {
				return nil, err
			}
			return app.NewWithConfig(cfg, path, zap.NewNop(),
				store.WithIDGenerator(sequentialIDs()),
				store.WithClock(func() time.Time { return testNow }))
		},
	}, stdout, stderr
}

// sequentialIDs returns uuid-shaped ids whose first 8 characters count up.
// The store skips ids already in use, so every open continues the sequence.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%08d-0000-4000-8000-000000000000", n)
	}
}

// captureExit records the code passed to d.Exit; -1 means not called.
func captureExit(d *Deps) *int {
	code := -1
	d.Exit = func(c int) { code = c }
	return &code
}

// useDeps installs test dependencies for the duration of the test
func useDeps(t *testing.T) (*Deps, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	d, stdout, stderr := testDeps(t, t.TempDir())
	SetDeps(d)
	t.Cleanup(ResetDeps)
	return d, stdout, stderr
}

// openTestApp opens the journal the commands under test will see
func openTestApp(t *testing.T, d *Deps) *app.App {
	t.Helper()
	a, err := d.OpenApp(app.Options{})
	if err != nil {
		t.Fatalf("OpenApp() error = %v", err)
	}
	return a
}

// setFlag sets a command flag and restores it when the test ends
func setFlag(t *testing.T, cmd *cobra.Command, name, value string) {
	t.Helper()
	f := cmd.Flags().Lookup(name)
	if f == nil {
		t.Fatalf("flag %q not defined on %s", name, cmd.Name())
	}
	old := f.Value.String()
	if err := cmd.Flags().Set(name, value); err != nil {
		t.Fatalf("Set(%q, %q) error = %v", name, value, err)
	}
	t.Cleanup(func() {
		_ = cmd.Flags().Set(name, old)
		f.Changed = false
	})
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		name     string
		word     string
		count    int
		expected string
	}{
		{"singular entry", "entry", 1, "entry"},
		{"plural entries", "entry", 0, "entries"},
		{"plural entries 2", "entry", 2, "entries"},
		{"singular action", "action", 1, "action"},
		{"plural actions", "action", 5, "actions"},
		{"plural days", "day", 3, "days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pluralize(tt.word, tt.count)
			if result != tt.expected {
				t.Errorf("pluralize(%q, %d) = %q, expected %q", tt.word, tt.count, result, tt.expected)
			}
		})
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		id       string
		expected string
	}{
		{"3f2a91c0-1111-4000-8000-000000000000", "3f2a91c0"},
		{"abc", "abc"},
		{"12345678", "12345678"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := shortID(tt.id); got != tt.expected {
			t.Errorf("shortID(%q) = %q, expected %q", tt.id, got, tt.expected)
		}
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := displayTitle(""); got != "(untitled)" {
		t.Errorf("displayTitle(\"\") = %q", got)
	}
	if got := displayTitle("Read a Book"); got != "Read a Book" {
		t.Errorf("displayTitle() = %q", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	if got := formatTimestamp(testNow, loc); got != "2024-01-15 16:30" {
		t.Errorf("formatTimestamp() = %q", got)
	}
}

func TestListActions_Empty(t *testing.T) {
	_, stdout, _ := useDeps(t)

	listActions()

	if !strings.Contains(stdout.String(), "No actions yet") {
		t.Errorf("expected empty message, got: %s", stdout.String())
	}
}

func TestListActions(t *testing.T) {
	d, stdout, _ := useDeps(t)
	a := openTestApp(t, d)
	book := a.Store.AddAction("Read a Book")
	a.Store.AddEntry(book.ID, "Finished chapter 1", testNow, nil)
	a.Store.AddEntry(book.ID, "Finished chapter 2", testNow, nil)
	a.Store.AddAction("")

	listActions()

	output := stdout.String()
	for _, want := range []string{
		"Actions:",
		"[1] 00000001  Read a Book (2 entries)",
		"(untitled) (0 entries)",
		"Total: 2 actions, 2 entries",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestOpenApp_Failure(t *testing.T) {
	d, _, stderr := useDeps(t)
	d.OpenApp = func(app.Options) (*app.App, error) {
		return nil, errors.New("boom")
	}
	exit := captureExit(d)

	listActions()

	if *exit != 1 {
		t.Errorf("expected exit code 1, got %d", *exit)
	}
	for _, want := range []string{"Error: Failed to open journal", "Details: boom", "Hint:"} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("expected %q in stderr, got: %s", want, stderr.String())
		}
	}
}

func TestGlobalOptions(t *testing.T) {
	dataDirFlag, configPathFlag = "/tmp/data", "/tmp/config.toml"
	defer func() { dataDirFlag, configPathFlag = "", "" }()

	opts := globalOptions()
	if opts.DataDir != "/tmp/data" || opts.ConfigPath != "/tmp/config.toml" {
		t.Errorf("globalOptions() = %+v", opts)
	}
}

func TestValidateStorage_NoFile(t *testing.T) {
	_, stdout, _ := useDeps(t)

	validateStorage()

	if !strings.Contains(stdout.String(), "No storage file yet") {
		t.Errorf("expected no-file message, got: %s", stdout.String())
	}
}

func TestValidateStorage_Healthy(t *testing.T) {
	d, stdout, _ := useDeps(t)
	a := openTestApp(t, d)
	book := a.Store.AddAction("Read a Book")
	a.Store.AddEntry(book.ID, "Cover", testNow, []byte{0x89, 'P', 'N', 'G'})
	exit := captureExit(d)

	validateStorage()

	output := stdout.String()
	for _, want := range []string{"Actions:   1", "Entries:   1", "Images:    1", "healthy"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
	if *exit != -1 {
		t.Errorf("expected no exit, got %d", *exit)
	}
}

func TestValidateStorage_Corrupt(t *testing.T) {
	d, _, stderr := useDeps(t)
	cfg, _, _ := d.LoadConfig(app.Options{})
	path := filepath.Join(cfg.DataDir, storage.ActionsFile)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	exit := captureExit(d)

	validateStorage()

	if *exit != 1 {
		t.Errorf("expected exit code 1, got %d", *exit)
	}
	if !strings.Contains(stderr.String(), "unusable") {
		t.Errorf("expected problem report, got: %s", stderr.String())
	}

	// Validation only reads: the file is left in place
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{not json" {
		t.Errorf("expected file untouched, got %q (%v)", data, err)
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-01-15")
	if rootCmd.Version != "1.2.3" {
		t.Errorf("Version = %q", rootCmd.Version)
	}
}

func TestResolveAction(t *testing.T) {
	actions := journal.Collection{
		{ID: "3f2a91c0-aaaa", Title: "Read a Book"},
		{ID: "3f2b0000-bbbb", Title: "Walk"},
		{ID: "9c000000-cccc", Title: "walk"},
		{ID: "77000000-dddd", Title: ""},
	}

	tests := []struct {
		name    string
		ref     string
		wantID  string
		wantErr error
	}{
		{"exact id", "3f2a91c0-aaaa", "3f2a91c0-aaaa", nil},
		{"unique prefix", "3f2a", "3f2a91c0-aaaa", nil},
		{"title any case", "read a book", "3f2a91c0-aaaa", nil},
		{"title with spaces trimmed", "  Read a Book ", "3f2a91c0-aaaa", nil},
		{"ambiguous prefix", "3f", "", ErrAmbiguousAction},
		{"ambiguous title", "WALK", "", ErrAmbiguousAction},
		{"unknown", "nothing", "", ErrActionNotFound},
		{"empty", "", "", ErrActionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveAction(actions, tt.ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("resolveAction(%q) error = %v, expected %v", tt.ref, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveAction(%q) error = %v", tt.ref, err)
			}
			if got.ID != tt.wantID {
				t.Errorf("resolveAction(%q) = %q, expected %q", tt.ref, got.ID, tt.wantID)
			}
		})
	}
}

func TestResolveEntry(t *testing.T) {
	actions := journal.Collection{
		{ID: "a1", Title: "Read a Book", Entries: []journal.Entry{
			{ID: "e1aa0000", Description: "one"},
			{ID: "e1bb0000", Description: "two"},
		}},
		{ID: "a2", Title: "Walk", Entries: []journal.Entry{
			{ID: "f0000000", Description: "three"},
		}},
	}

	e, owner, err := resolveEntry(actions, "f0")
	if err != nil || e.Description != "three" || owner.ID != "a2" {
		t.Errorf("resolveEntry(f0) = %+v, %+v, %v", e, owner, err)
	}

	e, _, err = resolveEntry(actions, "e1bb0000")
	if err != nil || e.Description != "two" {
		t.Errorf("resolveEntry(exact) = %+v, %v", e, err)
	}

	if _, _, err := resolveEntry(actions, "e1"); err == nil || !strings.Contains(err.Error(), "2 entries match") {
		t.Errorf("expected ambiguity error, got %v", err)
	}
	if _, _, err := resolveEntry(actions, "zz"); err == nil {
		t.Error("expected not-found error")
	}
	if _, _, err := resolveEntry(actions, " "); err == nil {
		t.Error("expected error for an empty reference")
	}
}
