package main

import (
	"os"

	"github.com/xolan/lookback/cmd"
	"github.com/xolan/lookback/internal/config"
)

// Version information injected by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitFunc is swapped in tests
var exitFunc = os.Exit

func main() {
	exitFunc(run())
}

// run resolves the config location, then executes the CLI and returns the
// process exit code.
func run() int {
	if _, err := config.GetConfigPath(); err != nil {
		_, _ = os.Stderr.WriteString("Error: Failed to determine config location: " + err.Error() + "\n")
		return 1
	}

	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}
