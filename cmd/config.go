package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xolan/lookback/internal/config"
	"github.com/xolan/lookback/internal/storage"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for lookback.

Shows the configuration file location, whether it exists, and all current settings.
Configuration values are merged from the config file with sensible defaults.

lookback works without any configuration file. All settings have defaults:
  - timezone: Local (system timezone)
  - backup_count: 3
  - seed_samples: true
  - theme: dracula
  - log_level: warn, log_format: console

Examples:
  lookback config          Show all current settings
  lookback config init     Write a commented sample config file

Configuration file location:
  ~/.config/lookback/config.toml        Linux
  %APPDATA%\lookback\config.toml        Windows`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		showConfig()
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sample config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}

// showConfig displays the current effective configuration
func showConfig() {
	cfg, configPath, err := deps.LoadConfig(globalOptions())
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to load configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that your config file is valid TOML format")
		_, _ = fmt.Fprintln(deps.Stderr, "Valid log_level values: debug, info, warn, error")
		_, _ = fmt.Fprintln(deps.Stderr, "Valid timezone examples: Local, America/New_York, Europe/London, Asia/Tokyo")
		deps.Exit(1)
		return
	}

	fileExists := false
	if _, err := os.Stat(configPath); err == nil {
		fileExists = true
	}

	storagePath, err := storage.GetStoragePathIn(cfg.DataDir)
	if err != nil {
		fail("Failed to get storage path", err, "")
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration for lookback")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "Config file:     %s\n", configPath)
	if fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File exists (using custom configuration)")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          No config file (using defaults)")
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Journal file:    %s\n", storagePath)
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintln(deps.Stdout, "Current Settings:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Data Dir:        %s\n", orDefault(cfg.DataDir))
	_, _ = fmt.Fprintf(deps.Stdout, "Timezone:        %s\n", cfg.Timezone)
	_, _ = fmt.Fprintf(deps.Stdout, "Backup Count:    %d\n", cfg.BackupCount)
	_, _ = fmt.Fprintf(deps.Stdout, "Seed Samples:    %t\n", cfg.SeedSamples)
	_, _ = fmt.Fprintf(deps.Stdout, "Theme:           %s\n", cfg.Theme)
	_, _ = fmt.Fprintf(deps.Stdout, "Log Level:       %s\n", cfg.LogLevel)
	_, _ = fmt.Fprintf(deps.Stdout, "Log Format:      %s\n", cfg.LogFormat)
	_, _ = fmt.Fprintf(deps.Stdout, "Log File:        %s\n", orDefault(cfg.LogFile))
	_, _ = fmt.Fprintln(deps.Stdout)

	if !fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Tip: Run 'lookback config init' to create a commented config file.")
		_, _ = fmt.Fprintln(deps.Stdout)
	}
}

// initConfig writes the sample config file next to the effective path
func initConfig() {
	_, configPath, err := deps.LoadConfig(globalOptions())
	if err != nil {
		fail("Failed to load configuration", err, "")
		return
	}

	if err := config.WriteSample(configPath); err != nil {
		fail("Failed to create config file", err, "")
		return
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Created %s\n", configPath)
}

func orDefault(v string) string {
	if v == "" {
		return "(default)"
	}
	return v
}
