package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/xolan/lookback/internal/osutil"
)

const (
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
)

// Config represents the application configuration
type Config struct {
	// DataDir overrides the directory holding actions.json (empty = default app dir)
	DataDir string `toml:"data_dir"`
	// Timezone used to group entries by day (IANA name, e.g. "Europe/Berlin", or "Local")
	Timezone string `toml:"timezone"`
	// BackupCount is how many rotating backups are kept (0 disables backups)
	BackupCount int `toml:"backup_count" validate:"min=0,max=10"`
	// SeedSamples controls whether a first run seeds the two sample actions
	SeedSamples bool `toml:"seed_samples"`
	// Theme is the TUI color theme (bubbletint id)
	Theme string `toml:"theme"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level" validate:"oneof=debug info warn error"`
	// LogFormat is console or json
	LogFormat string `toml:"log_format" validate:"oneof=console json"`
	// LogFile receives log output instead of stderr when set
	LogFile string `toml:"log_file"`
}

// DefaultConfig returns a Config with sensible defaults.
// - timezone: "Local"
// - backup_count: 3
// - seed_samples: true
// - theme: "dracula"
// - log_level: "warn", log_format: "console"
func DefaultConfig() Config {
	return Config{
		DataDir:     "",
		Timezone:    "Local",
		BackupCount: 3,
		SeedSamples: true,
		Theme:       "dracula",
		LogLevel:    "warn",
		LogFormat:   "console",
		LogFile:     "",
	}
}

var validate = newValidator()

// newValidator reports field errors by their TOML key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// GetConfigPath returns the path to the config file.
// Uses os.UserConfigDir() for cross-platform XDG-compliant config directory.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	dir, err := osutil.AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFile), nil
}

// Load reads and validates the config file at path. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file not found: %w", err)
		}
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and returns DefaultConfig otherwise.
// An existing but invalid file is an error, not a silent fallback.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to access config file %s: %w", path, err)
	}
	return Load(path)
}

// Save validates cfg and writes it to path as TOML, replacing any
// existing file. Comments from a hand-written file are not preserved.
func Save(path string, cfg Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# lookback configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// WriteSample writes GenerateSampleConfig to path. An existing file is
// never overwritten.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(GenerateSampleConfig()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Normalize trims values and lower-cases the enumerated ones.
func (c *Config) Normalize() {
	c.DataDir = strings.TrimSpace(c.DataDir)
	c.Timezone = strings.TrimSpace(c.Timezone)
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		c.Timezone = "Local"
	}
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.LogFile = strings.TrimSpace(c.LogFile)
}

// Validate checks enumerated values and ranges, and that the timezone can
// be loaded.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("invalid %s %q: must be one of %s", fe.Field(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "max":
		return fmt.Errorf("invalid %s %v: must be between 0 and 10", fe.Field(), fe.Value())
	}
	return fmt.Errorf("invalid %s %v", fe.Field(), fe.Value())
}

// Location returns the configured time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// GenerateSampleConfig returns a commented config file documenting every key.
func GenerateSampleConfig() string {
	return `# lookback configuration file
#
# All settings are optional; uncomment a line to change it.

# Directory holding actions.json. Empty uses the default application directory.
# data_dir = ""

# Timezone used to group entries by day: "Local" or an IANA name such as
# "America/New_York", "Europe/London", "Asia/Tokyo".
# timezone = "Local"

# Number of rotating backups (actions.json.bak.N) kept before each save, 0-10.
# backup_count = 3

# Seed two sample actions when no journal exists yet.
# seed_samples = true

# TUI color theme (any bubbletint theme id).
# theme = "dracula"

# Logging: level is debug, info, warn or error; format is console or json.
# log_level = "warn"
# log_format = "console"
# log_file = ""
`
}
