package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete msedit configuration
type Config struct {
	Patching PatchingConfig `mapstructure:"patching"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
}

// PatchingConfig controls how edits are applied to method bodies
type PatchingConfig struct {
	// FailurePolicy overrides the policy every edit passes to the patching
	// wrapper. Options: "" (keep each edit's own policy), "suppress", "propagate"
	FailurePolicy string `mapstructure:"failure_policy"`
	// Atomic rolls a method body back to its pre-patch state when a patch
	// fails (default: true). When false, call-outs emitted before the failure
	// stay in the body.
	Atomic bool `mapstructure:"atomic"`
	// Edits lists glob patterns of edit names to load. Empty loads every edit.
	Edits []string `mapstructure:"edits"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory msedit.log is written to. Empty logs to stderr.
	Dir string `mapstructure:"dir"`
}

// OutputConfig controls how listings are printed
type OutputConfig struct {
	// Color selects colored listings: "auto" (only on a terminal), "always", "never"
	Color string `mapstructure:"color"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Patching: PatchingConfig{
			FailurePolicy: "",
			Atomic:        true,
			Edits:         []string{},
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Patching defaults
	viper.SetDefault("patching.failure_policy", defaults.Patching.FailurePolicy)
	viper.SetDefault("patching.atomic", defaults.Patching.Atomic)
	viper.SetDefault("patching.edits", defaults.Patching.Edits)

	// Logging defaults
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	// Output defaults
	viper.SetDefault("output.color", defaults.Output.Color)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "msedit")
	}
	// Fall back to ~/.config/msedit
	home, err := os.UserHomeDir()
	if err != nil {
		return ".msedit"
	}
	return filepath.Join(home, ".config", "msedit")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// EnvPrefix is the prefix of environment variables that override config keys,
// e.g. MSEDIT_PATCHING_ATOMIC.
const EnvPrefix = "MSEDIT"
