package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/CornHusker89/MagicStorage/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View msedit configuration",
	Long: `View msedit configuration.

Without arguments, displays the current configuration.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/msedit/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	policy := cfg.Patching.FailurePolicy
	if policy == "" {
		policy = "(per edit)"
	}
	edits := "(all)"
	if len(cfg.Patching.Edits) > 0 {
		edits = strings.Join(cfg.Patching.Edits, ", ")
	}

	fmt.Fprintln(out, "patching:")
	fmt.Fprintf(out, "  failure_policy: %s\n", policy)
	fmt.Fprintf(out, "  atomic: %v\n", cfg.Patching.Atomic)
	fmt.Fprintf(out, "  edits: %s\n", edits)

	fmt.Fprintln(out, "logging:")
	fmt.Fprintf(out, "  level: %s\n", cfg.Logging.Level)
	if cfg.Logging.Dir != "" {
		fmt.Fprintf(out, "  dir: %s\n", cfg.Logging.Dir)
	} else {
		fmt.Fprintf(out, "  dir: (stderr)\n")
	}

	fmt.Fprintln(out, "output:")
	fmt.Fprintf(out, "  color: %s\n", cfg.Output.Color)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), config.ConfigFile())
	return nil
}

const defaultConfigFile = `# msedit configuration

patching:
  # Override the failure policy of every edit.
  # Options: "" (each edit's own policy), suppress, propagate
  failure_policy: ""

  # Roll a method body back to its original state when a patch fails.
  # When false, instructions emitted before the failure are kept.
  atomic: true

  # Glob patterns of edit names to load. Empty loads every edit.
  # Example: ["Quick*"]
  edits: []

logging:
  # Options: debug, info, warn, error
  level: info

  # Directory for msedit.log. Empty logs to stderr.
  dir: ""

output:
  # Options: auto (color on a terminal), always, never
  color: auto
`
