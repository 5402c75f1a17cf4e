package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration for syntax and semantic correctness.

This includes:
- Schema version compatibility
- Output, logging, batch and server settings
- Loading the configured reference tables
- Resolving the configured defaults against those tables`,
		Example: `  # Validate current configuration
  steelcalc config validate

  # Validate and show detailed information
  steelcalc config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, rt)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, rt *runtime) {
	cfg := rt.cfg
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Schema version: %s\n", cfg.SchemaVersion)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}

	src := rt.tables.Source()
	cmd.Printf("  Flange table: %s (%d widths)\n", src.Flange, len(rt.tables.FlangeWidths()))
	cmd.Printf("  Gauge table: %s (%d gauges)\n", src.Gauge, len(rt.tables.Gauges()))

	cmd.Println("  Defaults:")
	for _, f := range rt.defaults.Fields() {
		cmd.Printf("    %s: %s\n", f.Label, f.Value)
	}

	if cfg.Batch.Concurrency == 0 {
		cmd.Println("  Batch concurrency: one worker per CPU")
	} else {
		cmd.Printf("  Batch concurrency: %d\n", cfg.Batch.Concurrency)
	}
	cmd.Printf("  Server address: %s\n", cfg.Server.Addr)
}
