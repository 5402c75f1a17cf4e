package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// Inside a project (a .steelcalc directory was found or --project-dir was
// given) it writes the project-local config.yaml; otherwise it writes the
// global ~/.steelcalc/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

When a project directory is in effect, creates $PROJECT/.steelcalc/config.yaml.
Use --global to write the global configuration even inside a project.`,
		Example: `  # Create global configuration
  steelcalc config init --global

  # Create project-local configuration
  steelcalc config init --project-dir ./job-1042

  # Create configuration, overwriting existing
  steelcalc config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir := config.GetResolvedProjectDir()
			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "force global configuration init even inside a project")

	return cmd
}

// initProjectConfig creates project-local config at projectDir/config.yaml.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")
	if err := checkExisting(cmd, configPath, force); err != nil {
		return err
	}

	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	cfg := config.Default()
	cfg.SetConfigPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	return nil
}

// initGlobalConfig creates global config at ~/.steelcalc/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	dir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("locating config directory: %w", err)
	}
	configPath := filepath.Join(dir, "config.yaml")
	if err = checkExisting(cmd, configPath, force); err != nil {
		return err
	}

	cfg := config.Default()
	cfg.SetConfigPath(configPath)
	if err = cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", configPath)
	return nil
}

// checkExisting refuses to replace an existing file unless force is set
// or the user confirms on an interactive terminal.
func checkExisting(cmd *cobra.Command, path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		if ConfirmOverwrite(cmd.OutOrStdout(), cmd.InOrStdin(), isTerminal(os.Stdin), path).Accepted {
			return nil
		}
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}
