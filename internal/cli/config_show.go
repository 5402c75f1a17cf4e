package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/steelcalc/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after the project overlay and environment
// overrides.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Example: `  steelcalc config show
  STEELCALC_LOG_LEVEL=debug steelcalc config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			if path := cfg.ConfigPath(); path != "" {
				cmd.Printf("# %s\n", path)
			}
			if dir := config.GetResolvedProjectDir(); dir != "" {
				cmd.Printf("# project: %s\n", dir)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}
