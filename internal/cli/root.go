package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/steelcalc/internal/config"
	"github.com/rshade/steelcalc/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the steelcalc CLI.
// It resolves the project directory, loads configuration, wires up logging
// and tracing, and registers every subcommand.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:   "steelcalc",
		Short: "Galvanized steel stud and track coil calculator",
		Long: `steelcalc computes coil width, material length, weight and pricing for
roll-formed galvanized steel C studs and U tracks.

Flange widths and gauges are looked up in reference tables; everything else
is closed-form arithmetic. Use it one calculation at a time (calc, form),
over a spreadsheet of rows (batch), as a printable quote (report), or over
HTTP (serve).`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			flagDir, _ := cmd.Flags().GetString("project-dir")
			cwd, err := os.Getwd()
			if err != nil {
				cwd = ""
			}
			projectDir := config.ResolveProjectDir(ctx, flagDir, cwd)
			config.SetResolvedProjectDir(projectDir)
			config.InitGlobalConfigWithProject(ctx, projectDir)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("project-dir", "",
		"project directory holding .steelcalc/config.yaml (default: search upward from the working directory)")
	cmd.PersistentFlags().String("flange-table", "",
		"flange width to lip length table (csv, yaml or xlsx; a combined yaml/xlsx holds both tables)")
	cmd.PersistentFlags().String("gauge-table", "", "gauge to thickness table (csv, yaml or xlsx)")

	cmd.AddCommand(
		NewCalcCmd(),
		NewTablesCmd(),
		NewBatchCmd(),
		NewReportCmd(),
		NewServeCmd(),
		NewFormCmd(),
		newConfigCmd(),
		NewVersionCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Calculate a 6" C stud, 1-5/8" flange, 18 gauge
  steelcalc calc --shape c --depth 6 --flange 1-5/8 --gauge 18

  # Same calculation as JSON
  steelcalc calc --flange 1.625 --gauge 18 --output json

  # Interactive two-column form
  steelcalc form

  # Price a spreadsheet of members, sorted by weight
  steelcalc batch members.xlsx --sort weight:desc

  # Write a one-page PDF quote
  steelcalc report --flange 1-5/8 --gauge 18 --project "Bay 4" --out quote.pdf

  # Serve the HTTP API
  steelcalc serve --addr :8080`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
