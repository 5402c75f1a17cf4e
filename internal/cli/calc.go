package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/internal/config"
	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/logging"
)

// NewCalcCmd creates the calc command: one calculation from flags over
// the configured defaults.
func NewCalcCmd() *cobra.Command {
	var (
		inputs inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute coil width, length, weight and price for one member",
		Long: `Computes every derived output for one set of selections. Flags that are
not given keep the configured defaults (see "steelcalc config show").

Flange width and gauge must be keys of the loaded reference tables; run
"steelcalc tables" to list them.`,
		Example: `  # 6" C stud, 1-5/8" flange, 18 gauge, 50" coil at $50/cwt
  steelcalc calc --depth 6 --flange 1-5/8 --gauge 18

  # U track, 3-5/8" deep, as JSON
  steelcalc calc --shape track --depth 3-5/8 --flange 1.25 --gauge 20 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd, &inputs, output)
		},
	}

	inputs.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table, json or ndjson (default from config)")

	return cmd
}

func runCalc(cmd *cobra.Command, inputs *inputFlags, output string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := resolveOutputFormat(cmd, output, config.FormatTable, config.FormatJSON, config.FormatNDJSON)
	if err != nil {
		return err
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	in, err := inputs.resolve(cmd, rt.defaults)
	if err != nil {
		return err
	}

	res, err := engine.Compute(in, rt.tables)
	if err != nil {
		log.Debug().Ctx(ctx).Err(err).Msg("calculation failed")
		return fmt.Errorf("calculating: %w", err)
	}

	log.Debug().Ctx(ctx).
		Str("component", "calc").
		Str("shape", in.Shape.String()).
		Float64("coil_width", res.CoilWidth).
		Float64("weight", res.Weight).
		Msg("calculation complete")

	return renderCalc(cmd.OutOrStdout(), format, in, res, rt.cfg.Output.ThousandsSeparators)
}
