package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/internal/config"
	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/logging"
	"github.com/rshade/steelcalc/internal/tables"
)

// runtime is what every calculating command needs: the effective config,
// the reference tables, and the configured default input.
type runtime struct {
	cfg      *config.Config
	tables   *tables.Tables
	defaults engine.Input
}

// loadRuntime loads the reference tables (flags override config) and
// resolves the configured defaults against them. Defaults that name a key
// missing from the tables fail here, before any computation.
func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	cfg := config.GetGlobalConfig()

	tc := cfg.Tables
	if f, _ := cmd.Flags().GetString("flange-table"); f != "" {
		tc.FlangeFile = f
		tc.GaugeFile = ""
	}
	if g, _ := cmd.Flags().GetString("gauge-table"); g != "" {
		tc.GaugeFile = g
	}
	if tc.GaugeFile != "" && tc.FlangeFile == "" {
		return nil, errors.New("--gauge-table requires --flange-table")
	}

	t, err := tc.LoadTables()
	if err != nil {
		return nil, fmt.Errorf("loading reference tables: %w", err)
	}
	defaults, err := cfg.Defaults.Input(t)
	if err != nil {
		return nil, err
	}

	src := t.Source()
	log.Debug().Ctx(ctx).
		Str("flange_table", src.Flange).
		Str("gauge_table", src.Gauge).
		Int("flange_widths", len(t.FlangeWidths())).
		Int("gauges", len(t.Gauges())).
		Msg("reference tables loaded")

	return &runtime{cfg: cfg, tables: t, defaults: defaults}, nil
}

// inputFlags are the six calculator inputs as flags. Unset flags keep the
// configured defaults.
type inputFlags struct {
	shape           string
	memberDepth     string
	flangeWidth     string
	gauge           string
	outsideDiameter string
	cwtPrice        string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.shape, "shape", "", `member shape: "C Stud/C Joist" (c) or "U Stud/Track" (u, track)`)
	cmd.Flags().StringVar(&f.memberDepth, "depth", "", "member depth in inches (e.g. 6, 3-5/8)")
	cmd.Flags().StringVar(&f.flangeWidth, "flange", "", "flange width in inches; must be in the flange table")
	cmd.Flags().StringVar(&f.gauge, "gauge", "", "gauge label; must be in the gauge table")
	cmd.Flags().StringVar(&f.outsideDiameter, "od", "", "coil outside diameter in inches")
	cmd.Flags().StringVar(&f.cwtPrice, "cwt", "", "price per hundredweight (USD)")
}

// resolve applies the set flags over defaults and validates the result.
// Table membership is left to engine.Compute.
func (f *inputFlags) resolve(cmd *cobra.Command, defaults engine.Input) (engine.Input, error) {
	in := defaults
	var err error

	if cmd.Flags().Changed("shape") {
		if in.Shape, err = engine.ParseShape(f.shape); err != nil {
			return in, fmt.Errorf("--shape: %w", err)
		}
	}
	if cmd.Flags().Changed("depth") {
		if in.MemberDepth, err = tables.ParseInches(f.memberDepth); err != nil {
			return in, fmt.Errorf("--depth: %w", err)
		}
	}
	if cmd.Flags().Changed("flange") {
		if in.FlangeWidth, err = tables.ParseFlangeWidth(f.flangeWidth); err != nil {
			return in, fmt.Errorf("--flange: %w", err)
		}
	}
	if cmd.Flags().Changed("gauge") {
		in.Gauge = tables.ParseGauge(f.gauge)
	}
	if cmd.Flags().Changed("od") {
		if in.OutsideDiameter, err = tables.ParseInches(f.outsideDiameter); err != nil {
			return in, fmt.Errorf("--od: %w", err)
		}
	}
	if cmd.Flags().Changed("cwt") {
		if in.CWTPrice, err = parseMoney(f.cwtPrice); err != nil {
			return in, fmt.Errorf("--cwt: %w", err)
		}
	}

	if err = in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}

// parseMoney accepts "50", "$50.00" or "1,250.5".
func parseMoney(s string) (float64, error) {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if text == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}
