package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/internal/config"
	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/engine/batch"
	"github.com/rshade/steelcalc/internal/tables"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// Batch-only output formats. The single-result formats are config.Format*.
const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

// calcOutput is the JSON shape of one calculation.
type calcOutput struct {
	Input   engine.Input      `json:"input"`
	Result  engine.Result     `json:"result"`
	Display map[string]string `json:"display"`
}

// resolveOutputFormat returns the --output flag value, or the configured
// default when the flag was not set.
func resolveOutputFormat(cmd *cobra.Command, flagValue string, allowed ...string) (string, error) {
	format := flagValue
	if !cmd.Flags().Changed("output") || format == "" {
		format = config.GetDefaultOutputFormat()
	}
	format = strings.ToLower(strings.TrimSpace(format))
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (want one of %s)", format, strings.Join(allowed, ", "))
}

// fieldText formats an output for tables, honouring the thousands
// separator setting.
func fieldText(f engine.Field, separators bool) string {
	if separators {
		return f.DisplayWithUnit()
	}
	s := f.Text()
	if f.Currency {
		s = "$" + s
	}
	if f.Unit != "" {
		s += " " + f.Unit
	}
	return s
}

func renderCalc(w io.Writer, format string, in engine.Input, res engine.Result, separators bool) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(calcOutput{Input: in, Result: res, Display: res.Texts()})
	case config.FormatNDJSON:
		return json.NewEncoder(w).Encode(calcOutput{Input: in, Result: res, Display: res.Texts()})
	default:
		return renderCalcTable(w, in, res, separators)
	}
}

// renderCalcTable writes the two-column view as two stacked sections.
func renderCalcTable(w io.Writer, in engine.Input, res engine.Result, separators bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(tw, "INPUTS")
	fmt.Fprintln(tw, "======")
	for _, f := range in.Fields() {
		fmt.Fprintf(tw, "%s\t%s\n", f.Label, f.Value)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "OUTPUTS")
	fmt.Fprintln(tw, "=======")
	for _, f := range res.Fields() {
		fmt.Fprintf(tw, "%s\t%s\n", f.Label, fieldText(f, separators))
	}

	return tw.Flush()
}

func renderTables(w io.Writer, t *tables.Tables) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	src := t.Source()

	fmt.Fprintf(tw, "FLANGE WIDTH\tLIP LENGTH\n")
	fmt.Fprintf(tw, "------------\t----------\n")
	for _, r := range t.FlangeRows() {
		fmt.Fprintf(tw, "%s\t%s\n", engine.FormatInches(r.FlangeWidth), engine.FormatInches(r.LipLength))
	}
	fmt.Fprintf(tw, "(%s)\t\n\n", src.Flange)

	fmt.Fprintf(tw, "GAUGE\tTHICKNESS\n")
	fmt.Fprintf(tw, "-----\t---------\n")
	for _, r := range t.GaugeRows() {
		fmt.Fprintf(tw, "%s ga\t%s\n", r.Gauge, engine.FormatInches(r.Thickness))
	}
	fmt.Fprintf(tw, "(%s)\t\n", src.Gauge)

	return tw.Flush()
}

// renderBatchTable writes one line per outcome, then the totals and an
// ERRORS section listing every failed row.
func renderBatchTable(w io.Writer, outcomes []batch.Outcome, summary batch.Summary, separators bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintf(tw, "LINE\tLABEL\tSHAPE\tDEPTH\tFLANGE\tGAUGE\tOD\tCOIL WIDTH\tLENGTH\tWEIGHT\tPRICE/COIL\tPRICE/LF\n")
	fmt.Fprintf(tw, "----\t-----\t-----\t-----\t------\t-----\t--\t----------\t------\t------\t----------\t--------\n")

	var failed []batch.Outcome
	for _, o := range outcomes {
		in := o.Row.Input
		label := o.Row.Label
		if label == "" {
			label = "-"
		}
		prefix := fmt.Sprintf("%d\t%s\t%s\t%g\t%g\t%s\t%g",
			o.Row.Line, label, shortShape(in.Shape), in.MemberDepth, in.FlangeWidth, in.Gauge, in.OutsideDiameter)
		if o.Err != nil {
			failed = append(failed, o)
			fmt.Fprintf(tw, "%s\tERR\t-\t-\t-\t-\n", prefix)
			continue
		}
		fields := fieldMap(o.Result)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", prefix,
			fieldText(fields[engine.KeyCoilWidth], separators),
			fieldText(fields[engine.KeyMaterialLength], separators),
			fieldText(fields[engine.KeyWeight], separators),
			fieldText(fields[engine.KeyPricePerCoil], separators),
			fieldText(fields[engine.KeyPricePerLinearFt], separators),
		)
	}

	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Rows:\t%d\n", summary.Rows)
	fmt.Fprintf(tw, "Errors:\t%d\n", summary.Errors)
	fmt.Fprintf(tw, "Total weight:\t%s lbs\n", summary.TotalWeight.StringFixed(2))
	fmt.Fprintf(tw, "Total price:\t$%s\n", summary.TotalPrice.StringFixed(2))

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(failed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "ERRORS")
		fmt.Fprintln(w, "======")
		for _, o := range failed {
			fmt.Fprintf(w, "line %d: %v\n", o.Row.Line, o.Err)
		}
	}
	return nil
}

func fieldMap(r engine.Result) map[string]engine.Field {
	fields := r.Fields()
	m := make(map[string]engine.Field, len(fields))
	for _, f := range fields {
		m[f.Key] = f
	}
	return m
}

func shortShape(s engine.Shape) string {
	if s == engine.UStud {
		return "U"
	}
	return "C"
}
