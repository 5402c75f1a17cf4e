package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/logging"
	"github.com/rshade/steelcalc/internal/report"
)

const defaultReportFile = "steelcalc-quote.pdf"

// NewReportCmd creates the report command, which writes one calculation
// as a printable PDF quote sheet.
func NewReportCmd() *cobra.Command {
	var (
		inputs inputFlags
		sheet  report.QuoteSheet
		out    string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write one calculation as a PDF quote sheet",
		Long: `Computes one calculation (flags over the configured defaults, as in
"steelcalc calc") and renders it as a one-page A4 PDF with the inputs and
outputs side by side.`,
		Example: `  steelcalc report --flange 1-5/8 --gauge 18 --project "Bay 4" --out quote.pdf

  # Write to stdout
  steelcalc report --gauge 16 --out - > quote.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, &inputs, sheet, out)
		},
	}

	inputs.register(cmd)
	cmd.Flags().StringVar(&sheet.Title, "title", report.DefaultTitle, "heading printed at the top of the sheet")
	cmd.Flags().StringVar(&sheet.Project, "project", "", "project name")
	cmd.Flags().StringVar(&sheet.Customer, "customer", "", "customer name")
	cmd.Flags().StringVar(&sheet.Notes, "notes", "", "free-text notes printed below the tables")
	cmd.Flags().StringVar(&out, "out", defaultReportFile, `output file, or "-" for stdout`)

	return cmd
}

func runReport(cmd *cobra.Command, inputs *inputFlags, sheet report.QuoteSheet, out string) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

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
		return fmt.Errorf("calculating: %w", err)
	}

	sheet.Input = in
	sheet.Result = res
	sheet.Date = time.Now()

	var buf bytes.Buffer
	if err = report.WritePDF(&buf, sheet); err != nil {
		return err
	}

	if out == "-" {
		if writerIsTerminal(cmd.OutOrStdout()) {
			return errors.New("refusing to write a PDF to a terminal; redirect stdout or use --out")
		}
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if err = os.WriteFile(out, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	log.Debug().Ctx(ctx).Str("component", "report").Str("path", out).Int("bytes", buf.Len()).Msg("quote written")
	cmd.Printf("Quote written to %s\n", out)
	return nil
}
