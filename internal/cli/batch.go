package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/internal/cli/pagination"
	"github.com/rshade/steelcalc/internal/config"
	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/engine/batch"
	"github.com/rshade/steelcalc/internal/ingest"
	"github.com/rshade/steelcalc/internal/logging"
	"github.com/rshade/steelcalc/internal/report"
)

// batchParams holds the batch command flags.
type batchParams struct {
	format      string
	sheet       string
	output      string
	out         string
	concurrency int
	maxRows     int
	sort        string
	filters     []string
	page        pagination.PaginationParams
}

// batchJSON is the JSON shape of a batch run.
type batchJSON struct {
	Outcomes   []batch.Outcome            `json:"outcomes"`
	Summary    batch.Summary              `json:"summary"`
	Pagination *pagination.PaginationMeta `json:"pagination,omitempty"`
}

// NewBatchCmd creates the batch command: compute every row of a CSV, XLSX,
// JSON or NDJSON file.
func NewBatchCmd() *cobra.Command {
	var p batchParams

	cmd := &cobra.Command{
		Use:   "batch <file|->",
		Short: "Compute every row of a CSV, XLSX, JSON or NDJSON file",
		Long: `Reads one calculation per row and computes them concurrently. Columns
(or JSON keys) are label, shape, member_depth, flange_width, gauge,
outside_diameter and cwt_price; absent or blank values take the configured
defaults. Header matching ignores case, spaces and dashes.

A row that fails to compute is reported with its line number and does not
stop the batch. --filter, --sort and the paging flags select which rows
are written; the summary always covers every row. When any row fails the command exits with status 2 after
writing all output.`,
		Example: `  # Price a spreadsheet, heaviest first
  steelcalc batch members.xlsx --sort weight:desc

  # Read NDJSON from stdin and write CSV
  cat members.ndjson | steelcalc batch - --format ndjson -o csv

  # Write an XLSX workbook with a Summary sheet
  steelcalc batch members.csv -o xlsx --out priced.xlsx

  # Only the failed 16 gauge rows
  steelcalc batch members.csv --filter gauge=16 --filter status=error

  # Second page of 25
  steelcalc batch members.csv --page 2 --page-size 25`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], &p)
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.format, "format", "", "input format: csv, xlsx, json or ndjson (default: from the file extension)")
	f.StringVar(&p.sheet, "sheet", "", "XLSX sheet to read (default: the first sheet)")
	f.StringVarP(&p.output, "output", "o", "", "output format: table, json, ndjson, csv or xlsx (default from config)")
	f.StringVar(&p.out, "out", "", "write output to this file instead of stdout")
	f.IntVar(&p.concurrency, "concurrency", 0, "batches computed at once (default from config; 0 means one per CPU)")
	f.IntVar(&p.maxRows, "max-rows", 0, "maximum rows to read (default from config)")
	f.StringVar(&p.sort, "sort", "",
		"sort by line, label or a result field, optionally with :asc or :desc (e.g. weight:desc)")
	f.StringArrayVar(&p.filters, "filter", nil,
		"keep rows matching key=value (shape, gauge, flange_width, label, status=ok|error); repeatable")
	f.IntVar(&p.page.Limit, "limit", 0, "maximum rows to output")
	f.IntVar(&p.page.Offset, "offset", 0, "rows to skip before output")
	f.IntVar(&p.page.Page, "page", 0, "1-based page number")
	f.IntVar(&p.page.PageSize, "page-size", 0, "rows per page")

	return cmd
}

func runBatch(cmd *cobra.Command, path string, p *batchParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	output, err := resolveOutputFormat(cmd, p.output,
		config.FormatTable, config.FormatJSON, config.FormatNDJSON, formatCSV, formatXLSX)
	if err != nil {
		return err
	}
	if err = p.page.Validate(); err != nil {
		return err
	}
	sorter := pagination.NewOutcomeSorter()
	sortField, sortOrder, err := pagination.ParseSort(p.sort)
	if err != nil {
		return err
	}
	if sortField != "" && !sorter.IsValidField(sortField) {
		return fmt.Errorf("%w %q (valid: %s)", pagination.ErrInvalidSortField, sortField,
			strings.Join(sorter.GetValidFields(), ", "))
	}

	if _, err = ApplyFilters(ctx, nil, p.filters); err != nil {
		return err
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	opts := ingest.Options{Defaults: rt.defaults, MaxRows: rt.cfg.Batch.MaxRows, Sheet: p.sheet}
	if cmd.Flags().Changed("max-rows") {
		opts.MaxRows = p.maxRows
	}
	rows, err := readBatchInput(cmd, path, p.format, opts)
	if err != nil {
		return err
	}

	concurrency := rt.cfg.Batch.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency = p.concurrency
	}
	if concurrency < 0 {
		return errors.New("--concurrency must be >= 0")
	}

	outcomes, summary, err := batch.Run(ctx, rows, rt.tables, batch.Options{
		Concurrency: concurrency,
		OnProgress: func(progress *batch.Progress) {
			snap := progress.Snapshot()
			log.Debug().Ctx(ctx).
				Str("component", "batch").
				Int("processed", snap.ProcessedItems).
				Int("total", snap.TotalItems).
				Float64("percent", progress.PercentComplete()).
				Dur("elapsed", progress.ElapsedTime()).
				Dur("eta", progress.EstimatedTimeRemaining()).
				Bool("complete", progress.IsComplete()).
				Msg("batch progress")
		},
	})
	if err != nil {
		return fmt.Errorf("computing batch: %w", err)
	}

	outcomes, err = ApplyFilters(ctx, outcomes, p.filters)
	if err != nil {
		return err
	}
	if sortField != "" {
		outcomes = sorter.Sort(outcomes, sortField, sortOrder)
	}
	total := len(outcomes)
	outcomes = pagination.Apply(p.page, outcomes)

	if err = writeBatchOutput(cmd, p, output, outcomes, summary, total); err != nil {
		return err
	}

	log.Info().Ctx(ctx).
		Str("component", "batch").
		Int("rows", summary.Rows).
		Int("errors", summary.Errors).
		Msg("batch complete")

	if summary.Errors > 0 {
		return &RowErrorsExit{Rows: summary.Rows, Errors: summary.Errors}
	}
	return nil
}

// readBatchInput reads rows from path, or from stdin when path is "-".
func readBatchInput(cmd *cobra.Command, path, format string, opts ingest.Options) ([]engine.Row, error) {
	ctx := cmd.Context()
	if path != "-" {
		if format == "" {
			return ingest.ReadRows(ctx, path, opts)
		}
		f, err := ingest.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening batch input: %w", err)
		}
		defer file.Close()
		return ingest.ReadRowsFrom(ctx, file, f, opts)
	}

	if format == "" {
		return nil, errors.New("--format is required when reading from stdin")
	}
	f, err := ingest.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return ingest.ReadRowsFrom(ctx, cmd.InOrStdin(), f, opts)
}

func writeBatchOutput(
	cmd *cobra.Command,
	p *batchParams,
	output string,
	outcomes []batch.Outcome,
	summary batch.Summary,
	total int,
) (err error) {
	w := cmd.OutOrStdout()
	if p.out != "" && p.out != "-" {
		file, createErr := os.Create(p.out)
		if createErr != nil {
			return fmt.Errorf("creating %s: %w", p.out, createErr)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		w = file
	} else if output == formatXLSX && writerIsTerminal(w) {
		return errors.New("refusing to write an XLSX workbook to a terminal; use --out")
	}

	switch output {
	case config.FormatJSON:
		doc := batchJSON{Outcomes: outcomes, Summary: summary}
		if p.page.IsEnabled() {
			meta := pagination.NewPaginationMeta(p.page, total)
			doc.Pagination = &meta
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case config.FormatNDJSON:
		enc := json.NewEncoder(w)
		for _, o := range outcomes {
			if err = enc.Encode(o); err != nil {
				return err
			}
		}
		return nil
	case formatCSV:
		return report.WriteCSV(w, outcomes)
	case formatXLSX:
		return report.WriteXLSX(w, outcomes, summary)
	default:
		return renderBatchTable(w, outcomes, summary, config.GetGlobalConfig().Output.ThousandsSeparators)
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
