package batch

import (
	"context"
	"encoding/json"
	"math"
	"runtime"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/logging"
)

// Outcome is the result of computing one row. Exactly one of Result and
// Err is meaningful.
type Outcome struct {
	Row    engine.Row
	Result engine.Result
	Err    error
}

// OK reports whether the row computed.
func (o Outcome) OK() bool { return o.Err == nil }

// outcomeJSON is the wire form of an Outcome.
type outcomeJSON struct {
	Line    int               `json:"line"`
	Label   string            `json:"label,omitempty"`
	Input   engine.Input      `json:"input"`
	Result  *engine.Result    `json:"result,omitempty"`
	Display map[string]string `json:"display,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// MarshalJSON encodes the row with either its result and display text or
// its error message.
func (o Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{Line: o.Row.Line, Label: o.Row.Label, Input: o.Row.Input}
	if o.Err != nil {
		out.Error = o.Err.Error()
	} else {
		res := o.Result
		out.Result = &res
		out.Display = res.Texts()
	}
	return json.Marshal(out)
}

// Summary aggregates a batch. Totals cover successful rows only.
type Summary struct {
	Rows        int             `json:"rows"`
	Errors      int             `json:"errors"`
	TotalWeight decimal.Decimal `json:"total_weight"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// Summarize totals weight (lbs) and price per coil (USD) across the
// successful outcomes, each rounded half-even to two places. Values that
// are not finite are left out of the totals.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Rows: len(outcomes), TotalWeight: decimal.Zero, TotalPrice: decimal.Zero}
	for _, o := range outcomes {
		if o.Err != nil {
			s.Errors++
			continue
		}
		s.TotalWeight = addFinite(s.TotalWeight, o.Result.Weight)
		s.TotalPrice = addFinite(s.TotalPrice, o.Result.PricePerCoil)
	}
	s.TotalWeight = s.TotalWeight.RoundBank(2)
	s.TotalPrice = s.TotalPrice.RoundBank(2)
	return s
}

func addFinite(total decimal.Decimal, v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return total
	}
	return total.Add(decimal.NewFromFloat(v))
}

// Options configures Run.
type Options struct {
	// BatchSize is the number of rows per batch; zero means DefaultBatchSize.
	BatchSize int

	// Concurrency bounds the batches computed at once; zero means
	// runtime.NumCPU() and one means sequential.
	Concurrency int

	// OnProgress, if set, is called after each batch.
	OnProgress ProgressCallback
}

// Run computes every row against lookup. Row failures are recorded on
// their Outcome and never stop the run. Outcomes are in input order. The
// returned error is non-nil only for invalid options or a cancelled
// context, in which case rows that never ran carry ErrRowSkipped.
func Run(ctx context.Context, rows []engine.Row, lookup engine.Lookup, opts Options) ([]Outcome, Summary, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	outcomes := make([]Outcome, len(rows))
	if len(rows) == 0 {
		return outcomes, Summarize(outcomes), nil
	}

	size := opts.BatchSize
	if size == 0 {
		size = DefaultBatchSize
	}
	proc, err := NewProcessor[engine.Row](size)
	if err != nil {
		return nil, Summary{}, err
	}
	proc.WithProgressCallback(opts.OnProgress)

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	for i, row := range rows {
		outcomes[i] = Outcome{Row: row, Err: ErrRowSkipped}
	}

	compute := func(_ context.Context, batch []engine.Row, offset int) error {
		for i, row := range batch {
			res, err := engine.Compute(row.Input, lookup)
			outcomes[offset+i] = Outcome{Row: row, Result: res, Err: err}
		}
		return nil
	}

	if concurrency == 1 {
		err = proc.Process(ctx, rows, compute)
	} else {
		err = proc.ProcessConcurrent(ctx, rows, compute, concurrency)
	}

	summary := Summarize(outcomes)
	log.Debug().
		Ctx(ctx).
		Str("component", "batch").
		Int("rows", summary.Rows).
		Int("errors", summary.Errors).
		Int("concurrency", concurrency).
		Dur("duration", time.Since(start)).
		Msg("batch computed")

	return outcomes, summary, err
}
