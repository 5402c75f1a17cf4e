package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/engine/batch"
	"github.com/rshade/steelcalc/internal/logging"
	"github.com/rshade/steelcalc/internal/tables"
)

// Filter keys accepted by --filter.
const (
	filterShape       = "shape"
	filterGauge       = "gauge"
	filterFlangeWidth = "flange_width"
	filterLabel       = "label"
	filterStatus      = "status"
)

const (
	statusOK    = "ok"
	statusError = "error"
)

// errInvalidFilter is wrapped by every filter validation failure.
var errInvalidFilter = errors.New("invalid filter")

// outcomeFilter is a parsed "key=value" expression.
type outcomeFilter struct {
	key   string
	match func(batch.Outcome) bool
}

// parseFilter parses one "key=value" expression. Keys are shape, gauge,
// flange_width, label (case-insensitive substring) and status (ok or
// error).
func parseFilter(expr string) (outcomeFilter, error) {
	key, value, ok := strings.Cut(expr, "=")
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if !ok || key == "" || value == "" {
		return outcomeFilter{}, fmt.Errorf("%w %q: use key=value", errInvalidFilter, expr)
	}

	f := outcomeFilter{key: key}
	switch key {
	case filterShape:
		shape, err := engine.ParseShape(value)
		if err != nil {
			return outcomeFilter{}, fmt.Errorf("%w %q: %w", errInvalidFilter, expr, err)
		}
		f.match = func(o batch.Outcome) bool { return o.Row.Input.Shape == shape }
	case filterGauge:
		gauge := tables.ParseGauge(value)
		f.match = func(o batch.Outcome) bool { return o.Row.Input.Gauge == gauge }
	case filterFlangeWidth:
		width, err := tables.ParseFlangeWidth(value)
		if err != nil {
			return outcomeFilter{}, fmt.Errorf("%w %q: %w", errInvalidFilter, expr, err)
		}
		f.match = func(o batch.Outcome) bool { return sameInches(o.Row.Input.FlangeWidth, width) }
	case filterLabel:
		needle := strings.ToLower(value)
		f.match = func(o batch.Outcome) bool { return strings.Contains(strings.ToLower(o.Row.Label), needle) }
	case filterStatus:
		switch strings.ToLower(value) {
		case statusOK:
			f.match = batch.Outcome.OK
		case statusError:
			f.match = func(o batch.Outcome) bool { return !o.OK() }
		default:
			return outcomeFilter{}, fmt.Errorf("%w %q: status must be ok or error", errInvalidFilter, expr)
		}
	default:
		return outcomeFilter{}, fmt.Errorf("%w %q: unknown key (want shape, gauge, flange_width, label or status)",
			errInvalidFilter, expr)
	}
	return f, nil
}

// sameInches compares lengths at the micro-inch resolution the tables use.
func sameInches(a, b float64) bool {
	return math.Round(a*1e6) == math.Round(b*1e6)
}

// ApplyFilters validates every filter expression, then keeps the outcomes
// matching all of them. Empty expressions are ignored and an empty filter
// list returns outcomes unchanged.
func ApplyFilters(ctx context.Context, outcomes []batch.Outcome, exprs []string) ([]batch.Outcome, error) {
	log := logging.FromContext(ctx)

	var filters []outcomeFilter
	for _, expr := range exprs {
		if strings.TrimSpace(expr) == "" {
			continue
		}
		f, err := parseFilter(expr)
		if err != nil {
			log.Warn().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "apply_filters").
				Str("filter", expr).
				Err(err).
				Msg("invalid filter expression")
			return nil, err
		}
		filters = append(filters, f)
	}
	if len(filters) == 0 {
		return outcomes, nil
	}

	result := make([]batch.Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if matchesAll(o, filters) {
			result = append(result, o)
		}
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "apply_filters").
		Int("filters", len(filters)).
		Int("before", len(outcomes)).
		Int("after", len(result)).
		Msg("applied filters")

	if len(result) == 0 && len(outcomes) > 0 {
		log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Int("original_count", len(outcomes)).
			Msg("no rows match filter criteria")
	}
	return result, nil
}

func matchesAll(o batch.Outcome, filters []outcomeFilter) bool {
	for _, f := range filters {
		if !f.match(o) {
			return false
		}
	}
	return true
}
