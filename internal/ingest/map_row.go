package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/tables"
)

// headerAliases maps normalized alternative headers to column names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var headerAliases = map[string]string{
	"name":                ColLabel,
	"depth":               ColMemberDepth,
	"member_depth_in":     ColMemberDepth,
	"flange":              ColFlangeWidth,
	"flange_width_in":     ColFlangeWidth,
	"ga":                  ColGauge,
	"od":                  ColOutsideDiameter,
	"outside_diameter_in": ColOutsideDiameter,
	"cwt":                 ColCWTPrice,
	"cwt_price_usd":       ColCWTPrice,
}

// NormalizeColumn folds a header or key to its column name: lowercase,
// with spaces and dashes as underscores and parenthesized units dropped.
func NormalizeColumn(name string) string {
	s := strings.TrimPrefix(name, "\ufeff")
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	if alias, ok := headerAliases[s]; ok {
		return alias
	}
	return s
}

// MapRecord converts a raw record to a row. Blank or absent columns keep
// the default; present values must parse.
func MapRecord(rec Record, defaults engine.Input) (engine.Row, error) {
	row := engine.Row{Line: rec.Line, Input: defaults}
	get := func(col string) (string, bool) {
		v, ok := rec.Fields[col]
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	fail := func(col string, err error) (engine.Row, error) {
		return engine.Row{}, fmt.Errorf("%w: line %d: %s: %w", ErrInvalidRow, rec.Line, col, err)
	}

	if v, ok := get(ColLabel); ok {
		row.Label = v
	}
	if v, ok := get(ColShape); ok {
		shape, err := engine.ParseShape(v)
		if err != nil {
			return fail(ColShape, err)
		}
		row.Input.Shape = shape
	}
	if v, ok := get(ColFlangeWidth); ok {
		w, err := tables.ParseInches(v)
		if err != nil {
			return fail(ColFlangeWidth, err)
		}
		row.Input.FlangeWidth = w
	}
	if v, ok := get(ColGauge); ok {
		row.Input.Gauge = tables.ParseGauge(v)
	}

	numbers := []struct {
		col   string
		dst   *float64
		parse func(string) (float64, error)
	}{
		{ColMemberDepth, &row.Input.MemberDepth, tables.ParseInches},
		{ColOutsideDiameter, &row.Input.OutsideDiameter, tables.ParseInches},
		{ColCWTPrice, &row.Input.CWTPrice, parseNumber},
	}
	for _, n := range numbers {
		v, ok := get(n.col)
		if !ok {
			continue
		}
		f, err := n.parse(v)
		if err != nil {
			return fail(n.col, err)
		}
		*n.dst = f
	}
	return row, nil
}

// MapRecords converts records in order, stopping at the first bad one.
func MapRecords(records []Record, defaults engine.Input) ([]engine.Row, error) {
	rows := make([]engine.Row, 0, len(records))
	for _, rec := range records {
		row, err := MapRecord(rec, defaults)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseNumber accepts plain decimals plus a leading "$" and "," grouping.
func parseNumber(s string) (float64, error) {
	clean := strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}
