package tables

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// keyScale sets the resolution of flange width keys. Widths are compared
// after rounding to the nearest millionth of an inch, so 1.625 parsed from
// a CSV, a flag, or the fraction "1-5/8" all address the same row.
const keyScale = 1e6

// Tables is the immutable pair of reference mappings.
type Tables struct {
	flanges     map[int64]FlangeRow
	gauges      map[Gauge]GaugeRow
	flangeOrder []float64
	gaugeOrder  []Gauge
	source      Source
}

func flangeKey(width float64) int64 {
	return int64(math.Round(width * keyScale))
}

// New validates the rows and builds Tables. Both tables must be non-empty,
// keys must be unique, flange widths and thicknesses must be positive and
// lip lengths non-negative.
func New(flanges []FlangeRow, gauges []GaugeRow, src Source) (*Tables, error) {
	if len(flanges) == 0 {
		return nil, fmt.Errorf("%w: flange table has no rows", ErrInvalidTable)
	}
	if len(gauges) == 0 {
		return nil, fmt.Errorf("%w: gauge table has no rows", ErrInvalidTable)
	}

	t := &Tables{
		flanges:     make(map[int64]FlangeRow, len(flanges)),
		gauges:      make(map[Gauge]GaugeRow, len(gauges)),
		flangeOrder: make([]float64, 0, len(flanges)),
		gaugeOrder:  make([]Gauge, 0, len(gauges)),
		source:      src,
	}

	for i, row := range flanges {
		if !isFinite(row.FlangeWidth) || row.FlangeWidth <= 0 {
			return nil, fmt.Errorf("%w: flange row %d: flange width %v must be > 0", ErrInvalidTable, i+1, row.FlangeWidth)
		}
		if !isFinite(row.LipLength) || row.LipLength < 0 {
			return nil, fmt.Errorf("%w: flange row %d: lip length %v must be >= 0", ErrInvalidTable, i+1, row.LipLength)
		}
		key := flangeKey(row.FlangeWidth)
		if _, dup := t.flanges[key]; dup {
			return nil, fmt.Errorf("%w: duplicate flange width %v", ErrInvalidTable, row.FlangeWidth)
		}
		t.flanges[key] = row
		t.flangeOrder = append(t.flangeOrder, row.FlangeWidth)
	}

	for i, row := range gauges {
		g := ParseGauge(string(row.Gauge))
		if g == "" {
			return nil, fmt.Errorf("%w: gauge row %d: empty gauge label", ErrInvalidTable, i+1)
		}
		// Thickness divides material length; zero or negative values are rejected here
		// so the engine never has to guard those divisions.
		if !isFinite(row.Thickness) || row.Thickness <= 0 {
			return nil, fmt.Errorf("%w: gauge %s: thickness %v must be > 0", ErrInvalidTable, g, row.Thickness)
		}
		if _, dup := t.gauges[g]; dup {
			return nil, fmt.Errorf("%w: duplicate gauge %s", ErrInvalidTable, g)
		}
		t.gauges[g] = GaugeRow{Gauge: g, Thickness: row.Thickness}
		t.gaugeOrder = append(t.gaugeOrder, g)
	}

	sort.Float64s(t.flangeOrder)
	sortGauges(t.gaugeOrder)
	return t, nil
}

// LipLength returns the lip length for a flange width.
func (t *Tables) LipLength(flangeWidth float64) (float64, error) {
	row, ok := t.flanges[flangeKey(flangeWidth)]
	if !ok {
		return 0, fmt.Errorf("%w: flange width %s (valid: %s)",
			ErrKeyNotFound, formatWidth(flangeWidth), t.flangeList())
	}
	return row.LipLength, nil
}

// Thickness returns the thickness for a gauge.
func (t *Tables) Thickness(gauge Gauge) (float64, error) {
	row, ok := t.gauges[ParseGauge(string(gauge))]
	if !ok {
		return 0, fmt.Errorf("%w: gauge %q (valid: %s)", ErrKeyNotFound, gauge, t.gaugeList())
	}
	return row.Thickness, nil
}

// HasFlangeWidth reports whether w is a selectable flange width.
func (t *Tables) HasFlangeWidth(w float64) bool {
	_, ok := t.flanges[flangeKey(w)]
	return ok
}

// HasGauge reports whether g is a selectable gauge.
func (t *Tables) HasGauge(g Gauge) bool {
	_, ok := t.gauges[ParseGauge(string(g))]
	return ok
}

// FlangeWidths returns the selectable flange widths in ascending order.
func (t *Tables) FlangeWidths() []float64 {
	out := make([]float64, len(t.flangeOrder))
	copy(out, t.flangeOrder)
	return out
}

// Gauges returns the selectable gauges, numerically ascending when every
// label is a number and lexically otherwise.
func (t *Tables) Gauges() []Gauge {
	out := make([]Gauge, len(t.gaugeOrder))
	copy(out, t.gaugeOrder)
	return out
}

// FlangeRows returns the flange table in selector order.
func (t *Tables) FlangeRows() []FlangeRow {
	rows := make([]FlangeRow, 0, len(t.flangeOrder))
	for _, w := range t.flangeOrder {
		rows = append(rows, t.flanges[flangeKey(w)])
	}
	return rows
}

// GaugeRows returns the gauge table in selector order.
func (t *Tables) GaugeRows() []GaugeRow {
	rows := make([]GaugeRow, 0, len(t.gaugeOrder))
	for _, g := range t.gaugeOrder {
		rows = append(rows, t.gauges[g])
	}
	return rows
}

// Source reports where the tables were loaded from.
func (t *Tables) Source() Source {
	return t.source
}

// CheckSelectors verifies that every given selection is a key of its table.
// It is meant for startup, where a mismatch between configured selections
// and loaded data is fatal.
func (t *Tables) CheckSelectors(flangeWidths []float64, gauges []Gauge) error {
	var missing []string
	for _, w := range flangeWidths {
		if !t.HasFlangeWidth(w) {
			missing = append(missing, "flange width "+formatWidth(w))
		}
	}
	for _, g := range gauges {
		if !t.HasGauge(g) {
			missing = append(missing, fmt.Sprintf("gauge %q", g))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, strings.Join(missing, ", "))
	}
	return nil
}

func (t *Tables) flangeList() string {
	parts := make([]string, len(t.flangeOrder))
	for i, w := range t.flangeOrder {
		parts[i] = formatWidth(w)
	}
	return strings.Join(parts, ", ")
}

func (t *Tables) gaugeList() string {
	parts := make([]string, len(t.gaugeOrder))
	for i, g := range t.gaugeOrder {
		parts[i] = string(g)
	}
	return strings.Join(parts, ", ")
}

func formatWidth(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func sortGauges(gs []Gauge) {
	nums := make(map[Gauge]float64, len(gs))
	for _, g := range gs {
		f, err := strconv.ParseFloat(string(g), 64)
		if err != nil {
			sort.Slice(gs, func(i, j int) bool { return gs[i] < gs[j] })
			return
		}
		nums[g] = f
	}
	sort.Slice(gs, func(i, j int) bool { return nums[gs[i]] < nums[gs[j]] })
}
