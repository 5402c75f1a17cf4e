// Package tables holds the two reference tables used by the calculation
// engine: flange width to lip length, and gauge to thickness.
//
// A Tables value is immutable once built. New validates every row, so a
// constructed Tables always has positive thicknesses and positive flange
// widths, and its selector key sets are exactly its lookup key sets.
package tables

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Gauge is a sheet-metal gauge label such as "18".
type Gauge string

// ParseGauge normalizes a gauge label. Surrounding space is dropped, a
// trailing "ga"/"gauge" unit is dropped when what precedes it is a number,
// and integral numeric labels lose any fractional zeros ("18.0" becomes
// "18").
func ParseGauge(s string) Gauge {
	label := strings.TrimSpace(s)
	lower := strings.ToLower(label)
	for _, suffix := range []string{"gauge", "ga"} {
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		head := strings.TrimSpace(label[:len(label)-len(suffix)])
		if _, err := strconv.ParseFloat(head, 64); err == nil {
			label = head
		}
		break
	}
	if f, err := strconv.ParseFloat(label, 64); err == nil && f == float64(int64(f)) {
		return Gauge(strconv.FormatInt(int64(f), 10))
	}
	return Gauge(label)
}

// String returns the label.
func (g Gauge) String() string { return string(g) }

// UnmarshalJSON accepts a gauge as a string ("18") or a number (18).
func (g *Gauge) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*g = ParseGauge(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("gauge must be a string or number: %w", err)
	}
	*g = ParseGauge(n.String())
	return nil
}

// FlangeRow is one FlangeWidth to LipLength record, in inches.
type FlangeRow struct {
	FlangeWidth float64 `json:"flange_width" yaml:"flange_width"`
	LipLength   float64 `json:"lip_length"   yaml:"lip_length"`
}

// GaugeRow is one Gauge to Thickness record, thickness in inches.
type GaugeRow struct {
	Gauge     Gauge   `json:"gauge"     yaml:"gauge"`
	Thickness float64 `json:"thickness" yaml:"thickness"`
}

// Source records where each table was loaded from.
type Source struct {
	Flange string `json:"flange"`
	Gauge  string `json:"gauge"`
}
