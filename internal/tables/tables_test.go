package tables

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	lip, err := tbl.LipLength(1.625)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, lip, 1e-12)

	thickness, err := tbl.Thickness("18")
	require.NoError(t, err)
	assert.InDelta(t, 0.0478, thickness, 1e-12)

	assert.Equal(t, "embedded:flange_lip.csv", tbl.Source().Flange)
	assert.Equal(t, "embedded:gauge_thickness.csv", tbl.Source().Gauge)
}

func TestSelectorsMatchLookupKeys(t *testing.T) {
	tbl := MustDefault()

	for _, w := range tbl.FlangeWidths() {
		_, err := tbl.LipLength(w)
		assert.NoError(t, err, "flange width %v", w)
	}
	for _, g := range tbl.Gauges() {
		_, err := tbl.Thickness(g)
		assert.NoError(t, err, "gauge %s", g)
	}
	assert.NoError(t, tbl.CheckSelectors(tbl.FlangeWidths(), tbl.Gauges()))
}

func TestSelectorOrdering(t *testing.T) {
	t.Run("numeric gauges sort numerically", func(t *testing.T) {
		tbl, err := New(
			[]FlangeRow{{FlangeWidth: 2, LipLength: 0.625}, {FlangeWidth: 1.25, LipLength: 0.1875}},
			[]GaugeRow{{Gauge: "20", Thickness: 0.0359}, {Gauge: "8", Thickness: 0.1644}, {Gauge: "12", Thickness: 0.1046}},
			Source{},
		)
		require.NoError(t, err)
		assert.Equal(t, []float64{1.25, 2}, tbl.FlangeWidths())
		assert.Equal(t, []Gauge{"8", "12", "20"}, tbl.Gauges())
		assert.Equal(t, Gauge("8"), tbl.GaugeRows()[0].Gauge)
		assert.InDelta(t, 0.1875, tbl.FlangeRows()[0].LipLength, 1e-12)
	})

	t.Run("mixed labels sort lexically", func(t *testing.T) {
		tbl, err := New(
			[]FlangeRow{{FlangeWidth: 1.625, LipLength: 0.5}},
			[]GaugeRow{{Gauge: "33mil", Thickness: 0.0346}, {Gauge: "18", Thickness: 0.0478}},
			Source{},
		)
		require.NoError(t, err)
		assert.Equal(t, []Gauge{"18", "33mil"}, tbl.Gauges())
	})
}

func TestSelectorsAreCopies(t *testing.T) {
	tbl := MustDefault()
	widths := tbl.FlangeWidths()
	widths[0] = 99
	assert.NotEqual(t, 99.0, tbl.FlangeWidths()[0])

	gauges := tbl.Gauges()
	gauges[0] = "x"
	assert.NotEqual(t, Gauge("x"), tbl.Gauges()[0])
}

func TestLookupMiss(t *testing.T) {
	tbl := MustDefault()

	_, err := tbl.LipLength(1.7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Contains(t, err.Error(), "1.7")
	assert.Contains(t, err.Error(), "1.625")

	_, err = tbl.Thickness("19")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Contains(t, err.Error(), `"19"`)
}

func TestLookupNormalizesKeys(t *testing.T) {
	tbl := MustDefault()

	w, err := ParseFlangeWidth("1-5/8")
	require.NoError(t, err)
	lip, err := tbl.LipLength(w)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, lip, 1e-12)

	for _, g := range []Gauge{"18", " 18 ", "18ga", "18 gauge", "18.0"} {
		th, err := tbl.Thickness(g)
		require.NoError(t, err, "gauge %q", g)
		assert.InDelta(t, 0.0478, th, 1e-12)
	}
}

func TestNewRejectsInvalidRows(t *testing.T) {
	goodFlange := []FlangeRow{{FlangeWidth: 1.625, LipLength: 0.5}}
	goodGauge := []GaugeRow{{Gauge: "18", Thickness: 0.0478}}

	tests := []struct {
		name    string
		flanges []FlangeRow
		gauges  []GaugeRow
		contain string
	}{
		{"no flange rows", nil, goodGauge, "flange table has no rows"},
		{"no gauge rows", goodFlange, nil, "gauge table has no rows"},
		{"zero flange width", []FlangeRow{{FlangeWidth: 0, LipLength: 0.5}}, goodGauge, "must be > 0"},
		{"negative lip", []FlangeRow{{FlangeWidth: 1, LipLength: -0.1}}, goodGauge, "must be >= 0"},
		{"NaN lip", []FlangeRow{{FlangeWidth: 1, LipLength: math.NaN()}}, goodGauge, "must be >= 0"},
		{"duplicate flange", []FlangeRow{{FlangeWidth: 1.625, LipLength: 0.5}, {FlangeWidth: 1.625, LipLength: 0.4}}, goodGauge, "duplicate flange width"},
		{"zero thickness", goodFlange, []GaugeRow{{Gauge: "18", Thickness: 0}}, "thickness 0 must be > 0"},
		{"infinite thickness", goodFlange, []GaugeRow{{Gauge: "18", Thickness: math.Inf(1)}}, "must be > 0"},
		{"empty gauge", goodFlange, []GaugeRow{{Gauge: "  ", Thickness: 0.05}}, "empty gauge label"},
		{"duplicate gauge", goodFlange, []GaugeRow{{Gauge: "18", Thickness: 0.05}, {Gauge: "18.0", Thickness: 0.05}}, "duplicate gauge 18"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.flanges, tt.gauges, Source{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTable))
			assert.Contains(t, err.Error(), tt.contain)
		})
	}
}

func TestCheckSelectors(t *testing.T) {
	tbl := MustDefault()

	assert.NoError(t, tbl.CheckSelectors([]float64{1.625}, []Gauge{"18"}))

	err := tbl.CheckSelectors([]float64{1.625, 1.9}, []Gauge{"18", "17"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Contains(t, err.Error(), "flange width 1.9")
	assert.Contains(t, err.Error(), `gauge "17"`)
	assert.NotContains(t, err.Error(), "1.625")
}

func TestParseGauge(t *testing.T) {
	tests := map[string]Gauge{
		"18":       "18",
		" 18 ":     "18",
		"18.0":     "18",
		"18GA":     "18",
		"20 gauge": "20",
		"33mil":    "33mil",
		"omega":    "omega",
		"Vega":     "Vega",
		"x gauge":  "x gauge",
		"18.5ga":   "18.5",
		"":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseGauge(in), "input %q", in)
	}
}

func BenchmarkLookup(b *testing.B) {
	tbl := MustDefault()
	for b.Loop() {
		_, _ = tbl.LipLength(1.625)
		_, _ = tbl.Thickness("18")
	}
}

func TestGaugeUnmarshalJSON(t *testing.T) {
	var v struct {
		Gauge Gauge `json:"gauge"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"gauge":"18ga"}`), &v))
	assert.Equal(t, Gauge("18"), v.Gauge)

	require.NoError(t, json.Unmarshal([]byte(`{"gauge":20}`), &v))
	assert.Equal(t, Gauge("20"), v.Gauge)

	assert.Error(t, json.Unmarshal([]byte(`{"gauge":true}`), &v))
}
