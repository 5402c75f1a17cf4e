package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/steelcalc/internal/tables"
)

func TestCalc_Table(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, append([]string{"calc"}, scenarioFlags()...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "INPUTS")
	assert.Contains(t, out, "OUTPUTS")
	assert.Contains(t, out, "C Stud/C Joist")
	assert.Contains(t, out, "9.868 in")
	assert.Contains(t, out, "0.0478 in")
	assert.Contains(t, out, "4,610.73 lbs")
	assert.Contains(t, out, "$2,305.37")
	assert.Contains(t, out, "Inside Diameter")
}

func TestCalc_NoThousandsSeparators(t *testing.T) {
	home := isolate(t)
	writeFile(t, home, "config.yaml", "output:\n  default_format: table\n  thousands_separators: false\n")

	out, _, err := execute(t, append([]string{"calc"}, scenarioFlags()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "4610.73 lbs")
	assert.Contains(t, out, "$2305.37")
}

func TestCalc_JSON(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, append([]string{"calc", "-o", "json"}, scenarioFlags()...)...)
	require.NoError(t, err)

	var doc struct {
		Input struct {
			Shape string       `json:"shape"`
			Gauge tables.Gauge `json:"gauge"`
		} `json:"input"`
		Result struct {
			CoilWidth float64 `json:"coil_width"`
			PIW       float64 `json:"piw"`
		} `json:"result"`
		Display map[string]string `json:"display"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "C Stud/C Joist", doc.Input.Shape)
	assert.Equal(t, tables.Gauge("18"), doc.Input.Gauge)
	assert.InDelta(t, 9.8676, doc.Result.CoilWidth, 1e-9)
	assert.InDelta(t, 467.26, doc.Result.PIW, 1e-9)
	assert.Equal(t, "9.868", doc.Display["coil_width"])
	assert.Equal(t, "2305.37", doc.Display["price_per_coil"])
}

func TestCalc_OutputFromConfig(t *testing.T) {
	isolate(t)
	t.Setenv("STEELCALC_OUTPUT_FORMAT", "ndjson")

	out, _, err := execute(t, append([]string{"calc"}, scenarioFlags()...)...)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), out)
}

func TestCalc_UTrackHasNoLip(t *testing.T) {
	isolate(t)

	args := append([]string{"calc", "-o", "json"}, scenarioFlags()...)
	args = append(args, "--shape", "track")
	out, _, err := execute(t, args...)
	require.NoError(t, err)

	var doc struct {
		Result struct {
			LipLength float64 `json:"lip_length"`
			CoilWidth float64 `json:"coil_width"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Zero(t, doc.Result.LipLength)
	assert.InDelta(t, 9.0588, doc.Result.CoilWidth, 1e-9)
}

func TestCalc_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown gauge", args: []string{"--gauge", "99"}, wantErr: "key not found"},
		{name: "unknown flange", args: []string{"--flange", "1.3"}, wantErr: "key not found"},
		{name: "bad shape", args: []string{"--shape", "z"}, wantErr: "--shape"},
		{name: "bad depth", args: []string{"--depth", "six"}, wantErr: "--depth"},
		{name: "negative price", args: []string{"--cwt", "-5"}, wantErr: "invalid calculation input"},
		{name: "bad output", args: []string{"-o", "yaml"}, wantErr: "unsupported output format"},
		{name: "positional arg", args: []string{"extra"}, wantErr: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, _, err := execute(t, append([]string{"calc"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCalc_DefaultsFromConfig(t *testing.T) {
	home := isolate(t)
	writeFile(t, home, "config.yaml", `defaults:
  shape: "U Stud/Track"
  member_depth: 6
  flange_width: "1-5/8"
  gauge: "18"
  outside_diameter: 50
  cwt_price: 50
`)

	out, _, err := execute(t, "calc", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"shape": "U Stud/Track"`)
	assert.Contains(t, out, `"coil_width": "9.059"`)
}

func TestCalc_DefaultsMissingFromTablesFail(t *testing.T) {
	home := isolate(t)
	writeFile(t, home, "config.yaml", "defaults:\n  gauge: \"99\"\n")

	_, _, err := execute(t, "calc")
	require.Error(t, err)
	assert.ErrorIs(t, err, tables.ErrKeyNotFound)
}

func TestCalc_CustomTables(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "shop.yaml", `flange_widths:
  - flange_width: 2
    lip_length: 0.625
gauges:
  - gauge: "16"
    thickness: 0.0598
`)

	out, _, err := execute(t, "calc", "--flange-table", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"lip_length": 0.625`)
	assert.Contains(t, out, `"thickness": 0.0598`)
}
