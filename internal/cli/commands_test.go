package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"github.com/rshade/steelcalc/internal/cli"
)

func TestTables_Table(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "FLANGE WIDTH")
	assert.Contains(t, out, "1.625 in")
	assert.Contains(t, out, "18 ga")
	assert.Contains(t, out, "0.0478 in")
}

func TestTables_JSON(t *testing.T) {
	isolate(t)

	out, _, err := execute(t, "tables", "-o", "json")
	require.NoError(t, err)

	var doc struct {
		FlangeWidths []struct {
			FlangeWidth float64 `json:"flange_width"`
		} `json:"flange_widths"`
		Gauges []struct {
			Gauge string `json:"gauge"`
		} `json:"gauges"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.FlangeWidths, 7)
	assert.Len(t, doc.Gauges, 10)
	assert.Equal(t, "10", doc.Gauges[0].Gauge)
}

func TestTables_GaugeTableNeedsFlangeTable(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "tables", "--gauge-table", "g.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--flange-table")
}

func TestReport_WritesPDF(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "quote.pdf")

	args := append([]string{"report", "--project", "Bay 4", "--out", out}, scenarioFlags()...)
	stdout, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Quote written to")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestReport_Stdout(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, append([]string{"report", "--out", "-"}, scenarioFlags()...)...)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix([]byte(stdout), []byte("%PDF-")))
}

func TestReport_InvalidInput(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "report", "--gauge", "99", "--out", filepath.Join(t.TempDir(), "q.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key not found")
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "steelcalc")
	assert.Contains(t, out, "Go version")
}

func TestForm_RequiresTerminal(t *testing.T) {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		t.Skip("running attached to a terminal")
	}
	isolate(t)
	_, _, err := execute(t, "form")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestServe_ExplicitEnvFileMustExist(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, "serve", "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.env")
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := cli.NewRootCmd("test")
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"calc", "tables", "batch", "report", "serve", "form", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_DebugFlag(t *testing.T) {
	isolate(t)
	_, _, err := execute(t, append([]string{"--debug", "calc"}, scenarioFlags()...)...)
	require.NoError(t, err)
}
