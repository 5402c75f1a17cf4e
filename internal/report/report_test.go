package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/engine/batch"
	"github.com/rshade/steelcalc/internal/report"
	"github.com/rshade/steelcalc/internal/tables"
)

func testOutcomes(t *testing.T) ([]batch.Outcome, batch.Summary) {
	t.Helper()
	good := engine.Input{
		Shape: engine.CStud, MemberDepth: 6, FlangeWidth: 1.625, Gauge: "18",
		OutsideDiameter: 50, CWTPrice: 50,
	}
	bad := good
	bad.Gauge = "19"
	rows := []engine.Row{
		{Line: 2, Label: "wall A", Input: good},
		{Line: 3, Label: "wall B", Input: bad},
	}
	outcomes, summary, err := batch.Run(context.Background(), rows, tables.MustDefault(), batch.Options{Concurrency: 1})
	require.NoError(t, err)
	return outcomes, summary
}

func TestHeader(t *testing.T) {
	header := report.Header()
	assert.Equal(t, "line", header[0])
	assert.Equal(t, "label", header[1])
	assert.Equal(t, "lip_length", header[8])
	assert.Equal(t, "price_per_sqft", header[17])
	assert.Equal(t, report.ColError, header[len(header)-1])
	assert.Len(t, header, 19)
}

func TestWriteCSV(t *testing.T) {
	outcomes, _ := testOutcomes(t)

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, outcomes))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	ok := records[1]
	assert.Equal(t, []string{"2", "wall A", "C Stud/C Joist", "6", "1.625", "18", "50", "50"}, ok[:8])
	assert.Equal(t, "0.500", ok[8])
	assert.Equal(t, "9.868", ok[10])
	assert.Equal(t, "2305.37", ok[15])
	assert.Equal(t, "0.9750", ok[17])
	assert.Empty(t, ok[18])

	bad := records[2]
	assert.Equal(t, "3", bad[0])
	assert.Empty(t, bad[8])
	assert.Contains(t, bad[18], "19")
}

func TestWriteXLSX(t *testing.T) {
	outcomes, summary := testOutcomes(t)

	var buf bytes.Buffer
	require.NoError(t, report.WriteXLSX(&buf, outcomes, summary))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{report.SheetResults, report.SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(report.SheetResults)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, report.Header(), rows[0])
	assert.Equal(t, "wall A", rows[1][1])
	assert.Equal(t, "9.868", rows[1][10])
	assert.Contains(t, rows[1][15], "2,305.37")

	raw, err := f.GetCellValue(report.SheetResults, "K2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	coilWidth, err := strconv.ParseFloat(raw, 64)
	require.NoError(t, err)
	assert.InDelta(t, 9.8676, coilWidth, 1e-9)

	errCell, err := f.GetCellValue(report.SheetResults, "S3")
	require.NoError(t, err)
	assert.Contains(t, errCell, "19")

	total, err := f.GetCellValue(report.SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "1", total)
	price, err := f.GetCellValue(report.SheetSummary, "B4")
	require.NoError(t, err)
	assert.Equal(t, "2305.37", price)
}

func TestWritePDF(t *testing.T) {
	in := engine.Input{
		Shape: engine.UStud, MemberDepth: 6, FlangeWidth: 1.625, Gauge: "18",
		OutsideDiameter: 50, CWTPrice: 50,
	}
	res, err := engine.Compute(in, tables.MustDefault())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WritePDF(&buf, report.QuoteSheet{
		Project:  "Warehouse 4",
		Customer: "Acme Framing",
		Notes:    "Pricing valid for 30 days.",
		Date:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Input:    in,
		Result:   res,
	}))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
	assert.Greater(t, len(out), 1000)
}
