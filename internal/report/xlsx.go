package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/engine/batch"
)

// Sheet names of an exported workbook.
const (
	SheetResults = "results"
	SheetSummary = "summary"
)

// inputColumns is the count of leading non-result columns: line plus the
// seven input columns.
const inputColumns = 8

// WriteXLSX writes a workbook with a results sheet laid out like WriteCSV
// and a summary sheet. Numbers are stored at full precision and shown at
// the display precision through cell formats.
func WriteXLSX(w io.Writer, outcomes []batch.Outcome, summary batch.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetResults); err != nil {
		return fmt.Errorf("naming results sheet: %w", err)
	}
	if err := writeResults(f, outcomes); err != nil {
		return err
	}
	if err := writeSummary(f, summary); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeResults(f *excelize.File, outcomes []batch.Outcome) error {
	header := Header()
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SheetResults, "A1", &headerRow); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(SheetResults, "A1", last, bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, field := range (engine.Result{}).Fields() {
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: numberFormat(field)})
		if err != nil {
			return fmt.Errorf("creating %s style: %w", field.Key, err)
		}
		col, _ := excelize.ColumnNumberToName(inputColumns + i + 1)
		if err := f.SetColStyle(SheetResults, col, style); err != nil {
			return fmt.Errorf("styling %s column: %w", field.Key, err)
		}
	}

	for i, o := range outcomes {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := resultRow(o)
		if err := f.SetSheetRow(SheetResults, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", o.Row.Line, err)
		}
	}
	return nil
}

func resultRow(o batch.Outcome) []any {
	in := o.Row.Input
	row := []any{
		o.Row.Line,
		o.Row.Label,
		shapeText(in.Shape),
		in.MemberDepth,
		in.FlangeWidth,
		string(in.Gauge),
		in.OutsideDiameter,
		in.CWTPrice,
	}
	for _, field := range o.Result.Fields() {
		if o.Err != nil {
			row = append(row, nil)
			continue
		}
		row = append(row, field.Value)
	}
	if o.Err != nil {
		return append(row, o.Err.Error())
	}
	return append(row, nil)
}

// numberFormat builds an Excel format such as "$#,##0.00" for a field.
func numberFormat(field engine.Field) *string {
	format := "#,##0"
	if field.Precision > 0 {
		format += "." + strings.Repeat("0", field.Precision)
	}
	if field.Currency {
		format = "$" + format
	}
	return &format
}

func writeSummary(f *excelize.File, s batch.Summary) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	rows := [][]any{
		{"rows", s.Rows},
		{"errors", s.Errors},
		{"total_weight_lbs", s.TotalWeight.InexactFloat64()},
		{"total_price_usd", s.TotalPrice.InexactFloat64()},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(SheetSummary, cell, &r); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return nil
}
