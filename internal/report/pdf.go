package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/rshade/steelcalc/internal/engine"
)

// DefaultTitle heads a quote sheet with no title.
const DefaultTitle = "Galvanized Steel Calculator"

// QuoteSheet is one calculation rendered as a printable page.
type QuoteSheet struct {
	Title    string        `json:"title,omitempty"`
	Project  string        `json:"project,omitempty"`
	Customer string        `json:"customer,omitempty"`
	Notes    string        `json:"notes,omitempty"`
	Date     time.Time     `json:"date"`
	Input    engine.Input  `json:"input"`
	Result   engine.Result `json:"result"`
}

// Page layout in millimetres.
const (
	pageMargin   = 15.0
	columnWidth  = 85.0
	columnGap    = 10.0
	labelWidth   = 42.0
	lineHeight   = 7.0
	headerHeight = 9.0
)

// WritePDF renders q as a one-page A4 PDF: a heading block, then the
// inputs and outputs side by side.
func WritePDF(w io.Writer, q QuoteSheet) error {
	title := q.Title
	if title == "" {
		title = DefaultTitle
	}
	date := q.Date
	if date.IsZero() {
		date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle(title, false)
	pdf.SetCreator("steelcalc", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if q.Project != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", q.Project))
		pdf.Ln(6)
	}
	if q.Customer != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Customer: %s", q.Customer))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", date.Format("2006-01-02")))
	pdf.Ln(10)

	top := pdf.GetY()
	leftX := pageMargin
	rightX := pageMargin + columnWidth + columnGap

	inputs := q.Input.Fields()
	left := make([][2]string, len(inputs))
	for i, f := range inputs {
		left[i] = [2]string{f.Label, f.Value}
	}
	outputs := q.Result.Fields()
	right := make([][2]string, len(outputs))
	for i, f := range outputs {
		right[i] = [2]string{f.Label, f.DisplayWithUnit()}
	}

	column(pdf, leftX, top, "Inputs", left)
	bottom := column(pdf, rightX, top, "Outputs", right)

	if q.Notes != "" {
		pdf.SetXY(pageMargin, bottom+lineHeight)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 6, "Notes")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, q.Notes, "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering PDF: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// column draws a headed two-cell table at x, y and returns the y below it.
func column(pdf *gofpdf.Fpdf, x, y float64, heading string, rows [][2]string) float64 {
	pdf.SetXY(x, y)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(columnWidth, headerHeight, heading, "B", 0, "L", false, 0, "")
	y += headerHeight + 2

	for _, r := range rows {
		pdf.SetXY(x, y)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelWidth, lineHeight, r[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(columnWidth-labelWidth, lineHeight, r[1], "", 0, "R", false, 0, "")
		y += lineHeight
	}
	return y
}
