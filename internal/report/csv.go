package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/engine/batch"
	"github.com/rshade/steelcalc/internal/ingest"
)

// ColError holds the row error message in exported tables.
const ColError = "error"

// Header returns the export columns: line, the input columns, the ten
// result keys and the error column.
func Header() []string {
	header := []string{"line"}
	header = append(header, ingest.Columns()...)
	for _, f := range (engine.Result{}).Fields() {
		header = append(header, f.Key)
	}
	return append(header, ColError)
}

// Record returns one outcome as text cells matching Header. Results use
// the display precisions; failed rows leave the result cells empty.
func Record(o batch.Outcome) []string {
	in := o.Row.Input
	rec := []string{
		strconv.Itoa(o.Row.Line),
		o.Row.Label,
		shapeText(in.Shape),
		formatFloat(in.MemberDepth),
		formatFloat(in.FlangeWidth),
		string(in.Gauge),
		formatFloat(in.OutsideDiameter),
		formatFloat(in.CWTPrice),
	}
	for _, f := range o.Result.Fields() {
		if o.Err != nil {
			rec = append(rec, "")
			continue
		}
		rec = append(rec, f.Text())
	}
	if o.Err != nil {
		return append(rec, o.Err.Error())
	}
	return append(rec, "")
}

// WriteCSV writes a header and one record per outcome.
func WriteCSV(w io.Writer, outcomes []batch.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, o := range outcomes {
		if err := cw.Write(Record(o)); err != nil {
			return fmt.Errorf("writing CSV line %d: %w", o.Row.Line, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func shapeText(s engine.Shape) string {
	if !s.Valid() {
		return ""
	}
	return s.String()
}
