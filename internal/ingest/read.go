package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/logging"
)

// ReadRows reads rows from a file, inferring the format from its extension.
func ReadRows(ctx context.Context, path string, opts Options) ([]engine.Row, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening batch input: %w", err)
	}
	defer f.Close()

	rows, err := ReadRowsFrom(ctx, f, format, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadRowsFrom reads rows from r in the given format.
func ReadRowsFrom(ctx context.Context, r io.Reader, format Format, opts Options) ([]engine.Row, error) {
	log := logging.FromContext(ctx)

	records, err := ReadRecords(r, format, opts)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}
	rows, err := MapRecords(records, opts.Defaults)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("format", string(format)).
		Int("rows", len(rows)).
		Msg("batch input read")
	return rows, nil
}

// ReadRecords reads raw records without mapping them.
func ReadRecords(r io.Reader, format Format, opts Options) ([]Record, error) {
	limit := opts.maxRows()
	switch format {
	case FormatCSV:
		return readCSV(r, limit)
	case FormatXLSX:
		return readXLSX(r, opts.Sheet, limit)
	case FormatJSON:
		return readJSON(r, limit)
	case FormatNDJSON:
		return readNDJSON(r, limit)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func tooMany(limit int) error {
	return fmt.Errorf("%w: more than %d", ErrTooManyRows, limit)
}

func readCSV(r io.Reader, limit int) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV header: %w", ErrInvalidRow, err)
	}
	cols := normalizeHeader(header)

	var records []Record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSV: %w", ErrInvalidRow, err)
		}
		line, _ := cr.FieldPos(0)
		rec, ok := recordFromCells(line, cols, fields)
		if !ok {
			continue
		}
		if len(records) == limit {
			return nil, tooMany(limit)
		}
		records = append(records, rec)
	}
	return records, nil
}

func readXLSX(r io.Reader, sheet string, limit int) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %w", ErrInvalidRow, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %w", ErrInvalidRow, sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := normalizeHeader(rows[0])
	var records []Record
	for i, cells := range rows[1:] {
		rec, ok := recordFromCells(i+2, cols, cells)
		if !ok {
			continue
		}
		if len(records) == limit {
			return nil, tooMany(limit)
		}
		records = append(records, rec)
	}
	return records, nil
}

func readJSON(r io.Reader, limit int) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: decoding JSON array: %w", ErrInvalidRow, err)
	}
	if len(objects) > limit {
		return nil, tooMany(limit)
	}

	records := make([]Record, 0, len(objects))
	for i, obj := range objects {
		rec, err := recordFromObject(i+1, obj)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func readNDJSON(r io.Reader, limit int) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(text))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidRow, line, err)
		}
		if len(records) == limit {
			return nil, tooMany(limit)
		}
		rec, err := recordFromObject(line, obj)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading NDJSON: %w", ErrInvalidRow, err)
	}
	return records, nil
}

func normalizeHeader(header []string) []string {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = NormalizeColumn(h)
	}
	return cols
}

// recordFromCells pairs cells with header columns. Rows whose cells are
// all blank are skipped.
func recordFromCells(line int, cols, cells []string) (Record, bool) {
	rec := Record{Line: line, Fields: make(map[string]string, len(cols))}
	blank := true
	for i, col := range cols {
		if i >= len(cells) || col == "" {
			continue
		}
		v := strings.TrimSpace(cells[i])
		if v != "" {
			blank = false
		}
		rec.Fields[col] = v
	}
	return rec, !blank
}

func recordFromObject(line int, obj map[string]any) (Record, error) {
	rec := Record{Line: line, Fields: make(map[string]string, len(obj))}
	for k, v := range obj {
		col := NormalizeColumn(k)
		switch val := v.(type) {
		case nil:
		case string:
			rec.Fields[col] = val
		case json.Number:
			rec.Fields[col] = val.String()
		default:
			return Record{}, fmt.Errorf("%w: line %d: %s: expected a string or number, got %T", ErrInvalidRow, line, k, v)
		}
	}
	return rec, nil
}
