package tables

import (
	"bytes"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Column names used by the reference data files.
const (
	ColFlangeWidth = "Flange Width"
	ColLipLength   = "Lip Length"
	ColGauge       = "Gauge"
	ColThickness   = "Thickness"
)

// Sheet names read from a combined XLSX workbook.
const (
	SheetFlange = "flange"
	SheetGauge  = "gauge"
)

const (
	embeddedFlangeFile = "data/flange_lip.csv"
	embeddedGaugeFile  = "data/gauge_thickness.csv"
)

//go:embed data/*.csv
var embedded embed.FS

// Default returns the tables built from the embedded reference data.
func Default() (*Tables, error) {
	flangeData, err := embedded.ReadFile(embeddedFlangeFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded flange table: %w", err)
	}
	gaugeData, err := embedded.ReadFile(embeddedGaugeFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded gauge table: %w", err)
	}
	return LoadCSV(bytes.NewReader(flangeData), bytes.NewReader(gaugeData), Source{
		Flange: "embedded:" + filepath.Base(embeddedFlangeFile),
		Gauge:  "embedded:" + filepath.Base(embeddedGaugeFile),
	})
}

// MustDefault is Default for package initialization and tests; it panics
// if the embedded data is invalid.
func MustDefault() *Tables {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// LoadCSV reads the flange and gauge tables from two CSV streams whose
// first record is a header naming the columns.
func LoadCSV(flange, gauge io.Reader, src Source) (*Tables, error) {
	flangeRows, err := readFlangeCSV(flange)
	if err != nil {
		return nil, err
	}
	gaugeRows, err := readGaugeCSV(gauge)
	if err != nil {
		return nil, err
	}
	return New(flangeRows, gaugeRows, src)
}

// yamlDocument is the YAML layout holding both tables.
type yamlDocument struct {
	FlangeWidths []FlangeRow `yaml:"flange_widths"`
	Gauges       []GaugeRow  `yaml:"gauges"`
}

// LoadYAML reads both tables from one YAML document.
func LoadYAML(r io.Reader, src Source) (*Tables, error) {
	doc, err := decodeYAML(r)
	if err != nil {
		return nil, err
	}
	return New(doc.FlangeWidths, doc.Gauges, src)
}

// LoadXLSX reads both tables from the "flange" and "gauge" sheets of a workbook.
func LoadXLSX(r io.Reader, src Source) (*Tables, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %w", ErrInvalidTable, err)
	}
	defer f.Close()

	flangeRows, err := flangeRowsFromSheet(f, SheetFlange)
	if err != nil {
		return nil, err
	}
	gaugeRows, err := gaugeRowsFromSheet(f, SheetGauge)
	if err != nil {
		return nil, err
	}
	return New(flangeRows, gaugeRows, src)
}

// LoadFiles loads the tables from disk. When gaugePath is empty, flangePath
// must be a combined YAML or XLSX file holding both tables. Otherwise each
// path is read on its own and may be csv, yaml or xlsx.
func LoadFiles(flangePath, gaugePath string) (*Tables, error) {
	if gaugePath == "" || gaugePath == flangePath {
		return loadCombined(flangePath)
	}

	flangeRows, err := readFlangeFile(flangePath)
	if err != nil {
		return nil, err
	}
	gaugeRows, err := readGaugeFile(gaugePath)
	if err != nil {
		return nil, err
	}
	return New(flangeRows, gaugeRows, Source{Flange: flangePath, Gauge: gaugePath})
}

func loadCombined(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference tables %s: %w", path, err)
	}
	defer f.Close()

	src := Source{Flange: path, Gauge: path}
	switch ext(path) {
	case ".yaml", ".yml":
		return LoadYAML(f, src)
	case ".xlsx":
		return LoadXLSX(f, src)
	default:
		return nil, fmt.Errorf("%w: %s holds one table only, a gauge file is also required",
			ErrUnsupportedFormat, path)
	}
}

func readFlangeFile(path string) ([]FlangeRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening flange table %s: %w", path, err)
	}
	defer f.Close()

	switch ext(path) {
	case ".csv":
		return readFlangeCSV(f)
	case ".yaml", ".yml":
		doc, err := decodeYAML(f)
		if err != nil {
			return nil, err
		}
		return doc.FlangeWidths, nil
	case ".xlsx":
		wb, err := excelize.OpenReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: opening workbook %s: %w", ErrInvalidTable, path, err)
		}
		defer wb.Close()
		return flangeRowsFromSheet(wb, SheetFlange)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func readGaugeFile(path string) ([]GaugeRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gauge table %s: %w", path, err)
	}
	defer f.Close()

	switch ext(path) {
	case ".csv":
		return readGaugeCSV(f)
	case ".yaml", ".yml":
		doc, err := decodeYAML(f)
		if err != nil {
			return nil, err
		}
		return doc.Gauges, nil
	case ".xlsx":
		wb, err := excelize.OpenReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: opening workbook %s: %w", ErrInvalidTable, path, err)
		}
		defer wb.Close()
		return gaugeRowsFromSheet(wb, SheetGauge)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func decodeYAML(r io.Reader) (yamlDocument, error) {
	var doc yamlDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return doc, fmt.Errorf("%w: parsing YAML: %w", ErrInvalidTable, err)
	}
	return doc, nil
}

func readFlangeCSV(r io.Reader) ([]FlangeRow, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return flangeRowsFromRecords(records)
}

func readGaugeCSV(r io.Reader) ([]GaugeRow, error) {
	records, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	return gaugeRowsFromRecords(records)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV: %w", ErrInvalidTable, err)
	}
	return records, nil
}

func flangeRowsFromSheet(f *excelize.File, sheet string) ([]FlangeRow, error) {
	records, err := sheetRecords(f, sheet)
	if err != nil {
		return nil, err
	}
	return flangeRowsFromRecords(records)
}

func gaugeRowsFromSheet(f *excelize.File, sheet string) ([]GaugeRow, error) {
	records, err := sheetRecords(f, sheet)
	if err != nil {
		return nil, err
	}
	return gaugeRowsFromRecords(records)
}

// sheetRecords reads the named sheet, falling back to the first sheet when
// the workbook has exactly one.
func sheetRecords(f *excelize.File, sheet string) ([][]string, error) {
	name := sheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) != 1 {
			return nil, fmt.Errorf("%w: workbook has no %q sheet", ErrInvalidTable, sheet)
		}
		name = sheets[0]
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %w", ErrInvalidTable, name, err)
	}
	return rows, nil
}

func flangeRowsFromRecords(records [][]string) ([]FlangeRow, error) {
	cols, body, err := columns(records, ColFlangeWidth, ColLipLength)
	if err != nil {
		return nil, err
	}
	rows := make([]FlangeRow, 0, len(body))
	for i, rec := range body {
		if blank(rec) {
			continue
		}
		line := i + 2
		width, err := ParseFlangeWidth(field(rec, cols[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidTable, line, err)
		}
		lip, err := ParseInches(field(rec, cols[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: lip length: %w", ErrInvalidTable, line, err)
		}
		rows = append(rows, FlangeRow{FlangeWidth: width, LipLength: lip})
	}
	return rows, nil
}

func gaugeRowsFromRecords(records [][]string) ([]GaugeRow, error) {
	cols, body, err := columns(records, ColGauge, ColThickness)
	if err != nil {
		return nil, err
	}
	rows := make([]GaugeRow, 0, len(body))
	for i, rec := range body {
		if blank(rec) {
			continue
		}
		line := i + 2
		thickness, err := strconv.ParseFloat(strings.TrimSpace(field(rec, cols[1])), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: thickness: %w", ErrInvalidTable, line, err)
		}
		rows = append(rows, GaugeRow{Gauge: ParseGauge(field(rec, cols[0])), Thickness: thickness})
	}
	return rows, nil
}

// columns locates the wanted columns in the header record. Header matching
// ignores case, spaces and underscores.
func columns(records [][]string, want ...string) ([]int, [][]string, error) {
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: missing header row", ErrInvalidTable)
	}
	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[normalizeHeader(name)] = i
	}
	idx := make([]int, len(want))
	for i, name := range want {
		col, ok := header[normalizeHeader(name)]
		if !ok {
			return nil, nil, fmt.Errorf("%w: missing column %q", ErrInvalidTable, name)
		}
		idx[i] = col
	}
	return idx, records[1:], nil
}

// normalizeHeader folds a column name for matching.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return rec[i]
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
