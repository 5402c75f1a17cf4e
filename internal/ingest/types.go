package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rshade/steelcalc/internal/engine"
)

// MaxRows is the default cap on rows read from one source.
const MaxRows = 10000

// Column names. Headers and JSON keys are matched after normalization, so
// "Member Depth" and "member-depth" both address ColMemberDepth.
const (
	ColLabel           = "label"
	ColShape           = "shape"
	ColMemberDepth     = "member_depth"
	ColFlangeWidth     = "flange_width"
	ColGauge           = "gauge"
	ColOutsideDiameter = "outside_diameter"
	ColCWTPrice        = "cwt_price"
)

// Columns lists the known columns in export order.
func Columns() []string {
	return []string{ColLabel, ColShape, ColMemberDepth, ColFlangeWidth, ColGauge, ColOutsideDiameter, ColCWTPrice}
}

// Format is a batch input format.
type Format string

// Supported formats.
const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSON, FormatNDJSON:
		return f, nil
	case "jsonl":
		return FormatNDJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// Options controls reading.
type Options struct {
	// Defaults supplies values for absent or blank columns.
	Defaults engine.Input

	// MaxRows caps the number of data rows; zero means MaxRows.
	MaxRows int

	// Sheet names the XLSX sheet to read; empty means the first sheet.
	Sheet string
}

func (o Options) maxRows() int {
	if o.MaxRows <= 0 {
		return MaxRows
	}
	return o.MaxRows
}

// Record is one raw input row: normalized column name to cell text.
type Record struct {
	Line   int
	Fields map[string]string
}

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for ingest.
var (
	ErrUnsupportedFormat = constError("unsupported batch input format")
	ErrInvalidRow        = constError("invalid batch row")
	ErrTooManyRows       = constError("too many batch rows")
	ErrNoRows            = constError("batch input has no rows")
)
