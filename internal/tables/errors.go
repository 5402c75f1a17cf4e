package tables

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for reference table construction and lookup.
var (
	// ErrKeyNotFound means a flange width or gauge is not a key of its table.
	// When selectors and tables share one key source this is a data fault,
	// never a user error.
	ErrKeyNotFound = constError("key not found in reference table")

	// ErrInvalidTable means reference data is malformed: a missing column,
	// an unparseable or out-of-domain value, or a duplicate key.
	ErrInvalidTable = constError("invalid reference table")

	// ErrUnsupportedFormat means a reference file extension is not csv, yaml or xlsx.
	ErrUnsupportedFormat = constError("unsupported reference table format")
)
