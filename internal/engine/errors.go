package engine

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for calculation.
var (
	// ErrInvalidInput means an input is below its minimum, not finite, or
	// names an unknown shape.
	ErrInvalidInput = constError("invalid calculation input")

	// ErrInvalidThickness means a Lookup returned a thickness that is not a
	// positive finite number. Tables built by the tables package never do.
	ErrInvalidThickness = constError("thickness must be a positive finite number")

	// ErrUnknownShape is returned by ParseShape.
	ErrUnknownShape = constError("unknown shape")
)
