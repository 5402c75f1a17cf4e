package engine

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks the input minimums: depth, outside diameter and price
// must be finite and >= 0, flange width finite and > 0, the shape known
// and the gauge non-empty. Table membership is checked by Compute.
func (in Input) Validate() error {
	if !in.Shape.Valid() {
		return fmt.Errorf("%w: shape: %w", ErrInvalidInput, ErrUnknownShape)
	}
	if err := nonNegative("member_depth", in.MemberDepth); err != nil {
		return err
	}
	if !finite(in.FlangeWidth) || in.FlangeWidth <= 0 {
		return fmt.Errorf("%w: flange_width %v must be > 0", ErrInvalidInput, in.FlangeWidth)
	}
	if strings.TrimSpace(string(in.Gauge)) == "" {
		return fmt.Errorf("%w: gauge is required", ErrInvalidInput)
	}
	if err := nonNegative("outside_diameter", in.OutsideDiameter); err != nil {
		return err
	}
	return nonNegative("cwt_price", in.CWTPrice)
}

func nonNegative(field string, v float64) error {
	if !finite(v) || v < 0 {
		return fmt.Errorf("%w: %s %v must be >= 0", ErrInvalidInput, field, v)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
