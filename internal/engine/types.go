package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rshade/steelcalc/internal/tables"
)

// Shape is the cross-section of a member.
type Shape int

// Supported shapes. The zero value is not a shape.
const (
	CStud Shape = iota + 1
	UStud
)

// Shape labels as shown to users.
const (
	CStudLabel = "C Stud/C Joist"
	UStudLabel = "U Stud/Track"
)

// Shapes lists the selectable shapes in display order.
func Shapes() []Shape {
	return []Shape{CStud, UStud}
}

// String returns the display label.
func (s Shape) String() string {
	switch s {
	case CStud:
		return CStudLabel
	case UStud:
		return UStudLabel
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	return s == CStud || s == UStud
}

// ParseShape accepts a display label or a short alias, case-insensitively:
// "c", "cstud", "c-stud", "cjoist" and "C Stud/C Joist" for CStud;
// "u", "ustud", "u-stud", "track" and "U Stud/Track" for UStud.
func ParseShape(s string) (Shape, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
	switch key {
	case "c", "cstud", "cjoist", "cstud/cjoist":
		return CStud, nil
	case "u", "ustud", "track", "ustud/track":
		return UStud, nil
	default:
		return 0, fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownShape, s, CStudLabel, UStudLabel)
	}
}

// MarshalJSON encodes the shape as its label.
func (s Shape) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts anything ParseShape does.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("shape must be a string: %w", err)
	}
	parsed, err := ParseShape(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Input is one set of calculator selections. Lengths are in inches and
// CWTPrice is USD per hundredweight. The inside diameter is fixed at
// InsideDiameter and is not part of the input.
type Input struct {
	Shape           Shape        `json:"shape"`
	MemberDepth     float64      `json:"member_depth"`
	FlangeWidth     float64      `json:"flange_width"`
	Gauge           tables.Gauge `json:"gauge"`
	OutsideDiameter float64      `json:"outside_diameter"`
	CWTPrice        float64      `json:"cwt_price"`
}

// DefaultInput returns the form defaults for the given tables: a C stud,
// 6 inch depth, the smallest flange width, the first gauge, a 50 inch coil
// and $50/cwt.
func DefaultInput(t *tables.Tables) Input {
	in := Input{
		Shape:           CStud,
		MemberDepth:     DefaultMemberDepth,
		OutsideDiameter: DefaultOutsideDiameter,
		CWTPrice:        DefaultCWTPrice,
	}
	if widths := t.FlangeWidths(); len(widths) > 0 {
		in.FlangeWidth = widths[0]
	}
	if gauges := t.Gauges(); len(gauges) > 0 {
		in.Gauge = gauges[0]
	}
	return in
}

// Result holds the ten derived outputs. Lengths are in inches except
// MaterialLength (feet); Area is square feet; prices are USD.
type Result struct {
	LipLength        float64 `json:"lip_length"`
	Thickness        float64 `json:"thickness"`
	CoilWidth        float64 `json:"coil_width"`
	MaterialLength   float64 `json:"material_length"`
	Area             float64 `json:"area"`
	PIW              float64 `json:"piw"`
	Weight           float64 `json:"weight"`
	PricePerCoil     float64 `json:"price_per_coil"`
	PricePerLinearFt float64 `json:"price_per_linear_ft"`
	PricePerSqft     float64 `json:"price_per_sqft"`
}

// Lookup is the read side of the reference tables.
type Lookup interface {
	LipLength(flangeWidth float64) (float64, error)
	Thickness(gauge tables.Gauge) (float64, error)
}

// Row is one input of a batch. Line is the 1-based position in the
// source (a file line, sheet row or array index) used in error messages.
type Row struct {
	Line  int    `json:"line"`
	Label string `json:"label,omitempty"`
	Input Input  `json:"input"`
}
