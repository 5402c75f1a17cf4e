package engine

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer adds English thousands separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// Field is one output value with its display metadata.
type Field struct {
	// Key is the JSON field name.
	Key       string
	Label     string
	Unit      string
	Precision int
	Currency  bool
	Value     float64
}

// Text formats the value at the field's fixed precision with no grouping,
// e.g. "4610.66".
func (f Field) Text() string {
	return strconv.FormatFloat(f.Value, 'f', f.Precision, 64)
}

// Display formats the value with thousands separators and a leading "$"
// for currency, e.g. "$2,305.33" or "4,610.66".
func (f Field) Display() string {
	s := printer.Sprintf(fmt.Sprintf("%%.%df", f.Precision), f.Value)
	if f.Currency {
		if f.Value < 0 {
			return "-$" + s[1:]
		}
		return "$" + s
	}
	return s
}

// DisplayWithUnit is Display followed by the unit, if any.
func (f Field) DisplayWithUnit() string {
	if f.Unit == "" {
		return f.Display()
	}
	return f.Display() + " " + f.Unit
}

// Field keys, in display order.
const (
	KeyLipLength        = "lip_length"
	KeyThickness        = "thickness"
	KeyCoilWidth        = "coil_width"
	KeyMaterialLength   = "material_length"
	KeyArea             = "area"
	KeyPIW              = "piw"
	KeyWeight           = "weight"
	KeyPricePerCoil     = "price_per_coil"
	KeyPricePerLinearFt = "price_per_linear_ft"
	KeyPricePerSqft     = "price_per_sqft"
)

// Fields returns the outputs in display order.
func (r Result) Fields() []Field {
	return []Field{
		{Key: KeyLipLength, Label: "Lip Length", Unit: "in", Precision: 3, Value: r.LipLength},
		{Key: KeyThickness, Label: "Thickness", Unit: "in", Precision: 4, Value: r.Thickness},
		{Key: KeyCoilWidth, Label: "Coil Width", Unit: "in", Precision: 3, Value: r.CoilWidth},
		{Key: KeyMaterialLength, Label: "Material Length", Unit: "ft", Precision: 2, Value: r.MaterialLength},
		{Key: KeyArea, Label: "Area", Unit: "sq ft", Precision: 2, Value: r.Area},
		{Key: KeyPIW, Label: "PIW", Unit: "lbs", Precision: 2, Value: r.PIW},
		{Key: KeyWeight, Label: "Weight", Unit: "lbs", Precision: 2, Value: r.Weight},
		{Key: KeyPricePerCoil, Label: "Price/Coil", Precision: 2, Currency: true, Value: r.PricePerCoil},
		{Key: KeyPricePerLinearFt, Label: "Price/Linear Ft", Precision: 4, Currency: true, Value: r.PricePerLinearFt},
		{Key: KeyPricePerSqft, Label: "Price/Sqft", Precision: 4, Currency: true, Value: r.PricePerSqft},
	}
}

// Texts maps each field key to Field.Text.
func (r Result) Texts() map[string]string {
	fields := r.Fields()
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Text()
	}
	return out
}

// InputField is one input line for display.
type InputField struct {
	Label string
	Value string
}

// Fields returns the inputs in form order, including the fixed inside
// diameter.
func (in Input) Fields() []InputField {
	return []InputField{
		{Label: "Shape", Value: in.Shape.String()},
		{Label: "Member Depth", Value: FormatInches(in.MemberDepth)},
		{Label: "Flange Width", Value: FormatInches(in.FlangeWidth)},
		{Label: "Gauge", Value: string(in.Gauge) + " ga"},
		{Label: "Outside Diameter", Value: FormatInches(in.OutsideDiameter)},
		{Label: "Inside Diameter", Value: FormatInches(InsideDiameter) + " (fixed)"},
		{Label: "CWT Price", Value: printer.Sprintf("$%.2f", in.CWTPrice)},
	}
}

// FormatInches formats a length with the shortest exact decimal and an
// "in" unit.
func FormatInches(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " in"
}
