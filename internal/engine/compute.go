package engine

import (
	"fmt"
	"math"
)

// referenceAnnulus is OD²−ID² of the reference coil.
const referenceAnnulus = ReferenceOutsideDiameter*ReferenceOutsideDiameter - InsideDiameter*InsideDiameter

// Compute derives the ten outputs for in. The flange lookup is skipped for
// UStud. The only guarded divisions are the two per-unit prices, which are
// zero when material length or coil width is zero.
func Compute(in Input, t Lookup) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	var lip float64
	if in.Shape == CStud {
		l, err := t.LipLength(in.FlangeWidth)
		if err != nil {
			return Result{}, err
		}
		lip = l
	}

	thickness, err := t.Thickness(in.Gauge)
	if err != nil {
		return Result{}, err
	}
	if !finite(thickness) || thickness <= 0 {
		return Result{}, fmt.Errorf("%w: gauge %s has thickness %v", ErrInvalidThickness, in.Gauge, thickness)
	}

	var coilWidth float64
	if in.Shape == CStud {
		coilWidth = in.MemberDepth + 2*in.FlangeWidth + 2*lip - CStudThicknessDeduction*thickness
	} else {
		coilWidth = in.MemberDepth + 2*in.FlangeWidth - UStudThicknessDeduction*thickness
	}

	annulus := in.OutsideDiameter*in.OutsideDiameter - InsideDiameter*InsideDiameter
	materialLength := math.Pi * annulus / LengthDivisor / thickness
	area := materialLength * thickness / InchesPerFoot
	piw := ReferencePIW / referenceAnnulus * annulus
	weight := piw * coilWidth
	pricePerCoil := in.CWTPrice * weight / PoundsPerCWT

	var pricePerLinearFt float64
	if materialLength != 0 {
		pricePerLinearFt = pricePerCoil / materialLength
	}
	var pricePerSqft float64
	if coilWidth != 0 {
		pricePerSqft = pricePerLinearFt / coilWidth * InchesPerFoot
	}

	res := Result{
		LipLength:        lip,
		Thickness:        thickness,
		CoilWidth:        coilWidth,
		MaterialLength:   materialLength,
		Area:             area,
		PIW:              piw,
		Weight:           weight,
		PricePerCoil:     pricePerCoil,
		PricePerLinearFt: pricePerLinearFt,
		PricePerSqft:     pricePerSqft,
	}
	if !res.finite() {
		return Result{}, fmt.Errorf("%w: outside_diameter %v or cwt_price %v overflows the derived values", ErrInvalidInput, in.OutsideDiameter, in.CWTPrice)
	}
	return res, nil
}

func (r Result) finite() bool {
	for _, v := range []float64{
		r.CoilWidth, r.MaterialLength, r.Area, r.PIW, r.Weight,
		r.PricePerCoil, r.PricePerLinearFt, r.PricePerSqft,
	} {
		if !finite(v) {
			return false
		}
	}
	return true
}
