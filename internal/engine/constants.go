package engine

// Coil geometry.
const (
	// InsideDiameter is the fixed coil inside diameter in inches.
	InsideDiameter = 20.0

	// ReferenceOutsideDiameter is the outside diameter, in inches, at which
	// a coil weighs ReferencePIW pounds per inch of width.
	ReferenceOutsideDiameter = 50.0

	// ReferencePIW is the pounds per inch of width of a reference coil.
	ReferencePIW = 467.26
)

// Unfolding deductions applied per thickness when computing coil width.
const (
	// CStudThicknessDeduction covers the four bends of a lipped C section.
	CStudThicknessDeduction = 8.0

	// UStudThicknessDeduction covers the two bends of an unlipped U section.
	UStudThicknessDeduction = 4.0
)

// Unit conversions.
const (
	// LengthDivisor converts π·(OD²−ID²)/thickness, all in inches, to feet
	// of strip.
	LengthDivisor = 48.0

	// InchesPerFoot converts inches to feet.
	InchesPerFoot = 12.0

	// PoundsPerCWT is one hundredweight.
	PoundsPerCWT = 100.0
)

// Form defaults.
const (
	DefaultMemberDepth     = 6.0
	DefaultOutsideDiameter = 50.0
	DefaultCWTPrice        = 50.0
)
