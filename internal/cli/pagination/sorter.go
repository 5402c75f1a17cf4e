package pagination

import (
	"cmp"
	"slices"
	"sort"

	"github.com/rshade/steelcalc/internal/engine"
	"github.com/rshade/steelcalc/internal/engine/batch"
)

// Sort fields that are not result keys.
const (
	FieldLine  = "line"
	FieldLabel = "label"
)

// OutcomeSorter sorts batch outcomes by input line, label, or any result
// key (engine.Key*).
type OutcomeSorter struct {
	validFields map[string]bool
}

// NewOutcomeSorter creates a sorter accepting line, label and the ten
// result keys.
func NewOutcomeSorter() *OutcomeSorter {
	fields := map[string]bool{FieldLine: true, FieldLabel: true}
	for _, f := range (engine.Result{}).Fields() {
		fields[f.Key] = true
	}
	return &OutcomeSorter{validFields: fields}
}

// IsValidField checks if the field is valid for sorting.
func (s *OutcomeSorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// GetValidFields returns all valid sort fields.
func (s *OutcomeSorter) GetValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for field := range s.validFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Sort returns a sorted copy of outcomes. Ties keep input order. When
// sorting by a result field, failed rows go last in either order. An
// invalid field returns outcomes unchanged.
func (s *OutcomeSorter) Sort(outcomes []batch.Outcome, field, order string) []batch.Outcome {
	if !s.IsValidField(field) {
		return outcomes
	}

	sorted := slices.Clone(outcomes)
	desc := order == SortOrderDesc
	slices.SortStableFunc(sorted, func(a, b batch.Outcome) int {
		var c int
		switch field {
		case FieldLine:
			c = cmp.Compare(a.Row.Line, b.Row.Line)
		case FieldLabel:
			c = cmp.Compare(a.Row.Label, b.Row.Label)
		default:
			if a.OK() != b.OK() {
				if a.OK() {
					return -1
				}
				return 1
			}
			c = cmp.Compare(resultValue(a.Result, field), resultValue(b.Result, field))
		}
		if desc {
			return -c
		}
		return c
	})
	return sorted
}

func resultValue(r engine.Result, key string) float64 {
	for _, f := range r.Fields() {
		if f.Key == key {
			return f.Value
		}
	}
	return 0
}
