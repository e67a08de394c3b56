package analysis

import (
	"cmp"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"macro-observer/src/models"
)

// Direction is the sort direction of the table.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortSpec is the active table ordering.
type SortSpec struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

// -----------------------------------------------------------------------------

// NextSort flips the direction when field is already active; otherwise text
// fields start ascending and numeric fields descending.
func NextSort(current SortSpec, field SortField) SortSpec {
	if current.Field == field {
		if current.Direction == Descending {
			return SortSpec{Field: field, Direction: Ascending}
		}
		return SortSpec{Field: field, Direction: Descending}
	}
	if field.IsText() {
		return SortSpec{Field: field, Direction: Ascending}
	}
	return SortSpec{Field: field, Direction: Descending}
}

// -----------------------------------------------------------------------------

// Order returns a new slice of records sorted by spec. Numeric nulls compare
// as zero; ties keep their input position. Unknown fields leave input order.
func Order(records []models.MCountryRecord, spec SortSpec) []models.MCountryRecord {
	out := make([]models.MCountryRecord, len(records))
	copy(out, records)

	acc, ok := fieldRegistry[spec.Field]
	if !ok {
		return out
	}

	var compare func(a, b *models.MCountryRecord) int
	if acc.text != nil {
		// Collator keeps internal buffers, one per call.
		col := collate.New(language.English, collate.IgnoreCase)
		compare = func(a, b *models.MCountryRecord) int {
			return col.CompareString(acc.text(a), acc.text(b))
		}
	} else {
		compare = func(a, b *models.MCountryRecord) int {
			return cmp.Compare(valueOrZero(acc.number(a)), valueOrZero(acc.number(b)))
		}
	}

	desc := spec.Direction == Descending
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(&out[i], &out[j])
		if desc {
			c = -c
		}
		return c < 0
	})
	return out
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
