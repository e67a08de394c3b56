package analysis

import (
	"encoding/json"

	"macro-observer/src/models"
)

// DefaultSelectionSize is how many top-GDP countries start selected.
const DefaultSelectionSize = 5

// SelectionSet is an insertion-ordered set of country codes. It is a value
// type; Toggle returns a new set.
type SelectionSet struct {
	codes []string
}

// -----------------------------------------------------------------------------

// NewSelectionSet builds a set from codes, ignoring repeats and empty codes.
func NewSelectionSet(codes ...string) SelectionSet {
	var s SelectionSet
	for _, c := range codes {
		if c != "" && !s.Contains(c) {
			s.codes = append(s.codes, c)
		}
	}
	return s
}

// DefaultSelection is the first n codes by GDP descending.
func DefaultSelection(records []models.MCountryRecord, n int) SelectionSet {
	ordered := Order(records, SortSpec{Field: FieldGDP, Direction: Descending})
	if n > len(ordered) {
		n = len(ordered)
	}
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		codes = append(codes, ordered[i].Code)
	}
	return NewSelectionSet(codes...)
}

// -----------------------------------------------------------------------------

// Toggle adds code at the end if absent and removes it if present.
func (s SelectionSet) Toggle(code string) SelectionSet {
	out := make([]string, 0, len(s.codes)+1)
	found := false
	for _, c := range s.codes {
		if c == code {
			found = true
			continue
		}
		out = append(out, c)
	}
	if !found {
		out = append(out, code)
	}
	return SelectionSet{codes: out}
}

func (s SelectionSet) Contains(code string) bool {
	for _, c := range s.codes {
		if c == code {
			return true
		}
	}
	return false
}

// Codes returns a copy in insertion order.
func (s SelectionSet) Codes() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

func (s SelectionSet) Len() int { return len(s.codes) }

// -----------------------------------------------------------------------------

func (s SelectionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Codes())
}

func (s *SelectionSet) UnmarshalJSON(data []byte) error {
	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return err
	}
	*s = NewSelectionSet(codes...)
	return nil
}
