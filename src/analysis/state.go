package analysis

import "fmt"

// DashboardState is the whole UI session state. Every change goes through Reduce.
type DashboardState struct {
	Sort      SortSpec     `json:"sort"`
	Page      int          `json:"page"`
	Selection SelectionSet `json:"selection"`
}

// Action is one user interaction.
type Action interface {
	Name() string
}

type SortBy struct{ Field SortField }
type GoToPage struct{ Page int }
type ToggleCountry struct{ Code string }
type Reset struct{}

func (SortBy) Name() string        { return "sort" }
func (GoToPage) Name() string      { return "page" }
func (ToggleCountry) Name() string { return "toggle" }
func (Reset) Name() string         { return "reset" }

// -----------------------------------------------------------------------------

// DefaultState sorts by GDP descending on page 1 with the top countries selected.
func DefaultState(store *RecordStore) DashboardState {
	if store == nil {
		store = NewRecordStore(nil)
	}
	return DashboardState{
		Sort:      SortSpec{Field: FieldGDP, Direction: Descending},
		Page:      1,
		Selection: DefaultSelection(store.countries, DefaultSelectionSize),
	}
}

// -----------------------------------------------------------------------------

// Reduce applies action to state. On error the input state is returned unchanged.
func Reduce(state DashboardState, store *RecordStore, action Action) (DashboardState, error) {
	if store == nil {
		store = NewRecordStore(nil)
	}

	switch a := action.(type) {
	case SortBy:
		if _, ok := fieldRegistry[a.Field]; !ok {
			return state, fmt.Errorf("%w: %q", ErrUnknownField, a.Field)
		}
		state.Sort = NextSort(state.Sort, a.Field)
		state.Page = 1
		return state, nil

	case GoToPage:
		state.Page = ClampPage(a.Page, TotalPages(store.Len()))
		return state, nil

	case ToggleCountry:
		if !store.Has(a.Code) {
			return state, fmt.Errorf("%w: %q", ErrUnknownCountry, a.Code)
		}
		state.Selection = state.Selection.Toggle(a.Code)
		return state, nil

	case Reset:
		return DefaultState(store), nil

	default:
		return state, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
}
