package analysis

import "errors"

var (
	// ErrUnknownField is returned for sort field names outside AllSortFields.
	ErrUnknownField = errors.New("unknown sort field")
	// ErrUnknownCountry is returned when a toggled code is not in the store.
	ErrUnknownCountry = errors.New("unknown country code")
	// ErrUnknownAction is returned by Reduce for action types it does not handle.
	ErrUnknownAction = errors.New("unknown action")
)
