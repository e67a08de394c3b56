package models

import "time"

// -----------------------------------------------------------------------------
// Load status exposed next to the dashboard state
// -----------------------------------------------------------------------------

type MLoadStatus struct {
	LoadID   uint64    `json:"load_id"`
	Loading  bool      `json:"loading"`
	Loaded   bool      `json:"loaded"`
	Error    string    `json:"error,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

// -----------------------------------------------------------------------------
// MClientCommand for websocket client messages
// -----------------------------------------------------------------------------

type MClientCommand struct {
	Command string `json:"command"` // "sort", "page", "toggle", "reload"
	Field   string `json:"field,omitempty"`
	Page    int    `json:"page,omitempty"`
	Code    string `json:"code,omitempty"`
}

// -----------------------------------------------------------------------------
// MSnapshotInfo describes one archived load
// -----------------------------------------------------------------------------

type MSnapshotInfo struct {
	ID             string    `json:"id"`
	LoadID         uint64    `json:"load_id"`
	GeneratedAt    string    `json:"generated_at"`
	CountriesCount int       `json:"countries_count"`
	CreatedAt      time.Time `json:"created_at"`
}
