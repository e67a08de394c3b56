package interfaces

import "macro-observer/src/models"

// -----------------------------------------------------------------------------
// IDatabase defines the contract for the load snapshot archive.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// -----------------------------------------------------------------------------

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveSnapshot archives the raw bundle of one applied load and returns its id.
	SaveSnapshot(loadID uint64, bundle *models.MDashboardBundle) (string, error)

	// -----------------------------------------------------------------------------

	// ListSnapshots returns the most recent archived loads, newest first.
	ListSnapshots(limit int) ([]models.MSnapshotInfo, error)

	// -----------------------------------------------------------------------------

	// GetSnapshot returns the archived bundle stored under id.
	GetSnapshot(id string) (*models.MDashboardBundle, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes data older than the retention policy.
	CleanupOldData() error

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
