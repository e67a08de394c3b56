package interfaces

import (
	"context"

	"macro-observer/src/models"
)

// -----------------------------------------------------------------------------
// IDataSource fetches one complete dashboard bundle from the remote service.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchDashboard performs one load. ctx only bounds the HTTP round trip.
	FetchDashboard(ctx context.Context, params models.MFetchParams) (*models.MDashboardBundle, error)
}

// -----------------------------------------------------------------------------
// IStockSource returns single-stock financial snapshots.
// -----------------------------------------------------------------------------

type IStockSource interface {
	Name() string

	// -----------------------------------------------------------------------------

	FetchSnapshot(ctx context.Context, symbol string) (*models.MStockSnapshot, error)
}
