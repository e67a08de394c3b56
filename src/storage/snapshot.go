package storage

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"macro-observer/src/helpers"
	"macro-observer/src/models"
)

// snapshotRow is one archived load as stored by both backends.
type snapshotRow struct {
	ID             string
	LoadID         uint64
	GeneratedAt    string
	CountriesCount int
	Payload        []byte
	CreatedAt      int64
}

// -----------------------------------------------------------------------------

func newSnapshotRow(loadID uint64, bundle *models.MDashboardBundle, now time.Time) (snapshotRow, error) {
	if bundle == nil {
		return snapshotRow{}, helpers.NewValidationError("nil bundle for load %d", loadID)
	}
	payload, err := json.Marshal(bundle)
	if err != nil {
		return snapshotRow{}, helpers.NewDatabaseError("encode snapshot", err)
	}
	return snapshotRow{
		ID:             uuid.NewString(),
		LoadID:         loadID,
		GeneratedAt:    bundle.GeneratedAt,
		CountriesCount: len(bundle.Countries),
		Payload:        payload,
		CreatedAt:      now.UTC().Unix(),
	}, nil
}

// -----------------------------------------------------------------------------

func (r snapshotRow) info() models.MSnapshotInfo {
	return models.MSnapshotInfo{
		ID:             r.ID,
		LoadID:         r.LoadID,
		GeneratedAt:    r.GeneratedAt,
		CountriesCount: r.CountriesCount,
		CreatedAt:      time.Unix(r.CreatedAt, 0).UTC(),
	}
}

// -----------------------------------------------------------------------------

func decodeSnapshot(id string, payload []byte) (*models.MDashboardBundle, error) {
	var bundle models.MDashboardBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return nil, helpers.NewDatabaseError("decode snapshot "+id, err)
	}
	return &bundle, nil
}

// retentionCutoff is the unix time before which snapshots expire; ok is false
// when retention is disabled.
func retentionCutoff(days int, now time.Time) (int64, bool) {
	if days <= 0 {
		return 0, false
	}
	return now.UTC().AddDate(0, 0, -days).Unix(), true
}
