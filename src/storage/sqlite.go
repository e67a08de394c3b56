package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"macro-observer/src/helpers"
	"macro-observer/src/logger"
	"macro-observer/src/models"
)

// ErrSnapshotNotFound is returned by GetSnapshot for unknown ids.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// -----------------------------------------------------------------------------

type AsyncSQLiteDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
	now    func() time.Time
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg *models.MConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	return &AsyncSQLiteDB{
		Config: cfg,
		Logger: log,
		now:    time.Now,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	dsn := d.Config.Storage.DBPath

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return helpers.NewDatabaseError("open sqlite", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("ping sqlite", err)
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS load_snapshots (
			id TEXT PRIMARY KEY,
			load_id INTEGER NOT NULL,
			generated_at TEXT,
			countries_count INTEGER,
			payload TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("create load_snapshots", err)
	}
	if _, err := d.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_load_snapshots_created ON load_snapshots (created_at)`); err != nil {
		return helpers.NewDatabaseError("create load_snapshots index", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) SaveSnapshot(loadID uint64, bundle *models.MDashboardBundle) (string, error) {
	row, err := newSnapshotRow(loadID, bundle, d.now())
	if err != nil {
		return "", err
	}

	_, err = d.DB.Exec(`
		INSERT INTO load_snapshots (id, load_id, generated_at, countries_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, row.ID, int64(row.LoadID), row.GeneratedAt, row.CountriesCount, string(row.Payload), row.CreatedAt)
	if err != nil {
		return "", helpers.NewDatabaseError("insert snapshot", err)
	}
	return row.ID, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) ListSnapshots(limit int) ([]models.MSnapshotInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.DB.Query(`
		SELECT id, load_id, generated_at, countries_count, created_at
		FROM load_snapshots
		ORDER BY created_at DESC, load_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, helpers.NewDatabaseError("list snapshots", err)
	}
	defer rows.Close()

	out := []models.MSnapshotInfo{}
	for rows.Next() {
		var r snapshotRow
		var loadID int64
		var generatedAt sql.NullString
		if err := rows.Scan(&r.ID, &loadID, &generatedAt, &r.CountriesCount, &r.CreatedAt); err != nil {
			return nil, helpers.NewDatabaseError("scan snapshot", err)
		}
		r.LoadID = uint64(loadID)
		r.GeneratedAt = generatedAt.String
		out = append(out, r.info())
	}
	if err := rows.Err(); err != nil {
		return nil, helpers.NewDatabaseError("list snapshots", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) GetSnapshot(id string) (*models.MDashboardBundle, error) {
	var payload string
	err := d.DB.QueryRow(`SELECT payload FROM load_snapshots WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, helpers.NewDatabaseError("get snapshot", err)
	}
	return decodeSnapshot(id, []byte(payload))
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) CleanupOldData() error {
	cutoff, ok := retentionCutoff(d.Config.Storage.RetentionDays, d.now())
	if !ok {
		return nil
	}

	res, err := d.DB.Exec("DELETE FROM load_snapshots WHERE created_at < ?", cutoff)
	if err != nil {
		return helpers.NewDatabaseError("cleanup snapshots", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		d.Logger.Info("Cleanup removed %d snapshots older than %d days", n, d.Config.Storage.RetentionDays)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
