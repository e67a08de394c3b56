package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"macro-observer/src/helpers"
	"macro-observer/src/logger"
	"macro-observer/src/models"
)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
	now    func() time.Time
}

// -----------------------------------------------------------------------------

// NewPostgresDB names the schema after the running executable.
func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, helpers.NewConfigurationError("failed to get executable name", err)
	}
	name := filepath.Base(exe)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &PostgresDB{
		Config: cfg,
		Schema: name,
		Logger: log,
		now:    time.Now,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) table() string {
	return fmt.Sprintf(`"%s".load_snapshots`, d.Schema)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	db, err := sql.Open("postgres", d.Config.Storage.DBConnectionString)
	if err != nil {
		return helpers.NewDatabaseError("open postgres", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("ping postgres", err)
	}
	d.DB = db

	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("create schema %s", d.Schema), err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			load_id BIGINT NOT NULL,
			generated_at TEXT,
			countries_count INTEGER,
			payload JSONB NOT NULL,
			created_at BIGINT NOT NULL
		);
	`, d.table())
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("create load_snapshots", err)
	}
	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE INDEX IF NOT EXISTS load_snapshots_created_idx ON %s (created_at)`, d.table())); err != nil {
		return helpers.NewDatabaseError("create load_snapshots index", err)
	}

	d.Logger.Info("PostgresDB: schema %q ready", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveSnapshot(loadID uint64, bundle *models.MDashboardBundle) (string, error) {
	row, err := newSnapshotRow(loadID, bundle, d.now())
	if err != nil {
		return "", err
	}

	_, err = d.DB.Exec(fmt.Sprintf(`
		INSERT INTO %s (id, load_id, generated_at, countries_count, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.table()), row.ID, int64(row.LoadID), row.GeneratedAt, row.CountriesCount, string(row.Payload), row.CreatedAt)
	if err != nil {
		return "", helpers.NewDatabaseError("insert snapshot", err)
	}
	return row.ID, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) ListSnapshots(limit int) ([]models.MSnapshotInfo, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.DB.Query(fmt.Sprintf(`
		SELECT id, load_id, generated_at, countries_count, created_at
		FROM %s
		ORDER BY created_at DESC, load_id DESC
		LIMIT $1
	`, d.table()), limit)
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

func (d *PostgresDB) GetSnapshot(id string) (*models.MDashboardBundle, error) {
	var payload []byte
	err := d.DB.QueryRow(fmt.Sprintf(`SELECT payload FROM %s WHERE id = $1`, d.table()), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, helpers.NewDatabaseError("get snapshot", err)
	}
	return decodeSnapshot(id, payload)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) CleanupOldData() error {
	cutoff, ok := retentionCutoff(d.Config.Storage.RetentionDays, d.now())
	if !ok {
		return nil
	}

	res, err := d.DB.Exec(fmt.Sprintf("DELETE FROM %s WHERE created_at < $1", d.table()), cutoff)
	if err != nil {
		return helpers.NewDatabaseError("cleanup snapshots", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		d.Logger.Info("Cleanup removed %d snapshots older than %d days", n, d.Config.Storage.RetentionDays)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
