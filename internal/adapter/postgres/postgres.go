// Package postgres archives parsed EPW datasets for later retrieval. Storage
// is idempotent by dataset ID, so re-parsing the same file is a no-op.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/niprotogeros/epw-visualizer/internal/pipeline"
)

// Store persists parsed datasets in PostgreSQL.
// It implements pipeline.Archiver.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS datasets (
	dataset_id     TEXT PRIMARY KEY,
	city           TEXT NOT NULL,
	state_province TEXT NOT NULL,
	country        TEXT NOT NULL,
	data_type      TEXT NOT NULL,
	wmo            TEXT NOT NULL,
	latitude       DOUBLE PRECISION,
	longitude      DOUBLE PRECISION,
	time_zone      DOUBLE PRECISION,
	altitude       DOUBLE PRECISION,
	source_year    INTEGER,
	unified_year   INTEGER NOT NULL,
	row_count      INTEGER NOT NULL,
	parsed_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS observations (
	dataset_id                     TEXT NOT NULL REFERENCES datasets (dataset_id) ON DELETE CASCADE,
	observed_at                    TIMESTAMP NOT NULL,
	dry_bulb_temperature           DOUBLE PRECISION,
	dew_point_temperature          DOUBLE PRECISION,
	relative_humidity              DOUBLE PRECISION,
	atmospheric_pressure           DOUBLE PRECISION,
	horizontal_infrared_radiation  DOUBLE PRECISION,
	global_horizontal_radiation    DOUBLE PRECISION,
	direct_normal_radiation        DOUBLE PRECISION,
	diffuse_horizontal_radiation   DOUBLE PRECISION,
	global_horizontal_illuminance  DOUBLE PRECISION,
	direct_normal_illuminance      DOUBLE PRECISION,
	diffuse_horizontal_illuminance DOUBLE PRECISION,
	wind_direction                 DOUBLE PRECISION,
	wind_speed                     DOUBLE PRECISION,
	total_sky_cover                DOUBLE PRECISION,
	PRIMARY KEY (dataset_id, observed_at)
);
`

// EnsureSchema creates the datasets and observations tables if absent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveDataset stores a parse result and its observations in one transaction.
// A dataset ID that already exists is skipped without touching observations.
func (s *Store) SaveDataset(ctx context.Context, result pipeline.Result) error {
	if result.Dataset == nil {
		return fmt.Errorf("save dataset %s: nil dataset", result.DatasetID)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	meta := result.Metadata
	res, err := tx.ExecContext(ctx, `
		INSERT INTO datasets (
			dataset_id, city, state_province, country, data_type, wmo,
			latitude, longitude, time_zone, altitude, source_year,
			unified_year, row_count, parsed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (dataset_id) DO NOTHING`,
		result.DatasetID, meta.City, meta.StateProvince, meta.Country,
		meta.DataType, meta.WMO, meta.Latitude, meta.Longitude,
		meta.TimeZone, meta.Altitude, meta.SourceYear,
		result.Dataset.UnifiedYear, len(result.Dataset.Records),
		result.Dataset.ParsedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dataset %s: %w", result.DatasetID, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert dataset %s: %w", result.DatasetID, err)
	}
	if inserted == 0 {
		s.logger.Debug("dataset already archived", "dataset_id", result.DatasetID)
		return tx.Commit()
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO observations (
			dataset_id, observed_at,
			dry_bulb_temperature, dew_point_temperature, relative_humidity,
			atmospheric_pressure, horizontal_infrared_radiation,
			global_horizontal_radiation, direct_normal_radiation,
			diffuse_horizontal_radiation, global_horizontal_illuminance,
			direct_normal_illuminance, diffuse_horizontal_illuminance,
			wind_direction, wind_speed, total_sky_cover
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`)
	if err != nil {
		return fmt.Errorf("prepare observation insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range result.Dataset.Records {
		v := rec.Values
		if _, err := stmt.ExecContext(ctx,
			result.DatasetID, rec.Timestamp,
			v.DryBulbTemperature, v.DewPointTemperature, v.RelativeHumidity,
			v.AtmosphericPressure, v.HorizontalInfraredRadiation,
			v.GlobalHorizontalRadiation, v.DirectNormalRadiation,
			v.DiffuseHorizontalRadiation, v.GlobalHorizontalIlluminance,
			v.DirectNormalIlluminance, v.DiffuseHorizontalIlluminance,
			v.WindDirection, v.WindSpeed, v.TotalSkyCover,
		); err != nil {
			return fmt.Errorf("insert observation for %s at %s: %w",
				result.DatasetID, rec.Timestamp.Format("2006-01-02 15:04"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dataset %s: %w", result.DatasetID, err)
	}
	s.logger.Info("archived dataset",
		"dataset_id", result.DatasetID,
		"rows", len(result.Dataset.Records),
	)
	return nil
}

// CheckReadiness verifies the database connection is alive.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
