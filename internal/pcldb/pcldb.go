// Package pcldb persists per-transect OutputRecords across batch
// runs in a local SQLite database, so repeated field campaigns over
// the same sites can be compared later.
package pcldb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/forest-data/canopy.report/internal/pcl"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the results database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			started_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			transect_count    BIGINT
		);
		CREATE TABLE IF NOT EXISTS transect_metrics (
			run_id            TEXT,
			transect_id       TEXT,
			length_m          BIGINT,
			total_pulses      BIGINT,
			canopy_hits       BIGINT,
			sky_hits          BIGINT,
			cover_fraction    DOUBLE,
			sky_fraction      DOUBLE,
			mean_vai          DOUBLE,
			max_vai           DOUBLE,
			rumple            DOUBLE,
			gap_fraction      DOUBLE,
			rugosity_top      DOUBLE,
			rugosity          DOUBLE,
			mean_enl          DOUBLE,
			enl_columns       BIGINT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// NewRunID mints an identifier for one batch run.
func NewRunID() string {
	return uuid.NewString()
}

// RecordRun stores a batch run and all of its transect records in one
// transaction.
func (db *DB) RecordRun(runID string, records []pcl.OutputRecord) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin run transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, transect_count) VALUES (?, ?)`,
		runID, len(records),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO transect_metrics (
			run_id, transect_id, length_m, total_pulses, canopy_hits, sky_hits,
			cover_fraction, sky_fraction, mean_vai, max_vai, rumple,
			gap_fraction, rugosity_top, rugosity, mean_enl, enl_columns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(
			runID, r.ID, r.LengthM, r.TotalPulses, r.CanopyHits, r.SkyHits,
			r.CoverFraction, r.SkyFraction, r.MeanVAI, r.MaxVAI, r.Rumple,
			r.GapFraction, r.RugosityTop, r.Rugosity, r.MeanENL, r.ENLColumns,
		); err != nil {
			return fmt.Errorf("insert transect %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// RunSummary is one stored batch run.
type RunSummary struct {
	RunID         string
	StartedAt     time.Time
	TransectCount int
}

// RecentRuns returns up to limit stored runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := db.Query(`
		SELECT run_id, started_at, transect_count
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.TransectCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// TransectMetrics returns the stored records of one run, in insert
// order.
func (db *DB) TransectMetrics(runID string) ([]pcl.OutputRecord, error) {
	rows, err := db.Query(`
		SELECT transect_id, length_m, total_pulses, canopy_hits, sky_hits,
			cover_fraction, sky_fraction, mean_vai, max_vai, rumple,
			gap_fraction, rugosity_top, rugosity, mean_enl, enl_columns
		FROM transect_metrics WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query transect metrics: %w", err)
	}
	defer rows.Close()

	var records []pcl.OutputRecord
	for rows.Next() {
		var r pcl.OutputRecord
		if err := rows.Scan(
			&r.ID, &r.LengthM, &r.TotalPulses, &r.CanopyHits, &r.SkyHits,
			&r.CoverFraction, &r.SkyFraction, &r.MeanVAI, &r.MaxVAI, &r.Rumple,
			&r.GapFraction, &r.RugosityTop, &r.Rugosity, &r.MeanENL, &r.ENLColumns,
		); err != nil {
			return nil, fmt.Errorf("scan transect: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
