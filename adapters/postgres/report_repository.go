// Package postgres archives study runs. The statistical core never touches
// this package; it exists so the HTTP surface can serve past runs.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"golattice/domain/core"
	"golattice/ports"
)

// ReportRepositoryImpl implements ports.ReportRepository for PostgreSQL
type ReportRepositoryImpl struct {
	db *sqlx.DB
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// Migrate creates the study_runs table if it does not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS study_runs (
			id            TEXT PRIMARY KEY,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			mode          TEXT NOT NULL,
			seed          BIGINT NOT NULL,
			total         INT NOT NULL,
			successes     INT NOT NULL,
			baseline_rate DOUBLE PRECISION NOT NULL,
			p_value       DOUBLE PRECISION NOT NULL,
			payload       JSONB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate study_runs: %w", err)
	}
	return nil
}

// Save upserts a study run with its full payload as JSONB.
func (r *ReportRepositoryImpl) Save(ctx context.Context, result *ports.StudyResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal study run %s: %w", result.RunID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO study_runs (
			id, created_at, mode, seed, total, successes, baseline_rate, p_value, payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			mode = EXCLUDED.mode,
			seed = EXCLUDED.seed,
			total = EXCLUDED.total,
			successes = EXCLUDED.successes,
			baseline_rate = EXCLUDED.baseline_rate,
			p_value = EXCLUDED.p_value,
			payload = EXCLUDED.payload`,
		result.RunID.String(), result.CreatedAt.Time(), string(result.Mode), result.Seed,
		result.Report.Total, result.Report.Successes, result.Report.BaselineRate,
		result.Report.PValue, payload)
	return err
}

// Get retrieves a study run by ID.
func (r *ReportRepositoryImpl) Get(ctx context.Context, id core.RunID) (*ports.StudyResult, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM study_runs WHERE id = $1`, id.String()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var result ports.StudyResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal study run %s: %w", id, err)
	}
	return &result, nil
}

// ListRecent returns the most recent study runs, newest first.
func (r *ReportRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*ports.StudyResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM study_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*ports.StudyResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var result ports.StudyResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}
