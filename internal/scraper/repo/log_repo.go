package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/scraper/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// LogRepo provides data access for the scraping_logs table.
type LogRepo struct {
	db *sqlx.DB
}

func NewLogRepo(db *sqlx.DB) *LogRepo { return &LogRepo{db: db} }

const logColumns = `id, config_id, start_time, end_time, duration_seconds,
	total_matches, new_matches, results, error, created_at, updated_at`

// StartRun opens a log row for a run beginning now. A missing
// configuration surfaces as database.ErrForeignKeyViolation.
func (r *LogRepo) StartRun(ctx context.Context, configID int64) (*entity.Log, error) {
	var l entity.Log
	q := `INSERT INTO scraping_logs (config_id, start_time)
		VALUES ($1, NOW()) RETURNING ` + logColumns
	if err := r.db.GetContext(ctx, &l, q, configID); err != nil {
		return nil, database.MapError(err)
	}
	return &l, nil
}

// FinishRun closes a run: stamps end_time, derives duration_seconds from
// start_time, and records counts, results and any error text.
func (r *LogRepo) FinishRun(ctx context.Context, id int64, totalMatches, newMatches int, results []byte, runErr *string) (*entity.Log, error) {
	var l entity.Log
	q := `UPDATE scraping_logs SET
			end_time = NOW(),
			duration_seconds = EXTRACT(EPOCH FROM (NOW() - start_time))::INTEGER,
			total_matches = $2,
			new_matches = $3,
			results = $4,
			error = $5
		WHERE id = $1 RETURNING ` + logColumns
	if err := r.db.GetContext(ctx, &l, q, id, totalMatches, newMatches, results, runErr); err != nil {
		return nil, database.MapError(err)
	}
	return &l, nil
}

// GetByID returns one log row or database.ErrNotFound.
func (r *LogRepo) GetByID(ctx context.Context, id int64) (*entity.Log, error) {
	var l entity.Log
	q := `SELECT ` + logColumns + ` FROM scraping_logs WHERE id = $1`
	if err := r.db.GetContext(ctx, &l, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &l, nil
}

// ListByConfig returns a page of one configuration's runs, newest first.
func (r *LogRepo) ListByConfig(ctx context.Context, configID int64, limit, offset int) ([]entity.Log, error) {
	var out []entity.Log
	q := `SELECT ` + logColumns + ` FROM scraping_logs
		WHERE config_id = $1
		ORDER BY start_time DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &out, q, configID, limit, offset); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// LatestForConfig returns a configuration's most recent run.
func (r *LogRepo) LatestForConfig(ctx context.Context, configID int64) (*entity.Log, error) {
	var l entity.Log
	q := `SELECT ` + logColumns + ` FROM scraping_logs
		WHERE config_id = $1 ORDER BY start_time DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &l, q, configID); err != nil {
		return nil, database.MapError(err)
	}
	return &l, nil
}

// ListFailed returns runs that recorded an error, newest first.
func (r *LogRepo) ListFailed(ctx context.Context, limit int) ([]entity.Log, error) {
	var out []entity.Log
	q := `SELECT ` + logColumns + ` FROM scraping_logs
		WHERE error IS NOT NULL
		ORDER BY start_time DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListSuccessfulSince returns clean finished runs started at or after the
// cutoff, newest first.
func (r *LogRepo) ListSuccessfulSince(ctx context.Context, since time.Time) ([]entity.Log, error) {
	var out []entity.Log
	q := `SELECT ` + logColumns + ` FROM scraping_logs
		WHERE error IS NULL AND end_time IS NOT NULL AND start_time >= $1
		ORDER BY start_time DESC`
	if err := r.db.SelectContext(ctx, &out, q, since); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// StatsForConfig aggregates run history for one configuration.
func (r *LogRepo) StatsForConfig(ctx context.Context, configID int64) (*entity.Stats, error) {
	var st entity.Stats
	q := `SELECT
			COUNT(*) AS total_runs,
			COUNT(CASE WHEN error IS NOT NULL THEN 1 END) AS failed_runs,
			COALESCE(SUM(total_matches), 0) AS total_matches,
			COALESCE(SUM(new_matches), 0) AS total_new_matches,
			AVG(duration_seconds) AS avg_duration
		FROM scraping_logs WHERE config_id = $1`
	if err := r.db.GetContext(ctx, &st, q, configID); err != nil {
		return nil, database.MapError(err)
	}
	return &st, nil
}

// Delete removes one log row, reporting whether a row existed.
func (r *LogRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scraping_logs WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
