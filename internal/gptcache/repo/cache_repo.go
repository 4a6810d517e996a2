package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/gptcache/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// CacheRepo provides data access for the gpt_cache table.
type CacheRepo struct {
	db *sqlx.DB
}

func NewCacheRepo(db *sqlx.DB) *CacheRepo { return &CacheRepo{db: db} }

const cacheColumns = `id, content_hash, email, result_json, created_at, updated_at`

// Create inserts an entry. A hash already cached surfaces as
// database.ErrUniqueViolation.
func (r *CacheRepo) Create(ctx context.Context, e *entity.Entry) error {
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO gpt_cache (content_hash, email, result_json)
		 VALUES ($1,$2,$3)
		 RETURNING id, created_at, updated_at`,
		e.ContentHash, e.Email, []byte(e.ResultJSON))
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByContentHash returns the entry for one hash or database.ErrNotFound.
func (r *CacheRepo) GetByContentHash(ctx context.Context, hash string) (*entity.Entry, error) {
	var e entity.Entry
	q := `SELECT ` + cacheColumns + ` FROM gpt_cache WHERE content_hash = $1`
	if err := r.db.GetContext(ctx, &e, q, hash); err != nil {
		return nil, database.MapError(err)
	}
	return &e, nil
}

// ListByEmail returns entries attributed to one sender, most recently
// touched first.
func (r *CacheRepo) ListByEmail(ctx context.Context, email string, limit int) ([]entity.Entry, error) {
	var out []entity.Entry
	q := `SELECT ` + cacheColumns + ` FROM gpt_cache
		WHERE email = $1 ORDER BY updated_at DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &out, q, email, limit); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Upsert writes an entry, replacing the stored result when the hash
// already exists. The updated_at trigger stamps the row either way.
func (r *CacheRepo) Upsert(ctx context.Context, e *entity.Entry) error {
	q := `INSERT INTO gpt_cache (content_hash, email, result_json)
		VALUES ($1,$2,$3)
		ON CONFLICT (content_hash)
		DO UPDATE SET email = EXCLUDED.email, result_json = EXCLUDED.result_json
		RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, q, e.ContentHash, e.Email, []byte(e.ResultJSON))
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// DeleteOlderThan evicts entries last touched before the cutoff, returning
// the count removed.
func (r *CacheRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM gpt_cache WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, database.MapError(err)
	}
	return res.RowsAffected()
}

// Delete removes one entry by hash, reporting whether a row existed.
func (r *CacheRepo) Delete(ctx context.Context, hash string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gpt_cache WHERE content_hash = $1`, hash)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Stats aggregates cache totals and age bounds.
func (r *CacheRepo) Stats(ctx context.Context) (*entity.Stats, error) {
	var st entity.Stats
	q := `SELECT COUNT(*) AS total_entries,
			MIN(created_at) AS oldest_entry,
			MAX(created_at) AS newest_entry
		FROM gpt_cache`
	if err := r.db.GetContext(ctx, &st, q); err != nil {
		return nil, database.MapError(err)
	}
	return &st, nil
}
