package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/email/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// QueueRepo provides data access for the email_queue table.
type QueueRepo struct {
	db *sqlx.DB
}

func NewQueueRepo(db *sqlx.DB) *QueueRepo { return &QueueRepo{db: db} }

const queueColumns = `id, user_id, email_id, provider, folder_id, status, priority,
	processed_at, error_message, created_at, updated_at`

// Enqueue inserts a work item with status QUEUED.
func (r *QueueRepo) Enqueue(ctx context.Context, qe *entity.QueueEntry) error {
	if qe.Status == "" {
		qe.Status = entity.StatusQueued
	}
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO email_queue (user_id, email_id, provider, folder_id, status, priority)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING id, created_at, updated_at`,
		qe.UserID, qe.EmailID, qe.Provider, qe.FolderID, qe.Status, qe.Priority)
	if err := row.Scan(&qe.ID, &qe.CreatedAt, &qe.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByID returns one queue entry or database.ErrNotFound.
func (r *QueueRepo) GetByID(ctx context.Context, id int64) (*entity.QueueEntry, error) {
	var qe entity.QueueEntry
	q := `SELECT ` + queueColumns + ` FROM email_queue WHERE id = $1`
	if err := r.db.GetContext(ctx, &qe, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &qe, nil
}

// ListByStatus returns entries with one status, highest priority first and
// oldest first within a priority.
func (r *QueueRepo) ListByStatus(ctx context.Context, status string, limit int) ([]entity.QueueEntry, error) {
	var out []entity.QueueEntry
	q := `SELECT ` + queueColumns + ` FROM email_queue
		WHERE status = $1
		ORDER BY priority DESC, created_at ASC
		LIMIT $2`
	if err := r.db.SelectContext(ctx, &out, q, status, limit); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListByUserAndStatus narrows ListByStatus to one user.
func (r *QueueRepo) ListByUserAndStatus(ctx context.Context, userID, status string, limit int) ([]entity.QueueEntry, error) {
	var out []entity.QueueEntry
	q := `SELECT ` + queueColumns + ` FROM email_queue
		WHERE user_id = $1 AND status = $2
		ORDER BY priority DESC, created_at ASC
		LIMIT $3`
	if err := r.db.SelectContext(ctx, &out, q, userID, status, limit); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// UpdateStatus moves an entry to a new status. Terminal statuses stamp
// processed_at; error text is recorded verbatim (nil clears it).
func (r *QueueRepo) UpdateStatus(ctx context.Context, id int64, status string, errorMessage *string) (*entity.QueueEntry, error) {
	var qe entity.QueueEntry
	var q string
	if entity.IsTerminalStatus(status) {
		q = `UPDATE email_queue SET status = $2, processed_at = NOW(), error_message = $3
			WHERE id = $1 RETURNING ` + queueColumns
	} else {
		q = `UPDATE email_queue SET status = $2, error_message = $3
			WHERE id = $1 RETURNING ` + queueColumns
	}
	if err := r.db.GetContext(ctx, &qe, q, id, status, errorMessage); err != nil {
		return nil, database.MapError(err)
	}
	return &qe, nil
}

// CountByStatus groups all entries by status.
func (r *QueueRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT status, COUNT(*) FROM email_queue GROUP BY status`)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}

// Claim atomically flips up to limit QUEUED entries to PROCESSING and
// returns them in claim order. SKIP LOCKED keeps concurrent workers from
// claiming the same rows.
func (r *QueueRepo) Claim(ctx context.Context, limit int) ([]entity.QueueEntry, error) {
	var out []entity.QueueEntry
	q := `UPDATE email_queue SET status = $1
		WHERE id IN (
			SELECT id FROM email_queue
			WHERE status = $2
			ORDER BY priority DESC, created_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + queueColumns
	if err := r.db.SelectContext(ctx, &out, q, entity.StatusProcessing, entity.StatusQueued, limit); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Delete removes one queue entry, reporting whether a row existed.
func (r *QueueRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM email_queue WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
