package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/email/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// EmailRepo provides data access for the emails table.
type EmailRepo struct {
	db *sqlx.DB
}

func NewEmailRepo(db *sqlx.DB) *EmailRepo { return &EmailRepo{db: db} }

const emailColumns = `id, user_id, recruit_email, email_id, date, subject, summary,
	highlights, profile, schedule, folder_id, sender, received_date, is_read,
	has_attachments, body, import_date, processed, processed_date, created_at, updated_at`

const insertEmail = `INSERT INTO emails
	(user_id, recruit_email, email_id, date, subject, summary, highlights, profile,
	 schedule, folder_id, sender, received_date, is_read, has_attachments, body,
	 import_date, processed, processed_date)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	RETURNING id, created_at, updated_at`

// Create inserts an ingested message. A duplicate provider email_id
// surfaces as database.ErrUniqueViolation.
func (r *EmailRepo) Create(ctx context.Context, e *entity.Email) error {
	row := r.db.QueryRowxContext(ctx, insertEmail,
		e.UserID, e.RecruitEmail, e.EmailID, e.Date, e.Subject, e.Summary,
		e.Highlights, e.Profile, e.Schedule, e.FolderID, e.Sender,
		e.ReceivedDate, e.IsRead, e.HasAttachments, e.Body, e.ImportDate,
		e.Processed, e.ProcessedDate)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByID returns one email or database.ErrNotFound.
func (r *EmailRepo) GetByID(ctx context.Context, id int64) (*entity.Email, error) {
	var e entity.Email
	q := `SELECT ` + emailColumns + ` FROM emails WHERE id = $1`
	if err := r.db.GetContext(ctx, &e, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &e, nil
}

// GetByEmailID looks up a message by the provider's identifier, optionally
// scoped to one user.
func (r *EmailRepo) GetByEmailID(ctx context.Context, emailID, userID string) (*entity.Email, error) {
	var e entity.Email
	var err error
	if userID != "" {
		q := `SELECT ` + emailColumns + ` FROM emails WHERE email_id = $1 AND user_id = $2`
		err = r.db.GetContext(ctx, &e, q, emailID, userID)
	} else {
		q := `SELECT ` + emailColumns + ` FROM emails WHERE email_id = $1`
		err = r.db.GetContext(ctx, &e, q, emailID)
	}
	if err != nil {
		return nil, database.MapError(err)
	}
	return &e, nil
}

// ListByUser returns a user's messages, most recently received first.
func (r *EmailRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Email, error) {
	var out []entity.Email
	q := `SELECT ` + emailColumns + ` FROM emails
		WHERE user_id = $1
		ORDER BY received_date DESC NULLS LAST
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &out, q, userID, limit, offset); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Search matches a term against subject, body and sender.
func (r *EmailRepo) Search(ctx context.Context, userID, term string, limit int) ([]entity.Email, error) {
	pattern := "%" + term + "%"
	var out []entity.Email
	q := `SELECT ` + emailColumns + ` FROM emails
		WHERE user_id = $1
		  AND (subject ILIKE $2 OR body ILIKE $2 OR sender ILIKE $2)
		ORDER BY received_date DESC NULLS LAST
		LIMIT $3`
	if err := r.db.SelectContext(ctx, &out, q, userID, pattern, limit); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListUnprocessed returns messages awaiting extraction, oldest first so the
// pipeline drains in arrival order. Empty userID means all users.
func (r *EmailRepo) ListUnprocessed(ctx context.Context, userID string, limit int) ([]entity.Email, error) {
	var out []entity.Email
	var err error
	if userID != "" {
		q := `SELECT ` + emailColumns + ` FROM emails
			WHERE user_id = $1 AND processed = 0
			ORDER BY received_date ASC NULLS LAST LIMIT $2`
		err = r.db.SelectContext(ctx, &out, q, userID, limit)
	} else {
		q := `SELECT ` + emailColumns + ` FROM emails
			WHERE processed = 0
			ORDER BY received_date ASC NULLS LAST LIMIT $1`
		err = r.db.SelectContext(ctx, &out, q, limit)
	}
	if err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// MarkProcessed flips the processed flag and stamps or clears
// processed_date accordingly.
func (r *EmailRepo) MarkProcessed(ctx context.Context, id int64, processed bool) (*entity.Email, error) {
	var e entity.Email
	var q string
	if processed {
		q = `UPDATE emails SET processed = 1, processed_date = NOW()
			WHERE id = $1 RETURNING ` + emailColumns
	} else {
		q = `UPDATE emails SET processed = 0, processed_date = NULL
			WHERE id = $1 RETURNING ` + emailColumns
	}
	if err := r.db.GetContext(ctx, &e, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &e, nil
}

const updateEmail = `UPDATE emails SET
	recruit_email = $2, date = $3, subject = $4, summary = $5, highlights = $6,
	profile = $7, schedule = $8, folder_id = $9, sender = $10,
	received_date = $11, is_read = $12, has_attachments = $13, body = $14,
	import_date = $15, processed = $16, processed_date = $17
	WHERE id = $1`

// Update rewrites the mutable columns; the provider email_id and owner are
// immutable once ingested. updated_at is trigger-maintained.
func (r *EmailRepo) Update(ctx context.Context, e *entity.Email) error {
	res, err := r.db.ExecContext(ctx, updateEmail,
		e.ID, e.RecruitEmail, e.Date, e.Subject, e.Summary, e.Highlights,
		e.Profile, e.Schedule, e.FolderID, e.Sender, e.ReceivedDate, e.IsRead,
		e.HasAttachments, e.Body, e.ImportDate, e.Processed, e.ProcessedDate)
	if err != nil {
		return database.MapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes one message, reporting whether a row existed.
func (r *EmailRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM emails WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// StatsByUser aggregates mailbox totals plus the folder distribution.
func (r *EmailRepo) StatsByUser(ctx context.Context, userID string) (*entity.Stats, error) {
	var st entity.Stats
	q := `SELECT
			COUNT(*) AS total_emails,
			COUNT(CASE WHEN processed = 1 THEN 1 END) AS processed_emails,
			COUNT(CASE WHEN has_attachments = 1 THEN 1 END) AS emails_with_attachments,
			MIN(received_date) AS earliest_date,
			MAX(received_date) AS latest_date
		FROM emails WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &st, q, userID); err != nil {
		return nil, database.MapError(err)
	}
	rows, err := r.db.QueryxContext(ctx,
		`SELECT folder_id, COUNT(*) FROM emails
		 WHERE user_id = $1 AND folder_id IS NOT NULL
		 GROUP BY folder_id`, userID)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()
	st.FolderDistribution = make(map[string]int64)
	for rows.Next() {
		var folder string
		var count int64
		if err := rows.Scan(&folder, &count); err != nil {
			return nil, err
		}
		st.FolderDistribution[folder] = count
	}
	return &st, rows.Err()
}
