package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/extraction/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// FeedbackRepo provides data access for the extraction_feedback table.
type FeedbackRepo struct {
	db *sqlx.DB
}

func NewFeedbackRepo(db *sqlx.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

const feedbackColumns = `id, user_id, email_id, recruit_id, original_text,
	original_extraction, corrected_values, notes, used_cache, model_used,
	created_at, updated_at`

// Create records one correction. Empty JSON payloads fall back to the
// column defaults.
func (r *FeedbackRepo) Create(ctx context.Context, f *entity.Feedback) error {
	if len(f.OriginalExtraction) == 0 {
		f.OriginalExtraction = []byte(`{}`)
	}
	if len(f.CorrectedValues) == 0 {
		f.CorrectedValues = []byte(`{}`)
	}
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO extraction_feedback
			(user_id, email_id, recruit_id, original_text, original_extraction,
			 corrected_values, notes, used_cache, model_used)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING id, created_at, updated_at`,
		f.UserID, f.EmailID, f.RecruitID, f.OriginalText,
		[]byte(f.OriginalExtraction), []byte(f.CorrectedValues),
		f.Notes, f.UsedCache, f.ModelUsed)
	if err := row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByID returns one feedback row or database.ErrNotFound.
func (r *FeedbackRepo) GetByID(ctx context.Context, id int64) (*entity.Feedback, error) {
	var f entity.Feedback
	q := `SELECT ` + feedbackColumns + ` FROM extraction_feedback WHERE id = $1`
	if err := r.db.GetContext(ctx, &f, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &f, nil
}

// GetWithRecruit returns one feedback row joined with recruit display
// fields.
func (r *FeedbackRepo) GetWithRecruit(ctx context.Context, id int64) (*entity.FeedbackWithRecruit, error) {
	var fw entity.FeedbackWithRecruit
	q := `SELECT f.id, f.user_id, f.email_id, f.recruit_id, f.original_text,
			f.original_extraction, f.corrected_values, f.notes, f.used_cache,
			f.model_used, f.created_at, f.updated_at,
			r.first_name AS recruit_first_name,
			r.last_name AS recruit_last_name,
			r.email_address AS recruit_email_address
		FROM extraction_feedback f
		JOIN recruits r ON r.id = f.recruit_id
		WHERE f.id = $1`
	if err := r.db.GetContext(ctx, &fw, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &fw, nil
}

// ListByEmail returns feedback for one provider message id, newest first.
func (r *FeedbackRepo) ListByEmail(ctx context.Context, emailID string) ([]entity.Feedback, error) {
	var out []entity.Feedback
	q := `SELECT ` + feedbackColumns + ` FROM extraction_feedback
		WHERE email_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &out, q, emailID); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListByRecruit returns feedback on one recruit, newest first.
func (r *FeedbackRepo) ListByRecruit(ctx context.Context, recruitID int64) ([]entity.Feedback, error) {
	var out []entity.Feedback
	q := `SELECT ` + feedbackColumns + ` FROM extraction_feedback
		WHERE recruit_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &out, q, recruitID); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListByUser returns a page of a user's feedback, newest first.
func (r *FeedbackRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Feedback, error) {
	var out []entity.Feedback
	q := `SELECT ` + feedbackColumns + ` FROM extraction_feedback
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &out, q, userID, limit, offset); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Delete removes one feedback row, reporting whether a row existed.
func (r *FeedbackRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM extraction_feedback WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// StatsByUser aggregates feedback totals plus the per-model distribution.
func (r *FeedbackRepo) StatsByUser(ctx context.Context, userID string) (*entity.Stats, error) {
	var st entity.Stats
	q := `SELECT
			COUNT(*) AS total_feedback,
			COUNT(CASE WHEN used_cache THEN 1 END) AS cache_hits,
			COUNT(DISTINCT recruit_id) AS distinct_recruits
		FROM extraction_feedback WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &st, q, userID); err != nil {
		return nil, database.MapError(err)
	}
	rows, err := r.db.QueryxContext(ctx,
		`SELECT model_used, COUNT(*) FROM extraction_feedback
		 WHERE user_id = $1 AND model_used IS NOT NULL
		 GROUP BY model_used`, userID)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()
	st.ModelDistribution = make(map[string]int64)
	for rows.Next() {
		var model string
		var count int64
		if err := rows.Scan(&model, &count); err != nil {
			return nil, err
		}
		st.ModelDistribution[model] = count
	}
	return &st, rows.Err()
}
