package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/recruit/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// RecruitRepo provides data access for the recruits table.
type RecruitRepo struct {
	db *sqlx.DB
}

func NewRecruitRepo(db *sqlx.DB) *RecruitRepo { return &RecruitRepo{db: db} }

const recruitColumns = `id, user_id, first_name, last_name, email_address, phone,
	grad_year, state, gpa, majors, positions, clubs, coach_name, coach_phone,
	coach_email, rating, evaluation, last_evaluation_date, created_at, updated_at`

const insertRecruit = `INSERT INTO recruits
	(user_id, first_name, last_name, email_address, phone, grad_year, state, gpa,
	 majors, positions, clubs, coach_name, coach_phone, coach_email, rating,
	 evaluation, last_evaluation_date)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	RETURNING id, created_at, updated_at`

// Create inserts a recruit and fills in the database-assigned id and
// timestamps. A colliding email address surfaces as
// database.ErrUniqueViolation.
func (r *RecruitRepo) Create(ctx context.Context, rec *entity.Recruit) error {
	row := r.db.QueryRowxContext(ctx, insertRecruit,
		rec.UserID, rec.FirstName, rec.LastName, rec.EmailAddress, rec.Phone,
		rec.GradYear, rec.State, rec.GPA, rec.Majors, rec.Positions, rec.Clubs,
		rec.CoachName, rec.CoachPhone, rec.CoachEmail, rec.Rating,
		rec.Evaluation, rec.LastEvaluationDate)
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByID returns one recruit or database.ErrNotFound.
func (r *RecruitRepo) GetByID(ctx context.Context, id int64) (*entity.Recruit, error) {
	var rec entity.Recruit
	q := `SELECT ` + recruitColumns + ` FROM recruits WHERE id = $1`
	if err := r.db.GetContext(ctx, &rec, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &rec, nil
}

// GetByEmail looks a recruit up by email address, optionally scoped to one
// user.
func (r *RecruitRepo) GetByEmail(ctx context.Context, email string, userID string) (*entity.Recruit, error) {
	var rec entity.Recruit
	var err error
	if userID != "" {
		q := `SELECT ` + recruitColumns + ` FROM recruits WHERE email_address = $1 AND user_id = $2`
		err = r.db.GetContext(ctx, &rec, q, email, userID)
	} else {
		q := `SELECT ` + recruitColumns + ` FROM recruits WHERE email_address = $1`
		err = r.db.GetContext(ctx, &rec, q, email)
	}
	if err != nil {
		return nil, database.MapError(err)
	}
	return &rec, nil
}

// ListByUser returns a user's recruits ordered by last then first name.
func (r *RecruitRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Recruit, error) {
	var out []entity.Recruit
	q := `SELECT ` + recruitColumns + ` FROM recruits
		WHERE user_id = $1
		ORDER BY COALESCE(last_name, ''), COALESCE(first_name, '')
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &out, q, userID, limit, offset); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Search matches a term against first name, last name, full name and email.
func (r *RecruitRepo) Search(ctx context.Context, userID, term string, limit int) ([]entity.Recruit, error) {
	pattern := "%" + term + "%"
	var out []entity.Recruit
	q := `SELECT ` + recruitColumns + ` FROM recruits
		WHERE user_id = $1
		  AND (first_name ILIKE $2
		    OR last_name ILIKE $2
		    OR email_address ILIKE $2
		    OR CONCAT(first_name, ' ', last_name) ILIKE $2)
		ORDER BY COALESCE(last_name, ''), COALESCE(first_name, '')
		LIMIT $3`
	if err := r.db.SelectContext(ctx, &out, q, userID, pattern, limit); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListByGradYear filters a user's recruits by graduation year.
func (r *RecruitRepo) ListByGradYear(ctx context.Context, userID, gradYear string) ([]entity.Recruit, error) {
	var out []entity.Recruit
	q := `SELECT ` + recruitColumns + ` FROM recruits
		WHERE user_id = $1 AND grad_year = $2
		ORDER BY COALESCE(last_name, ''), COALESCE(first_name, '')`
	if err := r.db.SelectContext(ctx, &out, q, userID, gradYear); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

const updateRecruit = `UPDATE recruits SET
	first_name = $2, last_name = $3, email_address = $4, phone = $5,
	grad_year = $6, state = $7, gpa = $8, majors = $9, positions = $10,
	clubs = $11, coach_name = $12, coach_phone = $13, coach_email = $14,
	rating = $15, evaluation = $16, last_evaluation_date = $17
	WHERE id = $1`

// Update rewrites the mutable columns; updated_at is trigger-maintained.
func (r *RecruitRepo) Update(ctx context.Context, rec *entity.Recruit) error {
	res, err := r.db.ExecContext(ctx, updateRecruit,
		rec.ID, rec.FirstName, rec.LastName, rec.EmailAddress, rec.Phone,
		rec.GradYear, rec.State, rec.GPA, rec.Majors, rec.Positions, rec.Clubs,
		rec.CoachName, rec.CoachPhone, rec.CoachEmail, rec.Rating,
		rec.Evaluation, rec.LastEvaluationDate)
	if err != nil {
		return database.MapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// UpdateEvaluation stamps a new rating and evaluation text with the
// evaluation date.
func (r *RecruitRepo) UpdateEvaluation(ctx context.Context, id int64, rating, evaluation string) (*entity.Recruit, error) {
	var rec entity.Recruit
	q := `UPDATE recruits
		SET rating = $2, evaluation = $3, last_evaluation_date = NOW()
		WHERE id = $1
		RETURNING ` + recruitColumns
	if err := r.db.GetContext(ctx, &rec, q, id, rating, evaluation); err != nil {
		return nil, database.MapError(err)
	}
	return &rec, nil
}

// Delete removes a recruit; schedules and extraction feedback cascade.
func (r *RecruitRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recruits WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of recruits for a user, or all recruits when
// userID is empty.
func (r *RecruitRepo) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	var err error
	if userID != "" {
		err = r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM recruits WHERE user_id = $1`, userID)
	} else {
		err = r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM recruits`)
	}
	if err != nil {
		return 0, database.MapError(err)
	}
	return n, nil
}

// StatsByUser aggregates totals and the grad-year distribution.
func (r *RecruitRepo) StatsByUser(ctx context.Context, userID string) (*entity.Stats, error) {
	var st entity.Stats
	q := `SELECT
			COUNT(*) AS total_recruits,
			COUNT(CASE WHEN rating IS NOT NULL THEN 1 END) AS rated_recruits,
			COUNT(DISTINCT grad_year) AS distinct_grad_years
		FROM recruits WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &st, q, userID); err != nil {
		return nil, database.MapError(err)
	}
	rows, err := r.db.QueryxContext(ctx,
		`SELECT grad_year, COUNT(*) FROM recruits
		 WHERE user_id = $1 AND grad_year IS NOT NULL
		 GROUP BY grad_year ORDER BY grad_year`, userID)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()
	st.GradYearDistribution = make(map[string]int64)
	for rows.Next() {
		var year string
		var count int64
		if err := rows.Scan(&year, &count); err != nil {
			return nil, err
		}
		st.GradYearDistribution[year] = count
	}
	return &st, rows.Err()
}
