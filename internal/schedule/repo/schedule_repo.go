package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/schedule/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// ScheduleRepo provides data access for the schedules table.
type ScheduleRepo struct {
	db *sqlx.DB
}

func NewScheduleRepo(db *sqlx.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

const scheduleColumns = `id, user_id, recruit_id, recruit_email, home_team, away_team,
	home_participants, away_participants, event_name, is_master, source,
	date, time, location, created_at, updated_at`

const insertSchedule = `INSERT INTO schedules
	(user_id, recruit_id, recruit_email, home_team, away_team, home_participants,
	 away_participants, event_name, is_master, source, date, time, location)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	RETURNING id, created_at, updated_at`

// Create inserts a schedule. An unknown user or recruit surfaces as
// database.ErrForeignKeyViolation.
func (r *ScheduleRepo) Create(ctx context.Context, sc *entity.Schedule) error {
	if sc.Source == "" {
		sc.Source = entity.SourceManual
	}
	row := r.db.QueryRowxContext(ctx, insertSchedule,
		sc.UserID, sc.RecruitID, sc.RecruitEmail, sc.HomeTeam, sc.AwayTeam,
		sc.HomeParticipants, sc.AwayParticipants, sc.EventName, sc.IsMaster,
		sc.Source, sc.Date, sc.Time, sc.Location)
	if err := row.Scan(&sc.ID, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByID returns one schedule or database.ErrNotFound.
func (r *ScheduleRepo) GetByID(ctx context.Context, id int64) (*entity.Schedule, error) {
	var sc entity.Schedule
	q := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	if err := r.db.GetContext(ctx, &sc, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &sc, nil
}

// ListByUser returns a user's schedules, newest date first.
func (r *ScheduleRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Schedule, error) {
	var out []entity.Schedule
	q := `SELECT ` + scheduleColumns + ` FROM schedules
		WHERE user_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &out, q, userID, limit, offset); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListByRecruit returns a recruit's schedules, newest date first.
func (r *ScheduleRepo) ListByRecruit(ctx context.Context, recruitID int64, limit, offset int) ([]entity.Schedule, error) {
	var out []entity.Schedule
	q := `SELECT ` + scheduleColumns + ` FROM schedules
		WHERE recruit_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &out, q, recruitID, limit, offset); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListByDateRange returns schedules between two dates inclusive, ascending.
func (r *ScheduleRepo) ListByDateRange(ctx context.Context, userID, start, end string) ([]entity.Schedule, error) {
	var out []entity.Schedule
	q := `SELECT ` + scheduleColumns + ` FROM schedules
		WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`
	if err := r.db.SelectContext(ctx, &out, q, userID, start, end); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListWithRecruits returns schedules joined with recruit display fields.
func (r *ScheduleRepo) ListWithRecruits(ctx context.Context, userID string, limit int) ([]entity.WithRecruit, error) {
	var out []entity.WithRecruit
	q := `SELECT s.id, s.user_id, s.recruit_id, s.recruit_email, s.home_team,
			s.away_team, s.home_participants, s.away_participants, s.event_name,
			s.is_master, s.source, s.date, s.time, s.location, s.created_at,
			s.updated_at, r.first_name, r.last_name, r.email_address, r.grad_year
		FROM schedules s
		LEFT JOIN recruits r ON s.recruit_id = r.id
		WHERE s.user_id = $1
		ORDER BY s.date DESC
		LIMIT $2`
	if err := r.db.SelectContext(ctx, &out, q, userID, limit); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// FindMatching returns the first schedule matching the non-empty fields of
// m, or database.ErrNotFound. Conditions are assembled with numbered
// placeholders only; no caller input reaches the SQL text.
func (r *ScheduleRepo) FindMatching(ctx context.Context, m entity.Match) (*entity.Schedule, error) {
	conds := []string{"date = $1"}
	args := []any{m.Date}
	add := func(col, val string) {
		if val != "" {
			args = append(args, val)
			conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	add("event_name", m.EventName)
	add("home_team", m.HomeTeam)
	add("away_team", m.AwayTeam)
	add("user_id", m.UserID)

	var sc entity.Schedule
	q := `SELECT ` + scheduleColumns + ` FROM schedules WHERE ` +
		strings.Join(conds, " AND ") + ` LIMIT 1`
	if err := r.db.GetContext(ctx, &sc, q, args...); err != nil {
		return nil, database.MapError(err)
	}
	return &sc, nil
}

const updateSchedule = `UPDATE schedules SET
	recruit_id = $2, recruit_email = $3, home_team = $4, away_team = $5,
	home_participants = $6, away_participants = $7, event_name = $8,
	is_master = $9, source = $10, date = $11, time = $12, location = $13
	WHERE id = $1`

// Update rewrites the mutable columns; updated_at is trigger-maintained.
func (r *ScheduleRepo) Update(ctx context.Context, sc *entity.Schedule) error {
	res, err := r.db.ExecContext(ctx, updateSchedule,
		sc.ID, sc.RecruitID, sc.RecruitEmail, sc.HomeTeam, sc.AwayTeam,
		sc.HomeParticipants, sc.AwayParticipants, sc.EventName, sc.IsMaster,
		sc.Source, sc.Date, sc.Time, sc.Location)
	if err != nil {
		return database.MapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// AssociateRecruit links an existing schedule to a recruit.
func (r *ScheduleRepo) AssociateRecruit(ctx context.Context, scheduleID, recruitID int64) (*entity.Schedule, error) {
	var sc entity.Schedule
	q := `UPDATE schedules SET recruit_id = $2 WHERE id = $1 RETURNING ` + scheduleColumns
	if err := r.db.GetContext(ctx, &sc, q, scheduleID, recruitID); err != nil {
		return nil, database.MapError(err)
	}
	return &sc, nil
}

// Delete removes one schedule, reporting whether a row existed.
func (r *ScheduleRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByRecruit removes all of a recruit's schedules and returns how many
// were removed.
func (r *ScheduleRepo) DeleteByRecruit(ctx context.Context, recruitID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE recruit_id = $1`, recruitID)
	if err != nil {
		return 0, database.MapError(err)
	}
	return res.RowsAffected()
}

// CountBySource groups a user's schedules by source tag.
func (r *ScheduleRepo) CountBySource(ctx context.Context, userID string) (map[string]int64, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT source, COUNT(*) FROM schedules WHERE user_id = $1 GROUP BY source`, userID)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var source string
		var count int64
		if err := rows.Scan(&source, &count); err != nil {
			return nil, err
		}
		out[source] = count
	}
	return out, rows.Err()
}

// StatsByUser aggregates totals plus the source distribution.
func (r *ScheduleRepo) StatsByUser(ctx context.Context, userID string) (*entity.Stats, error) {
	var st entity.Stats
	q := `SELECT
			COUNT(*) AS total_schedules,
			COUNT(DISTINCT date) AS distinct_dates,
			COUNT(DISTINCT recruit_id) AS distinct_recruits,
			MIN(date) AS earliest_date,
			MAX(date) AS latest_date
		FROM schedules WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &st, q, userID); err != nil {
		return nil, database.MapError(err)
	}
	dist, err := r.CountBySource(ctx, userID)
	if err != nil {
		return nil, err
	}
	st.SourceDistribution = dist
	return &st, nil
}
