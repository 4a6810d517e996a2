package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/team/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// TeamRepo provides data access for the teams table.
type TeamRepo struct {
	db *sqlx.DB
}

func NewTeamRepo(db *sqlx.DB) *TeamRepo { return &TeamRepo{db: db} }

const teamColumns = `id, name, normalized_name, birth_year, gender, age_group,
	created_at, updated_at`

// Create inserts a team. A duplicate canonical name surfaces as
// database.ErrUniqueViolation.
func (r *TeamRepo) Create(ctx context.Context, t *entity.Team) error {
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO teams (name, normalized_name, birth_year, gender, age_group)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.NormalizedName, t.BirthYear, t.Gender, t.AgeGroup)
	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByID returns one team or database.ErrNotFound.
func (r *TeamRepo) GetByID(ctx context.Context, id int64) (*entity.Team, error) {
	var t entity.Team
	q := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	if err := r.db.GetContext(ctx, &t, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &t, nil
}

// GetByName looks a team up by its canonical name.
func (r *TeamRepo) GetByName(ctx context.Context, name string) (*entity.Team, error) {
	var t entity.Team
	q := `SELECT ` + teamColumns + ` FROM teams WHERE name = $1`
	if err := r.db.GetContext(ctx, &t, q, name); err != nil {
		return nil, database.MapError(err)
	}
	return &t, nil
}

// GetByNormalizedName looks a team up by its normalized form. Normalized
// names are not unique; ties resolve to the oldest row.
func (r *TeamRepo) GetByNormalizedName(ctx context.Context, normalized string) (*entity.Team, error) {
	var t entity.Team
	q := `SELECT ` + teamColumns + ` FROM teams
		WHERE normalized_name = $1 ORDER BY id ASC LIMIT 1`
	if err := r.db.GetContext(ctx, &t, q, normalized); err != nil {
		return nil, database.MapError(err)
	}
	return &t, nil
}

// FindByAlias resolves a team through its alias table.
func (r *TeamRepo) FindByAlias(ctx context.Context, alias string) (*entity.Team, error) {
	var t entity.Team
	q := `SELECT t.id, t.name, t.normalized_name, t.birth_year, t.gender,
			t.age_group, t.created_at, t.updated_at
		FROM teams t
		JOIN team_aliases a ON a.team_id = t.id
		WHERE a.alias = $1`
	if err := r.db.GetContext(ctx, &t, q, alias); err != nil {
		return nil, database.MapError(err)
	}
	return &t, nil
}

// List returns a page of teams in name order.
func (r *TeamRepo) List(ctx context.Context, limit, offset int) ([]entity.Team, error) {
	var out []entity.Team
	q := `SELECT ` + teamColumns + ` FROM teams ORDER BY name ASC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &out, q, limit, offset); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Search matches a term against name and normalized_name.
func (r *TeamRepo) Search(ctx context.Context, term string, limit int) ([]entity.Team, error) {
	pattern := "%" + term + "%"
	var out []entity.Team
	q := `SELECT ` + teamColumns + ` FROM teams
		WHERE name ILIKE $1 OR normalized_name ILIKE $1
		ORDER BY name ASC LIMIT $2`
	if err := r.db.SelectContext(ctx, &out, q, pattern, limit); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Update rewrites a team's mutable columns.
func (r *TeamRepo) Update(ctx context.Context, t *entity.Team) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE teams SET
			name = $2, normalized_name = $3, birth_year = $4, gender = $5,
			age_group = $6
		 WHERE id = $1`,
		t.ID, t.Name, t.NormalizedName, t.BirthYear, t.Gender, t.AgeGroup)
	if err != nil {
		return database.MapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes one team; its aliases cascade in the database.
func (r *TeamRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Stats aggregates catalog totals plus gender and age-group distributions.
func (r *TeamRepo) Stats(ctx context.Context) (*entity.Stats, error) {
	var st entity.Stats
	q := `SELECT
			(SELECT COUNT(*) FROM teams) AS total_teams,
			(SELECT COUNT(*) FROM team_aliases) AS total_aliases`
	if err := r.db.GetContext(ctx, &st, q); err != nil {
		return nil, database.MapError(err)
	}
	st.GenderDistribution = make(map[string]int64)
	st.AgeDistribution = make(map[string]int64)
	rows, err := r.db.QueryxContext(ctx,
		`SELECT gender, COUNT(*) FROM teams WHERE gender IS NOT NULL GROUP BY gender`)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var gender string
		var count int64
		if err := rows.Scan(&gender, &count); err != nil {
			return nil, err
		}
		st.GenderDistribution[gender] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	ageRows, err := r.db.QueryxContext(ctx,
		`SELECT age_group, COUNT(*) FROM teams WHERE age_group IS NOT NULL GROUP BY age_group`)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer ageRows.Close()
	for ageRows.Next() {
		var age string
		var count int64
		if err := ageRows.Scan(&age, &count); err != nil {
			return nil, err
		}
		st.AgeDistribution[age] = count
	}
	return &st, ageRows.Err()
}
