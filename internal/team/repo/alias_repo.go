package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/team/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// AliasRepo provides data access for the team_aliases table.
type AliasRepo struct {
	db *sqlx.DB
}

func NewAliasRepo(db *sqlx.DB) *AliasRepo { return &AliasRepo{db: db} }

const aliasColumns = `id, team_id, alias, source, created_at, updated_at`

// Create inserts an alias. A spelling already claimed by any team surfaces
// as database.ErrUniqueViolation.
func (r *AliasRepo) Create(ctx context.Context, a *entity.Alias) error {
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO team_aliases (team_id, alias, source)
		 VALUES ($1,$2,$3)
		 RETURNING id, created_at, updated_at`,
		a.TeamID, a.Alias, a.Source)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByAlias returns the alias row for one spelling.
func (r *AliasRepo) GetByAlias(ctx context.Context, alias string) (*entity.Alias, error) {
	var a entity.Alias
	q := `SELECT ` + aliasColumns + ` FROM team_aliases WHERE alias = $1`
	if err := r.db.GetContext(ctx, &a, q, alias); err != nil {
		return nil, database.MapError(err)
	}
	return &a, nil
}

// ListByTeam returns a team's aliases in alias order.
func (r *AliasRepo) ListByTeam(ctx context.Context, teamID int64) ([]entity.Alias, error) {
	var out []entity.Alias
	q := `SELECT ` + aliasColumns + ` FROM team_aliases
		WHERE team_id = $1 ORDER BY alias ASC`
	if err := r.db.SelectContext(ctx, &out, q, teamID); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListBySource returns aliases recorded from one source.
func (r *AliasRepo) ListBySource(ctx context.Context, source string) ([]entity.Alias, error) {
	var out []entity.Alias
	q := `SELECT ` + aliasColumns + ` FROM team_aliases
		WHERE source = $1 ORDER BY alias ASC`
	if err := r.db.SelectContext(ctx, &out, q, source); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Delete removes one alias, reporting whether a row existed.
func (r *AliasRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM team_aliases WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
