package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/scraper/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// ConfigRepo provides data access for the scraper_configurations table.
type ConfigRepo struct {
	db *sqlx.DB
}

func NewConfigRepo(db *sqlx.DB) *ConfigRepo { return &ConfigRepo{db: db} }

const configColumns = `id, name, source, active, parameters, created_at, updated_at`

// Create inserts a configuration; an empty parameters payload falls back
// to the column default.
func (r *ConfigRepo) Create(ctx context.Context, c *entity.Configuration) error {
	if len(c.Parameters) == 0 {
		c.Parameters = []byte(`{}`)
	}
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO scraper_configurations (name, source, active, parameters)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Source, c.Active, []byte(c.Parameters))
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByID returns one configuration or database.ErrNotFound.
func (r *ConfigRepo) GetByID(ctx context.Context, id int64) (*entity.Configuration, error) {
	var c entity.Configuration
	q := `SELECT ` + configColumns + ` FROM scraper_configurations WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &c, nil
}

// List returns every configuration in name order.
func (r *ConfigRepo) List(ctx context.Context) ([]entity.Configuration, error) {
	var out []entity.Configuration
	q := `SELECT ` + configColumns + ` FROM scraper_configurations ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListBySource returns configurations for one source in name order.
func (r *ConfigRepo) ListBySource(ctx context.Context, source string) ([]entity.Configuration, error) {
	var out []entity.Configuration
	q := `SELECT ` + configColumns + ` FROM scraper_configurations
		WHERE source = $1 ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &out, q, source); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListActive returns configurations eligible to run.
func (r *ConfigRepo) ListActive(ctx context.Context) ([]entity.Configuration, error) {
	var out []entity.Configuration
	q := `SELECT ` + configColumns + ` FROM scraper_configurations
		WHERE active ORDER BY name ASC`
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Update rewrites a configuration's mutable columns.
func (r *ConfigRepo) Update(ctx context.Context, c *entity.Configuration) error {
	if len(c.Parameters) == 0 {
		c.Parameters = []byte(`{}`)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE scraper_configurations SET
			name = $2, source = $3, active = $4, parameters = $5
		 WHERE id = $1`,
		c.ID, c.Name, c.Source, c.Active, []byte(c.Parameters))
	if err != nil {
		return database.MapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// UpdateParameters replaces only the parameters payload.
func (r *ConfigRepo) UpdateParameters(ctx context.Context, id int64, parameters []byte) (*entity.Configuration, error) {
	if len(parameters) == 0 {
		parameters = []byte(`{}`)
	}
	var c entity.Configuration
	q := `UPDATE scraper_configurations SET parameters = $2
		WHERE id = $1 RETURNING ` + configColumns
	if err := r.db.GetContext(ctx, &c, q, id, parameters); err != nil {
		return nil, database.MapError(err)
	}
	return &c, nil
}

// ToggleActive flips a configuration's active flag and returns the new
// state.
func (r *ConfigRepo) ToggleActive(ctx context.Context, id int64) (*entity.Configuration, error) {
	var c entity.Configuration
	q := `UPDATE scraper_configurations SET active = NOT active
		WHERE id = $1 RETURNING ` + configColumns
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &c, nil
}

// Delete removes one configuration; its run logs cascade in the database.
func (r *ConfigRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scraper_configurations WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
