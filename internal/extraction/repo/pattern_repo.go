package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/extraction/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// PatternRepo provides data access for the extraction_patterns table.
type PatternRepo struct {
	db *sqlx.DB
}

func NewPatternRepo(db *sqlx.DB) *PatternRepo { return &PatternRepo{db: db} }

const patternColumns = `id, field_name, pattern, description, priority,
	is_active, created_at, updated_at`

// Create inserts a pattern; new patterns are active unless stated.
func (r *PatternRepo) Create(ctx context.Context, p *entity.Pattern) error {
	row := r.db.QueryRowxContext(ctx,
		`INSERT INTO extraction_patterns
			(field_name, pattern, description, priority, is_active)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING id, created_at, updated_at`,
		p.FieldName, p.Pattern, p.Description, p.Priority, p.IsActive)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByID returns one pattern or database.ErrNotFound.
func (r *PatternRepo) GetByID(ctx context.Context, id int64) (*entity.Pattern, error) {
	var p entity.Pattern
	q := `SELECT ` + patternColumns + ` FROM extraction_patterns WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &p, nil
}

// ListActive returns active patterns in match order: highest priority
// first, then by field name for stable output.
func (r *PatternRepo) ListActive(ctx context.Context) ([]entity.Pattern, error) {
	var out []entity.Pattern
	q := `SELECT ` + patternColumns + ` FROM extraction_patterns
		WHERE is_active ORDER BY priority DESC, field_name ASC`
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListByField returns every pattern for one field, highest priority first.
func (r *PatternRepo) ListByField(ctx context.Context, fieldName string) ([]entity.Pattern, error) {
	var out []entity.Pattern
	q := `SELECT ` + patternColumns + ` FROM extraction_patterns
		WHERE field_name = $1 ORDER BY priority DESC, id ASC`
	if err := r.db.SelectContext(ctx, &out, q, fieldName); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Update rewrites a pattern's mutable columns.
func (r *PatternRepo) Update(ctx context.Context, p *entity.Pattern) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE extraction_patterns SET
			field_name = $2, pattern = $3, description = $4, priority = $5,
			is_active = $6
		 WHERE id = $1`,
		p.ID, p.FieldName, p.Pattern, p.Description, p.Priority, p.IsActive)
	if err != nil {
		return database.MapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// ToggleActive flips a pattern's active flag and returns the new state.
func (r *PatternRepo) ToggleActive(ctx context.Context, id int64) (*entity.Pattern, error) {
	var p entity.Pattern
	q := `UPDATE extraction_patterns SET is_active = NOT is_active
		WHERE id = $1 RETURNING ` + patternColumns
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &p, nil
}

// Delete removes one pattern, reporting whether a row existed.
func (r *PatternRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM extraction_patterns WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
