package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/user/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// SettingsRepo provides data access for the one-to-one user_settings table.
type SettingsRepo struct {
	db *sqlx.DB
}

func NewSettingsRepo(db *sqlx.DB) *SettingsRepo { return &SettingsRepo{db: db} }

const settingsColumns = `user_id, selected_folders, fetch_frequency, batch_process_enabled`

// Create inserts a settings row for a user. A second row for the same user
// surfaces as database.ErrUniqueViolation; a row for an unknown user as
// database.ErrForeignKeyViolation.
func (r *SettingsRepo) Create(ctx context.Context, s *entity.Settings) error {
	return r.createWith(ctx, r.db, s)
}

// CreateTx is Create inside an existing transaction.
func (r *SettingsRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, s *entity.Settings) error {
	return r.createWith(ctx, tx, s)
}

func (r *SettingsRepo) createWith(ctx context.Context, e sqlx.ExecerContext, s *entity.Settings) error {
	if s.FetchFrequency == "" {
		s.FetchFrequency = "manual"
	}
	_, err := e.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, selected_folders, fetch_frequency, batch_process_enabled)
		 VALUES ($1, $2, $3, $4)`,
		s.UserID, s.SelectedFolders, s.FetchFrequency, s.BatchProcessEnabled)
	return database.MapError(err)
}

// GetByUserID returns the settings row or database.ErrNotFound.
func (r *SettingsRepo) GetByUserID(ctx context.Context, userID string) (*entity.Settings, error) {
	var s entity.Settings
	q := `SELECT ` + settingsColumns + ` FROM user_settings WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &s, q, userID); err != nil {
		return nil, database.MapError(err)
	}
	return &s, nil
}

// Update rewrites the preference columns for a user.
func (r *SettingsRepo) Update(ctx context.Context, s *entity.Settings) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_settings SET selected_folders = $2, fetch_frequency = $3, batch_process_enabled = $4
		 WHERE user_id = $1`,
		s.UserID, s.SelectedFolders, s.FetchFrequency, s.BatchProcessEnabled)
	if err != nil {
		return database.MapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes the settings row, reporting whether one existed.
func (r *SettingsRepo) Delete(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_settings WHERE user_id = $1`, userID)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
