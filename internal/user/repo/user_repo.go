package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scoutline/recruiting-data/internal/user/entity"
	"github.com/scoutline/recruiting-data/pkg/database"
	"github.com/scoutline/recruiting-data/pkg/utilities"
)

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, hashed_password, provider, oauth_access_token,
	oauth_refresh_token, token_expires_at, is_new_user, is_admin,
	has_consented, has_completed_setup, name, organization, created_at, updated_at`

const insertUser = `INSERT INTO users
	(id, email, hashed_password, provider, oauth_access_token, oauth_refresh_token,
	 token_expires_at, is_new_user, is_admin, has_consented, has_completed_setup,
	 name, organization)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	RETURNING created_at, updated_at`

// Create inserts a new user row, assigning a KSUID primary key when the
// caller did not provide one. A colliding email surfaces as
// database.ErrUniqueViolation.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = utilities.NewUserID()
	}
	return r.createWith(ctx, r.db, u)
}

// CreateTx is Create inside an existing transaction.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, u *entity.User) error {
	if u.ID == "" {
		u.ID = utilities.NewUserID()
	}
	return r.createWith(ctx, tx, u)
}

func (r *UserRepo) createWith(ctx context.Context, q sqlx.QueryerContext, u *entity.User) error {
	row := q.QueryRowxContext(ctx, insertUser,
		u.ID, u.Email, u.HashedPassword, u.Provider, u.OAuthAccessToken,
		u.OAuthRefreshToken, u.TokenExpiresAt, u.IsNewUser, u.IsAdmin,
		u.HasConsented, u.HasCompletedSetup, u.Name, u.Organization)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return database.MapError(err)
	}
	return nil
}

// GetByID returns the user or database.ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		return nil, database.MapError(err)
	}
	return &u, nil
}

// GetByEmail returns the user with the given email or database.ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &u, q, email); err != nil {
		return nil, database.MapError(err)
	}
	return &u, nil
}

// List returns users ordered by id with limit/offset pagination.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	var out []entity.User
	q := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &out, q, limit, offset); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// ListAdmins returns all users with the admin flag set.
func (r *UserRepo) ListAdmins(ctx context.Context) ([]entity.User, error) {
	var out []entity.User
	q := `SELECT ` + userColumns + ` FROM users WHERE is_admin = TRUE ORDER BY id`
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, database.MapError(err)
	}
	return out, nil
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, database.MapError(err)
	}
	return n, nil
}

const updateUser = `UPDATE users SET
	email = $2, hashed_password = $3, provider = $4, oauth_access_token = $5,
	oauth_refresh_token = $6, token_expires_at = $7, is_new_user = $8,
	is_admin = $9, has_consented = $10, has_completed_setup = $11,
	name = $12, organization = $13
	WHERE id = $1`

// Update rewrites the mutable columns of a user row. updated_at is owned by
// the database trigger and is never set here. Missing id yields
// database.ErrNotFound, never a silent no-op.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	return r.updateWith(ctx, r.db, u)
}

// UpdateTx is Update inside an existing transaction.
func (r *UserRepo) UpdateTx(ctx context.Context, tx *sqlx.Tx, u *entity.User) error {
	return r.updateWith(ctx, tx, u)
}

func (r *UserRepo) updateWith(ctx context.Context, e sqlx.ExecerContext, u *entity.User) error {
	res, err := e.ExecContext(ctx, updateUser,
		u.ID, u.Email, u.HashedPassword, u.Provider, u.OAuthAccessToken,
		u.OAuthRefreshToken, u.TokenExpiresAt, u.IsNewUser, u.IsAdmin,
		u.HasConsented, u.HasCompletedSetup, u.Name, u.Organization)
	if err != nil {
		return database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// SetOAuthTokens stores refreshed provider tokens for a user.
func (r *UserRepo) SetOAuthTokens(ctx context.Context, id, access, refresh string, expiresAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET oauth_access_token = $2, oauth_refresh_token = $3, token_expires_at = $4 WHERE id = $1`,
		id, access, refresh, expiresAt)
	if err != nil {
		return database.MapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes a user. The schema cascades the delete to settings,
// recruits, schedules, emails, queue entries and extraction feedback.
// Returns whether a row was actually removed.
func (r *UserRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, database.MapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
