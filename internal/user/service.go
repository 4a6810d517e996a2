package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/scoutline/recruiting-data/internal/user/entity"
	userrepo "github.com/scoutline/recruiting-data/internal/user/repo"
	"github.com/scoutline/recruiting-data/pkg/database"
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (hash string, err error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

var (
	ErrBadCredentials = errors.New("invalid credentials")
	ErrEmailRequired  = errors.New("email required")
)

// Service orchestrates account lifecycle and the one-to-one settings row.
type Service struct {
	db       *sqlx.DB
	users    *userrepo.UserRepo
	settings *userrepo.SettingsRepo
	hasher   PasswordHasher
}

func NewService(db *sqlx.DB, hasher PasswordHasher) *Service {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	return &Service{
		db:       db,
		users:    userrepo.NewUserRepo(db),
		settings: userrepo.NewSettingsRepo(db),
		hasher:   hasher,
	}
}

// SignUp creates a password-authenticated account. The email is normalized
// to lower case; a collision surfaces database.ErrUniqueViolation.
func (s *Service) SignUp(ctx context.Context, email, password string, name, organization *string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:          email,
		HashedPassword: &hash,
		IsNewUser:      1,
		Name:           name,
		Organization:   organization,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateWithSettings creates a user and, when provided, its settings row in
// one transaction so a failed settings insert leaves no half-created user.
func (s *Service) CreateWithSettings(ctx context.Context, u *entity.User, st *entity.Settings) error {
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.users.CreateTx(ctx, tx, u); err != nil {
			return err
		}
		if st != nil {
			st.UserID = u.ID
			if err := s.settings.CreateTx(ctx, tx, st); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID returns one user or database.ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetByEmail returns one user or database.ErrNotFound.
func (s *Service) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// GetWithSettings returns a user together with its settings row; settings
// is nil when the user has none.
func (s *Service) GetWithSettings(ctx context.Context, id string) (*entity.User, *entity.Settings, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	st, err := s.settings.GetByUserID(ctx, id)
	if err != nil {
		if database.IsNotFound(err) {
			return u, nil, nil
		}
		return nil, nil, err
	}
	return u, st, nil
}

// Update rewrites a user's mutable columns.
func (s *Service) Update(ctx context.Context, u *entity.User) error {
	return s.users.Update(ctx, u)
}

// UpdateWithSettings updates the user and upserts its settings row inside
// one transaction.
func (s *Service) UpdateWithSettings(ctx context.Context, u *entity.User, st *entity.Settings) error {
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.users.UpdateTx(ctx, tx, u); err != nil {
			return err
		}
		if st == nil {
			return nil
		}
		st.UserID = u.ID
		res, err := tx.ExecContext(ctx,
			`UPDATE user_settings SET selected_folders = $2, fetch_frequency = $3, batch_process_enabled = $4
			 WHERE user_id = $1`,
			st.UserID, st.SelectedFolders, st.FetchFrequency, st.BatchProcessEnabled)
		if err != nil {
			return database.MapError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return s.settings.CreateTx(ctx, tx, st)
		}
		return nil
	})
}

// SaveSettings upserts the settings row outside any larger flow.
func (s *Service) SaveSettings(ctx context.Context, st *entity.Settings) error {
	err := s.settings.Update(ctx, st)
	if database.IsNotFound(err) {
		return s.settings.Create(ctx, st)
	}
	return err
}

// Delete removes the user; the schema cascades to every owned row. Returns
// database.ErrNotFound when the id does not exist.
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return database.ErrNotFound
	}
	return nil
}

// DeleteWithSettings removes the settings row and the user in one
// transaction. Equivalent to Delete under the schema cascade, kept for
// callers that need the two deletes to be explicit statements.
func (s *Service) DeleteWithSettings(ctx context.Context, id string) error {
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_settings WHERE user_id = $1`, id); err != nil {
			return database.MapError(err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return database.MapError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return database.ErrNotFound
		}
		return nil
	})
}

// List returns users with pagination.
func (s *Service) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

// ListAdmins returns all admin accounts.
func (s *Service) ListAdmins(ctx context.Context) ([]entity.User, error) {
	return s.users.ListAdmins(ctx)
}

// Count returns the total number of accounts.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// Authenticate verifies a password login. A missing account and a wrong
// password both return ErrBadCredentials to avoid user enumeration.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u.HashedPassword == nil || *u.HashedPassword == "" {
		return nil, ErrBadCredentials
	}
	if !s.hasher.Verify(*u.HashedPassword, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}
