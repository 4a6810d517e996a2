package entity

import "time"

// User represents an account row in the users table. The primary key is an
// opaque KSUID string; every dependent table hangs off it with a cascading
// foreign key. Accounts authenticate either with a password hash or with
// OAuth tokens from a mail provider.
type User struct {
	ID                string     `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	HashedPassword    *string    `db:"hashed_password" json:"-"`
	Provider          *string    `db:"provider" json:"provider,omitempty"`
	OAuthAccessToken  *string    `db:"oauth_access_token" json:"-"`
	OAuthRefreshToken *string    `db:"oauth_refresh_token" json:"-"`
	TokenExpiresAt    *time.Time `db:"token_expires_at" json:"-"`
	IsNewUser         int        `db:"is_new_user" json:"is_new_user"`
	IsAdmin           bool       `db:"is_admin" json:"is_admin"`
	HasConsented      bool       `db:"has_consented" json:"has_consented"`
	HasCompletedSetup bool       `db:"has_completed_setup" json:"has_completed_setup"`
	Name              *string    `db:"name" json:"name,omitempty"`
	Organization      *string    `db:"organization" json:"organization,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Settings is the zero-or-one preferences row per user. The primary key is
// the owning user id, so a user can never have two settings rows.
type Settings struct {
	UserID              string  `db:"user_id" json:"user_id"`
	SelectedFolders     *string `db:"selected_folders" json:"selected_folders,omitempty"`
	FetchFrequency      string  `db:"fetch_frequency" json:"fetch_frequency"`
	BatchProcessEnabled bool    `db:"batch_process_enabled" json:"batch_process_enabled"`
}
