package postgres

// Package postgres implements the CredentialStore port over the users table.

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	apperrors "github.com/linguahub/lingua-ui/internal/errors"
)

// UserStore provides credential lookups and registration against PostgreSQL.
type UserStore struct {
	DB *sql.DB
}

// NewUserStore creates a UserStore.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{DB: db}
}

// Lookup returns the user for an email, or a NotFound error. Store I/O
// failures map to Transient so the caller never mistakes an outage for a bad
// password.
func (s *UserStore) Lookup(ctx context.Context, email string) (domainauth.User, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, image, role, password_hash, email_verified
		FROM users
		WHERE lower(email) = lower($1)
	`, strings.TrimSpace(email))

	return scanUser(row)
}

// Create registers a new user. A duplicate email surfaces as a Conflict error
// via the unique constraint on users.email.
func (s *UserStore) Create(ctx context.Context, user domainauth.User) (domainauth.User, error) {
	if user.Email == "" {
		return domainauth.User{}, apperrors.ValidationField("email", "email is required")
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	roleJSON, err := json.Marshal(user.Role)
	if err != nil {
		return domainauth.User{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal role")
	}

	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, image, role, password_hash, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, email, image, role, password_hash, email_verified
	`,
		user.ID,
		user.Name,
		strings.TrimSpace(user.Email),
		nullable(user.Image),
		roleJSON,
		user.PasswordHash,
		user.EmailVerified,
		time.Now().UTC(),
	)

	return scanUser(row)
}

// MarkVerified flips email_verified after a successful verification challenge.
func (s *UserStore) MarkVerified(ctx context.Context, userID string) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE users SET email_verified = TRUE WHERE id = $1`, userID)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

func scanUser(row *sql.Row) (domainauth.User, error) {
	var (
		user     domainauth.User
		image    sql.NullString
		roleJSON []byte
	)
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&image,
		&roleJSON,
		&user.PasswordHash,
		&user.EmailVerified,
	)
	if err != nil {
		return domainauth.User{}, apperrors.MapDBError(err)
	}

	user.Image = image.String

	// The role column is JSONB and may hold either wire form; Role decodes both.
	if len(roleJSON) > 0 {
		if err := json.Unmarshal(roleJSON, &user.Role); err != nil {
			return domainauth.User{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode role column")
		}
	}

	return user, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
