// Package store contains the persistence layer for account records. The
// repository wraps database/sql so callers never see raw rows, and reports
// missing records with ErrNotFound for errors.Is matching.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumora-app/lumora-backend/internal/models"
)

// ErrNotFound is returned when no user matches the query.
var ErrNotFound = errors.New("user not found")

const userColumns = `id, created_at, updated_at, first_name, last_name, email, password_hash, country, city, is_verified, verification_token, reset_token, reset_token_expires_at`

// UserStore persists users in PostgreSQL.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// stored value unchanged.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Country   *string
	City      *string
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var country, city sql.NullString
	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.FirstName, &u.LastName, &u.Email,
		&u.PasswordHash, &country, &city, &u.IsVerified,
		&u.VerificationToken, &u.ResetToken, &u.ResetTokenExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Country = country.String
	u.City = city.String
	return &u, nil
}

// Create inserts a new user record.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, created_at, updated_at, first_name, last_name, email,
			password_hash, country, city, is_verified, verification_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, u.ID, u.CreatedAt, u.UpdatedAt, u.FirstName, u.LastName, strings.ToLower(u.Email),
		u.PasswordHash, u.Country, u.City, u.IsVerified, u.VerificationToken)
	return err
}

// FindByID looks a user up by primary key.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail looks a user up by email, case-insensitively.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = $1`, strings.ToLower(email))
	return scanUser(row)
}

// FindByVerificationToken returns the user holding an unconsumed verification token.
func (s *UserStore) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token)
	return scanUser(row)
}

// FindByResetToken returns the user holding an unconsumed reset token.
func (s *UserStore) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token)
	return scanUser(row)
}

// UpdateProfile applies a partial profile update and returns the stored record.
func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users SET
			first_name = COALESCE($2::VARCHAR, first_name),
			last_name = COALESCE($3::VARCHAR, last_name),
			country = COALESCE($4::VARCHAR, country),
			city = COALESCE($5::VARCHAR, city),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, upd.FirstName, upd.LastName, upd.Country, upd.City)
	return scanUser(row)
}

// MarkVerified flips the verified flag and consumes the verification token.
func (s *UserStore) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return s.exec(ctx, `
		UPDATE users SET is_verified = TRUE, verification_token = NULL, updated_at = NOW()
		WHERE id = $1`, id)
}

// SetVerificationToken stores a fresh verification token (signup, resend).
func (s *UserStore) SetVerificationToken(ctx context.Context, id uuid.UUID, token string) error {
	return s.exec(ctx, `
		UPDATE users SET verification_token = $2, updated_at = NOW()
		WHERE id = $1`, id, token)
}

// SetResetToken stores a password-reset token with its expiry.
func (s *UserStore) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	return s.exec(ctx, `
		UPDATE users SET reset_token = $2, reset_token_expires_at = $3, updated_at = NOW()
		WHERE id = $1`, id, token, expiresAt)
}

// UpdatePassword replaces the password hash and consumes any reset token.
func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return s.exec(ctx, `
		UPDATE users SET password_hash = $2, reset_token = NULL, reset_token_expires_at = NULL,
			updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
}

func (s *UserStore) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
