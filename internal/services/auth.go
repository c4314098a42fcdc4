// Package services contains the business logic behind the auth HTTP surface:
// account creation, credential verification, the verification- and reset-token
// lifecycles, and redis-backed login sessions.
package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumora-app/lumora-backend/internal/models"
	"github.com/lumora-app/lumora-backend/internal/store"
	"github.com/lumora-app/lumora-backend/pkg/utils"
)

// ResetTokenDuration is how long a password-reset link stays valid.
const ResetTokenDuration = time.Hour

// UserStore is the persistence surface AuthService needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	FindByResetToken(ctx context.Context, token string) (*models.User, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	SetVerificationToken(ctx context.Context, id uuid.UUID, token string) error
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Sessions is the session surface AuthService needs.
type Sessions interface {
	Create(ctx context.Context, userID uuid.UUID) (string, time.Duration, error)
	Invalidate(ctx context.Context, token string) error
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}

// CreateUserParams carries the signup fields after shape validation.
type CreateUserParams struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Country         string
	City            string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresIn int64 // seconds
}

// AuthService implements account creation, login, and the email-verification
// and password-reset token lifecycles.
type AuthService struct {
	store    UserStore
	sessions Sessions
	mailer   Mailer
}

func NewAuthService(st UserStore, sessions Sessions, mailer Mailer) *AuthService {
	return &AuthService{store: st, sessions: sessions, mailer: mailer}
}

// CreateUser registers a new, unverified account and emails a verification
// link. A mail delivery failure does not fail the signup; the user can ask for
// a resend.
func (s *AuthService) CreateUser(ctx context.Context, p CreateUserParams) (*models.User, error) {
	if p.Password != p.ConfirmPassword {
		return nil, errInvalid("passwords do not match")
	}
	if len(p.Password) < 8 {
		return nil, errInvalid("password must be at least 8 characters")
	}

	_, err := s.store.FindByEmail(ctx, p.Email)
	if err == nil {
		return nil, errInvalid("an account with this email already exists")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, errInternal("failed to look up email", err)
	}

	hash, err := utils.HashPassword(p.Password)
	if err != nil {
		return nil, errInternal("failed to hash password", err)
	}

	token, err := generateToken()
	if err != nil {
		return nil, errInternal("failed to generate verification token", err)
	}

	user := &models.User{
		ID:                uuid.New(),
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Email:             strings.ToLower(strings.TrimSpace(p.Email)),
		Country:           p.Country,
		City:              p.City,
		PasswordHash:      hash,
		IsVerified:        false,
		VerificationToken: nullString(token),
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, errInternal("failed to create user", err)
	}

	if err := s.mailer.SendVerificationEmail(user, token); err != nil {
		log.Printf("failed to send verification email to %s: %v", user.Email, err)
	}

	return user, nil
}

// LoginUser verifies credentials and issues a session token. Unverified
// accounts are rejected even with a correct password.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errUnauthorized("invalid email or password")
		}
		return nil, errInternal("failed to look up user", err)
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !valid {
		return nil, errUnauthorized("invalid email or password")
	}

	if !user.IsVerified {
		return nil, errUnauthorized("please verify your email address before logging in")
	}

	token, ttl, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, errInternal("failed to create session", err)
	}

	return &LoginResult{
		User:      user,
		Token:     token,
		ExpiresIn: int64(ttl.Seconds()),
	}, nil
}

// Logout invalidates a session token. Unknown or empty tokens are a no-op so
// logout never fails for the client.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if err := s.sessions.Invalidate(ctx, token); err != nil {
		log.Printf("failed to invalidate session: %v", err)
	}
}

// InitiatePasswordReset stores a one-hour reset token and emails the reset
// link. Unknown emails are surfaced to the caller rather than silently
// swallowed.
func (s *AuthService) InitiatePasswordReset(ctx context.Context, email string) error {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errInvalid("no account found with this email")
		}
		return errInternal("failed to look up user", err)
	}

	token, err := generateToken()
	if err != nil {
		return errInternal("failed to generate reset token", err)
	}

	if err := s.store.SetResetToken(ctx, user.ID, token, time.Now().Add(ResetTokenDuration)); err != nil {
		return errInternal("failed to store reset token", err)
	}

	if err := s.mailer.SendPasswordResetEmail(user, token); err != nil {
		return errInternal("failed to send password reset email", err)
	}

	return nil
}

// ResetPassword consumes a reset token, replaces the password, and invalidates
// any live session for the account.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return errInvalid("passwords do not match")
	}
	if len(newPassword) < 8 {
		return errInvalid("password must be at least 8 characters")
	}

	user, err := s.store.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errInvalid("invalid or expired reset token")
		}
		return errInternal("failed to look up reset token", err)
	}

	if !user.ResetTokenExpiresAt.Valid || time.Now().After(user.ResetTokenExpiresAt.Time) {
		return errInvalid("invalid or expired reset token")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return errInternal("failed to hash password", err)
	}

	if err := s.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		return errInternal("failed to update password", err)
	}

	// Force re-login everywhere with the new password
	if err := s.sessions.InvalidateUser(ctx, user.ID); err != nil {
		log.Printf("failed to invalidate sessions for %s: %v", user.ID, err)
	}

	return nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return errInvalid("verification token is required")
	}

	user, err := s.store.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errInvalid("invalid or expired verification link")
		}
		return errInternal("failed to look up verification token", err)
	}

	if err := s.store.MarkVerified(ctx, user.ID); err != nil {
		return errInternal("failed to mark user verified", err)
	}

	return nil
}

// ResendVerification issues a fresh verification token for an unverified
// account and emails it.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("no account found with this email")
		}
		return errInternal("failed to look up user", err)
	}

	if user.IsVerified {
		return errInvalid("email is already verified")
	}

	token, err := generateToken()
	if err != nil {
		return errInternal("failed to generate verification token", err)
	}

	if err := s.store.SetVerificationToken(ctx, user.ID, token); err != nil {
		return errInternal("failed to store verification token", err)
	}

	if err := s.mailer.SendVerificationEmail(user, token); err != nil {
		return errInternal("failed to send verification email", err)
	}

	return nil
}

// generateToken returns an opaque 32-byte URL-safe token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
