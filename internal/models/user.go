package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// User is the persisted account record. The password hash and the
// verification/reset tokens are never serialized into a response body.
type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`

	IsVerified bool `json:"is_verified"`

	PasswordHash        string         `json:"-"`
	VerificationToken   sql.NullString `json:"-"`
	ResetToken          sql.NullString `json:"-"`
	ResetTokenExpiresAt sql.NullTime   `json:"-"`
}
