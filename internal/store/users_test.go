package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora-app/lumora-backend/internal/models"
)

var userCols = []string{
	"id", "created_at", "updated_at", "first_name", "last_name", "email", "password_hash",
	"country", "city", "is_verified", "verification_token", "reset_token", "reset_token_expires_at",
}

func newMockStore(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db), mock
}

func userRow(id uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userCols).AddRow(
		id, now, now, "Ada", "Lovelace", "ada@example.com", "$argon2id$hash",
		"UK", "London", false, "verify-tok", nil, nil,
	)
}

func TestFindByEmail(t *testing.T) {
	st, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE LOWER\\(email\\) = \\$1").
		WithArgs("ada@example.com").
		WillReturnRows(userRow(id))

	// The query argument is lowercased
	u, err := st.FindByEmail(context.Background(), "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "London", u.City)
	assert.True(t, u.VerificationToken.Valid)
	assert.False(t, u.ResetToken.Valid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE LOWER\\(email\\) = \\$1").
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := st.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByID_NotFound(t *testing.T) {
	st, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := st.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_LowercasesEmail(t *testing.T) {
	st, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(id, sqlmock.AnyArg(), sqlmock.AnyArg(), "Ada", "Lovelace", "ada@example.com",
			"$argon2id$hash", "UK", "London", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := st.Create(context.Background(), &models.User{
		ID:           id,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "Ada@Example.com",
		PasswordHash: "$argon2id$hash",
		Country:      "UK",
		City:         "London",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	st, mock := newMockStore(t)
	id := uuid.New()
	city := "Berlin"

	mock.ExpectQuery("UPDATE users SET").
		WithArgs(id, nil, nil, nil, "Berlin").
		WillReturnRows(userRow(id))

	_, err := st.UpdateProfile(context.Background(), id, ProfileUpdate{City: &city})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_NotFound(t *testing.T) {
	st, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("UPDATE users SET").
		WithArgs(id, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := st.UpdateProfile(context.Background(), id, ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkVerified(t *testing.T) {
	st, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET is_verified = TRUE").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, st.MarkVerified(context.Background(), id))
}

func TestMarkVerified_NotFound(t *testing.T) {
	st, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET is_verified = TRUE").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, st.MarkVerified(context.Background(), id), ErrNotFound)
}

func TestSetResetToken(t *testing.T) {
	st, mock := newMockStore(t)
	id := uuid.New()
	expires := time.Now().Add(time.Hour)

	mock.ExpectExec("UPDATE users SET reset_token = \\$2").
		WithArgs(id, "reset-tok", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, st.SetResetToken(context.Background(), id, "reset-tok", expires))
}

func TestUpdatePassword_ClearsResetToken(t *testing.T) {
	st, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE users SET password_hash = \\$2, reset_token = NULL").
		WithArgs(id, "$argon2id$new").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, st.UpdatePassword(context.Background(), id, "$argon2id$new"))
}
