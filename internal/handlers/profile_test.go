package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora-app/lumora-backend/internal/middleware"
	"github.com/lumora-app/lumora-backend/internal/models"
	"github.com/lumora-app/lumora-backend/internal/store"
)

type fakeProfileStore struct {
	user    *models.User
	findErr error

	updated   *models.User
	updateErr error
	lastUpd   store.ProfileUpdate
}

func (f *fakeProfileStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.user, nil
}

func (f *fakeProfileStore) UpdateProfile(ctx context.Context, id uuid.UUID, upd store.ProfileUpdate) (*models.User, error) {
	f.lastUpd = upd
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updated, nil
}

func authedRequest(method, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/api/profile", nil)
	} else {
		req = httptest.NewRequest(method, "/api/profile", strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestGetProfile_Verified(t *testing.T) {
	userID := uuid.New()
	st := &fakeProfileStore{user: &models.User{
		ID:           userID,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		IsVerified:   true,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$secret$secret",
	}}
	h := NewProfileHandler(st, true)

	rec := httptest.NewRecorder()
	h.GetProfile(rec, authedRequest(http.MethodGet, "", userID))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	// Credential and token fields must never leak
	body := rec.Body.String()
	assert.NotContains(t, body, "argon2id")
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "reset_token")
	assert.NotContains(t, body, "verification_token")
}

func TestGetProfile_Unverified(t *testing.T) {
	userID := uuid.New()
	st := &fakeProfileStore{user: &models.User{ID: userID, Email: "ada@example.com", IsVerified: false}}
	h := NewProfileHandler(st, true)

	rec := httptest.NewRecorder()
	h.GetProfile(rec, authedRequest(http.MethodGet, "", userID))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetProfile_NotFound(t *testing.T) {
	st := &fakeProfileStore{findErr: store.ErrNotFound}
	h := NewProfileHandler(st, true)

	rec := httptest.NewRecorder()
	h.GetProfile(rec, authedRequest(http.MethodGet, "", uuid.New()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfile_NoIdentity(t *testing.T) {
	h := NewProfileHandler(&fakeProfileStore{}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()
	h.GetProfile(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	userID := uuid.New()
	st := &fakeProfileStore{updated: &models.User{ID: userID, FirstName: "Grace", IsVerified: true}}
	h := NewProfileHandler(st, true)

	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, authedRequest(http.MethodPut, `{"firstName": "Grace"}`, userID))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, st.lastUpd.FirstName)
	assert.Equal(t, "Grace", *st.lastUpd.FirstName)
	assert.Nil(t, st.lastUpd.LastName, "absent fields stay untouched")
	assert.Nil(t, st.lastUpd.Country)
	assert.Nil(t, st.lastUpd.City)
}

func TestUpdateProfile_EmptyBody(t *testing.T) {
	userID := uuid.New()
	st := &fakeProfileStore{updated: &models.User{ID: userID, FirstName: "Ada", IsVerified: true}}
	h := NewProfileHandler(st, true)

	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, authedRequest(http.MethodPut, "", userID))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, st.lastUpd.FirstName)
	assert.Nil(t, st.lastUpd.LastName)
}

func TestUpdateProfile_NotFound(t *testing.T) {
	st := &fakeProfileStore{updateErr: store.ErrNotFound}
	h := NewProfileHandler(st, true)

	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, authedRequest(http.MethodPut, `{"city": "Berlin"}`, uuid.New()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
