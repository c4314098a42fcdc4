package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/lumora-app/lumora-backend/internal/middleware"
	"github.com/lumora-app/lumora-backend/internal/models"
	"github.com/lumora-app/lumora-backend/internal/store"
)

// ProfileStore is the persistence surface the profile controller needs.
type ProfileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd store.ProfileUpdate) (*models.User, error)
}

// ProfileHandler serves the authenticated profile endpoints. The caller's
// identity arrives through the auth middleware, never from the request body.
type ProfileHandler struct {
	store   ProfileStore
	verbose bool
}

func NewProfileHandler(st ProfileStore, verbose bool) *ProfileHandler {
	return &ProfileHandler{store: st, verbose: verbose}
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Country   *string `json:"country"`
	City      *string `json:"city"`
}

// GetProfile handles GET /api/profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Message: "Authentication required"})
		return
	}

	user, err := h.store.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Envelope{Success: false, Message: "User not found"})
			return
		}
		h.serverError(w, err)
		return
	}

	if !user.IsVerified {
		writeJSON(w, http.StatusForbidden, Envelope{
			Success: false,
			Message: "Please verify your email address to access your profile",
		})
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    map[string]any{"user": user},
	})
}

// UpdateProfile handles PUT /api/profile. Only fields present in the body are
// overwritten; an empty body is a valid no-op update.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, Envelope{Success: false, Message: "Authentication required"})
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request body"})
		return
	}

	user, err := h.store.UpdateProfile(r.Context(), userID, store.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Country:   req.Country,
		City:      req.City,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, Envelope{Success: false, Message: "User not found"})
			return
		}
		h.serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Profile updated successfully",
		Data:    map[string]any{"user": user},
	})
}

func (h *ProfileHandler) serverError(w http.ResponseWriter, err error) {
	message := "Something went wrong. Please try again later."
	if h.verbose {
		message = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, Envelope{Success: false, Message: message})
}
