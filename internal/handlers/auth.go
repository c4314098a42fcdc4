// Package handlers contains the HTTP controllers. They validate request
// shape, delegate to the service layer, and format the JSON envelope (or, for
// email verification, an HTTP redirect). No business logic lives here.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lumora-app/lumora-backend/internal/models"
	"github.com/lumora-app/lumora-backend/internal/services"
)

// AuthService is the business-logic surface the auth controller delegates to.
type AuthService interface {
	CreateUser(ctx context.Context, p services.CreateUserParams) (*models.User, error)
	LoginUser(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, token string)
	InitiatePasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword, confirmPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
}

// AuthHandler serves the signup/login/logout, password-reset, and
// email-verification endpoints. Stateless: every request stands alone.
type AuthHandler struct {
	svc         AuthService
	frontendURL string
	verbose     bool
}

// NewAuthHandler builds the auth controller. verbose controls whether internal
// error text reaches clients (development only).
func NewAuthHandler(svc AuthService, frontendURL string, verbose bool) *AuthHandler {
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	return &AuthHandler{svc: svc, frontendURL: strings.TrimRight(frontendURL, "/"), verbose: verbose}
}

type signupRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Country         string `json:"country"`
	City            string `json:"city"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirm_password"`
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request body"})
		return
	}

	if missing := requireFields(map[string]string{
		"firstName":        req.FirstName,
		"lastName":         req.LastName,
		"email":            req.Email,
		"password":         req.Password,
		"confirm_password": req.ConfirmPassword,
		"country":          req.Country,
		"city":             req.City,
	}); missing != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Missing required fields", Errors: missing})
		return
	}

	user, err := h.svc.CreateUser(r.Context(), services.CreateUserParams{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Country:         req.Country,
		City:            req.City,
	})
	if err != nil {
		writeError(w, err, h.verbose)
		return
	}

	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "Account created successfully. Please check your email to verify your account.",
		Data:    map[string]any{"userId": user.ID},
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request body"})
		return
	}

	if missing := requireFields(map[string]string{
		"email":    req.Email,
		"password": req.Password,
	}); missing != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Missing required fields", Errors: missing})
		return
	}

	result, err := h.svc.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err, h.verbose)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(result.ExpiresIn),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Login successful",
		Data: map[string]any{
			"user":      result.User,
			"token":     result.Token,
			"expiresIn": result.ExpiresIn,
			"tokenType": "Bearer",
		},
	})
}

// Logout handles POST /api/auth/logout. It clears the token cookie and drops
// the session if one was presented; it never fails.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		if c, err := r.Cookie("token"); err == nil {
			token = c.Value
		}
	}
	if token != "" {
		h.svc.Logout(r.Context(), token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Logged out successfully"})
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request body"})
		return
	}

	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Email is required",
			Errors:  map[string]string{"email": "email is required"},
		})
		return
	}

	if err := h.svc.InitiatePasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, err, h.verbose)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Password reset email sent"})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request body"})
		return
	}

	if missing := requireFields(map[string]string{
		"token":            req.Token,
		"newPassword":      req.NewPassword,
		"confirm_password": req.ConfirmPassword,
	}); missing != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Missing required fields", Errors: missing})
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		writeError(w, err, h.verbose)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Password has been reset successfully"})
}

// VerifyEmail handles GET /api/auth/verify-email/{token}. The link is opened
// from an email client, so the outcome is always a redirect to the frontend
// login page, never a JSON body.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.svc.VerifyEmail(r.Context(), token); err != nil {
		message := services.MessageOf(err)
		if message == "" {
			message = "verification failed"
		}
		http.Redirect(w, r, h.frontendURL+"/auth/login?error="+url.QueryEscape(message), http.StatusFound)
		return
	}

	http.Redirect(w, r, h.frontendURL+"/auth/login?verified=true", http.StatusFound)
}

// ResendVerification handles POST /api/auth/resend-verification.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Envelope{Success: false, Message: "Invalid request body"})
		return
	}

	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Message: "Email is required",
			Errors:  map[string]string{"email": "email is required"},
		})
		return
	}

	if err := h.svc.ResendVerification(r.Context(), req.Email); err != nil {
		writeError(w, err, h.verbose)
		return
	}

	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Verification email sent"})
}

// extractBearerToken pulls the token out of an "Authorization: Bearer x" header.
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
