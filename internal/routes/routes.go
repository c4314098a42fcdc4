package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/lumora-app/lumora-backend/internal/handlers"
	"github.com/lumora-app/lumora-backend/internal/middleware"
)

func SetupRoutes(r *chi.Mux, auth *handlers.AuthHandler, profile *handlers.ProfileHandler, sessions middleware.SessionValidator) {
	// Auth routes
	r.Post("/api/auth/signup", auth.Signup)
	r.Post("/api/auth/login", auth.Login)
	r.Post("/api/auth/logout", auth.Logout)
	r.Post("/api/auth/forgot-password", auth.ForgotPassword)
	r.Post("/api/auth/reset-password", auth.ResetPassword)
	r.Get("/api/auth/verify-email/{token}", auth.VerifyEmail)
	r.Post("/api/auth/resend-verification", auth.ResendVerification)

	// Profile routes (require a valid session)
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(sessions))
		pr.Get("/api/profile", profile.GetProfile)
		pr.Put("/api/profile", profile.UpdateProfile)
	})
}
