package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/lumora-app/lumora-backend/internal/config"
	"github.com/lumora-app/lumora-backend/internal/database"
	"github.com/lumora-app/lumora-backend/internal/handlers"
	"github.com/lumora-app/lumora-backend/internal/middleware"
	"github.com/lumora-app/lumora-backend/internal/routes"
	"github.com/lumora-app/lumora-backend/internal/services"
	"github.com/lumora-app/lumora-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Wire up services and handlers
	users := store.NewUserStore(database.PostgresDB)
	sessions := services.NewSessionService(&services.RedisKeyValue{Client: database.RedisClient})
	mailer := services.NewSMTPMailer(cfg)
	authService := services.NewAuthService(users, sessions, mailer)

	verbose := !cfg.IsProduction()
	authHandler := handlers.NewAuthHandler(authService, cfg.FrontendURL, verbose)
	profileHandler := handlers.NewProfileHandler(users, verbose)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		log.Println("Production security headers enabled")
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, authHandler, profileHandler, sessions)

	log.Printf("Lumora backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
