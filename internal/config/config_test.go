package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENV", "Production")
	t.Setenv("FRONTEND_URL", "https://app.lumora.app")
	t.Setenv("ALLOWED_ORIGINS", "https://app.lumora.app, https://www.lumora.app")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://app.lumora.app", cfg.FrontendURL)
	assert.Equal(t, []string{"https://app.lumora.app", "https://www.lumora.app"}, cfg.AllowedOrigins)
}

func TestLoad_OriginsFallBackToFrontendURL(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://app.lumora.app")

	cfg := Load()
	assert.Equal(t, []string{"https://app.lumora.app"}, cfg.AllowedOrigins)
}
