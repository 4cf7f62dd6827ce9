package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/airesume")
	t.Setenv("PORT", "")
	t.Setenv("MODEL_API_URL", "")
	t.Setenv("MODEL", "")
	t.Setenv("FRONTEND_URL", "")

	cfg, err := NewServerConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultModelEndpoint, cfg.ModelEndpoint)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultFrontendOrigin, cfg.FrontendOrigin)
	assert.Equal(t, ":5000", cfg.Addr())
}

func TestNewServerConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/airesume")
	t.Setenv("PORT", "8080")
	t.Setenv("MODEL_API_URL", "http://ollama.internal:11434")
	t.Setenv("MODEL", "llama3.1:8b")
	t.Setenv("FRONTEND_URL", "https://resume.example.com")

	cfg, err := NewServerConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://ollama.internal:11434", cfg.ModelEndpoint)
	assert.Equal(t, "llama3.1:8b", cfg.Model)
	assert.Equal(t, "https://resume.example.com", cfg.FrontendOrigin)
}

func TestNewServerConfig_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := NewServerConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNewServerConfig_InvalidPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/airesume")

	for _, port := range []string{"not-a-number", "0", "70000", "-1"} {
		t.Setenv("PORT", port)
		_, err := NewServerConfig()
		assert.Error(t, err, "PORT=%s should be rejected", port)
	}
}
