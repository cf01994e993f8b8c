package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "nadra/pkg/domain-errors"
)

func TestLoad(t *testing.T) {
	t.Run("missing signing key is fatal", func(t *testing.T) {
		t.Setenv("JWT_SIGNING_KEY", "")
		_, err := Load()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("defaults applied", func(t *testing.T) {
		t.Setenv("JWT_SIGNING_KEY", "test-key")
		t.Setenv("JWT_EXPIRY_MINUTES", "")
		t.Setenv("NADRA_ADDR", "")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "nadra", cfg.JWTIssuer)
		assert.Equal(t, time.Hour, cfg.JWTValidity)
	})

	t.Run("validity window from env", func(t *testing.T) {
		t.Setenv("JWT_SIGNING_KEY", "test-key")
		t.Setenv("JWT_EXPIRY_MINUTES", "15")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, cfg.JWTValidity)
	})

	t.Run("malformed validity rejected", func(t *testing.T) {
		t.Setenv("JWT_SIGNING_KEY", "test-key")
		t.Setenv("JWT_EXPIRY_MINUTES", "soon")
		_, err := Load()
		require.Error(t, err)
	})
}
