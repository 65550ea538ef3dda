package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should use defaults when config file is missing", func(t *testing.T) {
		// when
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("should override defaults from yaml file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := `
server:
  addr: ":9090"
upstream:
  timeout: 5s
catalog:
  path: /data/vtimezones.ndjson
  validate: true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
		assert.Equal(t, "/data/vtimezones.ndjson", cfg.Catalog.Path)
		assert.True(t, cfg.Catalog.Validate)
		assert.Equal(t, "https://outlook.office365.com", cfg.Upstream.AllowedPrefix)
	})

	t.Run("should let environment override file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o644))
		t.Setenv("VTZPROXY_SERVER_ADDR", ":7070")
		t.Setenv("VTZPROXY_UPSTREAM_TIMEOUT", "3s")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.Server.Addr)
		assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	})

	t.Run("should fail on malformed yaml", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o644))

		// when
		_, err := Load(path)

		// then
		assert.Error(t, err)
	})
}
