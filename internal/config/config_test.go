package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "leads.db", cfg.DB.Path)
	require.Equal(t, "lead_agent.log", cfg.Log.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, ".env", cfg.EnvFile)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leadagent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  path: /tmp/file.db
log:
  level: debug
server:
  port: 9000
completion:
  model: llama-3.1-8b-instant
`), 0o644))

	t.Setenv("LEADAGENT_CONFIG_PATH", path)
	t.Setenv("LEADAGENT_SERVER_PORT", "9100")
	t.Setenv("LEADAGENT_TRANSPORT_MODE", "http")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/file.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "llama-3.1-8b-instant", cfg.Completion.Model)
	require.Equal(t, 30, cfg.Scraper.TimeoutSeconds)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("LEADAGENT_HTTP_TIMEOUT_SECONDS", "soon")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Transport.Mode = "grpc"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Log.Level = "verbose"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Scraper.TimeoutSeconds = 0
	require.Error(t, cfg.Validate())
}
