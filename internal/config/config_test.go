package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, `
graphDir: ./hooks
dataDir: ./data
workerPoolSize: 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./hooks", cfg.GraphDir)
	require.Equal(t, 4, cfg.WorkerPoolSize)
	require.Equal(t, DefaultOrchestratorTimeout, cfg.OrchestratorTimeout())
}

func TestLoadMissingRequiredFieldFails(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, `
dataDir: ./data
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, `
graphDir: ./hooks
dataDir: ./data
`)
	t.Setenv("ENGINE_GRAPH_DIR", "/override/hooks")
	t.Setenv("ENGINE_TIMEOUT_MS", "1500")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/override/hooks", cfg.GraphDir)
	require.Equal(t, int64(1500), cfg.OrchestratorTimeout().Milliseconds())
}
