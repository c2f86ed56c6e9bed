package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "cmake", cfg.CMake)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		EnvCMake:    "/opt/cmake/bin/cmake",
		EnvPlan:     "plan.yaml",
		EnvLogLevel: "debug",
		EnvReport:   "JSON",
	}))
	require.NoError(t, err)

	assert.Equal(t, Config{
		CMake:    "/opt/cmake/bin/cmake",
		PlanPath: "plan.yaml",
		LogLevel: slog.LevelDebug,
		Report:   ReportJSON,
	}, cfg)
}

func TestFromEnvInvalid(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{EnvLogLevel: "loud"}))
	require.Error(t, err)

	_, err = FromEnv(envMap(map[string]string{EnvReport: "html"}))
	require.Error(t, err)
}

func TestLoadDotEnvMissing(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CMAKE=cmake-from-file\nMAPSWEEP_PLAN=from-file.yaml\n"), 0o644))

	t.Setenv(EnvCMake, "cmake-from-env")
	t.Setenv(EnvPlan, "")
	require.NoError(t, os.Unsetenv(EnvPlan))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cmake-from-env", cfg.CMake)
	assert.Equal(t, "from-file.yaml", cfg.PlanPath)
}
