package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{configPathEnv, outDirEnv, logLevelEnv, timezoneEnv, telegramTokenEnv, telegramChatIDEnv} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load("")
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "America/Montevideo", cfg.Run.Location().String())
	assert.Equal(t, []string{"report", "json"}, cfg.Run.Outputs)
	assert.False(t, cfg.Filters.Disabled)
	assert.Contains(t, cfg.Filters.States(), "reprogramado")
	assert.Contains(t, cfg.Filters.States(), "en camino")
	require.NotNil(t, cfg.KnownBad)
	assert.Contains(t, cfg.KnownBad.ProblemOrders, "2000012378209506")
	assert.False(t, cfg.Notifications.Telegram.Enabled())
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
run:
  timezone: UTC
  outputs: [json]
filters:
  rescheduled: false
  inTransit: false
knownBad:
  delayed: ["SKU-X"]
notifications:
  telegram:
    chatId: "99"
`), 0o644))

	cfg := Load(path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "UTC", cfg.Run.Location().String())
	assert.Equal(t, []string{"json"}, cfg.Run.Outputs)
	assert.NotEmpty(t, cfg.Run.OutDir)

	states := cfg.Filters.States()
	assert.NotContains(t, states, "reprogramado")
	assert.NotContains(t, states, "en camino")
	assert.Contains(t, states, "cancelado")

	require.NotNil(t, cfg.KnownBad)
	assert.Equal(t, []string{"SKU-X"}, cfg.KnownBad.Delayed)
	assert.Empty(t, cfg.KnownBad.Reprogrammed)
	assert.Equal(t, "99", cfg.Notifications.Telegram.ChatID)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run:\n  outdir: /from/file\n"), 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv(outDirEnv, "/from/env")
	t.Setenv(logLevelEnv, "warn")
	t.Setenv(timezoneEnv, "Europe/Madrid")
	t.Setenv(telegramTokenEnv, "TOKEN")
	t.Setenv(telegramChatIDEnv, "42")

	cfg := Load("")
	assert.Equal(t, "/from/env", cfg.Run.OutDir)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "Europe/Madrid", cfg.Run.Location().String())
	assert.True(t, cfg.Notifications.Telegram.Enabled())
}

func TestBrokenInputsFallBack(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run: [not, a, map"), 0o644))
	t.Setenv(timezoneEnv, "Mars/Olympus")

	cfg := Load(path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "America/Montevideo", cfg.Run.Location().String())

	cfg = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, []string{"report", "json"}, cfg.Run.Outputs)
}
