package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ROBOT_PLATFORM", "ROBOT_HOST", "ROBOT_PORT", "BOTBLOCKS_LISTEN",
		"MQTT_BROKER", "MQTT_TOPIC", "LOG_LEVEL", "ROBOT_TIMEOUT", "POLL_INTERVAL",
	} {
		t.Setenv(k, "")
	}
	// Keep godotenv from picking up a stray .env next to the test.
	chdir(t, t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "botblocks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
platform: rrb3
host: 192.168.1.20
port: "9000"
timeout: 5s
`), 0o644))
	t.Setenv("ROBOT_PORT", "8081")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PlatformRRB3, cfg.Platform)
	assert.Equal(t, "192.168.1.20", cfg.Host)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "http://192.168.1.20:8081", cfg.BaseURL())
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are present, even if empty.
	os.Unsetenv("ROBOT_HOST")
	require.NoError(t, os.WriteFile(".env", []byte("ROBOT_HOST=robot.local\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ROBOT_HOST") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "robot.local", cfg.Host)
}

func TestLoad_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROBOT_TIMEOUT", "soon")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_LeavesValidationToCaller(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROBOT_PLATFORM", "roomba")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "roomba", cfg.Platform)
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownPlatform)

	cfg.Platform = PlatformRRB3
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Platform = "roomba"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownPlatform)

	cfg = Default()
	cfg.Port = "http"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Host = ""
	assert.Error(t, cfg.Validate())
}

func TestBaseURL_IPv6(t *testing.T) {
	cfg := Default()
	cfg.Host = "::1"
	assert.Equal(t, "http://[::1]:8080", cfg.BaseURL())
}
