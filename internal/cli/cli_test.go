package cli

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-botblocks/internal/config"
	"github.com/teslashibe/go-botblocks/pkg/gopigo"
	"github.com/teslashibe/go-botblocks/pkg/robot/robottest"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ROBOT_PLATFORM", "ROBOT_HOST", "ROBOT_PORT", "BOTBLOCKS_LISTEN",
		"MQTT_BROKER", "MQTT_TOPIC", "LOG_LEVEL", "ROBOT_TIMEOUT", "POLL_INTERVAL"} {
		t.Setenv(k, "")
	}
}

// run executes the command tree against srv and returns stdout and stderr.
func run(t *testing.T, srv *robottest.Server, args ...string) (string, string, error) {
	t.Helper()
	clearEnv(t)
	chdir(t, t.TempDir())

	if srv != nil {
		u, err := url.Parse(srv.URL)
		require.NoError(t, err)
		args = append([]string{"--host", u.Hostname(), "--port", u.Port()}, args...)
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&app{quiet: true})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestPing(t *testing.T) {
	srv := robottest.NewServer()
	defer srv.Close()
	srv.JSON("GET", "/ping", `{"server": "GoPiGo3", "v1": "supported"}`)

	out, _, err := run(t, srv, "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "GoPiGo3")
	assert.Contains(t, out, "supported")
}

func TestPing_Unreachable(t *testing.T) {
	srv := robottest.NewServer()
	srv.Close()

	_, _, err := run(t, srv, "ping")
	assert.Error(t, err)
}

func TestBlocksList(t *testing.T) {
	out, _, err := run(t, nil, "blocks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, gopigo.ExtensionName)
	assert.Contains(t, out, "getDistance")
	assert.Contains(t, out, "eyesBlinkers")

	out, _, err = run(t, nil, "--platform", config.PlatformRRB3, "blocks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "RasPiRobot Board 3")
	assert.Contains(t, out, "moveContinously")
}

func TestBlocksCall(t *testing.T) {
	srv := robottest.NewServer()
	defer srv.Close()
	srv.JSON("GET", gopigo.PathDistance, `{"distance": 123}`)
	srv.NoContent("POST", gopigo.PathDrive)

	out, _, err := run(t, srv, "blocks", "call", "getDistance")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)

	out, _, err = run(t, srv, "blocks", "call", "--async", "drive", "forward", "50", "10")
	require.NoError(t, err)
	assert.Equal(t, "done\n", out)
	assert.JSONEq(t, `{"direction":"forward","speed":50,"distance":100}`, srv.LastCall().Body)
}

func TestBlocksCall_FailuresAreSilent(t *testing.T) {
	srv := robottest.NewServer()
	defer srv.Close()

	out, _, err := run(t, srv, "blocks", "call", "getDistance")
	require.NoError(t, err)
	assert.Equal(t, "-1\n", out)

	out, _, err = run(t, srv, "blocks", "call", "stopMotors")
	require.NoError(t, err)
	assert.Equal(t, "done\n", out)

	_, _, err = run(t, srv, "blocks", "call", "fly")
	assert.Error(t, err)
}

func TestPress(t *testing.T) {
	srv := robottest.NewServer()
	defer srv.Close()
	srv.JSON("GET", "/v1/platform/voltages/battery", `{"voltage": 9.5}`)

	out, _, err := run(t, srv, "press", "platformInformationVoltagesBatterySubmit")
	require.NoError(t, err)
	assert.Contains(t, out, "9.5")
}

func TestPress_FailureAlerts(t *testing.T) {
	srv := robottest.NewServer()
	defer srv.Close()

	_, stderr, err := run(t, srv, "press", "driveSubmit", "driveDirection=forward", "driveSpeed=50")
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, stderr, "Error: ")
}

func TestPress_List(t *testing.T) {
	out, _, err := run(t, nil, "press", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "motorsStatusSubmit")
}

func TestPress_BadField(t *testing.T) {
	_, _, err := run(t, nil, "press", "stopSubmit", "oops")
	assert.ErrorContains(t, err, "want name=value")
}

func TestMotorsWatch(t *testing.T) {
	srv := robottest.NewServer()
	defer srv.Close()
	srv.JSON("GET", gopigo.PathMotorsStatus, `{
		"left":  {"flags": 0, "power": 52, "encoder": 5270, "dps": 175},
		"right": {"flags": 0, "power": 50, "encoder": 5201, "dps": 170}}`)

	out, _, err := run(t, srv, "motors", "watch", "--interval", "10ms", "-n", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "5270")
	assert.Contains(t, lines[2], "5201")
}

func TestMotorsWatch_NeedsGoPiGo(t *testing.T) {
	_, _, err := run(t, nil, "--platform", "rrb3", "motors", "watch")
	assert.ErrorContains(t, err, "needs a gopigo3 robot")
}

func TestInvalidPlatform(t *testing.T) {
	_, _, err := run(t, nil, "--platform", "roomba", "ping")
	assert.ErrorIs(t, err, config.ErrUnknownPlatform)
}

func TestPlatformFlagOverridesBadConfig(t *testing.T) {
	srv := robottest.NewServer()
	defer srv.Close()
	srv.JSON("GET", "/ping", `{"server": "RRB3", "v1": "supported"}`)

	path := filepath.Join(t.TempDir(), "botblocks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform: roomba\n"), 0o644))

	_, _, err := run(t, srv, "--config", path, "ping")
	assert.ErrorIs(t, err, config.ErrUnknownPlatform)

	out, _, err := run(t, srv, "--config", path, "--platform", "rrb3", "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "RRB3")
}

func TestInstall(t *testing.T) {
	root := t.TempDir()
	ext := filepath.Join(root, "scratch_extensions")
	require.NoError(t, os.MkdirAll(ext, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "medialibrarythumbnails"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ext, "extensions.json"), []byte(`[{"name":"PicoBoard"}]`), 0o644))

	src := t.TempDir()
	script := filepath.Join(src, "gopigo3Extension.js")
	thumb := filepath.Join(src, "gopigo3.png")
	require.NoError(t, os.WriteFile(script, []byte("js"), 0o644))
	require.NoError(t, os.WriteFile(thumb, []byte("png"), 0o644))

	out, _, err := run(t, nil, "install", "--root", root, "--script", script, "--thumbnail", thumb)
	require.NoError(t, err)
	assert.Contains(t, out, "PicoBoard")
	assert.Contains(t, out, "GoPiGo3")

	data, err := os.ReadFile(filepath.Join(ext, "extensions.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"url":"http://localhost:8080/"`)
}

func TestInstall_RequiresSources(t *testing.T) {
	_, _, err := run(t, nil, "install", "--root", t.TempDir())
	assert.ErrorContains(t, err, `required flag(s) "script", "thumbnail" not set`)
}

func TestInstall_NameFollowsPlatform(t *testing.T) {
	root := t.TempDir()
	ext := filepath.Join(root, "scratch_extensions")
	require.NoError(t, os.MkdirAll(ext, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "medialibrarythumbnails"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ext, "extensions.json"), []byte(`[]`), 0o644))

	src := t.TempDir()
	script := filepath.Join(src, "rrb3Extension.js")
	thumb := filepath.Join(src, "rrb3.png")
	require.NoError(t, os.WriteFile(script, []byte("js"), 0o644))
	require.NoError(t, os.WriteFile(thumb, []byte("png"), 0o644))

	out, _, err := run(t, nil, "--platform", "rrb3", "install", "--root", root, "--script", script, "--thumbnail", thumb)
	require.NoError(t, err)
	assert.Contains(t, out, "RasPiRobot Board 3")

	data, err := os.ReadFile(filepath.Join(ext, "extensions.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"RasPiRobot Board 3"`)
}
