package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumen/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lumen", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"live", "print", "plan", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "verbose", "seed", "otel-endpoint"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	live, _, err := cmd.Find([]string{"live"})
	require.NoError(t, err)
	for _, name := range []string{"headless", "ticks", "metrics-addr"} {
		assert.NotNil(t, live.Flags().Lookup(name), name)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lumen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const smallConfig = `window:
  width: 8
  height: 6
passes:
  - kind: toy
    name: bg
    toy: rings
  - kind: text
    name: hud
    text: "{frame}"
`

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "lumen "))
}

func TestPlan(t *testing.T) {
	out, err := run(t, "plan", "--config", writeConfig(t, smallConfig))
	require.NoError(t, err)
	assert.Contains(t, out, "size 8x6")
	assert.Contains(t, out, `pass 0 toy "bg" program=rings -> main clear`)
	assert.Contains(t, out, "present main")
}

func TestPrint(t *testing.T) {
	outDir := t.TempDir()
	out, err := run(t, "print", "--config", writeConfig(t, smallConfig), "--frames", "2", "--out", outDir)
	require.NoError(t, err)

	dir := strings.TrimSpace(out)
	assert.Equal(t, outDir, filepath.Dir(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestInvalidFlagOverride(t *testing.T) {
	_, err := run(t, "print", "--config", writeConfig(t, smallConfig), "--frames=-1")
	assert.Error(t, err)
}

func TestTracingEndpointFlag(t *testing.T) {
	_, err := run(t, "plan", "--config", writeConfig(t, smallConfig), "--otel-endpoint", "collector:4318")
	require.ErrorIs(t, err, config.ErrInvalid)

	// Disabled tracing ignores the endpoint entirely.
	t.Setenv("LUMEN_OTEL_ENABLED", "false")
	_, err = run(t, "plan", "--config", writeConfig(t, smallConfig), "--otel-endpoint", "collector:4318")
	require.NoError(t, err)
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "plan", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
