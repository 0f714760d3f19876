package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, 5*time.Second, cfg.Screenshot.Delay)
	assert.Equal(t, []string{".png"}, cfg.Screenshot.Extensions)
	assert.Equal(t, []string{"xdotool", "getactivewindow"}, cfg.Screenshot.WindowCommand)
	assert.Equal(t, "import", cfg.Screenshot.Command)
	assert.Equal(t, "cargo", cfg.Doc.Command)
	assert.Equal(t, []string{"doc", "--open"}, cfg.Doc.Args)
	assert.Equal(t, "./target/debug/macros", cfg.Run.Binary)
	assert.Equal(t, "run.log", cfg.Run.LogPath)
	assert.False(t, cfg.Lock.Disabled)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, Validate(cfg))
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devtask.yaml")
	content := `
screenshot:
  delay: 2s
  extensions: [".png", ".jpg"]
run:
  binary: ./bin/app
  log_path: logs/app.log
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Screenshot.Delay)
	assert.Equal(t, []string{".png", ".jpg"}, cfg.Screenshot.Extensions)
	assert.Equal(t, "import", cfg.Screenshot.Command, "unset fields keep defaults")
	assert.Equal(t, "./bin/app", cfg.Run.Binary)
	assert.Equal(t, "logs/app.log", cfg.Run.LogPath)
	assert.Equal(t, "cargo", cfg.Doc.Command)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("runn:\n  binary: x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseRejectsInvalidExtension(t *testing.T) {
	_, err := Parse([]byte("screenshot:\n  extensions: [\"png\"]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Extensions")
	assert.Contains(t, err.Error(), "rule: ext")
}

func TestParseKeepsExplicitZeroDelay(t *testing.T) {
	cfg, err := Parse([]byte("screenshot:\n  delay: 0s\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Screenshot.Delay)
	assert.Equal(t, []string{".png"}, cfg.Screenshot.Extensions)
}

func TestParseOverrideReplacesDefaultList(t *testing.T) {
	cfg, err := Parse([]byte("doc:\n  args: [\"doc\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"doc"}, cfg.Doc.Args)
}

func TestParseRejectsNegativeDelay(t *testing.T) {
	_, err := Parse([]byte("screenshot:\n  delay: -1s\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Delay")
}

func TestParseRejectsUnknownLogFormat(t *testing.T) {
	_, err := Parse([]byte("log:\n  format: xml\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Format")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
