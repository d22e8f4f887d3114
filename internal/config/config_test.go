package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Color)
	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, 512, cfg.MaxDepth)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "#fe218b", cfg.Palette.Main)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
color = false
indent = 4
format = "json"

[palette]
third = "#ffffff"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Color)
	assert.Equal(t, 4, cfg.Indent)
	assert.Equal(t, 512, cfg.MaxDepth, "unset keys keep their default")
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, "#ffffff", cfg.Palette.Third)
	assert.Equal(t, "#fe218b", cfg.Palette.Main)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("AppData", dir)
	t.Setenv("HOME", dir)

	p, err := DefaultPath()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o700))
	require.NoError(t, os.WriteFile(p, []byte("max_depth = 64\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxDepth)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "indent = = 3"},
		{"unknown key", "colour = true"},
		{"bad format", `format = "yaml"`},
		{"bad indent", "indent = 99"},
		{"bad depth", "max_depth = 0"},
		{"bad color", "[palette]\nmain = \"pink\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err, "an explicit path must exist")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(func(string) string { return "" })
	assert.True(t, cfg.Color)

	cfg.ApplyEnv(func(k string) string {
		if k == "NO_COLOR" {
			return "1"
		}
		return ""
	})
	assert.False(t, cfg.Color)
}

func TestIsTerminalOnFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTerminal(f))
}
