package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
name: project
idioms_file: extra.yaml
render:
  indent: 2
  type_hints: false
validate_syntax: true
workers: 8
extensions: [".nl"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "project", cfg.Name)
	assert.Equal(t, "extra.yaml", cfg.IdiomsFile)
	assert.Equal(t, 2, cfg.Render.Indent)
	assert.False(t, cfg.Render.TypeHints)
	assert.True(t, cfg.Render.Docstrings)
	assert.True(t, cfg.ValidateSyntax)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, []string{".nl"}, cfg.Extensions)
}

func TestLoadEnv(t *testing.T) {
	path := writeConfig(t, "workers: 2\n")
	t.Setenv("NLC_WORKERS", "6")
	t.Setenv("NLC_RENDER_INDENT", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, 3, cfg.Render.Indent)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "indent", content: "render:\n  indent: 0\n", want: ErrInvalidIndent},
		{name: "workers", content: "workers: -1\n", want: ErrInvalidWorkers},
		{name: "extension", content: "extensions: [nl]\n", want: ErrInvalidExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Workers = 3
	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "workers: 3")

	loaded, err := Load(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}
