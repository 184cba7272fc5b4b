package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/mtag/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(home, ".config", "mtag", "config.toml"), resolved)
	assert.Equal(t, config.Default(), *cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
jobs = 4
backup_suffix = " .bak "
preserve_mod_time = true
verify = true
color = "NEVER"
`)

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, config.Config{
		Jobs:            4,
		BackupSuffix:    ".bak",
		PreserveModTime: true,
		Verify:          true,
		Color:           config.ColorNever,
	}, *cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	cfg, _, _, err := config.Load(writeConfig(t, "verify = true\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Equal(t, config.ColorAuto, cfg.Color)
	assert.True(t, cfg.Verify)
}

func TestLoadHomeRelativePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "mtag.toml"), []byte("jobs = 2\n"), 0o644))

	cfg, resolved, exists, err := config.Load("~/mtag.toml")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(home, "mtag.toml"), resolved)
	assert.Equal(t, 2, cfg.Jobs)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "jobs = ", "parse config"},
		{"unknown key", "threads = 2\n", "parse config"},
		{"jobs zero", "jobs = 0\n", "jobs must be between"},
		{"jobs too many", "jobs = 1000\n", "jobs must be between"},
		{"color", `color = "sometimes"`, "color must be"},
		{"suffix separator", `backup_suffix = "/tmp/x"`, "path separator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, _, _, err := config.Load(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}
