package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atom(typ string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	buf := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(buf, uint32(8+len(body)))
	copy(buf[4:], typ)
	return append(buf, body...)
}

func writeM4A(t *testing.T, dir, name string) string {
	t.Helper()
	data := bytes.Join([][]byte{
		atom("ftyp", []byte("M4A "), make([]byte, 4), []byte("M4A mp42")),
		atom("moov", atom("mvhd", make([]byte, 100))),
		atom("mdat", []byte("audio")),
	}, nil)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestSetThenGet(t *testing.T) {
	file := writeM4A(t, t.TempDir(), "a.m4a")

	res := runCLI(t, "set", "--title", "Song", "--artist", "alice,bob", "--track", "2/3", file)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "tagged: "+file+"\n", res.stdout)

	res = runCLI(t, "get", file)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "# "+file+":")
	assert.Contains(t, res.stdout, "Song")
	assert.Contains(t, res.stdout, "album artist")
	assert.Contains(t, res.stdout, "alice, bob")
	assert.Contains(t, res.stdout, "2/3")
}

func TestSetEmptyValueClears(t *testing.T) {
	file := writeM4A(t, t.TempDir(), "a.m4a")

	require.Zero(t, runCLI(t, "set", "--title", "Song", "--album", "Album", file).code)
	require.Zero(t, runCLI(t, "set", "--title", "", file).code)

	res := runCLI(t, "get", file)
	require.Zero(t, res.code)
	assert.NotContains(t, res.stdout, "Song")
	assert.Contains(t, res.stdout, "Album")
}

func TestSetConfigErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeM4A(t, dir, "a.m4a")
	before, err := os.ReadFile(file)
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no fields", []string{"set", file}, "error: at least one field must be given"},
		{"track above total", []string{"set", "--track", "3/2", file}, `invalid track "3/2"`},
		{"bpm out of range", []string{"set", "--bpm", "70000", file}, "invalid bpm"},
		{"unknown type", []string{"set", "--type", "podcast", file}, "invalid type"},
		{"artwork extension", []string{"set", "--artwork", filepath.Join(dir, "cover.gif"), file}, "unsupported image extension"},
		{"unknown flag", []string{"set", "--lyrics", "x", file}, "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.args...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, tt.want)
			assert.Empty(t, res.stdout)

			after, err := os.ReadFile(file)
			require.NoError(t, err)
			assert.Equal(t, before, after, "no file is touched")
		})
	}
}

func TestExitCodeCountsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeM4A(t, dir, "good.m4a")
	notMP4 := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notMP4, []byte("plain text, not a container"), 0o644))

	res := runCLI(t, "set", "--year", "2020", good, filepath.Join(dir, "missing.m4a"), notMP4)
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stdout, "tagged: "+good)
	assert.Contains(t, res.stderr, "error reading "+filepath.Join(dir, "missing.m4a"))
	assert.Contains(t, res.stderr, "error reading "+notMP4)
}

func TestClear(t *testing.T) {
	file := writeM4A(t, t.TempDir(), "a.m4a")
	require.Zero(t, runCLI(t, "set", "--title", "Song", "--genre", "Rock", file).code)

	res := runCLI(t, "clear", file)
	require.Zero(t, res.code, res.stderr)
	assert.Equal(t, "cleared: "+file+"\n", res.stdout)

	res = runCLI(t, "get", file)
	assert.Contains(t, res.stdout, "(no metadata)")
}

func TestGlobalFlags(t *testing.T) {
	dir := t.TempDir()
	file := writeM4A(t, dir, "a.m4a")

	res := runCLI(t, "--backup", ".orig", "--verify", "--jobs", "2", "set", "--title", "x", file)
	require.Zero(t, res.code, res.stderr)
	_, err := os.Stat(file + ".orig")
	assert.NoError(t, err, "backup is kept")

	res = runCLI(t, "--jobs", "0", "get", file)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "jobs must be between")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := writeM4A(t, dir, "a.m4a")
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("backup_suffix = \".bak\"\n"), 0o644))

	res := runCLI(t, "--config", cfg, "set", "--title", "x", file)
	require.Zero(t, res.code, res.stderr)
	_, err := os.Stat(file + ".bak")
	assert.NoError(t, err)

	require.NoError(t, os.WriteFile(cfg, []byte("color = \"purple\"\n"), 0o644))
	res = runCLI(t, "--config", cfg, "get", file)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "color must be")
}

func TestGlobExpansion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "disc1"), 0o755))
	a := writeM4A(t, dir, "a.m4a")
	b := writeM4A(t, filepath.Join(dir, "disc1"), "b.m4a")

	res := runCLI(t, "set", "--year", "2020", filepath.Join(dir, "**", "*.m4a"))
	require.Zero(t, res.code, res.stderr)
	assert.Contains(t, res.stdout, "tagged: "+a)
	assert.Contains(t, res.stdout, "tagged: "+b)
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	a := writeM4A(t, dir, "a.m4a")
	b := writeM4A(t, dir, "b.m4a")
	literal := writeM4A(t, dir, "[live].m4a")

	got, err := expandArgs([]string{
		filepath.Join(dir, "*.m4a"),
		filepath.Join(dir, "plain.m4a"),
		filepath.Join(dir, "*.m4b"),
		literal,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		literal, a, b,
		filepath.Join(dir, "plain.m4a"),
		filepath.Join(dir, "*.m4b"),
		literal,
	}, got)

	_, err = expandArgs([]string{filepath.Join(dir, "[.m4a")})
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	file := writeM4A(t, t.TempDir(), "a.m4a")
	require.Zero(t, runCLI(t, "set", "--title", "Song", file).code)

	res := runCLI(t, "dump", file)
	require.Zero(t, res.code, res.stderr)
	assert.Contains(t, res.stdout, "M4A")
	assert.Contains(t, res.stdout, "\nmoov (size: ")
	assert.Contains(t, res.stdout, "\n      ilst (size: ")
	assert.Contains(t, res.stdout, "\n        ©nam (size: ")

	res = runCLI(t, "dump", filepath.Join(t.TempDir(), "missing.m4a"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "error reading")
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "--version")
	require.Zero(t, res.code)
	assert.Contains(t, res.stdout, "0.1.0")
}
