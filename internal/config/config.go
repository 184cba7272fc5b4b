// Package config loads the optional mtag defaults file.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gitlab.com/tozd/go/errors"
)

// Color modes accepted by the color key.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// MaxJobs bounds the jobs key.
const MaxJobs = 64

// Config holds the defaults applied before command line flags.
type Config struct {
	Jobs            int    `toml:"jobs"`
	BackupSuffix    string `toml:"backup_suffix"`
	PreserveModTime bool   `toml:"preserve_mod_time"`
	Verify          bool   `toml:"verify"`
	Color           string `toml:"color"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Jobs:  1,
		Color: ColorAuto,
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mtag/config.toml")
}

// Load reads the file at path, or the default location when path is empty.
// A missing file is not an error: the defaults are returned and exists is
// false.
func Load(path string) (cfg *Config, resolved string, exists bool, err error) {
	c := Default()

	resolved, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, errors.Errorf("open config: %w", err)
		}
		defer file.Close() //nolint:errcheck // Read-only handle

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&c); err != nil {
			return nil, "", false, errors.Errorf("parse config %s: %w", resolved, err)
		}
	}

	c.normalize()

	if err := c.Validate(); err != nil {
		return nil, "", false, err
	}

	return &c, resolved, exists, nil
}

func (c *Config) normalize() {
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	if c.Color == "" {
		c.Color = ColorAuto
	}
	c.BackupSuffix = strings.TrimSpace(c.BackupSuffix)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Jobs < 1 || c.Jobs > MaxJobs {
		return errors.Errorf("config: jobs must be between 1 and %d, got %d", MaxJobs, c.Jobs)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("config: color must be %s, %s or %s, got %q", ColorAuto, ColorAlways, ColorNever, c.Color)
	}
	if strings.ContainsAny(c.BackupSuffix, `/\`) {
		return errors.Errorf("config: backup_suffix must not contain a path separator, got %q", c.BackupSuffix)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
	} else {
		var err error
		path, err = expandPath(path)
		if err != nil {
			return "", false, err
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return "", false, errors.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, errors.Errorf("config %s is a directory", path)
	}
	return path, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", errors.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
