package mtag

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/simonhull/mtag/internal/m4a"
)

// rename is swapped in tests to simulate failures.
var rename = os.Rename

// WriteTag replaces the metadata list of the file at path with tag.
//
// This is an atomic operation: the new file is written to a temporary file
// in the same directory, synced, then renamed over the original. If any
// step fails before the rename, the original file remains unchanged.
func (c *FileCodec) WriteTag(ctx context.Context, path string, tag *Tag) error { //nolint:gocyclo // Atomic file operations require sequential steps
	if err := ctx.Err(); err != nil {
		return err
	}

	original, err := os.Open(path)
	if err != nil {
		return errors.Errorf("open file: %w", err)
	}
	defer original.Close() //nolint:errcheck // Read-only handle

	info, err := original.Stat()
	if err != nil {
		return errors.Errorf("stat file: %w", err)
	}

	// Create temp file in same directory as output (for atomic rename)
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".mtag-*.tmp")
	if err != nil {
		return errors.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tempFile.Close()    //nolint:errcheck // Best effort cleanup
			_ = os.Remove(tempPath) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err := m4a.Write(ctx, tempFile, tag, original, info.Size(), path); err != nil {
		return err
	}

	if err := tempFile.Chmod(info.Mode().Perm()); err != nil {
		return errors.Errorf("set permissions: %w", err)
	}

	// Sync temp file (fsync) to ensure data is on disk
	if err := tempFile.Sync(); err != nil {
		return errors.Errorf("sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return errors.Errorf("close temp file: %w", err)
	}

	// release the source before it is renamed
	_ = original.Close() //nolint:errcheck // Read-only handle

	backupPath := ""
	if c.opts.backupSuffix != "" {
		backupPath = path + c.opts.backupSuffix
		if err := rename(path, backupPath); err != nil {
			return errors.Errorf("create backup: %w", err)
		}
	}

	if err := rename(tempPath, path); err != nil {
		if backupPath != "" {
			// put the original back where it was
			if restoreErr := rename(backupPath, path); restoreErr != nil {
				return errors.Errorf("rename temp to output: %w (restoring %s: %v)", err, backupPath, restoreErr)
			}
		}
		return errors.Errorf("rename temp to output: %w", err)
	}
	success = true

	if c.opts.preserveModTime {
		_ = os.Chtimes(path, info.ModTime(), info.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("backup", c.opts.backupSuffix).
		Bool("validate", c.opts.validate).
		Msg("wrote tag")

	if c.opts.validate {
		if err := c.validateWrittenFile(ctx, path, tag); err != nil {
			return errors.Errorf("validation failed: %w", err)
		}
	}

	return nil
}

// validateWrittenFile re-reads the file and compares every item.
func (c *FileCodec) validateWrittenFile(ctx context.Context, path string, want *Tag) error {
	written, err := c.ReadTag(ctx, path)
	if err != nil {
		return errors.Errorf("re-read: %w", err)
	}
	if !written.Equal(want) {
		return errors.Errorf("read back %d items, wrote %d", written.Len(), want.Len())
	}
	return nil
}
