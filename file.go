package mtag

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/simonhull/mtag/internal/m4a"
)

// Codec reads and writes the tag of one file.
//
// Implementations must be safe for concurrent use on distinct paths.
type Codec interface {
	ReadTag(ctx context.Context, path string) (*Tag, error)
	WriteTag(ctx context.Context, path string, tag *Tag) error
}

// FileCodec is the Codec for MPEG-4 files on disk.
type FileCodec struct {
	opts saveOptions
}

var _ Codec = (*FileCodec)(nil)

// NewFileCodec creates a FileCodec. Options only affect WriteTag.
func NewFileCodec(opts ...SaveOption) *FileCodec {
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &FileCodec{opts: *options}
}

// ReadTag reads the metadata list of the file at path.
//
// Files without metadata yield an empty tag. Files that are not MPEG-4
// containers fail with UnsupportedFormatError; structural damage fails
// with CorruptedFileError.
func (c *FileCodec) ReadTag(ctx context.Context, path string) (*Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("open file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.Errorf("stat file: %w", err)
	}
	if stat.IsDir() {
		return nil, errors.Errorf("%s is a directory", path)
	}

	tag, err := m4a.Read(f, stat.Size(), path)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int64("size", stat.Size()).
		Int("items", tag.Len()).
		Msg("read tag")

	return tag, nil
}
