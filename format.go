package mtag

import (
	"io"

	"github.com/simonhull/mtag/internal/types"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to maintain public API.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatM4A     = types.FormatM4A
	FormatM4B     = types.FormatM4B
	FormatM4V     = types.FormatM4V
	FormatMP4     = types.FormatMP4
)

// DetectFormat is a wrapper around types.DetectFormat.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}
