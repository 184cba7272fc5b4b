package types

import (
	"io"

	"github.com/simonhull/mtag/internal/binary"
)

// Format represents the detected MPEG-4 flavour.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatM4A represents M4A audio files.
	FormatM4A
	// FormatM4B represents M4B audiobook files.
	FormatM4B
	// FormatM4V represents iTunes video files.
	FormatM4V
	// FormatMP4 represents generic ISO base media files.
	FormatMP4
)

func (f Format) String() string {
	switch f {
	case FormatM4A:
		return "M4A"
	case FormatM4B:
		return "M4B"
	case FormatM4V:
		return "M4V"
	case FormatMP4:
		return "MP4"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatM4A:
		return []string{".m4a", ".m4p"}
	case FormatM4B:
		return []string{".m4b"}
	case FormatM4V:
		return []string{".m4v"}
	case FormatMP4:
		return []string{".mp4"}
	default:
		return nil
	}
}

// brands maps ftyp major brands to formats. Anything else carrying an
// ftyp atom is treated as a generic MP4.
var brands = map[string]Format{
	"M4A ": FormatM4A,
	"M4P ": FormatM4A,
	"M4B ": FormatM4B,
	"M4V ": FormatM4V,
	"M4VH": FormatM4V,
	"M4VP": FormatM4V,
}

// DetectFormat checks for a leading ftyp atom and classifies the file by its
// major brand.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	// size + type + major brand + minor version
	if size < 16 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	atomSize, err := binary.Read[uint32](sr, 0, "ftyp atom size")
	if err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	header, err := sr.ReadBytes(4, 8, "ftyp atom type and brand")
	if err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	if string(header[:4]) != "ftyp" {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "missing ftyp atom",
		}
	}

	if atomSize < 16 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "ftyp atom too small",
		}
	}

	if format, ok := brands[string(header[4:])]; ok {
		return format, nil
	}
	return FormatMP4, nil
}
