package mtag

import (
	"os"
	"path/filepath"
	"strings"
)

// ImageFormatFromPath infers the image encoding from the file extension,
// ignoring case. Only png, bmp, jpeg and jpg are recognized.
func ImageFormatFromPath(path string) (ImageFormat, bool) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return ImagePNG, true
	case "bmp":
		return ImageBMP, true
	case "jpeg", "jpg":
		return ImageJPEG, true
	default:
		return ImageUnknown, false
	}
}

// LoadImage reads an artwork file. The format comes from the extension
// alone; the contents are not inspected.
func LoadImage(path string) (Image, error) {
	format, ok := ImageFormatFromPath(path)
	if !ok {
		reason := "unsupported image extension"
		if filepath.Ext(path) == "" {
			reason = "image format can't be determined without an extension"
		}
		return Image{}, &ConfigError{Field: FieldArtwork.String(), Value: path, Reason: reason}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, &ConfigError{Field: FieldArtwork.String(), Value: path, Reason: "cannot read image", Err: err}
	}

	return Image{Format: format, Data: data}, nil
}
