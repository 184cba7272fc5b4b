package types

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// ImageFormat is the encoding of embedded artwork.
type ImageFormat int

const (
	ImageUnknown ImageFormat = iota
	ImagePNG
	ImageJPEG
	ImageBMP
)

func (f ImageFormat) String() string {
	switch f {
	case ImagePNG:
		return "PNG"
	case ImageJPEG:
		return "JPEG"
	case ImageBMP:
		return "BMP"
	default:
		return "Image"
	}
}

// MIMEType returns the MIME type of the format.
func (f ImageFormat) MIMEType() string {
	switch f {
	case ImagePNG:
		return "image/png"
	case ImageJPEG:
		return "image/jpeg"
	case ImageBMP:
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// DataType returns the covr data type code of the format.
func (f ImageFormat) DataType() DataType {
	switch f {
	case ImagePNG:
		return TypePNG
	case ImageBMP:
		return TypeBMP
	case ImageJPEG:
		return TypeJPEG
	default:
		return TypeImplicit
	}
}

// ImageFormatFromDataType maps a covr data type code to a format.
func ImageFormatFromDataType(t DataType) (ImageFormat, bool) {
	switch t {
	case TypeJPEG:
		return ImageJPEG, true
	case TypePNG:
		return ImagePNG, true
	case TypeBMP:
		return ImageBMP, true
	default:
		return ImageUnknown, false
	}
}

// Image is an encoded picture with its format.
type Image struct {
	Format ImageFormat
	Data   []byte
}

// String returns a short description such as "PNG 600x600, 45 kB".
func (i Image) String() string {
	dims := ""
	if w, h := i.Dimensions(); w > 0 && h > 0 {
		dims = fmt.Sprintf(" %dx%d", w, h)
	}
	return fmt.Sprintf("%s%s, %s", i.Format, dims, humanize.Bytes(uint64(len(i.Data))))
}

// Dimensions extracts width and height from the image header.
// Returns 0, 0 if they cannot be determined.
func (i Image) Dimensions() (int, int) {
	switch i.Format {
	case ImageJPEG:
		return jpegDimensions(i.Data)
	case ImagePNG:
		return pngDimensions(i.Data)
	case ImageBMP:
		return bmpDimensions(i.Data)
	default:
		return 0, 0
	}
}

func jpegDimensions(data []byte) (int, int) {
	// SOF0-SOF2: FF Cn [2 bytes length] [1 byte precision] [2 bytes height] [2 bytes width]
	for i := 0; i < len(data)-9; i++ {
		if data[i] != 0xFF {
			continue
		}
		marker := data[i+1]
		if marker == 0xC0 || marker == 0xC1 || marker == 0xC2 {
			height := int(data[i+5])<<8 | int(data[i+6])
			width := int(data[i+7])<<8 | int(data[i+8])
			return width, height
		}
	}
	return 0, 0
}

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func pngDimensions(data []byte) (int, int) {
	// signature, then IHDR: [4 len] [4 "IHDR"] [4 width] [4 height]
	if len(data) < 24 {
		return 0, 0
	}
	for i := range pngSignature {
		if data[i] != pngSignature[i] {
			return 0, 0
		}
	}
	width := int(data[16])<<24 | int(data[17])<<16 | int(data[18])<<8 | int(data[19])
	height := int(data[20])<<24 | int(data[21])<<16 | int(data[22])<<8 | int(data[23])
	return width, height
}

func bmpDimensions(data []byte) (int, int) {
	// BITMAPINFOHEADER: little-endian int32 width at 18, height at 22
	if len(data) < 26 || data[0] != 'B' || data[1] != 'M' {
		return 0, 0
	}
	width := int32(uint32(data[18]) | uint32(data[19])<<8 | uint32(data[20])<<16 | uint32(data[21])<<24)
	height := int32(uint32(data[22]) | uint32(data[23])<<8 | uint32(data[24])<<16 | uint32(data[25])<<24)
	if height < 0 {
		height = -height
	}
	return int(width), int(height)
}
