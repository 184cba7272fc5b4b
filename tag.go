package mtag

import "github.com/simonhull/mtag/internal/types"

// Tag is an alias to types.Tag.
// Re-exporting from internal/types to keep the codec's model in the public API.
type Tag = types.Tag

// Item is one entry of a Tag.
type Item = types.Item

// Ident identifies an item, such as "\xa9nam" for the title.
type Ident = types.Ident

// Data is one value of an item.
type Data = types.Data

// DataType is the type code of a data value.
type DataType = types.DataType

// Pair is a track or disc position.
type Pair = types.Pair

// MediaType is the stik value of a file.
type MediaType = types.MediaType

// Image is an embedded picture.
type Image = types.Image

// ImageFormat is the encoding of an Image.
type ImageFormat = types.ImageFormat

// Re-export the idents of the editable fields.
const (
	IdentTitle         = types.IdentTitle
	IdentArtist        = types.IdentArtist
	IdentAlbumArtist   = types.IdentAlbumArtist
	IdentComposer      = types.IdentComposer
	IdentAlbum         = types.IdentAlbum
	IdentCustomGenre   = types.IdentCustomGenre
	IdentStandardGenre = types.IdentStandardGenre
	IdentCategory      = types.IdentCategory
	IdentDescription   = types.IdentDescription
	IdentMediaType     = types.IdentMediaType
	IdentArtwork       = types.IdentArtwork
	IdentBPM           = types.IdentBPM
	IdentTrack         = types.IdentTrack
	IdentDisc          = types.IdentDisc
	IdentCopyright     = types.IdentCopyright
	IdentISRC          = types.IdentISRC
	IdentTVShow        = types.IdentTVShow
	IdentWork          = types.IdentWork
	IdentYear          = types.IdentYear
)

// Re-export image formats.
const (
	ImageUnknown = types.ImageUnknown
	ImagePNG     = types.ImagePNG
	ImageJPEG    = types.ImageJPEG
	ImageBMP     = types.ImageBMP
)

// Re-export media types.
const (
	MediaMovie      = types.MediaMovie
	MediaNormal     = types.MediaNormal
	MediaAudiobook  = types.MediaAudiobook
	MediaMusicVideo = types.MediaMusicVideo
	MediaShortFilm  = types.MediaShortFilm
	MediaTVShow     = types.MediaTVShow
	MediaBooklet    = types.MediaBooklet
)

// NewTag creates a tag holding the given items.
func NewTag(items ...Item) *Tag {
	return types.NewTag(items...)
}

// MediaTypeNames lists the names accepted for the type field.
func MediaTypeNames() []string {
	return types.MediaTypeNames()
}

// ParseMediaType looks up a media type by name, ignoring case.
func ParseMediaType(name string) (MediaType, bool) {
	return types.ParseMediaType(name)
}
