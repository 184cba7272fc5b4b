package types

import (
	"bytes"
	"iter"
	"slices"
	"strings"
)

// Ident identifies an item in the iTunes metadata list.
//
// Standard items use their four-character atom type, where © is the single
// byte 0xA9 ("\xa9nam" for the title). Freeform items are written as
// "----:mean:name".
type Ident string

// Well-known item identifiers.
const (
	IdentTitle          Ident = "\xa9nam"
	IdentArtist         Ident = "\xa9ART"
	IdentAlbumArtist    Ident = "aART"
	IdentComposer       Ident = "\xa9wrt"
	IdentAlbum          Ident = "\xa9alb"
	IdentCustomGenre    Ident = "\xa9gen"
	IdentStandardGenre  Ident = "gnre"
	IdentCategory       Ident = "catg"
	IdentDescription    Ident = "desc"
	IdentMediaType      Ident = "stik"
	IdentArtwork        Ident = "covr"
	IdentBPM            Ident = "tmpo"
	IdentTrack          Ident = "trkn"
	IdentDisc           Ident = "disk"
	IdentCopyright      Ident = "cprt"
	IdentISRC           Ident = "----:com.apple.iTunes:ISRC"
	IdentTVShow         Ident = "tvsh"
	IdentWork           Ident = "\xa9wrk"
	IdentYear           Ident = "\xa9day"
	IdentComment        Ident = "\xa9cmt"
	IdentEncoder        Ident = "\xa9too"
	IdentLyrics         Ident = "\xa9lyr"
	IdentGrouping       Ident = "\xa9grp"
	IdentFreeformPrefix       = "----"
)

// FreeformIdent builds the identifier of a "----" item.
func FreeformIdent(mean, name string) Ident {
	return Ident(IdentFreeformPrefix + ":" + mean + ":" + name)
}

// Freeform splits a freeform identifier into its mean and name parts at
// the last colon, so a mean may contain colons but a name may not.
func (i Ident) Freeform() (mean, name string, ok bool) {
	rest, found := strings.CutPrefix(string(i), IdentFreeformPrefix+":")
	if !found {
		return "", "", false
	}
	sep := strings.LastIndexByte(rest, ':')
	if sep < 0 {
		return "", "", false
	}
	return rest[:sep], rest[sep+1:], true
}

// String renders the identifier for display, mapping 0xA9 to ©.
func (i Ident) String() string {
	return strings.ReplaceAll(string(i), "\xa9", "©")
}

// DataType is the well-known type code carried by a data atom.
type DataType uint32

// Data type codes used by the items this package understands.
const (
	TypeImplicit   DataType = 0
	TypeUTF8       DataType = 1
	TypeUTF16      DataType = 2
	TypeJPEG       DataType = 13
	TypePNG        DataType = 14
	TypeBEInt      DataType = 21
	TypeBEUnsigned DataType = 22
	TypeBMP        DataType = 27
)

// Data is a single value of an item.
type Data struct {
	Type   DataType
	Locale uint32
	Value  []byte
}

// Text returns a UTF-8 data value.
func Text(s string) Data {
	return Data{Type: TypeUTF8, Value: []byte(s)}
}

// Item is one entry of the metadata list.
type Item struct {
	Ident Ident
	Data  []Data
}

// Pair holds a track or disc position.
type Pair struct {
	Number uint16
	Total  uint16
}

// artistGroup holds the idents kept in sync by the artist operations.
var artistGroup = []Ident{IdentArtist, IdentAlbumArtist, IdentComposer}

// genreGroup holds the standard and free-text genre stores.
var genreGroup = []Ident{IdentStandardGenre, IdentCustomGenre}

// ArtistIdents returns the storage idents written by SetArtists.
func ArtistIdents() []Ident { return slices.Clone(artistGroup) }

// GenreIdents returns the storage idents written by SetGenres.
func GenreIdents() []Ident { return slices.Clone(genreGroup) }

// Tag is the in-memory metadata list of one file.
//
// Item order is preserved from the file; new items are appended. A Tag is
// not safe for concurrent use.
type Tag struct {
	items []Item
}

// NewTag creates a tag holding the given items.
func NewTag(items ...Item) *Tag {
	t := &Tag{}
	for _, it := range items {
		t.Add(it.Ident, it.Data...)
	}
	return t
}

// Len returns the number of items.
func (t *Tag) Len() int {
	return len(t.items)
}

// Items iterates over all items in file order.
//
// The yielded items share storage with the tag; do not modify them.
func (t *Tag) Items() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, it := range t.items {
			if !yield(it) {
				return
			}
		}
	}
}

// Has reports whether an item with the ident exists.
func (t *Tag) Has(id Ident) bool {
	return t.index(id) >= 0
}

// Data returns a copy of the data values of the item.
func (t *Tag) Data(id Ident) []Data {
	i := t.index(id)
	if i < 0 {
		return nil
	}
	return cloneData(t.items[i].Data)
}

// Set replaces the item with the given data. The item keeps its position
// if it already exists. Setting no data removes the item.
func (t *Tag) Set(id Ident, data ...Data) {
	if len(data) == 0 {
		t.Remove(id)
		return
	}
	i := t.index(id)
	if i < 0 {
		t.items = append(t.items, Item{Ident: id, Data: cloneData(data)})
		return
	}
	t.items[i].Data = cloneData(data)
	// drop duplicates that follow the first occurrence
	tail := slices.DeleteFunc(t.items[i+1:], func(it Item) bool { return it.Ident == id })
	t.items = t.items[:i+1+len(tail)]
}

// Add appends data to the item, creating it if needed.
func (t *Tag) Add(id Ident, data ...Data) {
	if len(data) == 0 {
		return
	}
	i := t.index(id)
	if i < 0 {
		t.items = append(t.items, Item{Ident: id, Data: cloneData(data)})
		return
	}
	t.items[i].Data = append(t.items[i].Data, cloneData(data)...)
}

// Remove deletes every item with one of the given idents.
func (t *Tag) Remove(ids ...Ident) {
	t.items = slices.DeleteFunc(t.items, func(it Item) bool {
		return slices.Contains(ids, it.Ident)
	})
}

// Clear removes all items except the ones listed in keep.
func (t *Tag) Clear(keep ...Ident) {
	t.items = slices.DeleteFunc(t.items, func(it Item) bool {
		return !slices.Contains(keep, it.Ident)
	})
}

// Clone returns a deep copy of the tag.
func (t *Tag) Clone() *Tag {
	c := &Tag{items: make([]Item, len(t.items))}
	for i, it := range t.items {
		c.items[i] = Item{Ident: it.Ident, Data: cloneData(it.Data)}
	}
	return c
}

// Equal reports whether both tags hold the same items in the same order.
func (t *Tag) Equal(o *Tag) bool {
	return slices.EqualFunc(t.items, o.items, func(a, b Item) bool {
		return a.Ident == b.Ident && slices.EqualFunc(a.Data, b.Data, func(x, y Data) bool {
			return x.Type == y.Type && x.Locale == y.Locale && bytes.Equal(x.Value, y.Value)
		})
	})
}

// Strings returns the text values of the item.
func (t *Tag) Strings(id Ident) []string {
	var out []string
	for _, d := range t.Data(id) {
		if d.Type == TypeUTF8 {
			out = append(out, string(d.Value))
		}
	}
	return out
}

// String returns the first text value of the item.
func (t *Tag) String(id Ident) (string, bool) {
	values := t.Strings(id)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// SetStrings replaces the item with one text value per string.
func (t *Tag) SetStrings(id Ident, values []string) {
	data := make([]Data, 0, len(values))
	for _, v := range values {
		data = append(data, Text(v))
	}
	t.Set(id, data...)
}

// SetString replaces the item with a single text value.
func (t *Tag) SetString(id Ident, value string) {
	t.Set(id, Text(value))
}

// Uint returns the first integer value of the item. Values of 1, 2, 4 or
// 8 bytes are accepted.
func (t *Tag) Uint(id Ident) (uint64, bool) {
	for _, d := range t.Data(id) {
		if d.Type != TypeBEInt && d.Type != TypeBEUnsigned && d.Type != TypeImplicit {
			continue
		}
		var v uint64
		switch len(d.Value) {
		case 1, 2, 4, 8:
			for _, b := range d.Value {
				v = v<<8 | uint64(b)
			}
			return v, true
		}
	}
	return 0, false
}

// SetUint16 stores a 16-bit integer.
func (t *Tag) SetUint16(id Ident, v uint16) {
	t.Set(id, Data{Type: TypeBEInt, Value: []byte{byte(v >> 8), byte(v)}})
}

// Pair returns a track or disc position.
func (t *Tag) Pair(id Ident) (Pair, bool) {
	for _, d := range t.Data(id) {
		if len(d.Value) < 6 {
			continue
		}
		return Pair{
			Number: uint16(d.Value[2])<<8 | uint16(d.Value[3]),
			Total:  uint16(d.Value[4])<<8 | uint16(d.Value[5]),
		}, true
	}
	return Pair{}, false
}

// SetPair stores a track or disc position. Track items carry two trailing
// padding bytes that disc items do not.
func (t *Tag) SetPair(id Ident, p Pair) {
	value := []byte{0, 0, byte(p.Number >> 8), byte(p.Number), byte(p.Total >> 8), byte(p.Total)}
	if id == IdentTrack {
		value = append(value, 0, 0)
	}
	t.Set(id, Data{Type: TypeImplicit, Value: value})
}

// Artists returns the artist list.
func (t *Tag) Artists() []string {
	return t.Strings(IdentArtist)
}

// SetArtists writes the list to the artist, album artist and composer
// items as one step.
func (t *Tag) SetArtists(artists []string) {
	t.RemoveArtists()
	for _, id := range artistGroup {
		t.SetStrings(id, artists)
	}
}

// RemoveArtists removes the artist, album artist and composer items.
func (t *Tag) RemoveArtists() {
	t.Remove(artistGroup...)
}

// Genres returns the free-text genres followed by the names of standard
// genres not already listed.
func (t *Tag) Genres() []string {
	out := t.Strings(IdentCustomGenre)
	for _, d := range t.Data(IdentStandardGenre) {
		if len(d.Value) != 2 {
			continue
		}
		name, ok := StandardGenreName(uint16(d.Value[0])<<8 | uint16(d.Value[1]))
		if ok && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// SetGenres writes every genre to the free-text store and the codes of
// those found in the ID3v1 table to the standard store, as one step.
func (t *Tag) SetGenres(genres []string) {
	t.RemoveGenres()
	var codes []Data
	for _, g := range genres {
		if code, ok := StandardGenreCode(g); ok {
			codes = append(codes, Data{Type: TypeImplicit, Value: []byte{byte(code >> 8), byte(code)}})
		}
	}
	t.Set(IdentStandardGenre, codes...)
	t.SetStrings(IdentCustomGenre, genres)
}

// RemoveGenres removes both genre stores.
func (t *Tag) RemoveGenres() {
	t.Remove(genreGroup...)
}

// MediaType returns the stik value.
func (t *Tag) MediaType() (MediaType, bool) {
	v, ok := t.Uint(IdentMediaType)
	if !ok || v > 0xFF {
		return 0, false
	}
	return MediaType(v), true
}

// SetMediaType stores the stik value.
func (t *Tag) SetMediaType(m MediaType) {
	t.Set(IdentMediaType, Data{Type: TypeBEInt, Value: []byte{byte(m)}})
}

// Artwork returns the embedded images with a recognized format.
func (t *Tag) Artwork() []Image {
	var out []Image
	for _, d := range t.Data(IdentArtwork) {
		format, ok := ImageFormatFromDataType(d.Type)
		if !ok {
			continue
		}
		out = append(out, Image{Format: format, Data: d.Value})
	}
	return out
}

// SetArtwork replaces all embedded images with img.
func (t *Tag) SetArtwork(img Image) {
	t.Set(IdentArtwork, Data{Type: img.Format.DataType(), Value: img.Data})
}

// RemoveArtwork removes all embedded images.
func (t *Tag) RemoveArtwork() {
	t.Remove(IdentArtwork)
}

func (t *Tag) index(id Ident) int {
	return slices.IndexFunc(t.items, func(it Item) bool { return it.Ident == id })
}

func cloneData(data []Data) []Data {
	out := make([]Data, len(data))
	for i, d := range data {
		out[i] = Data{Type: d.Type, Locale: d.Locale, Value: bytes.Clone(d.Value)}
	}
	return out
}
