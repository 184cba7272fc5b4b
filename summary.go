package mtag

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/simonhull/mtag/internal/types"
)

// Row is one displayed line of a tag.
type Row struct {
	Name  string
	Value string
}

// summaryFields lists the known items in display order.
var summaryFields = []struct {
	name   string
	ids    []Ident
	format func(*Tag) string
}{
	{"title", []Ident{IdentTitle}, texts(IdentTitle)},
	{"artist", []Ident{IdentArtist}, texts(IdentArtist)},
	{"album artist", []Ident{IdentAlbumArtist}, texts(IdentAlbumArtist)},
	{"composer", []Ident{IdentComposer}, texts(IdentComposer)},
	{"album", []Ident{IdentAlbum}, texts(IdentAlbum)},
	{"genre", []Ident{IdentCustomGenre, IdentStandardGenre}, func(t *Tag) string {
		return strings.Join(t.Genres(), ", ")
	}},
	{"category", []Ident{IdentCategory}, texts(IdentCategory)},
	{"description", []Ident{IdentDescription}, texts(IdentDescription)},
	{"type", []Ident{IdentMediaType}, func(t *Tag) string {
		if m, ok := t.MediaType(); ok {
			return m.String()
		}
		return ""
	}},
	{"artwork", []Ident{IdentArtwork}, func(t *Tag) string {
		var parts []string
		for _, img := range t.Artwork() {
			parts = append(parts, img.String())
		}
		return strings.Join(parts, "; ")
	}},
	{"bpm", []Ident{IdentBPM}, func(t *Tag) string {
		if v, ok := t.Uint(IdentBPM); ok {
			return strconv.FormatUint(v, 10)
		}
		return ""
	}},
	{"track", []Ident{IdentTrack}, pair(IdentTrack)},
	{"disc", []Ident{IdentDisc}, pair(IdentDisc)},
	{"copyright", []Ident{IdentCopyright}, texts(IdentCopyright)},
	{"isrc", []Ident{IdentISRC}, texts(IdentISRC)},
	{"show", []Ident{IdentTVShow}, texts(IdentTVShow)},
	{"work", []Ident{IdentWork}, texts(IdentWork)},
	{"year", []Ident{IdentYear}, texts(IdentYear)},
}

// Summarize returns the displayed lines of a tag: the editable fields
// first, then every other item under its ident.
func Summarize(tag *Tag) []Row {
	var rows []Row
	var known []Ident
	for _, f := range summaryFields {
		known = append(known, f.ids...)
		if v := f.format(tag); v != "" {
			rows = append(rows, Row{Name: f.name, Value: v})
		}
	}

	for it := range tag.Items() {
		if slices.Contains(known, it.Ident) {
			continue
		}
		rows = append(rows, Row{Name: it.Ident.String(), Value: formatData(it.Data)})
	}
	return rows
}

func texts(id Ident) func(*Tag) string {
	return func(t *Tag) string { return strings.Join(t.Strings(id), ", ") }
}

func pair(id Ident) func(*Tag) string {
	return func(t *Tag) string {
		p, ok := t.Pair(id)
		if !ok {
			return ""
		}
		return fmt.Sprintf("%d/%d", p.Number, p.Total)
	}
}

// formatData renders values of an item without a known meaning.
func formatData(data []Data) string {
	parts := make([]string, 0, len(data))
	for _, d := range data {
		switch {
		case d.Type == types.TypeUTF8:
			parts = append(parts, string(d.Value))
		case (d.Type == types.TypeBEInt || d.Type == types.TypeBEUnsigned) && len(d.Value) <= 8:
			var v uint64
			for _, b := range d.Value {
				v = v<<8 | uint64(b)
			}
			parts = append(parts, strconv.FormatUint(v, 10))
		default:
			parts = append(parts, fmt.Sprintf("<%s>", humanize.Bytes(uint64(len(d.Value)))))
		}
	}
	return strings.Join(parts, ", ")
}
