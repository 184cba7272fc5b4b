package types

import (
	"strconv"
	"strings"
)

// MediaType is the iTunes stik value.
type MediaType uint8

// Media types accepted on the command line.
const (
	MediaMovie      MediaType = 0
	MediaNormal     MediaType = 1
	MediaAudiobook  MediaType = 2
	MediaMusicVideo MediaType = 6
	MediaShortFilm  MediaType = 9
	MediaTVShow     MediaType = 10
	MediaBooklet    MediaType = 11
)

var mediaTypeNames = []struct {
	name string
	typ  MediaType
}{
	{"movie", MediaMovie},
	{"normal", MediaNormal},
	{"audiobook", MediaAudiobook},
	{"music-video", MediaMusicVideo},
	{"short-film", MediaShortFilm},
	{"tv-show", MediaTVShow},
	{"booklet", MediaBooklet},
}

// ParseMediaType parses a media type name, ignoring case.
func ParseMediaType(s string) (MediaType, bool) {
	s = strings.ToLower(s)
	for _, m := range mediaTypeNames {
		if m.name == s {
			return m.typ, true
		}
	}
	return 0, false
}

// MediaTypeNames lists the accepted media type names.
func MediaTypeNames() []string {
	out := make([]string, len(mediaTypeNames))
	for i, m := range mediaTypeNames {
		out[i] = m.name
	}
	return out
}

func (m MediaType) String() string {
	for _, n := range mediaTypeNames {
		if n.typ == m {
			return n.name
		}
	}
	return "stik(" + strconv.Itoa(int(m)) + ")"
}
