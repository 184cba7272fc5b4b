package m4a

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/simonhull/mtag/internal/types"
)

// ftypAtom creates a file type atom with the given major brand.
func ftypAtom(brand string) []byte {
	return createMockAtom("ftyp", append([]byte(brand), 0, 0, 0, 0))
}

// dataAtom creates a data atom: type code, locale, then the value.
func dataAtom(typ types.DataType, value []byte) []byte {
	header := make([]byte, 8)
	binary.BigEndian.PutUint32(header, uint32(typ))
	return createMockAtom("data", append(header, value...))
}

// textAtom creates a data atom holding UTF-8 text.
func textAtom(value string) []byte {
	return dataAtom(types.TypeUTF8, []byte(value))
}

// containerAtom creates an atom whose payload is the concatenated children.
func containerAtom(atomType string, children ...[]byte) []byte {
	return createMockAtom(atomType, bytes.Join(children, nil))
}

// metaAtom creates a meta atom with its version and flags.
func metaAtom(children ...[]byte) []byte {
	return createMockAtom("meta", append([]byte{0, 0, 0, 0}, bytes.Join(children, nil)...))
}

// stringAtom creates a mean or name atom.
func stringAtom(atomType, value string) []byte {
	return createMockAtom(atomType, append([]byte{0, 0, 0, 0}, value...))
}

// taggedFile builds ftyp + moov(udta(meta(hdlr, ilst(items)))) + mdat.
func taggedFile(items ...[]byte) []byte {
	ilst := containerAtom("ilst", items...)
	moov := containerAtom("moov", containerAtom("udta", metaAtom(metadataHandler, ilst)))
	return bytes.Join([][]byte{ftypAtom("M4A "), moov, createMockAtom("mdat", []byte{9, 9, 9})}, nil)
}

func readBytes(t *testing.T, data []byte) *types.Tag {
	t.Helper()
	tag, err := Read(bytes.NewReader(data), int64(len(data)), "test.m4a")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return tag
}

func TestRead_Items(t *testing.T) {
	data := taggedFile(
		containerAtom("\xa9nam", textAtom("Song")),
		containerAtom("\xa9ART", textAtom("alice"), textAtom("bob")),
		containerAtom("trkn", dataAtom(types.TypeImplicit, []byte{0, 0, 0, 2, 0, 3, 0, 0})),
		containerAtom("covr",
			dataAtom(types.TypeJPEG, []byte{0xFF, 0xD8}),
			dataAtom(types.TypePNG, []byte{0x89, 'P'}),
		),
	)

	tag := readBytes(t, data)

	if title, _ := tag.String(types.IdentTitle); title != "Song" {
		t.Errorf("expected title 'Song', got %q", title)
	}
	if diff := cmp.Diff([]string{"alice", "bob"}, tag.Artists()); diff != "" {
		t.Errorf("artists mismatch (-want +got):\n%s", diff)
	}
	if pair, ok := tag.Pair(types.IdentTrack); !ok || pair != (types.Pair{Number: 2, Total: 3}) {
		t.Errorf("expected track 2/3, got %+v (ok=%v)", pair, ok)
	}

	art := tag.Artwork()
	if len(art) != 2 {
		t.Fatalf("expected 2 images, got %d", len(art))
	}
	if art[0].Format != types.ImageJPEG || art[1].Format != types.ImagePNG {
		t.Errorf("unexpected image formats %v, %v", art[0].Format, art[1].Format)
	}
}

func TestRead_Freeform(t *testing.T) {
	data := taggedFile(containerAtom("----",
		stringAtom("mean", "com.apple.iTunes"),
		stringAtom("name", "ISRC"),
		textAtom("USRC17607839"),
	))

	tag := readBytes(t, data)

	if isrc, _ := tag.String(types.IdentISRC); isrc != "USRC17607839" {
		t.Errorf("expected ISRC 'USRC17607839', got %q", isrc)
	}
}

func TestRead_FreeformWithoutName(t *testing.T) {
	data := taggedFile(containerAtom("----",
		stringAtom("mean", "com.apple.iTunes"),
		textAtom("x"),
	))

	_, err := Read(bytes.NewReader(data), int64(len(data)), "test.m4a")

	var corrupted *types.CorruptedFileError
	if !errors.As(err, &corrupted) {
		t.Fatalf("expected CorruptedFileError, got %v", err)
	}
}

func TestRead_DataTypeIgnoresVersion(t *testing.T) {
	value := []byte{0x01, 0x00, 0x00, 0x15, 0, 0, 0, 0, 0x00, 0x78}
	data := taggedFile(containerAtom("tmpo", createMockAtom("data", value)))

	tag := readBytes(t, data)

	d := tag.Data(types.IdentBPM)
	if len(d) != 1 || d[0].Type != types.TypeBEInt {
		t.Fatalf("expected one BE integer, got %+v", d)
	}
	if bpm, _ := tag.Uint(types.IdentBPM); bpm != 120 {
		t.Errorf("expected bpm 120, got %d", bpm)
	}
}

func TestRead_NoMetadata(t *testing.T) {
	moov := containerAtom("moov", createMockAtom("mvhd", make([]byte, 12)))
	data := append(ftypAtom("M4B "), moov...)

	tag := readBytes(t, data)

	if tag.Len() != 0 {
		t.Errorf("expected empty tag, got %d items", tag.Len())
	}
}

func TestRead_NoMoov(t *testing.T) {
	data := append(ftypAtom("M4A "), createMockAtom("mdat", []byte{1})...)

	_, err := Read(bytes.NewReader(data), int64(len(data)), "test.m4a")

	var corrupted *types.CorruptedFileError
	if !errors.As(err, &corrupted) {
		t.Fatalf("expected CorruptedFileError, got %v", err)
	}
	if corrupted.Reason != "no moov atom" {
		t.Errorf("unexpected reason %q", corrupted.Reason)
	}
}

func TestRead_NotMP4(t *testing.T) {
	data := []byte("ID3\x04\x00\x00\x00\x00\x00\x00 not an mp4 file")

	_, err := Read(bytes.NewReader(data), int64(len(data)), "test.mp3")

	var unsupported *types.UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
}

func TestRead_ShortDataAtom(t *testing.T) {
	data := taggedFile(containerAtom("\xa9nam", createMockAtom("data", []byte{0, 0, 0, 1})))

	_, err := Read(bytes.NewReader(data), int64(len(data)), "test.m4a")

	var corrupted *types.CorruptedFileError
	if !errors.As(err, &corrupted) {
		t.Fatalf("expected CorruptedFileError, got %v", err)
	}
}
