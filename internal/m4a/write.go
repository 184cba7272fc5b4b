package m4a

import (
	"context"
	"io"
	"math"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/simonhull/mtag/internal/binary"
	"github.com/simonhull/mtag/internal/types"
)

// maxMoovSize bounds the moov atom held in memory during a rewrite.
const maxMoovSize = 1 << 30

// Write copies original to w with its metadata list replaced by tag.
//
// Only the moov atom is rebuilt: udta, meta, hdlr and ilst are created when
// missing, every other atom is copied byte for byte. When moov precedes the
// media data and changes size, stco/co64 chunk offsets pointing past it are
// shifted by the size difference.
func Write(ctx context.Context, w io.Writer, tag *types.Tag, original io.ReaderAt, size int64, path string) error {
	if _, err := types.DetectFormat(original, size, path); err != nil {
		return err
	}

	sr := binary.NewSafeReader(original, size, path)

	moov, err := findAtom(sr, 0, size, "moov")
	if errors.Is(err, errAtomNotFound) {
		return &types.CorruptedFileError{Path: path, Reason: "no moov atom"}
	}
	if err != nil {
		return err
	}
	if moov.Size > maxMoovSize {
		return errors.Errorf("%s: moov atom of %d bytes is too large to rewrite", path, moov.Size)
	}

	raw, err := sr.ReadBytes(moov.DataOffset(), int64(moov.DataSize()), "moov atom")
	if err != nil {
		return err
	}

	items, err := encodeItems(tag)
	if err != nil {
		return errors.Errorf("%s: encode metadata: %w", path, err)
	}

	payload, err := rebuildMoov(raw, items)
	if err != nil {
		return &types.CorruptedFileError{Path: path, Offset: moov.Offset, Reason: err.Error()}
	}

	newSize := uint64(boxHeaderLen(uint64(len(payload)))) + uint64(len(payload))
	delta := int64(newSize) - int64(moov.Size)

	patched := 0
	if delta != 0 {
		patched, err = patchChunkOffsets(payload, uint64(moov.End()), delta)
		if err != nil {
			return &types.CorruptedFileError{Path: path, Offset: moov.Offset, Reason: err.Error()}
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int64("moov_offset", moov.Offset).
		Int64("delta", delta).
		Int("chunk_offsets_patched", patched).
		Int("items", tag.Len()).
		Msg("rewriting moov")

	sw := binary.NewSafeWriter(w)
	if err := sw.Copy(original, 0, moov.Offset); err != nil {
		return errors.Errorf("copy leading atoms: %w", err)
	}
	if err := sw.WriteBytes(appendBox(nil, "moov", payload)); err != nil {
		return errors.Errorf("write moov: %w", err)
	}
	if err := sw.Copy(original, moov.End(), size-moov.End()); err != nil {
		return errors.Errorf("copy trailing atoms: %w", err)
	}

	return nil
}

// encodeItems serializes the tag as the payload of an ilst atom.
func encodeItems(tag *types.Tag) ([]byte, error) {
	var items []byte
	for it := range tag.Items() {
		var body []byte
		typ := string(it.Ident)

		if mean, name, ok := it.Ident.Freeform(); ok {
			typ = types.IdentFreeformPrefix
			body = appendBox(body, "mean", make([]byte, 4), []byte(mean))
			body = appendBox(body, "name", make([]byte, 4), []byte(name))
		} else if len(typ) != 4 {
			return nil, errors.Errorf("invalid item identifier %q", it.Ident)
		}

		for _, d := range it.Data {
			header := make([]byte, 8)
			binary.Put(header, uint32(d.Type)&0x00FFFFFF)
			binary.Put(header[4:], d.Locale)
			body = appendBox(body, "data", header, d.Value)
		}

		items = appendBox(items, typ, body)
	}
	return items, nil
}

// box is an atom held in memory; raw aliases the parent's buffer.
type box struct {
	typ string
	raw []byte
	hdr int
}

func (b box) payload() []byte {
	return b.raw[b.hdr:]
}

// splitBoxes splits a payload into child atoms. Trailing bytes too short
// to hold a header are returned as tail.
func splitBoxes(data []byte) (boxes []box, tail []byte, err error) {
	for len(data) >= 8 {
		size := uint64(binary.Decode[uint32](data))
		hdr := 8
		switch size {
		case 0:
			size = uint64(len(data))
		case 1:
			if len(data) < 16 {
				return nil, nil, errors.New("truncated extended atom header")
			}
			size = binary.Decode[uint64](data[8:])
			hdr = 16
		}
		if size < uint64(hdr) || size > uint64(len(data)) {
			return nil, nil, errors.Errorf("atom %q has invalid size %d", data[4:8], size)
		}
		boxes = append(boxes, box{typ: string(data[4:8]), raw: data[:size], hdr: hdr})
		data = data[size:]
	}
	return boxes, data, nil
}

func boxHeaderLen(payloadLen uint64) int {
	if payloadLen+8 > math.MaxUint32 {
		return 16
	}
	return 8
}

// appendBox appends an atom with the concatenated payload parts to dst.
func appendBox(dst []byte, typ string, parts ...[]byte) []byte {
	var n uint64
	for _, p := range parts {
		n += uint64(len(p))
	}

	header := make([]byte, boxHeaderLen(n))
	if len(header) == 16 {
		binary.Put[uint32](header, 1)
		binary.Put(header[8:], n+16)
	} else {
		binary.Put(header, uint32(n+8))
	}
	copy(header[4:8], typ)

	dst = append(dst, header...)
	for _, p := range parts {
		dst = append(dst, p...)
	}
	return dst
}

// rebuildMoov returns the moov payload with the ilst payload replaced by items.
func rebuildMoov(payload, items []byte) ([]byte, error) {
	return rebuildChild(payload, nil, "udta", func(udta []byte) ([]byte, error) {
		return rebuildChild(udta, nil, "meta", func(meta []byte) ([]byte, error) {
			return rebuildMeta(meta, items)
		})
	})
}

// rebuildChild copies the children of a payload, replacing the first atom of
// type typ with rebuild(its payload), or appending rebuild(nil) if none
// exists. prefix is written before the children.
func rebuildChild(payload, prefix []byte, typ string, rebuild func([]byte) ([]byte, error)) ([]byte, error) {
	boxes, tail, err := splitBoxes(payload)
	if err != nil {
		return nil, err
	}

	out := append([]byte{}, prefix...)
	found := false
	for _, b := range boxes {
		if b.typ != typ || found {
			out = append(out, b.raw...)
			continue
		}
		found = true
		inner, err := rebuild(b.payload())
		if err != nil {
			return nil, err
		}
		out = appendBox(out, typ, inner)
	}

	if !found {
		inner, err := rebuild(nil)
		if err != nil {
			return nil, err
		}
		out = appendBox(out, typ, inner)
	}

	return append(out, tail...), nil
}

// metadataHandler is the hdlr atom iTunes expects ahead of ilst.
var metadataHandler = appendBox(nil, "hdlr",
	make([]byte, 8),   // version+flags, pre_defined
	[]byte("mdirappl"), // handler type, manufacturer
	make([]byte, 9),   // reserved, empty name
)

// rebuildMeta returns the meta payload (version+flags, hdlr, ..., ilst).
func rebuildMeta(payload, items []byte) ([]byte, error) {
	versionFlags := make([]byte, 4)
	if len(payload) >= 4 {
		versionFlags, payload = payload[:4], payload[4:]
	}

	boxes, _, err := splitBoxes(payload)
	if err != nil {
		return nil, err
	}
	hasHandler := false
	for _, b := range boxes {
		if b.typ == "hdlr" {
			hasHandler = true
		}
	}

	prefix := versionFlags
	if !hasHandler {
		prefix = append(append([]byte{}, versionFlags...), metadataHandler...)
	}

	return rebuildChild(payload, prefix, "ilst", func([]byte) ([]byte, error) {
		return items, nil
	})
}

// sampleTablePath lists the containers leading from moov to stco/co64.
var sampleTablePath = map[string]bool{"trak": true, "mdia": true, "minf": true, "stbl": true}

// patchChunkOffsets shifts, in place, every chunk offset at or past
// threshold by delta. Returns the number of entries changed.
func patchChunkOffsets(payload []byte, threshold uint64, delta int64) (int, error) {
	boxes, _, err := splitBoxes(payload)
	if err != nil {
		return 0, err
	}

	patched := 0
	for _, b := range boxes {
		var n int
		switch {
		case sampleTablePath[b.typ]:
			n, err = patchChunkOffsets(b.payload(), threshold, delta)
		case b.typ == "stco":
			n, err = patchTable[uint32](b.payload(), threshold, delta)
		case b.typ == "co64":
			n, err = patchTable[uint64](b.payload(), threshold, delta)
		}
		if err != nil {
			return patched, err
		}
		patched += n
	}
	return patched, nil
}

// patchTable rewrites a chunk offset table:
//
//	[4 bytes] version+flags
//	[4 bytes] entry count
//	[count * width] offsets
func patchTable[T uint32 | uint64](p []byte, threshold uint64, delta int64) (int, error) {
	if len(p) < 8 {
		return 0, errors.New("chunk offset table shorter than its header")
	}
	width := binary.SizeOf[T]()
	count := int(binary.Decode[uint32](p[4:]))
	if count > (len(p)-8)/width {
		return 0, errors.Errorf("chunk offset table claims %d entries", count)
	}

	limit := uint64(math.MaxUint64)
	if width == 4 {
		limit = math.MaxUint32
	}

	patched := 0
	for i := range count {
		entry := p[8+i*width:]
		off := uint64(binary.Decode[T](entry))
		if off < threshold {
			continue
		}
		shifted := int64(off) + delta
		if shifted < 0 || uint64(shifted) > limit {
			return patched, errors.Errorf("chunk offset %d cannot move by %d", off, delta)
		}
		binary.Put(entry, T(shifted))
		patched++
	}
	return patched, nil
}
