package m4a

import (
	"fmt"
	"io"

	"gitlab.com/tozd/go/errors"

	"github.com/simonhull/mtag/internal/binary"
	"github.com/simonhull/mtag/internal/types"
)

// Read decodes the metadata list of an MPEG-4 file.
//
// Files without udta, meta or ilst atoms yield an empty tag. A missing moov
// atom or a malformed item is an error: the tag would be written back
// later, so silently dropping items would lose data.
func Read(r io.ReaderAt, size int64, path string) (*types.Tag, error) {
	if _, err := types.DetectFormat(r, size, path); err != nil {
		return nil, err
	}

	sr := binary.NewSafeReader(r, size, path)

	moov, err := findAtom(sr, 0, size, "moov")
	if errors.Is(err, errAtomNotFound) {
		return nil, &types.CorruptedFileError{Path: path, Reason: "no moov atom"}
	}
	if err != nil {
		return nil, err
	}

	ilst, err := findPath(sr, moov.ChildOffset(), moov.End(), "udta", "meta", "ilst")
	if errors.Is(err, errAtomNotFound) {
		return &types.Tag{}, nil
	}
	if err != nil {
		return nil, err
	}

	return decodeIlst(sr, ilst)
}

// decodeIlst parses every item of the ilst atom, keeping file order.
func decodeIlst(sr *binary.SafeReader, ilst *Atom) (*types.Tag, error) {
	tag := &types.Tag{}

	offset, end := ilst.ChildOffset(), ilst.End()
	for offset+8 <= end {
		itemAtom, err := readChild(sr, offset, end)
		if err != nil {
			return nil, err
		}

		item, err := decodeItem(sr, itemAtom)
		if err != nil {
			return nil, err
		}
		if len(item.Data) > 0 {
			tag.Add(item.Ident, item.Data...)
		}

		offset = itemAtom.End()
	}

	return tag, nil
}

// decodeItem parses one item atom: its data children and, for freeform
// "----" items, the mean and name children.
func decodeItem(sr *binary.SafeReader, itemAtom *Atom) (types.Item, error) {
	item := types.Item{Ident: types.Ident(itemAtom.Type)}
	var mean, name string

	offset, end := itemAtom.ChildOffset(), itemAtom.End()
	for offset+8 <= end {
		child, err := readChild(sr, offset, end)
		if err != nil {
			return item, err
		}

		switch child.Type {
		case "data":
			d, err := decodeData(sr, child)
			if err != nil {
				return item, err
			}
			item.Data = append(item.Data, d)
		case "mean", "name":
			// version (1) + flags (3), then the string
			if child.DataSize() < 4 {
				return item, corrupt(sr, child, "short "+child.Type+" atom")
			}
			b, err := sr.ReadBytes(child.DataOffset()+4, int64(child.DataSize())-4, child.Type)
			if err != nil {
				return item, err
			}
			if child.Type == "mean" {
				mean = string(b)
			} else {
				name = string(b)
			}
		}

		offset = child.End()
	}

	if itemAtom.Type == types.IdentFreeformPrefix {
		if mean == "" || name == "" {
			return item, corrupt(sr, itemAtom, "freeform item without mean or name")
		}
		item.Ident = types.FreeformIdent(mean, name)
	}

	return item, nil
}

// decodeData parses a data atom:
//
//	[1 byte] version
//	[3 bytes] type code
//	[4 bytes] locale
//	[remaining] value
func decodeData(sr *binary.SafeReader, dataAtom *Atom) (types.Data, error) {
	if dataAtom.DataSize() < 8 {
		return types.Data{}, corrupt(sr, dataAtom, "data atom shorter than its header")
	}

	offset := dataAtom.DataOffset()

	versionType, err := binary.Read[uint32](sr, offset, "data version+type")
	if err != nil {
		return types.Data{}, err
	}

	locale, err := binary.Read[uint32](sr, offset+4, "data locale")
	if err != nil {
		return types.Data{}, err
	}

	value, err := sr.ReadBytes(offset+8, int64(dataAtom.DataSize())-8, "data value")
	if err != nil {
		return types.Data{}, err
	}

	return types.Data{
		Type:   types.DataType(versionType & 0x00FFFFFF),
		Locale: locale,
		Value:  value,
	}, nil
}

func corrupt(sr *binary.SafeReader, atom *Atom, reason string) error {
	return &types.CorruptedFileError{
		Path:   sr.Path(),
		Offset: atom.Offset,
		Reason: fmt.Sprintf("%s (%q)", reason, atom.Type),
	}
}
