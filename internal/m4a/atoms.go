// Package m4a reads and rewrites the iTunes metadata list of MPEG-4 files.
package m4a

import (
	"fmt"

	"gitlab.com/tozd/go/errors"

	"github.com/simonhull/mtag/internal/binary"
	"github.com/simonhull/mtag/internal/types"
)

// Atom represents an MP4 atom (box)
type Atom struct {
	Size     uint64 // Total size including header
	Type     string // 4-character type code
	Offset   int64  // Position in file
	Extended bool   // Whether this uses 64-bit extended size
}

// HeaderSize returns 8, or 16 for extended-size atoms.
func (a *Atom) HeaderSize() int64 {
	if a.Extended {
		return 16
	}
	return 8
}

// DataSize returns the size of the atom's data (excluding header)
func (a *Atom) DataSize() uint64 {
	headerSize := uint64(a.HeaderSize())
	if a.Size < headerSize {
		return 0
	}
	return a.Size - headerSize
}

// DataOffset returns the file offset where the atom's data starts
func (a *Atom) DataOffset() int64 {
	return a.Offset + a.HeaderSize()
}

// End returns the file offset just past the atom.
func (a *Atom) End() int64 {
	return a.Offset + int64(a.Size)
}

// containerTypes lists atoms whose payload is a sequence of child atoms.
var containerTypes = map[string]bool{
	"moov": true, // Movie container
	"udta": true, // User data
	"meta": true, // Metadata container (after 4 bytes of version+flags)
	"ilst": true, // iTunes metadata list
	"trak": true, // Track container
	"mdia": true, // Media container
	"minf": true, // Media information
	"stbl": true, // Sample table
	"edts": true, // Edit list container
	"dinf": true, // Data information
}

// IsContainer returns true if this atom type can contain other atoms
func (a *Atom) IsContainer() bool {
	return containerTypes[a.Type]
}

// ChildOffset returns where the first child atom starts. meta carries four
// bytes of version and flags before its children.
func (a *Atom) ChildOffset() int64 {
	if a.Type == "meta" {
		return a.DataOffset() + 4
	}
	return a.DataOffset()
}

// readAtomHeader reads an atom header at the given offset
func readAtomHeader(sr *binary.SafeReader, offset int64) (*Atom, error) {
	size32, err := binary.Read[uint32](sr, offset, "atom size")
	if err != nil {
		return nil, err
	}

	typeBytes, err := sr.ReadBytes(offset+4, 4, "atom type")
	if err != nil {
		return nil, err
	}

	atom := &Atom{
		Type:   string(typeBytes),
		Offset: offset,
	}

	// size == 1 means a 64-bit size follows
	if size32 == 1 {
		size64, err := binary.Read[uint64](sr, offset+8, "extended atom size")
		if err != nil {
			return nil, err
		}
		atom.Size = size64
		atom.Extended = true
	} else if size32 == 0 {
		// size 0 extends to the end of the file
		atom.Size = uint64(sr.Size() - offset)
	} else {
		atom.Size = uint64(size32)
	}

	if atom.Size < uint64(atom.HeaderSize()) {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: offset,
			Reason: fmt.Sprintf("invalid atom size %d (minimum is %d)", atom.Size, atom.HeaderSize()),
		}
	}

	return atom, nil
}

// readChild reads the atom at offset and checks that it fits inside end.
func readChild(sr *binary.SafeReader, offset, end int64) (*Atom, error) {
	atom, err := readAtomHeader(sr, offset)
	if err != nil {
		return nil, err
	}
	if atom.Size > uint64(end-offset) {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: offset,
			Reason: fmt.Sprintf("atom %q of size %d overruns its parent", atom.Type, atom.Size),
		}
	}
	return atom, nil
}

// errAtomNotFound is returned by findAtom when no atom of the type exists.
var errAtomNotFound = errors.Base("atom not found")

// findAtom searches for an atom of the given type within a range
// Returns the first matching atom or errAtomNotFound.
func findAtom(sr *binary.SafeReader, start, end int64, atomType string) (*Atom, error) {
	offset := start

	// trailing bytes too short for a header (udta terminators) are ignored
	for offset+8 <= end {
		atom, err := readChild(sr, offset, end)
		if err != nil {
			return nil, err
		}

		if atom.Type == atomType {
			return atom, nil
		}

		offset = atom.End()
	}

	return nil, errors.Errorf("%w: %q", errAtomNotFound, atomType)
}

// findPath follows a chain of nested atom types starting in [start, end).
func findPath(sr *binary.SafeReader, start, end int64, path ...string) (*Atom, error) {
	var atom *Atom
	for _, typ := range path {
		found, err := findAtom(sr, start, end, typ)
		if err != nil {
			return nil, err
		}
		atom = found
		start, end = atom.ChildOffset(), atom.End()
	}
	return atom, nil
}
