package m4a

import (
	"io"
	"iter"

	"github.com/simonhull/mtag/internal/binary"
)

// Node is an atom visited by Walk.
type Node struct {
	Atom
	Depth int
}

// Walk yields every atom of the file in depth-first order, descending into
// container atoms. It stops at the first malformed atom and yields the error
// as the final element.
func Walk(r io.ReaderAt, size int64, path string) iter.Seq2[Node, error] {
	return func(yield func(Node, error) bool) {
		sr := binary.NewSafeReader(r, size, path)
		walk(sr, 0, size, 0, yield)
	}
}

func walk(sr *binary.SafeReader, offset, end int64, depth int, yield func(Node, error) bool) bool {
	for offset+8 <= end {
		atom, err := readChild(sr, offset, end)
		if err != nil {
			yield(Node{}, err)
			return false
		}

		if !yield(Node{Atom: *atom, Depth: depth}, nil) {
			return false
		}

		if atom.IsContainer() && atom.ChildOffset() <= atom.End() {
			if !walk(sr, atom.ChildOffset(), atom.End(), depth+1, yield) {
				return false
			}
		}

		offset = atom.End()
	}
	return true
}
