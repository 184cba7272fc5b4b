package binary

import (
	"io"
)

// SafeWriter wraps io.Writer with position tracking.
type SafeWriter struct {
	w      io.Writer
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{
		w:      w,
		offset: 0,
	}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// Write writes a value of type T in big-endian byte order.
func Write[T Unsigned](sw *SafeWriter, val T) error {
	buf := make([]byte, SizeOf[T]())
	Put(buf, val)
	return sw.WriteBytes(buf)
}

// Copy streams n bytes from r at off to the writer.
func (sw *SafeWriter) Copy(r io.ReaderAt, off, n int64) error {
	if n <= 0 {
		return nil
	}
	written, err := io.Copy(sw.w, io.NewSectionReader(r, off, n))
	sw.offset += written
	if err != nil {
		return err
	}
	if written != n {
		return io.ErrUnexpectedEOF
	}
	return nil
}
