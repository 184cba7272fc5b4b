package binary

import (
	"encoding/binary"
	"io"
	"strings"
	"testing"
)

// mockReader implements io.ReaderAt for testing.
type mockReader struct {
	data []byte
}

func (m *mockReader) ReadAt(p []byte, off int64) (n int, err error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestSafeReader_ReadAt_Success(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.m4a")

	buf := make([]byte, 2)
	if err := sr.ReadAt(buf, 0, "test read"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Errorf("expected [0x01, 0x02], got [0x%02x, 0x%02x]", buf[0], buf[1])
	}
}

func TestSafeReader_ReadAt_OutOfBounds(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.m4a")

	err := sr.ReadAt(make([]byte, 2), 10, "out of bounds read")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "test.m4a") {
		t.Errorf("error should contain filename: %v", errMsg)
	}
	if !strings.Contains(errMsg, "out of bounds read") {
		t.Errorf("error should contain context: %v", errMsg)
	}
}

func TestSafeReader_ReadAt_PastEnd(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.m4a")

	if err := sr.ReadAt(make([]byte, 4), 2, "straddling read"); err == nil {
		t.Fatal("expected error for read crossing end of file")
	}
}

func TestSafeReader_ReadBytes(t *testing.T) {
	data := []byte("ftypM4A ")
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.m4a")

	got, err := sr.ReadBytes(4, 4, "brand")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "M4A " {
		t.Errorf("expected %q, got %q", "M4A ", got)
	}

	empty, err := sr.ReadBytes(100, 0, "nothing")
	if err != nil {
		t.Fatalf("zero-length read should not fail: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty slice, got %d bytes", len(empty))
	}

	if _, err := sr.ReadBytes(0, -1, "negative"); err == nil {
		t.Error("expected error for negative length")
	}
}

func TestRead_Widths(t *testing.T) {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, 0x0102030405060708)
	sr := NewSafeReader(&mockReader{data: data}, int64(len(data)), "test.m4a")

	u8, err := Read[uint8](sr, 0, "u8")
	if err != nil || u8 != 0x01 {
		t.Errorf("uint8: got 0x%x, %v", u8, err)
	}

	u16, err := Read[uint16](sr, 0, "u16")
	if err != nil || u16 != 0x0102 {
		t.Errorf("uint16: got 0x%x, %v", u16, err)
	}

	u32, err := Read[uint32](sr, 4, "u32")
	if err != nil || u32 != 0x05060708 {
		t.Errorf("uint32: got 0x%x, %v", u32, err)
	}

	u64, err := Read[uint64](sr, 0, "u64")
	if err != nil || u64 != 0x0102030405060708 {
		t.Errorf("uint64: got 0x%x, %v", u64, err)
	}

	if _, err := Read[uint64](sr, 4, "short"); err == nil {
		t.Error("expected error reading uint64 past end")
	}
}

func TestPutDecode(t *testing.T) {
	buf := make([]byte, 8)

	Put[uint16](buf, 0xBEEF)
	if got := Decode[uint16](buf); got != 0xBEEF {
		t.Errorf("uint16 round trip: got 0x%x", got)
	}

	Put[uint32](buf, 0xDEADBEEF)
	if got := Decode[uint32](buf); got != 0xDEADBEEF {
		t.Errorf("uint32 round trip: got 0x%x", got)
	}

	Put[uint64](buf, 1<<40)
	if got := Decode[uint64](buf); got != 1<<40 {
		t.Errorf("uint64 round trip: got 0x%x", got)
	}

	if SizeOf[uint8]() != 1 || SizeOf[uint16]() != 2 || SizeOf[uint32]() != 4 || SizeOf[uint64]() != 8 {
		t.Error("SizeOf returned unexpected widths")
	}
}
