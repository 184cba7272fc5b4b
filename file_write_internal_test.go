package mtag

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitlab.com/tozd/go/errors"
)

func mockAtom(typ string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	buf := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(buf, uint32(8+len(body)))
	copy(buf[4:], typ)
	return append(buf, body...)
}

func TestWriteTag_FailedRenameRestoresBackup(t *testing.T) {
	original := bytes.Join([][]byte{
		mockAtom("ftyp", []byte("M4A "), make([]byte, 4), []byte("M4A mp42")),
		mockAtom("moov", mockAtom("mvhd", make([]byte, 100))),
		mockAtom("mdat", []byte("audio")),
	}, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "song.m4a")
	if err := os.WriteFile(path, original, 0o644); err != nil {
		t.Fatal(err)
	}

	// the backup rename succeeds, moving the new file into place fails
	t.Cleanup(func() { rename = os.Rename })
	rename = func(oldpath, newpath string) error {
		if strings.HasPrefix(filepath.Base(oldpath), ".mtag-") {
			return errors.New("device busy")
		}
		return os.Rename(oldpath, newpath)
	}

	codec := NewFileCodec(WithBackup(".bak"))
	err := codec.WriteTag(context.Background(), path, NewTag())
	if err == nil || !strings.Contains(err.Error(), "device busy") {
		t.Fatalf("expected rename failure, got %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("original missing after failed write: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Error("original contents changed")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the original to remain, found %v", names)
	}
}
