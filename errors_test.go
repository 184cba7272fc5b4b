package mtag

import (
	"io/fs"
	"strings"
	"testing"

	"gitlab.com/tozd/go/errors"
)

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "reason only",
			err:  &ConfigError{Field: "track", Value: "3/2", Reason: "number is greater than total"},
			want: `invalid track "3/2": number is greater than total`,
		},
		{
			name: "wrapped cause",
			err:  &ConfigError{Field: "artwork", Value: "cover.jpg", Reason: "cannot read image", Err: fs.ErrNotExist},
			want: `invalid artwork "cover.jpg": cannot read image: file does not exist`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigError_Unwrap(t *testing.T) {
	err := errors.Errorf("resolve: %w", &ConfigError{Field: "artwork", Reason: "cannot read image", Err: fs.ErrNotExist})

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected the cause to be reachable")
	}
	if !IsConfigError(err) {
		t.Error("expected IsConfigError to see through wrapping")
	}
}

func TestIsConfigError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"config error", &ConfigError{Field: "bpm"}, true},
		{"no fields", ErrNoFields, true},
		{"no files", errors.WithStack(ErrNoFiles), true},
		{"unsupported format", &UnsupportedFormatError{Path: "a.mp3"}, false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfigError(tt.err); got != tt.want {
				t.Errorf("IsConfigError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnsupportedFormatError_Error(t *testing.T) {
	err := &UnsupportedFormatError{
		Path:   "test.mp3",
		Reason: "no ftyp atom",
	}

	msg := err.Error()
	for _, substr := range []string{"test.mp3", "no ftyp atom", "unsupported format"} {
		if !strings.Contains(msg, substr) {
			t.Errorf("error %q should contain %q", msg, substr)
		}
	}
}

func TestCorruptedFileError_Error(t *testing.T) {
	err := &CorruptedFileError{
		Path:   "broken.m4b",
		Offset: 256,
		Reason: "invalid atom size",
	}

	msg := err.Error()
	for _, substr := range []string{"broken.m4b", "offset 256", "invalid atom size", "corrupted file"} {
		if !strings.Contains(msg, substr) {
			t.Errorf("error %q should contain %q", msg, substr)
		}
	}
}
