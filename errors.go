package mtag

import (
	"fmt"

	"gitlab.com/tozd/go/errors"

	"github.com/simonhull/mtag/internal/types"
)

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
// Re-exporting from internal/types to maintain public API.
type CorruptedFileError = types.CorruptedFileError

var (
	// ErrNoFields is returned by NewPlan when no field flag was given.
	ErrNoFields = errors.Base("at least one field must be given")

	// ErrNoFiles is returned by NewPlan when the file list is empty.
	ErrNoFiles = errors.Base("no input files")
)

// ConfigError reports user input rejected before any file is touched.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err aborts an invocation before any file is
// processed.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr) || errors.Is(err, ErrNoFields) || errors.Is(err, ErrNoFiles)
}
