package mtag

// SaveOption configures how FileCodec writes files.
//
// Example:
//
//	codec := mtag.NewFileCodec(
//	    mtag.WithBackup(".bak"),
//	    mtag.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for saving files.
type saveOptions struct {
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
}

// defaultSaveOptions returns the default configuration for saving.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{}
}

// WithBackup keeps the original file next to the rewritten one.
//
// The suffix is appended to the file name: WithBackup(".bak") leaves the
// untouched "song.m4a.bak" beside the new "song.m4a". An existing backup
// is overwritten. An empty suffix disables backups.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads every written file and compares its items with
// the tag that was written. A mismatch is reported as a write failure; the
// file is not rolled back.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the modification time the file had before the
// metadata was rewritten.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}
