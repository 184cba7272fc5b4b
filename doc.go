// Package mtag reads, sets and clears iTunes-style metadata on MPEG-4 files
// (.m4a, .m4b, .m4v, .mp4).
//
// # Editing files
//
// Command-line input is collected per field as Raw values and resolved
// into a Plan. Each field resolves to one of three states: absent (leave
// the stored value alone), clear (remove it) or set (overwrite it).
// Resolution validates every literal and loads the artwork before any
// target file is opened:
//
//	plan, err := mtag.NewPlan(mtag.Args{
//		mtag.FieldArtist: mtag.Given("alice,bob"),
//		mtag.FieldTrack:  mtag.Given("2/12"),
//		mtag.FieldGenre:  mtag.Given(""), // clear
//	}, paths)
//	if err != nil {
//		return err
//	}
//
//	exec := mtag.NewExecutor(mtag.NewFileCodec(mtag.WithBackup(".bak")),
//		mtag.WithConcurrency(4),
//		mtag.WithReporter(mtag.NewWriterReporter(os.Stdout, os.Stderr)),
//	)
//	result := exec.Set(ctx, plan)
//	os.Exit(result.ExitCode())
//
// # Fan-out
//
// Some fields are stored under several idents that are always edited
// together. The artist list is written to the artist, album artist and
// composer items. Genres are written to the free-text genre item, and the
// ones found in the ID3v1 table also to the standard genre item. Clearing
// either field removes the whole group.
//
// # Failures
//
// Configuration errors (ConfigError, ErrNoFields, ErrNoFiles) are returned
// by NewPlan. Once a batch runs, each file is read, mutated and written on
// its own; a failing file is recorded in its Outcome and the batch moves on.
// Result.Failed is the number of failed files.
//
// # Codec
//
// The Executor reaches files only through the Codec interface. FileCodec
// rewrites the moov atom of the file through a temporary file and an
// atomic rename, shifting chunk offsets when the media data follows.
package mtag
