package mtag

import (
	"fmt"
	"io"
	"sync"
)

// Reporter receives the outcome of every file of a batch.
//
// Report may be called from several goroutines when the executor runs with
// more than one worker; every Outcome carries its file path.
type Reporter interface {
	Report(o Outcome)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(o Outcome)

// Report calls f(o).
func (f ReporterFunc) Report(o Outcome) { f(o) }

// NopReporter discards outcomes.
type NopReporter struct{}

// Report does nothing.
func (NopReporter) Report(Outcome) {}

// WriterReporter prints one line per outcome: successes to out, failures to
// errOut. Tags read by Get are printed as "name: value" lines.
type WriterReporter struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

// NewWriterReporter creates a WriterReporter.
func NewWriterReporter(out, errOut io.Writer) *WriterReporter {
	return &WriterReporter{out: out, errOut: errOut}
}

// Report prints the outcome.
func (r *WriterReporter) Report(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.Err != nil {
		fmt.Fprintln(r.errOut, o) //nolint:errcheck // Console output
		return
	}

	fmt.Fprintln(r.out, o) //nolint:errcheck // Console output
	if o.Op == OpGet && o.Tag != nil {
		for _, row := range Summarize(o.Tag) {
			fmt.Fprintf(r.out, "%s: %s\n", row.Name, row.Value) //nolint:errcheck // Console output
		}
		fmt.Fprintln(r.out) //nolint:errcheck // Console output
	}
}
