package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"github.com/simonhull/mtag"
	"github.com/simonhull/mtag/internal/config"
)

// useColor resolves a color mode for one output stream.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// consoleReporter prints outcomes for the command line.
type consoleReporter struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer

	ok     *color.Color
	fail   *color.Color
	header *color.Color
	faint  *color.Color
}

func newConsoleReporter(out, errOut io.Writer, enabled bool) *consoleReporter {
	r := &consoleReporter{
		out:    out,
		errOut: errOut,
		ok:     color.New(color.FgGreen),
		fail:   color.New(color.FgRed),
		header: color.New(color.Bold, color.FgCyan),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.ok, r.fail, r.header, r.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *consoleReporter) Report(o mtag.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.Err != nil {
		fmt.Fprintln(r.errOut, r.fail.Sprint(o)) //nolint:errcheck // Console output
		return
	}

	if o.Op != mtag.OpGet {
		fmt.Fprintln(r.out, r.ok.Sprint(o)) //nolint:errcheck // Console output
		return
	}

	fmt.Fprintln(r.out, r.header.Sprint(o)) //nolint:errcheck // Console output
	rows := mtag.Summarize(o.Tag)
	if len(rows) == 0 {
		fmt.Fprintln(r.out, r.faint.Sprint("(no metadata)")) //nolint:errcheck // Console output
		fmt.Fprintln(r.out)                                  //nolint:errcheck // Console output
		return
	}
	fmt.Fprintln(r.out, renderRows(rows)) //nolint:errcheck // Console output
	fmt.Fprintln(r.out)                   //nolint:errcheck // Console output
}

// renderRows lays out tag rows as a two-column table.
func renderRows(rows []mtag.Row) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateRows = false
	tw.AppendHeader(table.Row{"Field", "Value"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row.Name, truncate(row.Value, 120)})
	}
	return tw.Render()
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
