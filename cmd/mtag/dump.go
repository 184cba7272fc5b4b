package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/simonhull/mtag"
	"github.com/simonhull/mtag/internal/m4a"
)

func (a *app) newDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the atom tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := dumpFile(a.stdout, args[0]); err != nil {
				fmt.Fprintf(a.stderr, "error reading %s: %v\n", args[0], err) //nolint:errcheck // Console output
				a.exitCode = 1
			}
			return nil
		},
	}
}

// dumpFile prints one line per atom, indented by depth.
func dumpFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Errorf("open file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	stat, err := f.Stat()
	if err != nil {
		return errors.Errorf("stat file: %w", err)
	}

	format, err := mtag.DetectFormat(f, stat.Size(), path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %s, %s\n", path, format, humanize.Bytes(uint64(stat.Size()))) //nolint:errcheck // Console output

	for node, err := range m4a.Walk(f, stat.Size(), path) {
		if err != nil {
			return err
		}
		size := fmt.Sprintf("size: %d", node.Size)
		if node.Extended {
			size += ", extended"
		}
		fmt.Fprintf(w, "%s%s (%s, offset: %d)\n", //nolint:errcheck // Console output
			strings.Repeat("  ", node.Depth), mtag.Ident(node.Type), size, node.Offset)
	}
	return nil
}
