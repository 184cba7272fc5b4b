package main

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simonhull/mtag"
)

func (a *app) newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE...",
		Short: "Print the metadata of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			reporter := newConsoleReporter(a.stdout, a.stderr, a.color)
			a.finish(cmd, a.executor(reporter).Get(cmd.Context(), files))
			return nil
		},
	}
}

func (a *app) newClearCommand() *cobra.Command {
	var keepArtwork bool

	cmd := &cobra.Command{
		Use:   "clear FILE...",
		Short: "Remove all metadata from each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			reporter := newConsoleReporter(a.stdout, a.stderr, a.color)
			a.finish(cmd, a.executor(reporter).Clear(cmd.Context(), files, keepArtwork))
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepArtwork, "keep-artwork", false, "Keep embedded cover art")
	return cmd
}

// fieldUsage describes the value each field flag takes.
var fieldUsage = map[mtag.Field]string{
	mtag.FieldTitle:       "Title",
	mtag.FieldArtist:      "Comma-separated artists, also written as album artists and composers",
	mtag.FieldAlbum:       "Album",
	mtag.FieldGenre:       "Comma-separated genres",
	mtag.FieldCategory:    "Comma-separated categories",
	mtag.FieldDescription: "Description",
	mtag.FieldType:        "Media type (" + strings.Join(mtag.MediaTypeNames(), ", ") + ")",
	mtag.FieldArtwork:     "Cover image file (.jpg, .jpeg, .png, .bmp), replacing all existing artwork",
	mtag.FieldBPM:         "Beats per minute",
	mtag.FieldTrack:       "Track as NUMBER/TOTAL",
	mtag.FieldDisc:        "Disc as NUMBER/TOTAL",
	mtag.FieldCopyright:   "Copyright",
	mtag.FieldISRC:        "International Standard Recording Code",
	mtag.FieldShow:        "TV show",
	mtag.FieldWork:        "Classical work",
	mtag.FieldYear:        "Release date (YYYY, YYYY-MM-DD or RFC 3339)",
}

func (a *app) newSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set [FIELD FLAGS] FILE...",
		Short: "Set or clear fields on each file",
		Long: `Set or clear fields on each file.

A field flag with a value replaces the field; a field flag with an empty
value ("") removes it; fields without a flag are left untouched.`,
		Example: `  mtag set --title "Intro" --track 1/12 01.m4a
  mtag set --artist "alice,bob" --genre "" '**/*.m4b'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fieldArgs := mtag.Args{}
			for _, f := range mtag.AllFields() {
				if !cmd.Flags().Changed(f.String()) {
					continue
				}
				values, err := cmd.Flags().GetStringArray(f.String())
				if err != nil {
					return err
				}
				fieldArgs[f] = mtag.Given(values...)
			}

			files, err := expandArgs(args)
			if err != nil {
				return err
			}

			plan, err := mtag.NewPlan(fieldArgs, files)
			if err != nil {
				return err
			}
			zerolog.Ctx(cmd.Context()).Debug().Object("plan", plan).Int("files", len(files)).Msg("built plan")

			reporter := newConsoleReporter(a.stdout, a.stderr, a.color)
			a.finish(cmd, a.executor(reporter).Set(cmd.Context(), plan))
			return nil
		},
	}

	for _, f := range mtag.AllFields() {
		cmd.Flags().StringArray(f.String(), nil, fieldUsage[f])
	}
	return cmd
}
