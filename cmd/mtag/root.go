package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simonhull/mtag"
	"github.com/simonhull/mtag/internal/config"
)

// app holds the global flags and the state shared by subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath    string
	jobs          int
	backup        string
	preserveMTime bool
	verify        bool
	debug         bool
	noColor       bool

	cfg      config.Config
	color    bool
	exitCode int
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	cmd := a.newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err) //nolint:errcheck // Console output
		return 1
	}
	return a.exitCode
}

func (a *app) newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mtag",
		Short: "Read and edit MPEG-4 metadata",
		Long: `mtag reads and edits the iTunes-style metadata of .m4a, .m4b, .m4v and
.mp4 files. Every file is processed independently: a failure is reported
and counted, and the exit code is the number of files that failed.`,
		Version:           mtag.GetVersionInfo().String(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Configuration file path (default ~/.config/mtag/config.toml)")
	flags.IntVarP(&a.jobs, "jobs", "j", 1, "Number of files processed at once")
	flags.StringVar(&a.backup, "backup", "", "Keep the original file with this suffix appended (e.g. .bak)")
	flags.BoolVar(&a.preserveMTime, "preserve-mtime", false, "Keep the modification time of rewritten files")
	flags.BoolVar(&a.verify, "verify", false, "Re-read every written file and compare the metadata")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(a.newGetCommand())
	rootCmd.AddCommand(a.newSetCommand())
	rootCmd.AddCommand(a.newClearCommand())
	rootCmd.AddCommand(a.newDumpCommand())

	return rootCmd
}

// setup loads the configuration file, applies flags over it, and attaches
// the logger to the command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, path, exists, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		cfg.Jobs = a.jobs
	}
	if flags.Changed("backup") {
		cfg.BackupSuffix = a.backup
	}
	if flags.Changed("preserve-mtime") {
		cfg.PreserveModTime = a.preserveMTime
	}
	if flags.Changed("verify") {
		cfg.Verify = a.verify
	}
	if a.noColor {
		cfg.Color = config.ColorNever
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = *cfg
	a.color = useColor(cfg.Color, a.stdout)

	level := zerolog.InfoLevel
	if a.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, NoColor: !useColor(cfg.Color, a.stderr)}).
		Level(level).With().Timestamp().Logger()

	logger.Debug().
		Str("config", path).
		Bool("exists", exists).
		Int("jobs", cfg.Jobs).
		Str("backup", cfg.BackupSuffix).
		Bool("verify", cfg.Verify).
		Msg("loaded configuration")

	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

func (a *app) executor(reporter mtag.Reporter) *mtag.Executor {
	var opts []mtag.SaveOption
	if a.cfg.BackupSuffix != "" {
		opts = append(opts, mtag.WithBackup(a.cfg.BackupSuffix))
	}
	if a.cfg.Verify {
		opts = append(opts, mtag.WithValidation())
	}
	if a.cfg.PreserveModTime {
		opts = append(opts, mtag.WithPreserveModTime())
	}

	return mtag.NewExecutor(mtag.NewFileCodec(opts...),
		mtag.WithConcurrency(a.cfg.Jobs),
		mtag.WithReporter(reporter),
	)
}

// finish records the exit code of a batch.
func (a *app) finish(cmd *cobra.Command, result mtag.Result) {
	zerolog.Ctx(cmd.Context()).Debug().
		Int("files", len(result.Outcomes)).
		Int("failed", result.Failed()).
		Msg("batch finished")
	a.exitCode = result.ExitCode()
}
