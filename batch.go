package mtag

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Op is the command a batch runs.
type Op int

const (
	// OpGet reads each file and reports its tag.
	OpGet Op = iota
	// OpSet applies a Plan to each file.
	OpSet
	// OpClear removes the items of each file.
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpClear:
		return "clear"
	default:
		return "get"
	}
}

// Stage is how far the processing of a file got.
type Stage int

const (
	// StageRead failed before the tag was read, or was never started.
	StageRead Stage = iota
	// StageWrite failed while writing the mutated tag.
	StageWrite
	// StageDone completed every step.
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageWrite:
		return "write"
	case StageDone:
		return "done"
	default:
		return "read"
	}
}

// Outcome is the result of processing one file.
type Outcome struct {
	Path  string
	Op    Op
	Stage Stage // Stage that failed, or StageDone
	Err   error
	Tag   *Tag // Tag read by Get; nil for other operations
}

// OK reports whether the file was processed successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// String renders the outcome as a console line.
func (o Outcome) String() string {
	if o.Err != nil {
		if o.Stage == StageWrite {
			return fmt.Sprintf("error writing %s: %v", o.Path, o.Err)
		}
		return fmt.Sprintf("error reading %s: %v", o.Path, o.Err)
	}
	switch o.Op {
	case OpSet:
		return "tagged: " + o.Path
	case OpClear:
		return "cleared: " + o.Path
	default:
		return "# " + o.Path + ":"
	}
}

// Result lists the outcome of every file in input order.
type Result struct {
	Outcomes []Outcome
}

// Failed returns the number of files that could not be processed.
func (r Result) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

// ExitCode returns Failed clamped to the range of a process exit status.
func (r Result) ExitCode() int {
	return min(r.Failed(), 255)
}

// Executor runs read, mutate and write over a batch of files. A failure is
// recorded against its file and never stops the batch.
type Executor struct {
	codec Codec
	opts  executorOptions
}

// NewExecutor creates an Executor using codec for all file access.
func NewExecutor(codec Codec, opts ...Option) *Executor {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return &Executor{codec: codec, opts: *options}
}

// Set applies the plan to every file of the plan.
func (e *Executor) Set(ctx context.Context, plan *Plan) Result {
	zerolog.Ctx(ctx).Debug().Object("plan", plan).Msg("applying plan")
	return e.run(ctx, OpSet, plan.files, plan.Apply)
}

// Clear removes every item from the files, keeping artwork if asked to.
func (e *Executor) Clear(ctx context.Context, files []string, keepArtwork bool) Result {
	var keep []Ident
	if keepArtwork {
		keep = append(keep, IdentArtwork)
	}
	return e.run(ctx, OpClear, files, func(tag *Tag) { tag.Clear(keep...) })
}

// Get reads the files. Each successful Outcome carries the tag.
func (e *Executor) Get(ctx context.Context, files []string) Result {
	return e.run(ctx, OpGet, files, nil)
}

// run processes files with at most concurrency workers. Once ctx is done no
// new file is started; the remaining ones fail with the context error. A
// started file always finishes.
func (e *Executor) run(ctx context.Context, op Op, files []string, mutate func(*Tag)) Result {
	outcomes := make([]Outcome, len(files))

	var g errgroup.Group
	g.SetLimit(e.opts.concurrency)

	var skipped []int
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			outcomes[i] = Outcome{Path: path, Op: op, Stage: StageRead, Err: err}
			skipped = append(skipped, i)
			continue
		}
		g.Go(func() error {
			// ctx may be done while this worker waited for a free slot
			if err := ctx.Err(); err != nil {
				outcomes[i] = Outcome{Path: path, Op: op, Stage: StageRead, Err: err}
			} else {
				outcomes[i] = e.process(ctx, op, path, mutate)
			}
			e.opts.reporter.Report(outcomes[i])
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // Workers record failures in outcomes

	for _, i := range skipped {
		e.opts.reporter.Report(outcomes[i])
	}

	result := Result{Outcomes: outcomes}
	zerolog.Ctx(ctx).Debug().
		Str("op", op.String()).
		Int("files", len(files)).
		Int("failed", result.Failed()).
		Msg("batch finished")
	return result
}

// process runs one file to completion, ignoring cancellation of ctx.
func (e *Executor) process(ctx context.Context, op Op, path string, mutate func(*Tag)) Outcome {
	ctx = context.WithoutCancel(ctx)
	log := zerolog.Ctx(ctx).With().Str("path", path).Str("op", op.String()).Logger()

	out := Outcome{Path: path, Op: op, Stage: StageRead}

	tag, err := e.codec.ReadTag(ctx, path)
	if err != nil {
		log.Debug().Err(err).Msg("read failed")
		out.Err = err
		return out
	}

	if mutate == nil {
		out.Stage = StageDone
		out.Tag = tag
		return out
	}

	mutate(tag)

	out.Stage = StageWrite
	if err := e.codec.WriteTag(ctx, path, tag); err != nil {
		log.Debug().Err(err).Msg("write failed")
		out.Err = err
		return out
	}

	log.Debug().Int("items", tag.Len()).Msg("file done")
	out.Stage = StageDone
	return out
}
