package mtag

// Option configures an Executor.
//
// Options use the functional options pattern:
//
//	exec := mtag.NewExecutor(mtag.NewFileCodec(),
//	    mtag.WithConcurrency(4),
//	    mtag.WithReporter(reporter),
//	)
type Option func(*executorOptions)

// executorOptions holds configuration for running a batch.
type executorOptions struct {
	concurrency int      // Files processed at once
	reporter    Reporter // Receives one Outcome per file
}

// defaultOptions returns the default configuration.
func defaultOptions() *executorOptions {
	return &executorOptions{
		concurrency: 1,
		reporter:    NopReporter{},
	}
}

// WithConcurrency sets how many files are processed at once.
//
// The default of 1 processes files sequentially, in order. Values below 1
// are treated as 1. With more than one worker the reporter may be called
// concurrently and per-file messages arrive in completion order; the
// Result still lists outcomes in input order.
func WithConcurrency(n int) Option {
	return func(o *executorOptions) {
		o.concurrency = max(n, 1)
	}
}

// WithReporter sets the receiver of per-file outcomes.
//
// By default outcomes are only collected in the Result.
func WithReporter(r Reporter) Option {
	return func(o *executorOptions) {
		if r == nil {
			r = NopReporter{}
		}
		o.reporter = r
	}
}
