package journey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thesyncim/shopflow/pkg/shopflow"
	"github.com/thesyncim/shopflow/pkg/shopflow/internal"
)

// Kind classifies a journey outcome.
type Kind int

const (
	// Passed means the journey met every checkpoint.
	Passed Kind = iota
	// Timeout means an element or page state did not appear in time.
	Timeout
	// Assertion means an observed state did not match the model.
	Assertion
	// Authentication means login did not reach the catalog.
	Authentication
	// Other covers everything else, including panics.
	Other
)

func (k Kind) String() string {
	switch k {
	case Passed:
		return "passed"
	case Timeout:
		return "timeout"
	case Assertion:
		return "assertion"
	case Authentication:
		return "authentication"
	default:
		return "other"
	}
}

// Classify maps a journey error to its Kind. Authentication wins over
// timeout since a failed login surfaces as a listing that never appeared.
func Classify(err error) Kind {
	var (
		authErr   *shopflow.AuthenticationError
		assertErr *shopflow.AssertionError
	)
	switch {
	case err == nil:
		return Passed
	case errors.As(err, &authErr):
		return Authentication
	case errors.Is(err, shopflow.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case errors.As(err, &assertErr):
		return Assertion
	default:
		return Other
	}
}

// Opener hands out a fresh Driver per journey. Closing the returned Closer
// releases everything the Driver holds.
type Opener interface {
	Open(ctx context.Context) (Driver, io.Closer, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context) (Driver, io.Closer, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context) (Driver, io.Closer, error) {
	return f(ctx)
}

// Result is the outcome of one journey.
type Result struct {
	Name     string
	Kind     Kind
	Err      error
	Duration time.Duration
}

// Passed reports whether the journey succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Report collects the results of one Run, in the order journeys were given.
type Report struct {
	Results  []Result
	Duration time.Duration
}

// Passed reports whether every journey succeeded.
func (r Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return true
}

// Failed returns the failed results.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner) error

// WithParallel sets how many journeys may run at once.
// Default: 1
func WithParallel(n int) RunnerOption {
	return func(r *Runner) error {
		if n < 1 {
			return errors.New("parallelism must be at least 1")
		}
		r.parallel = n
		return nil
	}
}

// WithLogger sets the runner logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) error {
		if l != nil {
			r.log = l
		}
		return nil
	}
}

// WithClock sets the time source for durations.
func WithClock(c internal.Clock) RunnerOption {
	return func(r *Runner) error {
		if c == nil {
			return errors.New("clock is nil")
		}
		r.clock = c
		return nil
	}
}

// Runner executes journeys. Each journey gets its own Driver from the
// Opener, and that Driver is closed on every exit path.
type Runner struct {
	opener   Opener
	creds    shopflow.Credentials
	parallel int
	log      *slog.Logger
	clock    internal.Clock
}

// NewRunner creates a Runner that logs in with creds.
func NewRunner(opener Opener, creds shopflow.Credentials, opts ...RunnerOption) (*Runner, error) {
	if opener == nil {
		return nil, errors.New("opener is nil")
	}
	r := &Runner{
		opener:   opener,
		creds:    creds,
		parallel: 1,
		log:      slog.New(slog.DiscardHandler),
		clock:    internal.MonotonicClock{},
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run executes journeys and waits for all of them. A failing journey never
// stops the others; cancelling ctx fails the ones still running.
func (r *Runner) Run(ctx context.Context, journeys ...Journey) Report {
	start := r.clock.Now()
	results := make([]Result, len(journeys))

	var g errgroup.Group
	g.SetLimit(r.parallel)
	for i, j := range journeys {
		g.Go(func() error {
			results[i] = r.runOne(ctx, j)
			return nil
		})
	}
	_ = g.Wait()

	return Report{Results: results, Duration: r.clock.Now().Sub(start)}
}

func (r *Runner) runOne(ctx context.Context, j Journey) (res Result) {
	res.Name = j.Name
	log := r.log.With("journey", j.Name)
	start := r.clock.Now()
	defer func() {
		res.Duration = r.clock.Now().Sub(start)
		res.Kind = Classify(res.Err)
		if res.Err != nil {
			log.Warn("journey failed", "kind", res.Kind, "duration", res.Duration, "error", res.Err)
			return
		}
		log.Info("journey passed", "duration", res.Duration)
	}()

	// Covers Open, Run and Close.
	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic: %v", p)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("not started: %w", err)
		return res
	}
	d, closer, err := r.opener.Open(ctx)
	if err != nil {
		res.Err = fmt.Errorf("open browsing context: %w", err)
		return res
	}
	if d == nil {
		if closer != nil {
			_ = closer.Close()
		}
		res.Err = errors.New("open browsing context: opener returned no driver")
		return res
	}
	if closer != nil {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Warn("close browsing context", "error", err)
			}
		}()
	}

	log.Debug("journey started")
	res.Err = j.Run(ctx, d, r.creds)
	return res
}
