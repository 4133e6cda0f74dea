package guard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/adrianliechti/murmur/pkg/accelerator"
	"github.com/adrianliechti/murmur/pkg/provider"
)

type Operation string

const (
	OperationSynthesize Operation = "synthesize"
	OperationTranscribe Operation = "transcribe"
)

// Budget is fixed at start-up. Only the active model identifier changes
// afterwards, once, from Primary to Fallback.
type Budget struct {
	Fraction float64

	Primary  string
	Fallback string
}

// Attempt records which model served an invocation.
type Attempt struct {
	Operation Operation
	Model     string

	Retried    bool
	Downgraded bool

	Duration time.Duration
}

type Observer func(ctx context.Context, attempt Attempt, err error)

// Guard runs model invocations under the memory budget and downgrades to
// the fallback model when the primary runs out of resources.
type Guard struct {
	budget      Budget
	accelerator accelerator.Accelerator

	observers []Observer

	mu     sync.Mutex
	active string
}

type Option func(*Guard)

func WithAccelerator(a accelerator.Accelerator) Option {
	return func(g *Guard) {
		g.accelerator = a
	}
}

func WithObserver(o Observer) Option {
	return func(g *Guard) {
		g.observers = append(g.observers, o)
	}
}

func New(budget Budget, options ...Option) (*Guard, error) {
	if budget.Primary == "" {
		return nil, errors.New("primary model is required")
	}

	if budget.Fraction <= 0 || budget.Fraction > 1 {
		return nil, fmt.Errorf("invalid memory fraction %v", budget.Fraction)
	}

	if budget.Fallback == budget.Primary {
		budget.Fallback = ""
	}

	g := &Guard{
		budget: budget,
		active: budget.Primary,
	}

	for _, option := range options {
		option(g)
	}

	if g.accelerator == nil {
		g.accelerator = accelerator.NewNone()
	}

	return g, nil
}

func (g *Guard) Budget() Budget {
	return g.budget
}

// Active returns the model identifier new invocations start with.
func (g *Guard) Active() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.active
}

func (g *Guard) Downgraded() bool {
	return g.Active() != g.budget.Primary
}

// Invoke calls fn with the active model while holding the accelerator, so
// invocations through guards sharing an accelerator never overlap.
// Resource exhaustion on the primary model downgrades to the fallback and
// retries exactly once. Other failures are returned as provider.ErrModel.
func (g *Guard) Invoke(ctx context.Context, op Operation, fn func(ctx context.Context, model string) error) (*Attempt, error) {
	start := time.Now()

	attempt := &Attempt{
		Operation: op,
	}

	err := g.invoke(ctx, attempt, fn)

	attempt.Duration = time.Since(start)

	for _, o := range g.observers {
		o(ctx, *attempt, err)
	}

	return attempt, err
}

func (g *Guard) invoke(ctx context.Context, attempt *Attempt, fn func(ctx context.Context, model string) error) error {
	lease, err := g.accelerator.Acquire(ctx, g.budget.Fraction)

	if err != nil {
		return err
	}

	defer lease.Release()

	attempt.Model = g.Active()

	err = fn(ctx, attempt.Model)

	if err == nil {
		return nil
	}

	if !errors.Is(err, provider.ErrResourceExhausted) {
		return modelError(err)
	}

	lease.Sweep()

	fallback, downgraded := g.downgrade(attempt.Model)

	if fallback == "" {
		return exhausted(attempt.Model, err)
	}

	if downgraded {
		slog.WarnContext(ctx, "model downgraded after resource exhaustion", "operation", attempt.Operation, "from", attempt.Model, "to", fallback)
	}

	attempt.Model = fallback
	attempt.Retried = true
	attempt.Downgraded = downgraded

	err = fn(ctx, fallback)

	if err == nil {
		return nil
	}

	if errors.Is(err, provider.ErrResourceExhausted) {
		return exhausted(fallback, err)
	}

	return modelError(err)
}

// downgrade switches the active model to the fallback if attempted was the
// primary. The switch happens at most once; later callers get the fallback
// without the downgrade flag. An empty result means no retry is allowed.
func (g *Guard) downgrade(attempted string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.budget.Fallback == "" || attempted != g.budget.Primary {
		return "", false
	}

	if g.active == g.budget.Primary {
		g.active = g.budget.Fallback
		return g.active, true
	}

	return g.budget.Fallback, false
}

func exhausted(model string, err error) error {
	return fmt.Errorf("model %s: %w", model, err)
}

func modelError(err error) error {
	if errors.Is(err, provider.ErrModel) {
		return err
	}

	return fmt.Errorf("%w: %w", provider.ErrModel, err)
}
