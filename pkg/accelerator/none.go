package accelerator

import (
	"context"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

var _ Accelerator = (*None)(nil)

// None serializes invocations and sweeps between them without capping
// memory. It stands in when no accelerator is configured.
type None struct {
	sem chan struct{}

	sweeps atomic.Int64
}

func NewNone() *None {
	return &None{
		sem: make(chan struct{}, 1),
	}
}

func (n *None) Acquire(ctx context.Context, fraction float64) (Lease, error) {
	select {
	case n.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	n.sweep()

	return &noneLease{none: n}, nil
}

func (n *None) Status() (*Status, error) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return &Status{
		Device: "none",

		Fraction: 1,

		Allocated: stats.HeapAlloc,
		Reserved:  stats.Sys,
	}, nil
}

// Sweeps reports how many housekeeping sweeps ran.
func (n *None) Sweeps() int64 {
	return n.sweeps.Load()
}

func (n *None) sweep() {
	debug.FreeOSMemory()
	n.sweeps.Add(1)
}

type noneLease struct {
	none *None
	once sync.Once
}

func (l *noneLease) Sweep() {
	l.none.sweep()
}

func (l *noneLease) Release() {
	l.once.Do(func() {
		l.none.sweep()
		<-l.none.sem
	})
}
