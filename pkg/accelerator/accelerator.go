package accelerator

import (
	"context"
)

// Accelerator is the scarce memory resource model invocations run against.
// Acquire grants exclusive use until the lease is released; both ends run a
// housekeeping sweep.
type Accelerator interface {
	Acquire(ctx context.Context, fraction float64) (Lease, error)

	Status() (*Status, error)
}

type Lease interface {
	// Sweep releases unreferenced memory while the lease is held.
	Sweep()

	// Release sweeps and gives up the lease. Calling it more than once has no
	// effect.
	Release()
}

type Status struct {
	Device string

	Fraction float64

	Allocated uint64
	Reserved  uint64
	Total     uint64
	Available uint64

	Usage float64
}
