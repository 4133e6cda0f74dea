package accelerator

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/shirou/gopsutil/v4/mem"
)

var _ Accelerator = (*Host)(nil)

// Host treats system memory as the accelerator. The fraction becomes the Go
// runtime soft memory limit, and a sweep forces a collection and returns
// freed pages to the OS.
type Host struct {
	sem chan struct{}

	total uint64

	fraction atomic.Uint64
	sweeps   atomic.Int64
}

func NewHost() (*Host, error) {
	vm, err := mem.VirtualMemory()

	if err != nil {
		return nil, err
	}

	if vm.Total == 0 {
		return nil, errors.New("unable to determine system memory")
	}

	h := &Host{
		sem: make(chan struct{}, 1),

		total: vm.Total,
	}

	h.fraction.Store(math.Float64bits(1))

	return h, nil
}

func (h *Host) Acquire(ctx context.Context, fraction float64) (Lease, error) {
	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	h.limit(fraction)
	h.sweep()

	return &hostLease{host: h}, nil
}

func (h *Host) Status() (*Status, error) {
	vm, err := mem.VirtualMemory()

	if err != nil {
		return nil, err
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	status := &Status{
		Device: "host",

		Fraction: math.Float64frombits(h.fraction.Load()),

		Allocated: stats.HeapAlloc,
		Reserved:  stats.Sys,
		Total:     vm.Total,
		Available: vm.Available,
	}

	if vm.Total > 0 {
		status.Usage = float64(stats.HeapAlloc) / float64(vm.Total) * 100
	}

	return status, nil
}

// Sweeps reports how many housekeeping sweeps ran.
func (h *Host) Sweeps() int64 {
	return h.sweeps.Load()
}

func (h *Host) limit(fraction float64) {
	if fraction <= 0 || fraction > 1 {
		fraction = 1
	}

	if math.Float64frombits(h.fraction.Swap(math.Float64bits(fraction))) == fraction {
		return
	}

	limit := int64(math.MaxInt64)

	if fraction < 1 {
		limit = int64(float64(h.total) * fraction)
	}

	debug.SetMemoryLimit(limit)

	slog.Debug("memory limit updated", "fraction", fraction, "limit", limit)
}

func (h *Host) sweep() {
	debug.FreeOSMemory()
	h.sweeps.Add(1)
}

type hostLease struct {
	host *Host
	once sync.Once
}

func (l *hostLease) Sweep() {
	l.host.sweep()
}

func (l *hostLease) Release() {
	l.once.Do(func() {
		l.host.sweep()
		<-l.host.sem
	})
}
