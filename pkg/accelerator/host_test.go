package accelerator

import (
	"context"
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHostLease(t *testing.T) {
	h, err := NewHost()
	require.NoError(t, err)

	defer debug.SetMemoryLimit(debug.SetMemoryLimit(-1))

	lease, err := h.Acquire(context.Background(), 0.9)
	require.NoError(t, err)
	require.Equal(t, int64(1), h.Sweeps())

	lease.Release()
	lease.Release()
	require.Equal(t, int64(2), h.Sweeps())

	status, err := h.Status()
	require.NoError(t, err)

	require.Equal(t, "host", status.Device)
	require.Equal(t, 0.9, status.Fraction)
	require.NotZero(t, status.Total)
	require.NotZero(t, status.Allocated)
}

func TestHostExclusive(t *testing.T) {
	h, err := NewHost()
	require.NoError(t, err)

	lease, err := h.Acquire(context.Background(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = h.Acquire(ctx, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	lease.Release()

	lease, err = h.Acquire(context.Background(), 1)
	require.NoError(t, err)

	lease.Release()
}

func TestNoneLease(t *testing.T) {
	n := NewNone()

	lease, err := n.Acquire(context.Background(), 0.4)
	require.NoError(t, err)
	require.Equal(t, int64(1), n.Sweeps())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = n.Acquire(ctx, 0.4)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	lease.Release()
	lease.Release()
	require.Equal(t, int64(2), n.Sweeps())

	status, err := n.Status()
	require.NoError(t, err)

	require.Equal(t, "none", status.Device)
	require.Equal(t, 1.0, status.Fraction)
}
