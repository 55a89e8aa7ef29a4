package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange_VisitsEveryIndexOnce(t *testing.T) {
	const n = 1000
	out := make([]int32, n)
	err := Range(context.Background(), n, 8, func(i int) error {
		atomic.AddInt32(&out[i], 1)
		return nil
	})
	require.NoError(t, err)
	for i, v := range out {
		assert.Equal(t, int32(1), v, "index %d", i)
	}
}

func TestRange_Empty(t *testing.T) {
	called := false
	err := Range(context.Background(), 0, 4, func(int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestRange_FirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	err := Range(context.Background(), 100, 1, func(i int) error {
		if i == 10 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestRange_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := Range(ctx, 100, 4, func(int) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 3, Workers(3))
	assert.Positive(t, Workers(0))
	assert.Positive(t, Workers(-1))
}
