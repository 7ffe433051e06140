package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndRepeats(t *testing.T) {
	var runs atomic.Int32

	s, err := New(50*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
}
