package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSchedulerRuns(t *testing.T) {
	s := NewScheduler(zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	require.NoError(t, s.Add(ctx, "@every 1s", func(context.Context) { runs.Add(1) }))

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerBadSpec(t *testing.T) {
	s := NewScheduler(nil)
	assert.Error(t, s.Add(context.Background(), "every day", func(context.Context) {}))
}
