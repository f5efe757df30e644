package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(context.Background(), func(context.Context) error { return nil })
	assert.Error(t, s.Register("not a cron spec"))
	assert.Error(t, s.Register("30 16 * * 1-5"))
	assert.NoError(t, s.Register("0 30 16 * * 1-5"))
}

func TestRunNow(t *testing.T) {
	var calls int32
	s := New(context.Background(), func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("benchmark unavailable")
	})

	s.RunNow()
	s.RunNow()
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestScheduledRunFires(t *testing.T) {
	var calls int32
	s := New(context.Background(), func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	require.NoError(t, s.Register("* * * * * *"))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestOverlappingRunIsSkipped(t *testing.T) {
	var running, maxRunning int32
	release := make(chan struct{})
	s := New(context.Background(), func(context.Context) error {
		n := atomic.AddInt32(&running, 1)
		defer atomic.AddInt32(&running, -1)
		for {
			m := atomic.LoadInt32(&maxRunning)
			if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
				break
			}
		}
		<-release
		return nil
	})
	require.NoError(t, s.Register("* * * * * *"))

	s.Start()
	time.Sleep(2500 * time.Millisecond)
	close(release)
	s.Stop()

	assert.EqualValues(t, 1, atomic.LoadInt32(&maxRunning))
}
