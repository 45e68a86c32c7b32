package refresher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instalytics/pkg/analytics"
	errs "instalytics/pkg/errors"
	"instalytics/pkg/logger"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   []string
	failRef string
	delay   time.Duration
}

func (f *fakeRunner) RunAccount(ctx context.Context, ref string) (*analytics.Analytics, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ref)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if ref == f.failRef {
		return nil, errs.NewNoDataError(ref)
	}
	return &analytics.Analytics{Profile: analytics.Profile{Handle: ref}}, nil
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestWorkerPoolProcessesAllJobs(t *testing.T) {
	runner := &fakeRunner{}
	pool := NewWorkerPool(context.Background(), 3, runner, logger.NewTestLogger())
	pool.Start()

	handles := []string{"alice", "bob", "carol", "dave", "erin"}
	for _, h := range handles {
		require.NoError(t, pool.Submit(RefreshJob{Handle: h, Ref: h}))
	}

	done := make(chan struct{})
	var results []RefreshResult
	go func() {
		defer close(done)
		for r := range pool.Results() {
			results = append(results, r)
		}
	}()

	pool.Stop()
	<-done

	require.Len(t, results, len(handles))
	assert.Equal(t, len(handles), runner.callCount())
	for _, r := range results {
		assert.NoError(t, r.Err)
		require.NotNil(t, r.Report)
		assert.Equal(t, r.Job.Handle, r.Report.Profile.Handle)
	}
}

func TestWorkerPoolIsolatesFailures(t *testing.T) {
	runner := &fakeRunner{failRef: "bob"}
	pool := NewWorkerPool(context.Background(), 2, runner, logger.NewTestLogger())
	pool.Start()

	for _, h := range []string{"alice", "bob", "carol"} {
		require.NoError(t, pool.Submit(RefreshJob{Handle: h, Ref: h}))
	}

	done := make(chan struct{})
	byHandle := make(map[string]RefreshResult)
	go func() {
		defer close(done)
		for r := range pool.Results() {
			byHandle[r.Job.Handle] = r
		}
	}()

	pool.Stop()
	<-done

	require.Len(t, byHandle, 3)
	assert.Error(t, byHandle["bob"].Err)
	assert.True(t, errs.IsNoData(byHandle["bob"].Err))
	assert.Nil(t, byHandle["bob"].Report)

	assert.NoError(t, byHandle["alice"].Err, "one failure does not poison the batch")
	assert.NoError(t, byHandle["carol"].Err)
}

func TestWorkerPoolSubmitAfterShutdown(t *testing.T) {
	runner := &fakeRunner{}
	pool := NewWorkerPool(context.Background(), 1, runner, logger.NewTestLogger())
	pool.Start()

	go func() {
		for range pool.Results() {
		}
	}()
	pool.Stop()

	err := pool.Submit(RefreshJob{Handle: "late", Ref: "late"})
	assert.Error(t, err)

	assert.NotPanics(t, pool.Stop, "repeated Stop is a no-op")
}

func TestWorkerPoolInheritsCallerContext(t *testing.T) {
	runner := &fakeRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx, 1, runner, logger.NewTestLogger())
	pool.Start()

	// Cancelling the caller's context must stop job pickup
	cancel()
	require.NoError(t, pool.Submit(RefreshJob{Handle: "alice", Ref: "alice"}))

	done := make(chan struct{})
	var results []RefreshResult
	go func() {
		defer close(done)
		for r := range pool.Results() {
			results = append(results, r)
		}
	}()

	pool.Stop()
	<-done

	assert.Zero(t, runner.callCount(), "no new runs start after cancellation")
	assert.Empty(t, results)
}
