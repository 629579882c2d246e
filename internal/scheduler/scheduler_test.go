package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	failures int32 // 처음 N번 실패
	calls    int32
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }

func (j *stubJob) Run(ctx context.Context) error {
	n := atomic.AddInt32(&j.calls, 1)
	if n <= atomic.LoadInt32(&j.failures) {
		return errors.New("transient failure")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	return New(logger.Nop()).WithRetry(2, time.Millisecond)
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "@every 1h"}))
	assert.Error(t, s.AddJob(&stubJob{name: "a", schedule: "@every 1h"}), "duplicate name")
	assert.Error(t, s.AddJob(&stubJob{name: "b", schedule: "not a schedule"}), "invalid cron expression")

	assert.Equal(t, []string{"a"}, s.GetAllJobs())
}

func TestGetAllJobs_Sorted(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&stubJob{name: "macro_refresh", schedule: "0 0 6 * * *"}))
	require.NoError(t, s.AddJob(&stubJob{name: "cache_cleanup", schedule: "0 */5 * * * *"}))

	assert.Equal(t, []string{"cache_cleanup", "macro_refresh"}, s.GetAllJobs())
}

func TestGetJobHistory_ReturnsCopy(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "@every 1h"}))

	_, err := s.RunJob(context.Background(), "a")
	require.NoError(t, err)

	history, err := s.GetJobHistory("a")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	history.Results[0].Success = false

	again, err := s.GetJobHistory("a")
	require.NoError(t, err)
	assert.True(t, again.Results[0].Success, "caller mutations must not leak into the scheduler")

	_, err = s.GetJobHistory("missing")
	assert.Error(t, err)
}

func TestRunJob_RetriesThenSucceeds(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "flaky", schedule: "@every 1h", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "flaky")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.False(t, result.TimedOut)
	assert.Equal(t, int32(3), atomic.LoadInt32(&job.calls))

	history, err := s.GetJobHistory("flaky")
	require.NoError(t, err)
	assert.Len(t, history.Results, 1)
}

func TestRunJob_FailsAfterRetries(t *testing.T) {
	s := newTestScheduler()
	job := &stubJob{name: "broken", schedule: "@every 1h", failures: 100}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "broken")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "transient failure", result.Error)
	assert.Equal(t, int32(3), atomic.LoadInt32(&job.calls), "1 attempt + 2 retries")
	assert.Equal(t, 3, result.Attempts)

	stats := s.GetJobStats()["broken"]
	assert.Equal(t, 1, stats.FailureCount)
	assert.Equal(t, 0.0, stats.SuccessRate)
	assert.NotNil(t, stats.LastFailure)
	assert.Nil(t, stats.LastSuccess)
}

type blockingJob struct{}

func (blockingJob) Name() string     { return "slow" }
func (blockingJob) Schedule() string { return "@every 1h" }

func (blockingJob) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestRunJob_TimesOut(t *testing.T) {
	s := New(logger.Nop()).WithRetry(0, time.Millisecond)
	s.jobTimeout = 10 * time.Millisecond
	require.NoError(t, s.AddJob(blockingJob{}))

	result, err := s.RunJob(context.Background(), "slow")
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.True(t, result.TimedOut)
	assert.Equal(t, 1, result.Attempts)
}

func TestGetJobStats_LastSuccessSurvivesLaterFailure(t *testing.T) {
	s := New(logger.Nop()).WithRetry(0, time.Millisecond)
	job := &stubJob{name: "flip", schedule: "@every 1h"}
	require.NoError(t, s.AddJob(job))

	_, err := s.RunJob(context.Background(), "flip")
	require.NoError(t, err)

	// 이후 실행은 모두 실패
	atomic.StoreInt32(&job.failures, 100)
	_, err = s.RunJob(context.Background(), "flip")
	require.NoError(t, err)

	stats := s.GetJobStats()["flip"]
	assert.Equal(t, 2, stats.TotalRuns)
	assert.Equal(t, "@every 1h", stats.Schedule)
	require.NotNil(t, stats.LastSuccess)
	require.NotNil(t, stats.LastFailure)
	assert.Equal(t, *stats.LastFailure, *stats.LastRun)
	assert.InDelta(t, 0.5, stats.SuccessRate, 1e-9)
}

func TestRunJob_Unknown(t *testing.T) {
	_, err := newTestScheduler().RunJob(context.Background(), "missing")
	assert.Error(t, err)
}

func TestJobHistory(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 105; i++ {
		h.AddResult(JobResult{JobName: "x", Success: i%5 != 0})
	}

	assert.Len(t, h.Results, 100, "history is capped")
	assert.Len(t, h.GetLatestResults(3), 3)
	assert.Len(t, h.GetFailedResults(), 20)
	assert.InDelta(t, 0.8, h.GetSuccessRate(), 1e-9)

	empty := &JobHistory{}
	assert.Empty(t, empty.GetLatestResults(5))
	assert.Equal(t, 0.0, empty.GetSuccessRate())
}
