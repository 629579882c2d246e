package scheduler

import (
	"context"
	"time"
)

// maxHistoryResults caps the per-job history kept in memory
const maxHistoryResults = 100

// Job is a background task run on a cron schedule (with seconds)
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string

	// Run executes one attempt; ctx carries the per-attempt timeout
	Run(ctx context.Context) error

	// Schedule returns a six-field cron expression,
	// e.g. "0 0 6 * * *" (daily 06:00) or "@every 5m"
	Schedule() string
}

// JobResult is the outcome of one scheduled or manual run, retries included
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	TimedOut  bool          `json:"timed_out,omitempty"` // 마지막 시도가 jobTimeout 초과
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory is the bounded run history of one job, oldest first
type JobHistory struct {
	Results []JobResult `json:"results"`
}

// AddResult appends a result, dropping the oldest past maxHistoryResults
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)

	if len(h.Results) > maxHistoryResults {
		h.Results = h.Results[len(h.Results)-maxHistoryResults:]
	}
}

// Snapshot returns a copy safe to read outside the scheduler lock
func (h *JobHistory) Snapshot() JobHistory {
	out := make([]JobResult, len(h.Results))
	copy(out, h.Results)
	return JobHistory{Results: out}
}

// GetLatestResults returns the latest n results, oldest first
func (h *JobHistory) GetLatestResults(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	if n <= 0 {
		return []JobResult{}
	}

	return h.Results[len(h.Results)-n:]
}

// GetFailedResults returns all failed results
func (h *JobHistory) GetFailedResults() []JobResult {
	failed := make([]JobResult, 0)
	for _, result := range h.Results {
		if !result.Success {
			failed = append(failed, result)
		}
	}
	return failed
}

// GetSuccessRate returns the success rate (0.0 - 1.0)
func (h *JobHistory) GetSuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}

	successCount := 0
	for _, result := range h.Results {
		if result.Success {
			successCount++
		}
	}

	return float64(successCount) / float64(len(h.Results))
}
