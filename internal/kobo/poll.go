package kobo

import (
	"context"
	"encoding/json"
	"time"
)

// DefaultPollInterval is the fixed wait between job status checks. The
// backing jobs are short-lived batch conversions; a short fixed interval
// bounds the worst-case wait without backoff machinery.
const DefaultPollInterval = time.Second

// Poll ceilings per job kind. With a 1s interval these bound the wait at
// 60s for imports and 30s for exports.
const (
	ImportPollLimit = 60
	ExportPollLimit = 30
)

// JobState classifies a single status payload.
type JobState int

const (
	JobPending JobState = iota
	JobComplete
	JobFailed
)

// JobStatus is one classified poll observation. Result is set on
// JobComplete for jobs that produce one; Messages on JobFailed.
type JobStatus struct {
	State    JobState
	Result   string
	Messages json.RawMessage
}

// Outcome is the terminal result of a poll. Timeout is a distinct
// outcome, not an error: the remote job may still finish after the
// ceiling is exhausted, and the caller can check again later.
type Outcome int

const (
	OutcomeComplete Outcome = iota
	OutcomeFailed
	OutcomeTimeout
)

type JobResult struct {
	Outcome  Outcome
	Result   string
	Messages json.RawMessage
}

// PollJob calls check at a fixed interval until it reports a terminal
// state, or maxPolls checks have been made, whichever comes first. A
// transport error from check aborts the poll immediately. The wait
// between checks honors ctx cancellation. Single flow: one job, no
// backoff, no jitter.
func PollJob(ctx context.Context, interval time.Duration, maxPolls int, check func(context.Context) (JobStatus, error)) (JobResult, error) {
	for i := 0; i < maxPolls; i++ {
		status, err := check(ctx)
		if err != nil {
			return JobResult{}, err
		}
		switch status.State {
		case JobComplete:
			return JobResult{Outcome: OutcomeComplete, Result: status.Result}, nil
		case JobFailed:
			return JobResult{Outcome: OutcomeFailed, Messages: status.Messages}, nil
		}
		if i == maxPolls-1 {
			// Ceiling reached; no point sleeping before reporting it.
			break
		}
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return JobResult{}, ctx.Err()
		case <-timer.C:
		}
	}
	return JobResult{Outcome: OutcomeTimeout}, nil
}

// ClassifyImport maps an import task payload onto the poll state machine.
func ClassifyImport(t *ImportTask) JobStatus {
	switch t.Status {
	case StatusComplete:
		return JobStatus{State: JobComplete}
	case StatusError:
		return JobStatus{State: JobFailed, Messages: t.Messages}
	default:
		return JobStatus{State: JobPending}
	}
}

// ClassifyExport maps an export task payload onto the poll state machine.
// The task result is the download URL.
func ClassifyExport(t *ExportTask) JobStatus {
	switch t.Status {
	case StatusComplete:
		return JobStatus{State: JobComplete, Result: t.Result}
	case StatusError:
		return JobStatus{State: JobFailed, Messages: t.Messages}
	default:
		return JobStatus{State: JobPending}
	}
}
