// ABOUTME: Bounded polling utility with a fixed interval and attempt ceiling
// ABOUTME: Returns a tagged outcome (completed/failed/timedOut) instead of throwing on exhaustion
package util

import (
	"context"
	"time"
)

// PollOutcome tags the result of a bounded polling loop
type PollOutcome string

const (
	PollCompleted PollOutcome = "completed"
	PollFailed    PollOutcome = "failed"
	PollTimedOut  PollOutcome = "timedOut"
)

// PollResult is the outcome of a Poll call. Err is set only for PollFailed,
// or when the context was cancelled mid-poll.
type PollResult struct {
	Outcome  PollOutcome
	Attempts int
	Err      error
}

// CheckFunc inspects the polled state once. Returning done=true completes the
// poll; returning an error aborts it immediately.
type CheckFunc func(ctx context.Context) (done bool, err error)

// Poll calls check up to maxAttempts times, sleeping interval between
// attempts. Exhausting the attempt ceiling is a soft timeout, not a failure:
// the polled operation may still complete later.
func Poll(ctx context.Context, interval time.Duration, maxAttempts int, check CheckFunc) PollResult {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		done, err := check(ctx)
		if err != nil {
			return PollResult{Outcome: PollFailed, Attempts: attempt, Err: err}
		}
		if done {
			return PollResult{Outcome: PollCompleted, Attempts: attempt}
		}
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return PollResult{Outcome: PollFailed, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(interval):
		}
	}

	return PollResult{Outcome: PollTimedOut, Attempts: maxAttempts}
}
