// ABOUTME: Tests for the bounded polling utility
// ABOUTME: Verifies completed, failed, and timedOut outcomes and attempt counting

package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoll_CompletesOnFirstAttempt(t *testing.T) {
	result := Poll(context.Background(), time.Millisecond, 5, func(ctx context.Context) (bool, error) {
		return true, nil
	})

	if result.Outcome != PollCompleted {
		t.Errorf("Outcome = %s, want %s", result.Outcome, PollCompleted)
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
	if result.Err != nil {
		t.Errorf("Err = %v, want nil", result.Err)
	}
}

func TestPoll_CompletesAfterSeveralAttempts(t *testing.T) {
	calls := 0
	result := Poll(context.Background(), time.Millisecond, 10, func(ctx context.Context) (bool, error) {
		calls++
		return calls >= 3, nil
	})

	if result.Outcome != PollCompleted {
		t.Errorf("Outcome = %s, want %s", result.Outcome, PollCompleted)
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
}

func TestPoll_ErrorAbortsImmediately(t *testing.T) {
	wantErr := errors.New("processing failed: embedding service unavailable")
	calls := 0
	result := Poll(context.Background(), time.Millisecond, 10, func(ctx context.Context) (bool, error) {
		calls++
		if calls == 2 {
			return false, wantErr
		}
		return false, nil
	})

	if result.Outcome != PollFailed {
		t.Errorf("Outcome = %s, want %s", result.Outcome, PollFailed)
	}
	if !errors.Is(result.Err, wantErr) {
		t.Errorf("Err = %v, want %v", result.Err, wantErr)
	}
	if calls != 2 {
		t.Errorf("check called %d times, want 2 (no polling past an error)", calls)
	}
}

func TestPoll_ExhaustionIsTimeoutNotFailure(t *testing.T) {
	calls := 0
	result := Poll(context.Background(), time.Millisecond, 4, func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})

	if result.Outcome != PollTimedOut {
		t.Errorf("Outcome = %s, want %s", result.Outcome, PollTimedOut)
	}
	if result.Err != nil {
		t.Errorf("Err = %v, want nil for soft timeout", result.Err)
	}
	if calls != 4 {
		t.Errorf("check called %d times, want 4", calls)
	}
	if result.Attempts != 4 {
		t.Errorf("Attempts = %d, want 4", result.Attempts)
	}
}

func TestPoll_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Poll(ctx, time.Minute, 5, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	if result.Outcome != PollFailed {
		t.Errorf("Outcome = %s, want %s", result.Outcome, PollFailed)
	}
	if !errors.Is(result.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", result.Err)
	}
}

func TestPoll_NoSleepAfterFinalAttempt(t *testing.T) {
	start := time.Now()
	Poll(context.Background(), 50*time.Millisecond, 2, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	elapsed := time.Since(start)

	// Two attempts need exactly one interval between them
	if elapsed > 150*time.Millisecond {
		t.Errorf("poll of 2 attempts took %v, expected roughly one interval", elapsed)
	}
}
