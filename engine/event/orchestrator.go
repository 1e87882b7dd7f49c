package event

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aeroqec/qecsched/engine/core"
	"github.com/aeroqec/qecsched/engine/domain"
	"github.com/sethvargo/go-retry"
)

// OrchestrationError names the index of the event whose processor failed.
// ApplyEvents returns it alongside the diff accumulated from every event
// before that index, so events 0..k-1 stay applied.
type OrchestrationError struct {
	FailedIndex int
	Err         error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("event: processing event at index %d: %v", e.FailedIndex, e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }

// ApplyEvents decodes and processes events in order, merging each one's
// scope and delay into an accumulating Diff. Every listed event is
// processed, duplicates included. A failure at index k returns the diff
// built from indices [0, k): a processor failure alongside an
// *OrchestrationError, an event that fails validation alongside a
// core.Error with CodeValidation.
func ApplyEvents(ctx context.Context, events []*domain.Event, st State, now time.Time) (Diff, error) {
	diff := Diff{}
	scope := domain.NewScope()

	for i, ev := range events {
		if err := ev.Validate(now); err != nil {
			return diff, core.NewError(fmt.Errorf("event: %w", err), CodeValidation, map[string]any{"event_id": ev.EventID})
		}

		ev.Status = domain.EventProcessing
		result, err := processWithRetry(ctx, ev, st)
		if err != nil {
			ev.Status = domain.EventFailed
			return diff, &OrchestrationError{FailedIndex: i, Err: err}
		}
		ev.Status = domain.EventCompleted

		scope = domain.Merge(scope, result.Scope)
		if result.DelayHours != 0 {
			taskIDs := result.Scope.JobIDSlice()
			sort.Strings(taskIDs)
			for _, id := range taskIDs {
				diff.Delays = append(diff.Delays, DelayEntry{TaskID: id, DelayHours: result.DelayHours, Reason: string(ev.Type)})
			}
		}
		diff.ResourceReallocation = append(diff.ResourceReallocation, result.ResourceUnavailable...)
		diff.AffectedTasks = scope.JobIDSlice()
	}

	diff.AffectedTasks = scope.JobIDSlice()
	return diff, nil
}

// processWithRetry retries a transient processor failure (e.g. a CEL
// evaluation timeout surfacing as context.DeadlineExceeded while ctx itself
// is still live) with bounded exponential backoff before giving up.
func processWithRetry(ctx context.Context, ev *domain.Event, st State) (ProcessResult, error) {
	backoff := retry.NewExponential(50 * time.Millisecond)
	backoff = retry.WithCappedDuration(500*time.Millisecond, backoff)
	backoff = retry.WithMaxRetries(3, backoff)

	var result ProcessResult
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := Dispatch(ctx, ev, st)
		if err != nil {
			if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
				return retry.RetryableError(err)
			}
			return err
		}
		result = r
		return nil
	})
	return result, err
}
