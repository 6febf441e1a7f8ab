package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
)

// DefaultBatchConcurrency bounds batch workers when the caller passes 0.
const DefaultBatchConcurrency = 4

// ProcessBatch processes each thought independently on up to concurrency
// workers. The result slice is index-aligned with the input: results[i]
// always describes thoughts[i], regardless of completion order.
//
// One item's failure, lifecycle violation, or panic never aborts the batch;
// such items yield per-item failure results. Cancelling ctx stops scheduling
// further items — already-dispatched items run to completion and their
// results are still collected, while unscheduled items report cancellation.
func (p *Processor) ProcessBatch(ctx context.Context, thoughts []*para.Thought, concurrency int) []*ProcessingResult {
	if len(thoughts) == 0 {
		return nil
	}
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]*ProcessingResult, len(thoughts))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, t := range thoughts {
		// Stop scheduling once the batch is cancelled.
		if ctx.Err() != nil {
			results[i] = &ProcessingResult{
				Thought:   t,
				ErrorKind: errors.ErrTimeout,
				Reason:    "batch cancelled before item was scheduled",
			}
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, t *para.Thought) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = p.processIsolated(ctx, t)
		}(i, t)
	}

	wg.Wait()
	return results
}

// processIsolated wraps Process so errors and panics become per-item failure
// results instead of crossing the batch boundary.
func (p *Processor) processIsolated(ctx context.Context, t *para.Thought) (result *ProcessingResult) {
	defer func() {
		if r := recover(); r != nil {
			result = &ProcessingResult{
				Thought:   t,
				ErrorKind: errors.ErrInternal,
				Reason:    fmt.Sprintf("panic during processing: %v", r),
			}
		}
	}()

	result, err := p.Process(ctx, t)
	if err != nil {
		return &ProcessingResult{
			Thought:   t,
			ErrorKind: kindOf(err),
			Reason:    err.Error(),
		}
	}
	return result
}
