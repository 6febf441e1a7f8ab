package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/dkoenawan/paraflow/internal/categorize"
	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/db"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
	"github.com/dkoenawan/paraflow/internal/pipeline"
)

// ProcessInput contains parameters for the Process operation.
type ProcessInput struct {
	ThoughtID string // required
}

// ProcessOutput contains the result of processing one thought.
type ProcessOutput struct {
	Success   bool             `json:"success"`
	Skipped   bool             `json:"skipped,omitempty"`
	ErrorKind errors.ErrorCode `json:"error_kind,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Thought   *para.Thought    `json:"thought"`
	Resource  *para.Resource   `json:"resource,omitempty"`
}

// Process runs one captured thought through the categorization pipeline and
// persists the outcome: the thought's final lifecycle state, and the created
// resource on success.
func Process(ctx context.Context, database *sql.DB, cfg *config.Config, input ProcessInput) (*ProcessOutput, error) {
	if input.ThoughtID == "" {
		return nil, errors.NewInvalidRequest("thought_id is required")
	}

	t, err := db.GetThought(database, input.ThoughtID)
	if err != nil {
		return nil, err
	}

	result, err := processorFor(database, cfg).Process(ctx, t)
	if err != nil {
		return nil, err
	}

	if err := persistResult(database, result); err != nil {
		return nil, err
	}

	return toProcessOutput(result), nil
}

// RetryInput contains parameters for the Retry operation.
type RetryInput struct {
	ThoughtID string // required
}

// Retry re-runs processing for a thought that previously FAILED.
func Retry(ctx context.Context, database *sql.DB, cfg *config.Config, input RetryInput) (*ProcessOutput, error) {
	if input.ThoughtID == "" {
		return nil, errors.NewInvalidRequest("thought_id is required")
	}

	t, err := db.GetThought(database, input.ThoughtID)
	if err != nil {
		return nil, err
	}

	result, err := processorFor(database, cfg).Retry(ctx, t)
	if err != nil {
		return nil, err
	}

	if err := persistResult(database, result); err != nil {
		return nil, err
	}

	return toProcessOutput(result), nil
}

// ProcessBatchInput contains parameters for the ProcessBatch operation.
type ProcessBatchInput struct {
	ThoughtIDs  []string // required, at most MaxBatchItems
	Concurrency int      // 0 means use configured/default concurrency
}

// ProcessBatchOutput contains per-item results plus aggregate statistics.
// Results are index-aligned with the input IDs.
type ProcessBatchOutput struct {
	Results []*ProcessOutput `json:"results"`
	Stats   pipeline.Stats   `json:"stats"`
}

// ProcessBatch processes several thoughts with bounded concurrency. One
// item's failure never aborts the batch: unknown IDs and pipeline failures
// become per-item failure entries.
func ProcessBatch(ctx context.Context, database *sql.DB, cfg *config.Config, input ProcessBatchInput) (*ProcessBatchOutput, error) {
	if len(input.ThoughtIDs) == 0 {
		return nil, errors.NewInvalidRequest("thought_ids is required")
	}
	if len(input.ThoughtIDs) > MaxBatchItems {
		return nil, errors.NewInvalidRequest("too many items in one batch")
	}

	concurrency := input.Concurrency
	if concurrency <= 0 {
		concurrency = cfg.MaxBatchConcurrency
	}

	// Load phase: unknown IDs turn into failure results up front, loaded
	// thoughts keep their input position for the pipeline.
	thoughts := make([]*para.Thought, 0, len(input.ThoughtIDs))
	positions := make([]int, 0, len(input.ThoughtIDs))
	results := make([]*pipeline.ProcessingResult, len(input.ThoughtIDs))
	for i, id := range input.ThoughtIDs {
		t, err := db.GetThought(database, id)
		if err != nil {
			results[i] = &pipeline.ProcessingResult{
				ErrorKind: errors.ErrNotFound,
				Reason:    err.Error(),
			}
			continue
		}
		thoughts = append(thoughts, t)
		positions = append(positions, i)
	}

	for j, r := range processorFor(database, cfg).ProcessBatch(ctx, thoughts, concurrency) {
		results[positions[j]] = r
	}

	out := &ProcessBatchOutput{
		Results: make([]*ProcessOutput, len(results)),
		Stats:   pipeline.Summarize(results),
	}
	for i, r := range results {
		if r.Thought != nil {
			if err := persistResult(database, r); err != nil {
				return nil, err
			}
		}
		out.Results[i] = toProcessOutput(r)
	}

	return out, nil
}

// processorFor builds a pipeline processor wired to the configured
// categorizer confidences, timeout, and store-backed duplicate detection.
func processorFor(database *sql.DB, cfg *config.Config) *pipeline.Processor {
	categorizer := categorize.NewKeywordCategorizer(
		categorize.WithConfidences(cfg.HintConfidence, cfg.KeywordConfidence, cfg.FallbackConfidence),
	)

	checker := pipeline.DuplicateCheckerFunc(func(_ context.Context, t *para.Thought) (bool, error) {
		return db.CompletedContentExists(database, t.Content, cfg.DuplicateDetection != "exact")
	})

	opts := []pipeline.ProcessorOption{pipeline.WithDuplicateChecker(checker)}
	if cfg.ProcessTimeoutMs > 0 {
		opts = append(opts, pipeline.WithTimeout(time.Duration(cfg.ProcessTimeoutMs)*time.Millisecond))
	}

	return pipeline.NewProcessor(categorizer, opts...)
}

// persistResult writes the thought's final state and, on success, the
// created resource.
func persistResult(database *sql.DB, r *pipeline.ProcessingResult) error {
	if err := db.UpdateThoughtStatus(database, r.Thought); err != nil {
		return err
	}
	if r.Resource != nil {
		if err := db.InsertResource(database, r.Resource); err != nil {
			return err
		}
	}
	return nil
}

func toProcessOutput(r *pipeline.ProcessingResult) *ProcessOutput {
	return &ProcessOutput{
		Success:   r.Success,
		Skipped:   r.Skipped,
		ErrorKind: r.ErrorKind,
		Reason:    r.Reason,
		Thought:   r.Thought,
		Resource:  r.Resource,
	}
}
