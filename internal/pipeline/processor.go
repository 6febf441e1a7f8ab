// Package pipeline drives captured thoughts through validation, duplicate
// detection, categorization, and resource creation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dkoenawan/paraflow/internal/categorize"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
)

// DuplicateChecker reports whether equivalent content has already been
// processed. Supplied by the caller; the pipeline only consults it.
type DuplicateChecker interface {
	IsDuplicate(ctx context.Context, t *para.Thought) (bool, error)
}

// DuplicateCheckerFunc adapts a function to the DuplicateChecker interface.
type DuplicateCheckerFunc func(ctx context.Context, t *para.Thought) (bool, error)

// IsDuplicate implements DuplicateChecker.
func (f DuplicateCheckerFunc) IsDuplicate(ctx context.Context, t *para.Thought) (bool, error) {
	return f(ctx, t)
}

// ProcessingResult carries the outcome of processing one thought.
type ProcessingResult struct {
	// Success is true only when a resource was created
	Success bool `json:"success"`

	// Skipped is true for duplicate content; distinct from failure
	Skipped bool `json:"skipped,omitempty"`

	// Thought is the thought in its final lifecycle state
	Thought *para.Thought `json:"-"`

	// Resource is the created resource on success
	Resource *para.Resource `json:"-"`

	// ErrorKind is the stable error code for failed results
	ErrorKind errors.ErrorCode `json:"error_kind,omitempty"`

	// Reason is the human-readable explanation for failed/skipped results
	Reason string `json:"reason,omitempty"`

	// Elapsed is how long processing took
	Elapsed time.Duration `json:"elapsed"`
}

// Processor orchestrates the thought-to-resource workflow. It holds no
// mutable state of its own: all lifecycle state lives on the thought values,
// so a single Processor is safe for concurrent use.
type Processor struct {
	categorizer categorize.Categorizer
	duplicates  DuplicateChecker
	timeout     time.Duration
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithDuplicateChecker installs a caller-supplied duplicate predicate.
// Without one, no content is ever considered duplicate.
func WithDuplicateChecker(d DuplicateChecker) ProcessorOption {
	return func(p *Processor) { p.duplicates = d }
}

// WithTimeout bounds each collaborator call (duplicate check, categorizer).
// On timeout the item is marked FAILED, never left PROCESSING.
func WithTimeout(d time.Duration) ProcessorOption {
	return func(p *Processor) { p.timeout = d }
}

// NewProcessor creates a Processor around the given categorizer.
func NewProcessor(c categorize.Categorizer, opts ...ProcessorOption) *Processor {
	p := &Processor{categorizer: c}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs a single thought through the full workflow:
// validate, duplicate-check, transition to PROCESSING, categorize,
// materialize a resource, transition to COMPLETED.
//
// Lifecycle violations (processing a completed/skipped thought) are returned
// as errors; every other failure becomes a failure result carrying the
// thought in its final state. A duplicate yields a non-error skipped result.
func (p *Processor) Process(ctx context.Context, t *para.Thought) (*ProcessingResult, error) {
	start := time.Now()

	if t == nil {
		return nil, errors.NewInvalidRequest("thought must not be nil")
	}

	// Fail fast on lifecycle violations before doing any work. A terminal
	// thought is never reprocessed: no categorization re-run, no mutation.
	if t.Status.IsTerminal() {
		return nil, errors.NewInvalidStateTransition(t.Status.String(), para.StatusProcessing.String())
	}

	// Step 1: validate.
	if reason := validateThought(t); reason != "" {
		return p.failure(markFailed(t), errors.ErrValidationFailed, reason, start), nil
	}

	// Step 2: duplicate check, while SKIPPED is still reachable. The checker
	// is a collaborator call and honors the configured timeout.
	if p.duplicates != nil {
		callCtx, cancel := p.callContext(ctx)
		dup, err := p.duplicates.IsDuplicate(callCtx, t)
		cancel()
		if err != nil {
			return p.failure(markFailed(t), kindOf(err), fmt.Sprintf("duplicate check failed: %v", err), start), nil
		}
		if dup {
			return p.skip(t, start), nil
		}
	}

	// Step 3: transition into PROCESSING (NEW or FAILED-retry both legal).
	processing, err := t.WithStatus(para.StatusProcessing)
	if err != nil {
		return nil, err
	}

	// Step 4: categorize. Errors are reported, never retried automatically.
	callCtx, cancel := p.callContext(ctx)
	result, err := p.categorizer.Categorize(callCtx, categorize.Input{
		Title:   processing.Title,
		Content: processing.Content,
		Hints:   categorize.HintsFromTags(processing.ProjectTag, processing.AreaTag),
	})
	cancel()
	if err != nil {
		return p.failure(markFailed(processing), kindOf(err), fmt.Sprintf("categorization failed: %v", err), start), nil
	}

	// Step 5: materialize the resource.
	resource, err := buildResource(processing, result)
	if err != nil {
		return p.failure(markFailed(processing), kindOf(err), fmt.Sprintf("resource creation failed: %v", err), start), nil
	}

	// Step 6: complete.
	completed, err := processing.WithStatus(para.StatusCompleted)
	if err != nil {
		return nil, err
	}

	return &ProcessingResult{
		Success:  true,
		Thought:  completed,
		Resource: resource,
		Elapsed:  time.Since(start),
	}, nil
}

// Retry re-runs processing for a FAILED thought. Any other status is an
// INVALID_STATE_TRANSITION error.
func (p *Processor) Retry(ctx context.Context, t *para.Thought) (*ProcessingResult, error) {
	if t == nil {
		return nil, errors.NewInvalidRequest("thought must not be nil")
	}
	if t.Status != para.StatusFailed {
		return nil, errors.NewInvalidStateTransition(t.Status.String(), para.StatusProcessing.String())
	}
	return p.Process(ctx, t)
}

// CanProcess reports whether the thought would pass validation and the
// lifecycle gate.
func (p *Processor) CanProcess(t *para.Thought) bool {
	if t == nil || t.Status.IsTerminal() || t.Status == para.StatusProcessing {
		return false
	}
	return validateThought(t) == ""
}

// callContext applies the per-call timeout when one is configured.
func (p *Processor) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout > 0 {
		return context.WithTimeout(ctx, p.timeout)
	}
	return ctx, func() {}
}

func (p *Processor) failure(t *para.Thought, kind errors.ErrorCode, reason string, start time.Time) *ProcessingResult {
	return &ProcessingResult{
		Thought:   t,
		ErrorKind: kind,
		Reason:    reason,
		Elapsed:   time.Since(start),
	}
}

// skip produces the non-error skipped result for duplicate content. When the
// thought can still legally reach SKIPPED it is moved there; a FAILED thought
// being retried cannot, so it keeps its status and only the result records
// the duplicate.
func (p *Processor) skip(t *para.Thought, start time.Time) *ProcessingResult {
	final := t
	if t.Status.CanTransitionTo(para.StatusSkipped) {
		if skipped, err := t.WithStatus(para.StatusSkipped); err == nil {
			final = skipped
		}
	}
	return &ProcessingResult{
		Skipped: true,
		Thought: final,
		Reason:  "duplicate content",
		Elapsed: time.Since(start),
	}
}

// validateThought checks the intake invariants. Returns "" when valid.
func validateThought(t *para.Thought) string {
	if para.Normalize(t.Title) == "" {
		return "thought title cannot be empty"
	}
	if para.Normalize(t.Content) == "" {
		return "thought content cannot be empty"
	}
	return ""
}

// markFailed moves the thought to FAILED where the transition table allows
// it; otherwise the thought is returned unchanged (a NEW thought that fails
// validation stays NEW).
func markFailed(t *para.Thought) *para.Thought {
	if failed, err := t.WithStatus(para.StatusFailed); err == nil {
		return failed
	}
	return t
}

// kindOf extracts the stable error code, defaulting to INTERNAL, with
// context deadline errors mapped to TIMEOUT.
func kindOf(err error) errors.ErrorCode {
	if pErr, ok := err.(*errors.ParaError); ok {
		return pErr.Code
	}
	if err == context.DeadlineExceeded || err == context.Canceled {
		return errors.ErrTimeout
	}
	return errors.ErrInternal
}

// buildResource materializes a resource from a processed thought and its
// categorization. Suggested tags are merged with prefixed user tags, a
// review marker, and a confidence tag for later filtering.
func buildResource(t *para.Thought, result para.CategorizationResult) (*para.Resource, error) {
	tags := append([]string{}, result.SuggestedTags...)
	if t.ProjectTag != nil && *t.ProjectTag != "" {
		tags = append(tags, "project-"+para.NormalizeTag(*t.ProjectTag))
	}
	if t.AreaTag != nil && *t.AreaTag != "" {
		tags = append(tags, "area-"+para.NormalizeTag(*t.AreaTag))
	}
	if result.RequiresReview {
		tags = append(tags, "requires-review")
	}
	tags = append(tags, fmt.Sprintf("confidence-%02d", int(result.Confidence*100)))

	source := t.ID
	return para.NewResource(t.Title, t.Content, result.Category, tags, &source, nil)
}
