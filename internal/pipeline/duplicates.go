package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkoenawan/paraflow/internal/para"
)

// DetectionPolicy selects how duplicate detection compares content.
type DetectionPolicy string

const (
	// DetectExact compares raw content byte-for-byte.
	DetectExact DetectionPolicy = "exact"

	// DetectNormalized compares trimmed, lowercased, whitespace-collapsed
	// content, so cosmetic edits still count as duplicates.
	DetectNormalized DetectionPolicy = "normalized"
)

// ParseDetectionPolicy validates a policy string.
func ParseDetectionPolicy(s string) (DetectionPolicy, error) {
	switch DetectionPolicy(s) {
	case DetectExact, DetectNormalized:
		return DetectionPolicy(s), nil
	case "":
		return DetectNormalized, nil
	}
	return "", fmt.Errorf("invalid duplicate detection policy: %q (valid: exact, normalized)", s)
}

// ContentIndex is an in-memory duplicate index over already-processed
// content, keyed per the configured policy. Safe for concurrent use by batch
// workers.
type ContentIndex struct {
	policy DetectionPolicy

	mu   sync.RWMutex
	seen map[string]bool
}

// NewContentIndex creates an empty index under the given policy.
func NewContentIndex(policy DetectionPolicy) *ContentIndex {
	if policy == "" {
		policy = DetectNormalized
	}
	return &ContentIndex{policy: policy, seen: make(map[string]bool)}
}

// IsDuplicate implements DuplicateChecker against the recorded content.
func (idx *ContentIndex) IsDuplicate(_ context.Context, t *para.Thought) (bool, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.seen[idx.key(t.Content)], nil
}

// Record marks content as processed so later equivalents are duplicates.
func (idx *ContentIndex) Record(content string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.seen[idx.key(content)] = true
}

func (idx *ContentIndex) key(content string) string {
	if idx.policy == DetectExact {
		return content
	}
	return para.Normalize(content)
}
