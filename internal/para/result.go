package para

// CategorizationResult carries the outcome of a single categorization call:
// the assigned category, a confidence score in [0, 1], a human-readable
// rationale, suggested tags, and whether the assignment needs user review.
// Produced once per call and consumed immediately to build a resource.
type CategorizationResult struct {
	Category       Category `json:"category"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	SuggestedTags  []string `json:"suggested_tags,omitempty"`
	RequiresReview bool     `json:"requires_review"`
}

// IsConfident reports whether the confidence meets the given threshold.
func (r CategorizationResult) IsConfident(threshold float64) bool {
	return r.Confidence >= threshold
}

// ConfidenceLevel returns a human-readable confidence band.
func (r CategorizationResult) ConfidenceLevel() string {
	switch {
	case r.Confidence >= 0.9:
		return "Very High"
	case r.Confidence >= 0.7:
		return "High"
	case r.Confidence >= 0.5:
		return "Medium"
	case r.Confidence >= 0.3:
		return "Low"
	default:
		return "Very Low"
	}
}
