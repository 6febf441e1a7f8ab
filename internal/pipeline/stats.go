package pipeline

import "time"

// Stats summarizes a batch of processing results.
type Stats struct {
	Total          int           `json:"total"`
	Succeeded      int           `json:"succeeded"`
	Failed         int           `json:"failed"`
	Skipped        int           `json:"skipped"`
	SuccessRate    float64       `json:"success_rate"`
	AverageElapsed time.Duration `json:"average_elapsed"`
}

// Summarize reduces a result slice into aggregate statistics. A pure
// function over the results: no shared counters are involved, so it composes
// with concurrent batch processing.
func Summarize(results []*ProcessingResult) Stats {
	stats := Stats{Total: len(results)}
	if stats.Total == 0 {
		return stats
	}

	var total time.Duration
	for _, r := range results {
		switch {
		case r == nil:
			stats.Failed++
			continue
		case r.Success:
			stats.Succeeded++
		case r.Skipped:
			stats.Skipped++
		default:
			stats.Failed++
		}
		total += r.Elapsed
	}

	stats.SuccessRate = float64(stats.Succeeded) / float64(stats.Total)
	stats.AverageElapsed = total / time.Duration(stats.Total)
	return stats
}
