// Package ops implements the application operations shared by the CLI, MCP,
// and web surfaces. Each operation takes a context, database handle, config,
// and a typed input, and returns a typed output.
package ops

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	MaxBatchItems    = 50
)

// clampLimit applies the default and maximum list limits.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// cleanOptionalString treats empty strings as absent.
func cleanOptionalString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
