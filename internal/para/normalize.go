package para

import (
	"crypto/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// tagCharRegex matches characters not allowed in a normalized tag.
var tagCharRegex = regexp.MustCompile(`[^a-z0-9_-]+`)

// Normalize normalizes free text for comparison:
// 1. Trim leading/trailing whitespace
// 2. Lowercase
// 3. Collapse internal whitespace to single spaces
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// NormalizeTag normalizes a single tag: lowercased, with any run of
// characters outside [a-z0-9_-] collapsed to a single hyphen.
// Returns "" for tags that normalize to nothing.
func NormalizeTag(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = tagCharRegex.ReplaceAllString(t, "-")
	t = strings.Trim(t, "-")
	return t
}

// NormalizeTags normalizes a list of tags, dropping empties and duplicates.
// The result is sorted so equal tag sets compare equal.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := NormalizeTag(tag)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	if len(result) == 0 {
		return nil
	}
	sort.Strings(result)
	return result
}

// NewID generates a new ULID for thoughts, resources, databases, and records.
func NewID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
