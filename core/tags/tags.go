package tags

import (
	"regexp"
	"strings"
)

var invalidTagChars = regexp.MustCompile(`[^a-z0-9-_]`)

// NormalizeOne lowercases and trims a raw tag and replaces every character
// outside [a-z0-9-_] with a hyphen. Returns "" when nothing survives.
func NormalizeOne(raw string) string {
	return invalidTagChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "-")
}

// Normalize applies NormalizeOne to every input, dropping empties and
// duplicates while preserving first-seen order. The same rules run at tag
// creation and at search time, so a tag filter matches regardless of how
// the caller spelled it.
func Normalize(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, raw := range input {
		normalized := NormalizeOne(raw)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result
}
