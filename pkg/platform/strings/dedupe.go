// Package strings normalizes the caller-supplied string lists that flow in
// as JSON arrays: purpose tags, rule vocabularies, legal references.
package strings

import (
	"strings"
)

func normalize(values []string, transform func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		n := transform(strings.TrimSpace(v))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			result = append(result, n)
		}
	}

	return result
}

// DedupeAndTrim removes duplicates and empty strings from a slice, trimming
// whitespace from each element. Order is preserved.
//
//	DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "})
//	// Returns: []string{"foo", "bar"}
func DedupeAndTrim(values []string) []string {
	return normalize(values, func(s string) string { return s })
}

// DedupeAndTrimLower is like DedupeAndTrim but also lowercases each element,
// for vocabularies matched case-insensitively.
//
//	DedupeAndTrimLower([]string{"  FOO ", "bar", "Foo"})
//	// Returns: []string{"foo", "bar"}
func DedupeAndTrimLower(values []string) []string {
	return normalize(values, strings.ToLower)
}
