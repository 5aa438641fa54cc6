// Package strings provides string slice helpers shared by config parsing and
// option projection.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order of first appearance is kept.
//
// Example:
//
//	DedupeAndTrim([]string{"  Ohio ", "Texas", "Ohio", "", "  "})
//	// Returns: []string{"Ohio", "Texas"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimLower is like DedupeAndTrim but also lowercases each element.
// Hostnames in the image allowlist go through this.
func DedupeAndTrimLower(values []string) []string {
	return dedupe(values, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}

// DedupeNonEmpty drops empty strings and repeats without altering values.
// Filter options must stay byte-equal to record values, so no trimming here.
func DedupeNonEmpty(values []string) []string {
	return dedupe(values, func(v string) string { return v })
}

// SplitList splits a comma separated list and cleans it with DedupeAndTrim.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(s, ","))
}

func dedupe(values []string, normalize func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		n := normalize(v)
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
