// Package catalog holds the immutable word lists that drive name
// normalization: exclusions protect literals from being stripped or split,
// noise literals are removed unconditionally.
package catalog

import "strings"

// normalizeEntries lowercases and trims entries, dropping blanks and
// duplicates while keeping first-seen order.
func normalizeEntries(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		n := strings.ToLower(strings.TrimSpace(e))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
