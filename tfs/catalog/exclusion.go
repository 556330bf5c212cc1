package catalog

import (
	"sort"
	"strings"

	"github.com/armon/go-radix"
)

// ExclusionCatalog is a read-only set of protected literals. It is safe for
// concurrent use once constructed.
type ExclusionCatalog struct {
	entries  []string
	set      map[string]struct{}
	prefixes *radix.Tree
}

// NewExclusionCatalog builds a catalog from raw entries. Matching is
// case-insensitive; blank entries are ignored.
func NewExclusionCatalog(entries ...string) *ExclusionCatalog {
	normalized := normalizeEntries(entries)
	sort.Strings(normalized)

	c := &ExclusionCatalog{
		entries:  normalized,
		set:      make(map[string]struct{}, len(normalized)),
		prefixes: radix.New(),
	}
	for _, e := range normalized {
		c.set[e] = struct{}{}
		c.prefixes.Insert(e, struct{}{})
	}
	return c
}

// HasExclusion reports whether token equals a catalog entry. In substring
// mode it also matches when an entry occurs anywhere inside token.
func (c *ExclusionCatalog) HasExclusion(token string, substringMode bool) bool {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return false
	}
	if _, ok := c.set[t]; ok {
		return true
	}
	if !substringMode {
		return false
	}
	for _, e := range c.entries {
		if strings.Contains(t, e) {
			return true
		}
	}
	return false
}

// HasPrefix returns the longest catalog entry that text starts with.
func (c *ExclusionCatalog) HasPrefix(text string) (string, bool) {
	if c.prefixes.Len() == 0 {
		return "", false
	}
	prefix, _, ok := c.prefixes.LongestPrefix(strings.ToLower(text))
	if !ok || prefix == "" {
		return "", false
	}
	return prefix, true
}

// Covers reports whether a case-insensitive occurrence of some entry spans
// byte index idx of text.
func (c *ExclusionCatalog) Covers(text string, idx int) bool {
	if idx < 0 || idx >= len(text) {
		return false
	}
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		// Case mapping changed byte widths; indices would not line up
		lower = text
	}
	for _, e := range c.entries {
		from := 0
		for {
			at := strings.Index(lower[from:], e)
			if at < 0 {
				break
			}
			start := from + at
			if start > idx {
				break
			}
			if idx < start+len(e) {
				return true
			}
			from = start + 1
		}
	}
	return false
}

// Entries returns the normalized entries in lexical order.
func (c *ExclusionCatalog) Entries() []string {
	return append([]string(nil), c.entries...)
}

// Len returns the number of entries.
func (c *ExclusionCatalog) Len() int {
	return len(c.entries)
}
