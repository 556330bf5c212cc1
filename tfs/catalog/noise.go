package catalog

import (
	"sort"
	"strings"
)

// NoiseCatalog holds literals removed from every name, keyed by locale. The
// base set applies to every locale.
type NoiseCatalog struct {
	base     []string
	byLocale map[string][]string
}

// NewNoiseCatalog builds a catalog from a base set and per-locale additions.
func NewNoiseCatalog(base []string, byLocale map[string][]string) *NoiseCatalog {
	n := &NoiseCatalog{
		base:     normalizeEntries(base),
		byLocale: make(map[string][]string, len(byLocale)),
	}
	for locale, entries := range byLocale {
		key := normalizeLocale(locale)
		n.byLocale[key] = normalizeEntries(append(n.byLocale[key], entries...))
	}
	return n
}

// For returns the literals that apply to locale: the base set, then the
// language set ("pt"), then the full locale ("pt_BR"). Longer literals come
// first so that "(official video)" is removed before a bare "video" could
// break it apart.
func (n *NoiseCatalog) For(locale string) []string {
	merged := append([]string(nil), n.base...)
	for _, key := range localeChain(locale) {
		merged = append(merged, n.byLocale[key]...)
	}
	merged = normalizeEntries(merged)
	sort.SliceStable(merged, func(i, j int) bool {
		if len(merged[i]) != len(merged[j]) {
			return len(merged[i]) > len(merged[j])
		}
		return merged[i] < merged[j]
	})
	return merged
}

// Locales returns the locales that carry additions, sorted.
func (n *NoiseCatalog) Locales() []string {
	out := make([]string, 0, len(n.byLocale))
	for l := range n.byLocale {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Entries returns the base literals.
func (n *NoiseCatalog) Entries() []string {
	return append([]string(nil), n.base...)
}

// LocaleEntries returns the additions registered for exactly locale.
func (n *NoiseCatalog) LocaleEntries(locale string) []string {
	return append([]string(nil), n.byLocale[normalizeLocale(locale)]...)
}

// normalizeLocale maps "pt-br", "PT_br" and friends to "pt_BR".
func normalizeLocale(locale string) string {
	l := strings.ReplaceAll(strings.TrimSpace(locale), "-", "_")
	lang, region, found := strings.Cut(l, "_")
	if !found {
		return strings.ToLower(lang)
	}
	return strings.ToLower(lang) + "_" + strings.ToUpper(region)
}

// localeChain lists the lookup keys for locale from least to most specific.
func localeChain(locale string) []string {
	l := normalizeLocale(locale)
	if l == "" {
		return nil
	}
	lang, _, found := strings.Cut(l, "_")
	if !found {
		return []string{lang}
	}
	return []string{lang, l}
}
