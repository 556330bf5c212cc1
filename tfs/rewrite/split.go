package rewrite

import (
	"strings"

	"github.com/ZanzyTHEbar/tidyfs/tfs/catalog"
)

// Separator joins the artist and title halves of a name.
const Separator = " - "

// WordAround returns the maximal space-delimited substring of text that
// contains byte index idx. A space at idx yields "".
func WordAround(text string, idx int) string {
	if idx < 0 || idx >= len(text) || text[idx] == ' ' {
		return ""
	}
	start := strings.LastIndexByte(text[:idx], ' ') + 1
	end := strings.IndexByte(text[idx:], ' ')
	if end < 0 {
		return text[start:]
	}
	return text[start : idx+end]
}

// SplitOnDash finds the first dash that may separate artist from title and
// returns the text on either side of it. A dash is rejected when a protected
// literal spans it or when the word around it contains one; otherwise a lone
// "-" word is always a separator. ok is false when no dash qualifies.
func SplitOnDash(name string, exclusions *catalog.ExclusionCatalog) (left, right string, ok bool) {
	for i := 0; i < len(name); i++ {
		if name[i] != '-' {
			continue
		}
		// A protected literal is never cut, even where the dash inside it
		// stands alone as in "simon - garfunkel". Only a lone "-" outside
		// every literal is an unconditional separator.
		if exclusions.Covers(name, i) {
			continue
		}
		word := WordAround(name, i)
		if word == "-" || !exclusions.HasExclusion(word, true) {
			return name[:i], name[i+1:], true
		}
	}
	return name, "", false
}

// StripDashes removes dash characters from text, leaving any word that
// contains a protected literal untouched, and collapses runs of spaces.
func StripDashes(text string, exclusions *catalog.ExclusionCatalog) string {
	words := strings.Fields(text)
	out := words[:0]
	for _, w := range words {
		if strings.Contains(w, "-") && !exclusions.HasExclusion(w, true) {
			w = strings.ReplaceAll(w, "-", "")
		}
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

// JoinHalves strips each half and rejoins them with Separator. An empty half
// is dropped together with the separator.
func JoinHalves(left, right string, exclusions *catalog.ExclusionCatalog) string {
	l := StripDashes(left, exclusions)
	r := StripDashes(right, exclusions)
	switch {
	case l == "":
		return r
	case r == "":
		return l
	}
	return l + Separator + r
}
