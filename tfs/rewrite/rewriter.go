// Package rewrite implements the token normalization applied to every file
// name before type-specific postprocessing.
package rewrite

import (
	"fmt"
	"strings"
	"unicode"

	internal "github.com/ZanzyTHEbar/tidyfs/tfs"
	"github.com/ZanzyTHEbar/tidyfs/tfs/catalog"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/common"
)

// TokenRewriter folds punctuation, removes noise literals and strips leading
// non-letter noise while leaving catalog-protected prefixes alone.
type TokenRewriter struct {
	exclusions *catalog.ExclusionCatalog
	noise      []string
	maxStrip   int
}

// NewTokenRewriter creates a rewriter. A non-positive maxStrip falls back to
// the default bound.
func NewTokenRewriter(exclusions *catalog.ExclusionCatalog, noise []string, maxStrip int) *TokenRewriter {
	if exclusions == nil {
		exclusions = catalog.NewExclusionCatalog()
	}
	if maxStrip <= 0 {
		maxStrip = internal.DefaultMaxStripIterations
	}
	cleaned := make([]string, 0, len(noise))
	for _, n := range noise {
		if n = strings.ToLower(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	return &TokenRewriter{exclusions: exclusions, noise: cleaned, maxStrip: maxStrip}
}

// Exclusions exposes the catalog the rewriter protects.
func (r *TokenRewriter) Exclusions() *catalog.ExclusionCatalog {
	return r.exclusions
}

// Fold applies the punctuation fold and noise removal. Removing one noise
// entry can expose another ("song_[official_video]" only reveals
// "[official video]" once "_" is gone), so the pass repeats until the name
// is stable. Fold is idempotent.
func (r *TokenRewriter) Fold(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "+", " "))
	// every pass that changes the name removes at least one noise occurrence
	limit := len(name) + 1
	for pass := 0; pass < limit; pass++ {
		next := r.foldNoise(name)
		if next == name {
			break
		}
		name = next
	}
	return name
}

func (r *TokenRewriter) foldNoise(name string) string {
	for _, n := range r.noise {
		if strings.Contains(name, n) {
			name = strings.ReplaceAll(name, n, " ")
		}
		name = strings.TrimSpace(name)
	}
	return name
}

// StripLeading removes leading characters that are neither spaces nor
// lowercase letters, repeating until the name starts with a lowercase letter,
// is empty, or starts with a protected literal. It gives up with
// ErrStripBoundReached after the configured number of passes.
func (r *TokenRewriter) StripLeading(name string) (string, error) {
	name = strings.TrimSpace(name)
	for i := 0; i < r.maxStrip; i++ {
		if name == "" {
			return "", nil
		}
		if _, ok := r.exclusions.HasPrefix(name); ok {
			return name, nil
		}
		first := []rune(name)[0]
		if unicode.IsLower(first) {
			return name, nil
		}
		name = strings.TrimSpace(strings.TrimLeftFunc(name, func(c rune) bool {
			return c != ' ' && !unicode.IsLower(c)
		}))
	}
	return name, fmt.Errorf("%w after %d passes: %q", common.ErrStripBoundReached, r.maxStrip, name)
}

// Rewrite runs the full normalization on a lowercased base name.
func (r *TokenRewriter) Rewrite(name string) (string, error) {
	folded := r.Fold(strings.ToLower(name))
	return r.StripLeading(folded)
}

// WithMaxStrip returns a copy of r with a different strip bound.
func (r *TokenRewriter) WithMaxStrip(n int) *TokenRewriter {
	cp := *r
	if n > 0 {
		cp.maxStrip = n
	}
	return &cp
}
