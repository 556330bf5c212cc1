package directory

import (
	"errors"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/interfaces"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem/types"
)

// ErrEmptyFilter is returned for a filter that could never accept anything.
var ErrEmptyFilter = errors.New("extension filter needs at least one extension unless it accepts directories")

// ExtensionFilter accepts files by extension, case-insensitively, and
// optionally directories.
type ExtensionFilter struct {
	extensions        map[string]struct{}
	acceptDirectories bool
	description       string
}

// NewExtensionFilter builds a filter over exts. Extensions may carry a leading dot.
func NewExtensionFilter(description string, acceptDirectories bool, exts ...string) (*ExtensionFilter, error) {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		if n := normalizeExtension(ext); n != "" {
			set[n] = struct{}{}
		}
	}
	if len(set) == 0 && !acceptDirectories {
		return nil, ErrEmptyFilter
	}
	return &ExtensionFilter{extensions: set, acceptDirectories: acceptDirectories, description: description}, nil
}

// AllAcceptedFilter accepts every known extension.
func AllAcceptedFilter(acceptDirectories bool) *ExtensionFilter {
	f, _ := NewExtensionFilter("All known files", acceptDirectories, KnownExtensions()...)
	return f
}

// FilterForClassification accepts the extensions of one classification group.
func FilterForClassification(c types.Classification, acceptDirectories bool) (*ExtensionFilter, error) {
	return NewExtensionFilter(GroupDescription(c), acceptDirectories, ExtensionsFor(c)...)
}

// Accepts reports whether an entry passes the filter.
func (f *ExtensionFilter) Accepts(name string, isDir bool) bool {
	if isDir {
		return f.acceptDirectories
	}
	lower := strings.ToLower(name)
	idx := strings.LastIndex(lower, ".")
	if idx < 0 {
		return false
	}
	_, ok := f.extensions[lower[idx+1:]]
	return ok
}

// AcceptsDirectories reports whether directories are part of listings.
func (f *ExtensionFilter) AcceptsDirectories() bool {
	return f.acceptDirectories
}

// WithDirectories returns a copy of f with directory acceptance set.
func (f *ExtensionFilter) WithDirectories(accept bool) *ExtensionFilter {
	cp := &ExtensionFilter{
		extensions:        make(map[string]struct{}, len(f.extensions)),
		acceptDirectories: accept,
		description:       f.description,
	}
	for ext := range f.extensions {
		cp.extensions[ext] = struct{}{}
	}
	return cp
}

// Extensions returns the accepted extensions, sorted.
func (f *ExtensionFilter) Extensions() []string {
	out := make([]string, 0, len(f.extensions))
	for ext := range f.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Description returns the human-readable filter description.
func (f *ExtensionFilter) Description() string {
	return f.description
}

var _ interfaces.Filter = (*ExtensionFilter)(nil)

// WithDirectories returns a filter that behaves like f for files and accepts
// directories exactly when accept is true.
func WithDirectories(f interfaces.Filter, accept bool) interfaces.Filter {
	if ef, ok := f.(*ExtensionFilter); ok {
		return ef.WithDirectories(accept)
	}
	return dirOverride{Filter: f, accept: accept}
}

type dirOverride struct {
	interfaces.Filter
	accept bool
}

func (d dirOverride) Accepts(name string, isDir bool) bool {
	if isDir {
		return d.accept
	}
	return d.Filter.Accepts(name, false)
}

func (d dirOverride) AcceptsDirectories() bool { return d.accept }
