package common

import (
	"path/filepath"
	"strings"
)

// PathUtils provides path manipulation utilities used across filesystem packages
type PathUtils struct{}

// NewPathUtils creates a new PathUtils instance
func NewPathUtils() *PathUtils {
	return &PathUtils{}
}

// NormalizePath normalizes a file path for cross-platform compatibility
func (pu *PathUtils) NormalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}

// SplitExtension splits a file name at its last dot. A name without a dot
// has an empty extension; a leading dot is not treated as a separator.
func (pu *PathUtils) SplitExtension(name string) (base, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// JoinExtension is the inverse of SplitExtension.
func (pu *PathUtils) JoinExtension(base, ext string) string {
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// IsHidden reports whether a file name is hidden by the dot-file convention
func (pu *PathUtils) IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// RelativeTo returns target relative to base using forward slashes, which is
// the form ignore patterns are matched against.
func (pu *PathUtils) RelativeTo(base, target string) (string, error) {
	rel, err := filepath.Rel(pu.NormalizePath(base), pu.NormalizePath(target))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
