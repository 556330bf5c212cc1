package common

import (
	"os"
)

// AccessChecker decides whether the engine may touch a file.
type AccessChecker interface {
	CanReadWrite(path string, info os.FileInfo) bool
}

// AccessCheckerFunc adapts a function to AccessChecker.
type AccessCheckerFunc func(path string, info os.FileInfo) bool

func (f AccessCheckerFunc) CanReadWrite(path string, info os.FileInfo) bool {
	return f(path, info)
}

// NewAccessChecker returns the platform access checker.
func NewAccessChecker() AccessChecker {
	return AccessCheckerFunc(canReadWrite)
}
