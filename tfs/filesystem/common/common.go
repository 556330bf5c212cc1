package common

// This package contains shared utilities and types used across filesystem packages.
// It provides the error taxonomy of the renamer, path and access helpers,
// and rename metrics.

// Note: Utility types are defined in their respective files.
// Use constructors like common.NewPathUtils() to create instances.
