package watcher

import (
	"time"
)

// Config holds configuration for the watcher
type Config struct {
	// Delay is how long a directory must stay quiet before its arrivals are renamed
	Delay time.Duration

	// MaxDelay bounds how long a busy directory can postpone renaming
	MaxDelay time.Duration

	// Recursive watches subdirectories, including ones created later
	Recursive bool

	// Initial renames the existing contents of every root before watching
	Initial bool

	// QueueCapacity is the capacity of the debounced batch queue
	QueueCapacity int
}

// Batch is the set of arrivals in one directory that settled.
type Batch struct {
	Dir string
	// Names lists the file names that arrived, sorted.
	Names []string
	// All asks for the whole directory tree, as for a directory moved in.
	All bool
}
