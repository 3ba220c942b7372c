package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// ReadBackoff is the pause after a failed read or a failed
	// persist/publish before the loop tries again.
	ReadBackoff time.Duration
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		ReadBackoff: 100 * time.Millisecond,
	}
}
