package config

import "time"

// Default tunables for the table document core. These values are
// conservative and can be overridden by callers; components fall back to
// them whenever a constructor argument is <= 0.

const (
	// History
	DefaultHistoryLimit  = 100
	DefaultDebounceDelay = 400 * time.Millisecond

	// Selection / navigation
	DefaultMaxNavigationHops = 5

	// Registry / grid
	DefaultColumnSizeValue = 1
	DefaultColumnSizeUnit  = "ratio"
)

const (
	// Runtime admission control
	DefaultMaxConcurrentOperations = 8
	DefaultMaxOpenModels           = 16
	DefaultAcquireTimeout          = 2 * time.Second
)
