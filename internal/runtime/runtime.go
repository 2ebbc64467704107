// Package runtime provides admission control around the document core: a
// Controller bounds how many operations and how many open models run
// concurrently, independent of the operations' own purely synchronous
// logic (spec.md §5 scopes the core itself to single-threaded cooperative
// scheduling).
package runtime

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/gridkit/tablecore/config"
)

// Limits captures the concurrency guardrails configured for a Controller.
type Limits struct {
	MaxConcurrentOperations int
	MaxOpenModels           int
	AcquireTimeout          time.Duration
}

// NewLimits initializes Limits with config fallbacks when values are unset.
func NewLimits(maxConcurrentOperations, maxOpenModels int) Limits {
	if maxConcurrentOperations <= 0 {
		maxConcurrentOperations = config.DefaultMaxConcurrentOperations
	}
	if maxOpenModels <= 0 {
		maxOpenModels = config.DefaultMaxOpenModels
	}
	return Limits{
		MaxConcurrentOperations: maxConcurrentOperations,
		MaxOpenModels:           maxOpenModels,
		AcquireTimeout:          config.DefaultAcquireTimeout,
	}
}

// Controller coordinates runtime semaphores for operation and model
// guardrails, for a host embedding multiple models or concurrent callers
// around the document core.
type Controller struct {
	limits       Limits
	operationSem *semaphore.Weighted
	modelSem     *semaphore.Weighted
}

// NewController constructs a Controller backed by weighted semaphores.
func NewController(limits Limits) *Controller {
	return &Controller{
		limits:       limits,
		operationSem: semaphore.NewWeighted(int64(limits.MaxConcurrentOperations)),
		modelSem:     semaphore.NewWeighted(int64(limits.MaxOpenModels)),
	}
}

// AcquireOperation reserves capacity for one in-flight operation.
func (c *Controller) AcquireOperation(ctx context.Context) error {
	return c.operationSem.Acquire(ctx, 1)
}

// ReleaseOperation frees previously-acquired operation capacity.
func (c *Controller) ReleaseOperation() {
	c.operationSem.Release(1)
}

// AcquireModel reserves an open-model slot.
func (c *Controller) AcquireModel(ctx context.Context) error {
	return c.modelSem.Acquire(ctx, 1)
}

// ReleaseModel frees an open-model slot.
func (c *Controller) ReleaseModel() {
	c.modelSem.Release(1)
}

// LimitsSnapshot exposes the configured guardrails for telemetry and
// discovery.
func (c *Controller) LimitsSnapshot() Limits {
	return c.limits
}
