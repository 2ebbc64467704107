package runtime

import (
	"context"

	"github.com/gridkit/tablecore/pkg/docerr"
)

// Guard wraps fn with operation-slot admission control: it acquires a
// capacity unit (bounded by limits.AcquireTimeout), runs fn, and always
// releases afterward. If capacity can't be reserved in time, fn never
// runs and the caller gets a docerr.Busy result instead.
func (c *Controller) Guard(ctx context.Context, fn func(context.Context) docerr.Result) docerr.Result {
	acquireCtx := ctx
	if c.limits.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, c.limits.AcquireTimeout)
		defer cancel()
	}

	if err := c.AcquireOperation(acquireCtx); err != nil {
		return docerr.Fail(docerr.Busy, map[string]any{"max_concurrent_operations": c.limits.MaxConcurrentOperations},
			"concurrent operation limit reached (max=%d); retry shortly", c.limits.MaxConcurrentOperations)
	}
	defer c.ReleaseOperation()

	return fn(ctx)
}

// GuardModel wraps fn with open-model admission control, mirroring Guard
// but reserving a model slot instead of an operation slot. Intended for
// the point where a host opens a new document.Model.
func (c *Controller) GuardModel(ctx context.Context, fn func(context.Context) docerr.Result) docerr.Result {
	acquireCtx := ctx
	if c.limits.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, c.limits.AcquireTimeout)
		defer cancel()
	}

	if err := c.AcquireModel(acquireCtx); err != nil {
		return docerr.Fail(docerr.Busy, map[string]any{"max_open_models": c.limits.MaxOpenModels},
			"open model limit reached (max=%d); retry shortly", c.limits.MaxOpenModels)
	}
	defer c.ReleaseModel()

	return fn(ctx)
}
