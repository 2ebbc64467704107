package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestControllerAcquireRelease(t *testing.T) {
	limits := NewLimits(1, 1)
	controller := NewController(limits)

	require.Equal(t, limits, controller.LimitsSnapshot())

	require.NoError(t, controller.AcquireOperation(context.Background()))
	controller.ReleaseOperation()

	require.NoError(t, controller.AcquireModel(context.Background()))
	controller.ReleaseModel()
}

func TestNewLimitsFillsConfigFallbacks(t *testing.T) {
	limits := NewLimits(0, 0)
	require.Greater(t, limits.MaxConcurrentOperations, 0)
	require.Greater(t, limits.MaxOpenModels, 0)
	require.Greater(t, limits.AcquireTimeout, time.Duration(0))
}
