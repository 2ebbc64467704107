package eventbus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmitDeliversSynchronously(t *testing.T) {
	b := New()
	var got []any
	b.On("cell:change", func(payload any) { got = append(got, payload) })

	b.Emit("cell:change", 1)
	b.Emit("cell:change", 2)

	require.Equal(t, []any{1, 2}, got)
}

func TestOffRemovesHandler(t *testing.T) {
	b := New()
	calls := 0
	h := func(payload any) { calls++ }
	b.On("x", h)
	b.Emit("x", nil)
	b.Off("x", h)
	b.Emit("x", nil)
	require.Equal(t, 1, calls)
}

func TestPauseBuffersInOrderAndFlushesOnResume(t *testing.T) {
	b := New()
	var order []any
	b.On("a", func(payload any) { order = append(order, payload) })
	b.On(BatchFlush, func(payload any) { order = append(order, payload) })

	b.Pause()
	b.Emit("a", "1")
	b.Emit("a", "2")
	require.Empty(t, order, "emit must buffer while paused")
	b.Resume()

	require.Len(t, order, 3)
	require.Equal(t, "1", order[0])
	require.Equal(t, "2", order[1])
	flush, ok := order[2].(FlushPayload)
	require.True(t, ok)
	require.Equal(t, 2, flush.BufferedEventCount)
}

func TestPauseResumeIsRefCounted(t *testing.T) {
	b := New()
	delivered := 0
	b.On("a", func(payload any) { delivered++ })

	b.Pause()
	b.Pause()
	b.Emit("a", nil)
	b.Resume()
	require.Equal(t, 0, delivered, "must stay paused until refcount reaches 0")
	b.Resume()
	require.Equal(t, 1, delivered)
}

func TestBatchPausesAndResumesEvenOnPanic(t *testing.T) {
	b := New()
	delivered := 0
	b.On("a", func(payload any) { delivered++ })

	func() {
		defer func() { _ = recover() }()
		b.Batch(func() {
			b.Emit("a", nil)
			panic("boom")
		})
	}()

	require.Equal(t, 1, delivered, "resume must run via defer even if fn panics")
}

func TestHandlerPanicDoesNotBlockSiblings(t *testing.T) {
	b := New()
	second := false
	b.On("a", func(payload any) { panic("bad handler") })
	b.On("a", func(payload any) { second = true })

	require.NotPanics(t, func() { b.Emit("a", nil) })
	require.True(t, second)
}

func TestBatchFlushEmittedExactlyOncePerBatch(t *testing.T) {
	b := New()
	flushes := 0
	b.On(BatchFlush, func(payload any) { flushes++ })

	b.Batch(func() {
		b.Emit("a", 1)
		b.Emit("b", 2)
	})
	require.Equal(t, 1, flushes)

	b.Batch(func() {})
	require.Equal(t, 2, flushes, "an empty batch still flushes with count 0")
}
