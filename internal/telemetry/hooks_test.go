package telemetry

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gridkit/tablecore/internal/events"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

func newTestHooks() (*Hooks, *bytes.Buffer, *eventbus.Bus) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	h := NewHooks(logger)
	bus := eventbus.New()
	h.Attach(bus)
	return h, &buf, bus
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n")) {
		if len(raw) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		lines = append(lines, m)
	}
	return lines
}

func TestOnCellChangeLogsFields(t *testing.T) {
	_, buf, bus := newTestHooks()

	bus.Emit(events.CellChange, events.CellChangePayload{R: 1, C: 2, Field: events.FieldValue, OldValue: "a", NewValue: "b"})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, float64(1), lines[0]["r"])
	require.Equal(t, float64(2), lines[0]["c"])
	require.Equal(t, "value", lines[0]["field"])
	require.Equal(t, "cell changed", lines[0]["message"])
}

func TestOnMergeLogsRectangle(t *testing.T) {
	_, buf, bus := newTestHooks()

	bus.Emit(events.Merge, events.MergePayload{R1: 0, C1: 0, R2: 1, C2: 1, RowSpan: 2, ColSpan: 2})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, float64(2), lines[0]["row_span"])
	require.Equal(t, "cells merged", lines[0]["message"])
}

func TestOnSplitLogsSpans(t *testing.T) {
	_, buf, bus := newTestHooks()

	bus.Emit(events.Split, events.SplitPayload{R: 3, C: 4, RowSpan: 1, ColSpan: 1})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "cell split", lines[0]["message"])
}

func TestOnPasteLogsDimensionsAndHTMLFlag(t *testing.T) {
	_, buf, bus := newTestHooks()

	bus.Emit(events.Paste, events.PastePayload{StartR: 0, StartC: 0, Rows: 2, Cols: 3, HTML: true})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, true, lines[0]["html"])
}

func TestOnEditCommitIncludesNewValueWhenPresent(t *testing.T) {
	_, buf, bus := newTestHooks()

	newValue := "hello"
	bus.Emit(events.EditCommit, events.EditPayload{R: 0, C: 0, OldValue: "", NewValue: &newValue})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	require.Equal(t, "hello", lines[0]["new_value"])
	require.Equal(t, "edit committed", lines[0]["message"])
}

func TestOnEditStartOmitsNewValueWhenNil(t *testing.T) {
	_, buf, bus := newTestHooks()

	bus.Emit(events.EditStart, events.EditPayload{R: 0, C: 0, OldValue: "x"})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	_, present := lines[0]["new_value"]
	require.False(t, present)
}

func TestOnBatchFlushLogsBufferedCount(t *testing.T) {
	_, buf, bus := newTestHooks()

	bus.Batch(func() {
		bus.Emit(events.SelectionChange, events.SelectionChangePayload{R: 0, C: 0})
	})

	lines := decodeLines(t, buf)
	require.GreaterOrEqual(t, len(lines), 2) // selection:change + batch:flush
	last := lines[len(lines)-1]
	require.Equal(t, "batch flushed", last["message"])
	require.Equal(t, float64(1), last["buffered_event_count"])
}

func TestMismatchedPayloadTypeIsIgnored(t *testing.T) {
	_, buf, bus := newTestHooks()

	bus.Emit(events.CellChange, "not a CellChangePayload")

	require.Empty(t, buf.Bytes())
}
