package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

func newHistModel() *document.Model {
	return document.New(document.Document{Grid: document.Grid{Rows: 2, Cols: 2}}, nil)
}

func TestRecord_SkipsExactDuplicate(t *testing.T) {
	svc := NewService(10)
	m := newHistModel()

	svc.Record(m)
	svc.Record(m) // identical snapshot: suppressed
	require.Equal(t, 1, svc.Len())
}

func TestRecord_PushesDistinctSnapshots(t *testing.T) {
	svc := NewService(10)
	m := newHistModel()

	svc.Record(m)
	m.SetCellValue(0, 0, "a")
	svc.Record(m)
	require.Equal(t, 2, svc.Len())
}

func TestRecord_RespectsBoundedLimit(t *testing.T) {
	svc := NewService(3)
	m := newHistModel()

	for i := 0; i < 5; i++ {
		m.SetCellValue(0, 0, string(rune('a'+i)))
		svc.Record(m)
	}
	require.Equal(t, 3, svc.Len())
}

func TestUndoRedo_MovesCursorWithoutApplying(t *testing.T) {
	svc := NewService(10)
	m := newHistModel()

	svc.Record(m) // v0: empty
	m.SetCellValue(0, 0, "a")
	svc.Record(m) // v1
	m.SetCellValue(0, 0, "b")
	svc.Record(m) // v2

	require.True(t, svc.CanUndo())
	doc, ok := svc.Undo()
	require.True(t, ok)
	cell := findCell(doc, 0, 0)
	require.Equal(t, "a", cell.Value)

	// model itself is untouched by Undo (it only reports the Document)
	current, _ := m.GetCell(0, 0)
	require.Equal(t, "b", current.Value)

	doc, ok = svc.Redo()
	require.True(t, ok)
	cell = findCell(doc, 0, 0)
	require.Equal(t, "b", cell.Value)
	require.False(t, svc.CanRedo())
}

func TestRecord_TruncatesRedoTailOnNewEdit(t *testing.T) {
	svc := NewService(10)
	m := newHistModel()

	svc.Record(m)
	m.SetCellValue(0, 0, "a")
	svc.Record(m)
	m.SetCellValue(0, 0, "b")
	svc.Record(m)

	_, _ = svc.Undo() // cursor now at "a"
	m.SetCellValue(0, 0, "c")
	svc.Record(m) // discards the "b" tail

	require.False(t, svc.CanRedo())
	require.Equal(t, 3, svc.Len())
}

func TestRestore_SuppressesRecordingWhileApplying(t *testing.T) {
	svc := NewService(10)
	m := newHistModel()
	svc.Record(m)

	applied := false
	svc.Restore(func(doc document.Document) {
		applied = true
		svc.Record(m) // must be ignored: suspend is set
	}, document.Document{Grid: document.Grid{Rows: 3, Cols: 3}})

	require.True(t, applied)
	require.Equal(t, 1, svc.Len())

	// after Restore returns, recording works normally again
	m.SetCellValue(1, 1, "x")
	svc.Record(m)
	require.Equal(t, 2, svc.Len())
}

func TestDebouncer_FlushRecordsOncePending(t *testing.T) {
	svc := NewService(10)
	m := newHistModel()
	d := NewDebouncer(svc, m, time.Hour, nil) // long delay: only manual flush should fire

	d.Schedule()
	d.Flush()
	require.Equal(t, 1, svc.Len())

	d.Flush() // nothing pending: no-op
	require.Equal(t, 1, svc.Len())
}

func TestDebouncer_CancelDiscardsSchedule(t *testing.T) {
	svc := NewService(10)
	m := newHistModel()
	d := NewDebouncer(svc, m, time.Hour, nil)

	d.Schedule()
	d.Cancel()
	d.Flush()
	require.Equal(t, 0, svc.Len())
}

func TestDebouncer_BatchFlushTriggersRecord(t *testing.T) {
	svc := NewService(10)
	m := newHistModel()
	bus := eventbus.New()
	d := NewDebouncer(svc, m, time.Hour, bus)

	d.Schedule()
	bus.Emit(eventbus.BatchFlush, eventbus.FlushPayload{})
	require.Equal(t, 1, svc.Len())
}

func TestDebouncer_TimerExpiryRecords(t *testing.T) {
	svc := NewService(10)
	m := newHistModel()
	d := NewDebouncer(svc, m, 10*time.Millisecond, nil)

	d.Schedule()
	require.Eventually(t, func() bool { return svc.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func findCell(doc document.Document, r, c int) document.Cell {
	for _, cell := range doc.Cells {
		if cell.R == r && cell.C == c {
			return cell
		}
	}
	return document.Cell{}
}
