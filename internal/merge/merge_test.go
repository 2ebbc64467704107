package merge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

func newModel(rows, cols int, cells ...document.Cell) (*document.Model, *eventbus.Bus) {
	bus := eventbus.New()
	return document.New(document.Document{Grid: document.Grid{Rows: rows, Cols: cols}, Cells: cells}, bus), bus
}

func TestMergeRange_SingleCellIsNoOp(t *testing.T) {
	m, bus := newModel(3, 3)
	eng := New(m, bus)

	var sawMerge bool
	bus.On("merge", func(any) { sawMerge = true })

	res := eng.MergeRange(1, 1, 1, 1)
	require.True(t, res.OK)
	require.False(t, sawMerge)
}

func TestMergeRange_ConcatenatesValuesInRowMajorOrder(t *testing.T) {
	m, bus := newModel(3, 3,
		document.Cell{R: 0, C: 0, Value: "a"},
		document.Cell{R: 0, C: 1, Value: "b"},
		document.Cell{R: 1, C: 0, Value: "c"},
	)
	eng := New(m, bus)

	res := eng.MergeRange(0, 0, 1, 1)
	require.True(t, res.OK)

	cell, ok := m.GetCell(0, 0)
	require.True(t, ok)
	require.Equal(t, "a b c", cell.Value)
	require.Equal(t, 2, cell.RowSpan)
	require.Equal(t, 2, cell.ColSpan)

	_, ok = m.GetCell(0, 1)
	require.False(t, ok)
	_, ok = m.GetCell(1, 0)
	require.False(t, ok)
}

func TestMergeRange_RejectsPartialOverlap(t *testing.T) {
	m, bus := newModel(5, 5, document.Cell{R: 1, C: 1, RowSpan: 2, ColSpan: 2})
	eng := New(m, bus)

	res := eng.MergeRange(2, 2, 3, 3)
	require.False(t, res.OK)
	require.Equal(t, "PARTIAL_OVERLAP", string(res.Code))
}

func TestSplitCell_RestoresCoveredLeadingCells(t *testing.T) {
	m, bus := newModel(4, 4, document.Cell{R: 1, C: 1, Value: "merged", RowSpan: 2, ColSpan: 2})
	eng := New(m, bus)

	var payload any
	bus.On("split", func(p any) { payload = p })

	res := eng.SplitCell(1, 1)
	require.True(t, res.OK)
	require.NotNil(t, payload)

	for _, coord := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}} {
		cell, ok := m.GetCell(coord[0], coord[1])
		require.True(t, ok, "expected leading cell at %v", coord)
		require.LessOrEqual(t, cell.RowSpan, 1)
		require.LessOrEqual(t, cell.ColSpan, 1)
	}

	lead, _ := m.GetCell(1, 1)
	require.Equal(t, "merged", lead.Value)
}

func TestSplitCell_MissingLeadingCellFails(t *testing.T) {
	m, bus := newModel(3, 3)
	eng := New(m, bus)

	res := eng.SplitCell(1, 1)
	require.False(t, res.OK)
}

func TestSplitAllInRange_FullyModeOnlySelectsContained(t *testing.T) {
	m, bus := newModel(6, 6,
		document.Cell{R: 0, C: 0, RowSpan: 2, ColSpan: 2}, // rows 0-1, cols 0-1: fully inside 0..3
		document.Cell{R: 2, C: 2, RowSpan: 3, ColSpan: 3}, // rows 2-4, cols 2-4: extends past range
	)
	eng := New(m, bus)

	processed := eng.SplitAllInRange(0, 0, 3, 3, SplitFully)
	require.Equal(t, 1, processed)

	cell, ok := m.GetCell(2, 2)
	require.True(t, ok)
	require.Equal(t, 3, cell.RowSpan)
}

func TestSplitAllInRange_OverlapModeSelectsTouching(t *testing.T) {
	m, bus := newModel(6, 6, document.Cell{R: 2, C: 2, RowSpan: 2, ColSpan: 2})
	eng := New(m, bus)

	processed := eng.SplitAllInRange(0, 0, 2, 2, SplitOverlap)
	require.Equal(t, 1, processed)

	cell, ok := m.GetCell(2, 2)
	require.True(t, ok)
	require.Equal(t, 1, cell.RowSpan)
}
