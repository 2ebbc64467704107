package document

import (
	"github.com/gridkit/tablecore/internal/events"
	"github.com/gridkit/tablecore/pkg/docerr"
)

// InsertRows shifts, grows, or leaves untouched every leading cell's
// vertical span according to spec.md §4.3.1, then grows the grid by
// count rows. index is clamped to [0, rows]; count must be >= 1.
func (m *Model) InsertRows(index, count int) docerr.Result {
	if count < 1 {
		return docerr.Fail(docerr.Argument, nil, "insert count must be >= 1, got %d", count)
	}

	m.mu.Lock()
	if index < 0 {
		index = 0
	}
	if index > m.doc.Grid.Rows {
		index = m.doc.Grid.Rows
	}

	for i := range m.doc.Cells {
		cell := &m.doc.Cells[i]
		top, bottom := cell.R, cell.Bottom()
		switch {
		case top >= index:
			cell.R += count
		case index <= bottom:
			cell.RowSpan = cell.effRowSpan() + count
		}
	}
	m.doc.Grid.Rows += count
	m.rebuildIndex()
	m.mu.Unlock()

	m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureInsertRows, Extra: map[string]any{"index": index, "count": count}})
	return docerr.Ok(map[string]any{"rows": m.Rows()})
}

// InsertColumns is InsertRows' column-axis symmetric twin. When
// ColumnSizes is present, count default entries are spliced in at index.
func (m *Model) InsertColumns(index, count int) docerr.Result {
	if count < 1 {
		return docerr.Fail(docerr.Argument, nil, "insert count must be >= 1, got %d", count)
	}

	m.mu.Lock()
	if index < 0 {
		index = 0
	}
	if index > m.doc.Grid.Cols {
		index = m.doc.Grid.Cols
	}

	for i := range m.doc.Cells {
		cell := &m.doc.Cells[i]
		left, right := cell.C, cell.Right()
		switch {
		case left >= index:
			cell.C += count
		case index <= right:
			cell.ColSpan = cell.effColSpan() + count
		}
	}
	m.doc.Grid.Cols += count
	if m.doc.Grid.ColumnSizes != nil {
		ins := make([]ColumnSize, count)
		for i := range ins {
			ins[i] = DefaultColumnSize
		}
		sizes := m.doc.Grid.ColumnSizes
		sizes = append(sizes[:index], append(ins, sizes[index:]...)...)
		m.doc.Grid.ColumnSizes = sizes
	}
	m.rebuildIndex()
	m.mu.Unlock()

	m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureInsertColumns, Extra: map[string]any{"index": index, "count": count}})
	return docerr.Ok(map[string]any{"cols": m.Cols()})
}

// DeleteRows applies spec.md §4.3.2's six-way classification per leading
// cell, rejecting with InteriorMergeCut (no mutation) if any cell's
// merge rectangle is interior-cut by the deleted band.
func (m *Model) DeleteRows(start, count int) docerr.Result {
	if count < 1 {
		return docerr.Fail(docerr.Argument, nil, "delete count must be >= 1, got %d", count)
	}

	m.mu.Lock()
	if m.doc.Grid.Rows-count < 1 {
		m.mu.Unlock()
		return docerr.Fail(docerr.Bounds, nil, "delete would leave fewer than 1 row")
	}

	rFrom, rTo := start, start+count-1

	for _, cell := range m.doc.Cells {
		top, bottom := cell.R, cell.Bottom()
		if top < rFrom && bottom > rTo {
			m.mu.Unlock()
			return docerr.Fail(docerr.InteriorMergeCut, map[string]any{"r": cell.R, "c": cell.C}, "delete rows %d-%d cuts through the interior of the merge at (%d,%d)", rFrom, rTo, cell.R, cell.C)
		}
	}

	kept := make([]Cell, 0, len(m.doc.Cells))
	for _, cell := range m.doc.Cells {
		top, bottom := cell.R, cell.Bottom()
		switch {
		case bottom < rFrom:
			kept = append(kept, cell)
		case top > rTo:
			cell.R -= count
			kept = append(kept, cell)
		case top >= rFrom && bottom <= rTo:
			// fully absorbed; drop.
		case top < rFrom && bottom >= rFrom && bottom <= rTo:
			cell.RowSpan = rFrom - top
			kept = append(kept, cell)
		case top >= rFrom && top <= rTo && bottom > rTo:
			cell.RowSpan = bottom - rTo
			cell.R = rFrom
			kept = append(kept, cell)
		}
	}
	m.doc.Cells = kept
	m.doc.Grid.Rows -= count
	if m.doc.Grid.HeaderRows > m.doc.Grid.Rows {
		m.doc.Grid.HeaderRows = m.doc.Grid.Rows
	}
	m.rebuildIndex()
	rows := m.doc.Grid.Rows
	m.mu.Unlock()

	m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureDeleteRows, Extra: map[string]any{"start": start, "count": count}})
	return docerr.Ok(map[string]any{"rows": rows})
}

// DeleteColumns is DeleteRows' column-axis symmetric twin. When
// ColumnSizes is present, the deleted range is spliced out; an empty
// result is reset to nil.
func (m *Model) DeleteColumns(start, count int) docerr.Result {
	if count < 1 {
		return docerr.Fail(docerr.Argument, nil, "delete count must be >= 1, got %d", count)
	}

	m.mu.Lock()
	if m.doc.Grid.Cols-count < 1 {
		m.mu.Unlock()
		return docerr.Fail(docerr.Bounds, nil, "delete would leave fewer than 1 column")
	}

	cFrom, cTo := start, start+count-1

	for _, cell := range m.doc.Cells {
		left, right := cell.C, cell.Right()
		if left < cFrom && right > cTo {
			m.mu.Unlock()
			return docerr.Fail(docerr.InteriorMergeCut, map[string]any{"r": cell.R, "c": cell.C}, "delete columns %d-%d cuts through the interior of the merge at (%d,%d)", cFrom, cTo, cell.R, cell.C)
		}
	}

	kept := make([]Cell, 0, len(m.doc.Cells))
	for _, cell := range m.doc.Cells {
		left, right := cell.C, cell.Right()
		switch {
		case right < cFrom:
			kept = append(kept, cell)
		case left > cTo:
			cell.C -= count
			kept = append(kept, cell)
		case left >= cFrom && right <= cTo:
			// fully absorbed; drop.
		case left < cFrom && right >= cFrom && right <= cTo:
			cell.ColSpan = cFrom - left
			kept = append(kept, cell)
		case left >= cFrom && left <= cTo && right > cTo:
			cell.ColSpan = right - cTo
			cell.C = cFrom
			kept = append(kept, cell)
		}
	}
	m.doc.Cells = kept
	m.doc.Grid.Cols -= count
	if m.doc.Grid.ColumnSizes != nil {
		sizes := m.doc.Grid.ColumnSizes
		if cFrom < len(sizes) {
			end := cTo + 1
			if end > len(sizes) {
				end = len(sizes)
			}
			sizes = append(sizes[:cFrom:cFrom], sizes[end:]...)
		}
		if len(sizes) == 0 {
			sizes = nil
		}
		m.doc.Grid.ColumnSizes = sizes
	}
	m.rebuildIndex()
	cols := m.doc.Grid.Cols
	m.mu.Unlock()

	m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureDeleteColumns, Extra: map[string]any{"start": start, "count": count}})
	return docerr.Ok(map[string]any{"cols": cols})
}
