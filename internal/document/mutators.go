package document

import (
	"strconv"
	"strings"

	"github.com/gridkit/tablecore/internal/events"
)

// ensureLeadingLocked returns the leading cell at (r,c), creating an empty
// 1x1 one if absent. Caller must hold m.mu for writing.
func (m *Model) ensureLeadingLocked(r, c int) *Cell {
	if cell, ok := m.index[coord{r, c}]; ok {
		return cell
	}
	m.doc.Cells = append(m.doc.Cells, Cell{R: r, C: c, RowSpan: 1, ColSpan: 1})
	// append may move the backing array, so every index pointer is refreshed.
	m.rebuildIndex()
	return m.index[coord{r, c}]
}

// SetCellValue sets the text value at (r,c), creating the leading cell
// lazily. Emits cell:change/value.
func (m *Model) SetCellValue(r, c int, value string) {
	m.mu.Lock()
	cell := m.ensureLeadingLocked(r, c)
	old := cell.Value
	cell.Value = value
	m.mu.Unlock()

	m.emit(events.CellChange, events.CellChangePayload{R: r, C: c, Field: events.FieldValue, OldValue: old, NewValue: value})
}

// SetCellClasses replaces the class list at (r,c). Emits cell:change/classes.
func (m *Model) SetCellClasses(r, c int, classes []string) {
	m.mu.Lock()
	cell := m.ensureLeadingLocked(r, c)
	old := cell.Classes
	cell.Classes = append([]string(nil), classes...)
	m.mu.Unlock()

	m.emit(events.CellChange, events.CellChangePayload{R: r, C: c, Field: events.FieldClasses, OldValue: old, NewValue: classes})
}

// SetCellData replaces the data-attribute map at (r,c). Emits cell:change/data.
func (m *Model) SetCellData(r, c int, data map[string]any) {
	m.mu.Lock()
	cell := m.ensureLeadingLocked(r, c)
	old := cell.Data
	clone := make(map[string]any, len(data))
	for k, v := range data {
		clone[k] = v
	}
	cell.Data = clone
	m.mu.Unlock()

	m.emit(events.CellChange, events.CellChangePayload{R: r, C: c, Field: events.FieldData, OldValue: old, NewValue: data})
}

// EnsureSize grows the grid to at least rows x cols; it never shrinks.
// Newly added columns get DefaultColumnSize when ColumnSizes is already
// set. Emits structure:change/resize only if either dimension grew.
func (m *Model) EnsureSize(rows, cols int) {
	m.mu.Lock()
	grew := false
	if rows > m.doc.Grid.Rows {
		m.doc.Grid.Rows = rows
		grew = true
	}
	if cols > m.doc.Grid.Cols {
		if m.doc.Grid.ColumnSizes != nil {
			for m.doc.Grid.Cols < cols {
				m.doc.Grid.ColumnSizes = append(m.doc.Grid.ColumnSizes, DefaultColumnSize)
				m.doc.Grid.Cols++
			}
		} else {
			m.doc.Grid.Cols = cols
		}
		grew = true
	}
	m.mu.Unlock()

	if grew {
		m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureResize, Extra: map[string]any{"rows": rows, "cols": cols}})
	}
}

// SetHeaderRows clamps n to [0, rows] and sets it. Emits only if changed.
func (m *Model) SetHeaderRows(n int) {
	m.mu.Lock()
	if n < 0 {
		n = 0
	}
	if n > m.doc.Grid.Rows {
		n = m.doc.Grid.Rows
	}
	changed := n != m.doc.Grid.HeaderRows
	m.doc.Grid.HeaderRows = n
	m.mu.Unlock()

	if changed {
		m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureHeaderRows, Extra: map[string]any{"headerRows": n}})
	}
}

// SetTableName trims name and ignores empty or unchanged values. Emits
// structure:change/meta on an effective change.
func (m *Model) SetTableName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	m.mu.Lock()
	changed := name != m.doc.Meta.Name
	m.doc.Meta.Name = name
	m.mu.Unlock()

	if changed {
		m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureMeta, Extra: map[string]any{"name": name}})
	}
}

// ParseColumnSizeToken parses the textual form accepted by SetColumnSize:
// "<digits>px" (pixel width), "<digits>" (ratio weight), or anything else,
// which resets to DefaultColumnSize.
func ParseColumnSizeToken(raw string) ColumnSize {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, "px") {
		numPart := strings.TrimSuffix(raw, "px")
		if v, err := strconv.ParseFloat(strings.TrimSpace(numPart), 64); err == nil && v > 0 {
			return ColumnSize{V: v, U: "px"}
		}
		return DefaultColumnSize
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
		return ColumnSize{V: v, U: "ratio"}
	}
	return DefaultColumnSize
}

// SetColumnSize parses raw via ParseColumnSizeToken and assigns it to
// column i, lazily initializing ColumnSizes with defaults for every other
// column if it has never been set. Emits structure:change/columnSizes.
func (m *Model) SetColumnSize(i int, raw string) {
	size := ParseColumnSizeToken(raw)

	m.mu.Lock()
	if i < 0 || i >= m.doc.Grid.Cols {
		m.mu.Unlock()
		return
	}
	if m.doc.Grid.ColumnSizes == nil {
		sizes := make([]ColumnSize, m.doc.Grid.Cols)
		for j := range sizes {
			sizes[j] = DefaultColumnSize
		}
		m.doc.Grid.ColumnSizes = sizes
	}
	m.doc.Grid.ColumnSizes[i] = size
	m.mu.Unlock()

	m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureColumnSizes, Extra: map[string]any{"index": i}})
}

// SetColumnSizes replaces the whole ColumnSizes array when its length
// matches Cols, or clears it when sizes is nil. A length mismatch is a
// no-op. Emits structure:change/columnSizes on an effective change.
func (m *Model) SetColumnSizes(sizes []ColumnSize) {
	m.mu.Lock()
	if sizes == nil {
		changed := m.doc.Grid.ColumnSizes != nil
		m.doc.Grid.ColumnSizes = nil
		m.mu.Unlock()
		if changed {
			m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureColumnSizes, Extra: map[string]any{"cleared": true}})
		}
		return
	}
	if len(sizes) != m.doc.Grid.Cols {
		m.mu.Unlock()
		return
	}
	m.doc.Grid.ColumnSizes = append([]ColumnSize(nil), sizes...)
	m.mu.Unlock()

	m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureColumnSizes, Extra: map[string]any{"len": len(sizes)}})
}
