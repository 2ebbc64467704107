package document

import "strings"

// CollectRectValues returns the trimmed, non-empty values of every leading
// cell whose origin lies within [r1,r2]x[c1,c2], in row-major order. Used
// by the merge engine to build the concatenated text of a new merge.
func (m *Model) CollectRectValues(r1, c1, r2, c2 int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var values []string
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			cell, ok := m.index[coord{r, c}]
			if !ok {
				continue
			}
			if v := strings.TrimSpace(cell.Value); v != "" {
				values = append(values, v)
			}
		}
	}
	return values
}

// ApplyMerge assigns rowSpan/colSpan to the leading cell at (r1,c1) (created
// lazily if absent), sets its value if newValue is non-nil, and removes
// every other cell whose origin falls inside the resulting rectangle. The
// index is rebuilt afterward. Caller is responsible for prior geometry
// validation; this is the mechanical half of MergeEngine.mergeRange.
func (m *Model) ApplyMerge(r1, c1, r2, c2 int, newValue *string) {
	m.mu.Lock()
	leading := m.ensureLeadingLocked(r1, c1)
	leading.RowSpan = r2 - r1 + 1
	leading.ColSpan = c2 - c1 + 1
	if newValue != nil {
		leading.Value = *newValue
	}

	kept := m.doc.Cells[:0]
	for _, cell := range m.doc.Cells {
		if cell.R == r1 && cell.C == c1 {
			kept = append(kept, cell)
			continue
		}
		if cell.R >= r1 && cell.R <= r2 && cell.C >= c1 && cell.C <= c2 {
			continue // absorbed
		}
		kept = append(kept, cell)
	}
	m.doc.Cells = kept
	m.rebuildIndex()
	m.mu.Unlock()
}

// ApplySplit resets the leading cell at (r,c) to a 1x1 span and creates an
// empty leading cell at every coordinate its former rectangle covered.
// Returns the cell's pre-split bottom/right so the caller (MergeEngine) can
// emit an accurate split payload. ok is false if no leading cell exists at
// (r,c).
func (m *Model) ApplySplit(r, c int) (bottom, right int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cell, exists := m.index[coord{r, c}]
	if !exists {
		return 0, 0, false
	}
	bottom, right = cell.Bottom(), cell.Right()
	cell.RowSpan = 1
	cell.ColSpan = 1

	for rr := r; rr <= bottom; rr++ {
		for cc := c; cc <= right; cc++ {
			if rr == r && cc == c {
				continue
			}
			if _, already := m.index[coord{rr, cc}]; already {
				continue
			}
			m.doc.Cells = append(m.doc.Cells, Cell{R: rr, C: cc, RowSpan: 1, ColSpan: 1})
		}
	}
	m.rebuildIndex()
	return bottom, right, true
}

// LeadingCellsSnapshot returns a copy of every stored leading cell, for
// callers (e.g. splitAllInRange) that need to iterate and mutate without
// the iteration itself racing a concurrent structural change.
func (m *Model) LeadingCellsSnapshot() []Cell {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Cell, len(m.doc.Cells))
	copy(out, m.doc.Cells)
	return out
}
