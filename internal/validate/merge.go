package validate

import (
	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/pkg/docerr"
)

// rect is a closed coordinate rectangle, normalized so r1<=r2, c1<=c2.
type rect struct{ r1, c1, r2, c2 int }

func normalizeRect(r1, c1, r2, c2 int) rect {
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return rect{r1, c1, r2, c2}
}

func (a rect) intersects(b rect) bool {
	return a.r1 <= b.r2 && b.r1 <= a.r2 && a.c1 <= b.c2 && b.c1 <= a.c2
}

// contains reports whether a fully contains b.
func (a rect) contains(b rect) bool {
	return a.r1 <= b.r1 && a.c1 <= b.c1 && a.r2 >= b.r2 && a.c2 >= b.c2
}

// ValidateMergeOperation checks a proposed merge of (r1,c1)-(r2,c2) against
// model's current cells, per spec.md §4.2. The range is normalized to
// (minR..maxR, minC..maxC) first. Out-of-bounds ranges are rejected. For
// every existing leading cell whose rectangle intersects the proposed
// range, only two outcomes are accepted:
//
//   - absorption: the existing cell's rectangle is entirely contained in
//     the proposed range (it will be subsumed by the new merge).
//   - containment: the proposed range is entirely contained in the
//     existing cell's rectangle (merging inside an already-merged cell
//     is a no-op from the geometry's point of view).
//
// Any other (partial) overlap is rejected as PartialOverlap.
func ValidateMergeOperation(m *document.Model, r1, c1, r2, c2 int) docerr.Result {
	target := normalizeRect(r1, c1, r2, c2)

	rows, cols := m.Rows(), m.Cols()
	if target.r1 < 0 || target.c1 < 0 || target.r2 >= rows || target.c2 >= cols {
		return docerr.Fail(docerr.Bounds, map[string]any{"rect": target}, "merge range (%d,%d)-(%d,%d) out of bounds", target.r1, target.c1, target.r2, target.c2)
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell, ok := m.GetCell(r, c)
			if !ok {
				continue
			}
			existing := rect{cell.R, cell.C, cell.Bottom(), cell.Right()}
			if !target.intersects(existing) {
				continue
			}
			if target.contains(existing) || existing.contains(target) {
				continue
			}
			return docerr.Fail(docerr.PartialOverlap, map[string]any{"target": target, "existing": existing},
				"merge range (%d,%d)-(%d,%d) partially overlaps existing merged cell at (%d,%d)-(%d,%d)",
				target.r1, target.c1, target.r2, target.c2, existing.r1, existing.c1, existing.r2, existing.c2)
		}
	}

	return docerr.Ok(nil)
}
