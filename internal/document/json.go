package document

import (
	"github.com/gridkit/tablecore/internal/events"
	"github.com/gridkit/tablecore/pkg/docerr"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

// ApplyOptions configures ApplyDocument.
type ApplyOptions struct {
	// EmitEvent controls whether structure:change/applyDocument fires.
	// DefaultApplyOptions sets it to true; the zero value of ApplyOptions
	// does not emit.
	EmitEvent bool
}

// DefaultApplyOptions is the default used when ApplyDocument is called
// without options: EmitEvent true.
func DefaultApplyOptions() ApplyOptions { return ApplyOptions{EmitEvent: true} }

// ToJSON produces a Document snapshot with trivially empty cells stripped
// (spec.md §4.3 toJSON).
func (m *Model) ToJSON() Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := Document{
		Version: m.doc.Version,
		Meta:    m.doc.Meta,
		Grid:    m.doc.Grid,
	}
	if m.doc.Grid.ColumnSizes != nil {
		out.Grid.ColumnSizes = append([]ColumnSize(nil), m.doc.Grid.ColumnSizes...)
	}
	for _, c := range m.doc.Cells {
		if c.IsEmpty() {
			continue
		}
		out.Cells = append(out.Cells, cloneCell(c))
	}
	return out
}

// ValidateShape validates the minimal structural requirements a Document must
// satisfy before it can replace a Model's state: positive grid, in-range
// coordinates and spans, non-overlapping leading cells, sane headerRows,
// and (if present) a ColumnSizes slice matching Cols in length. It does
// not perform registry-aware validation; see internal/validate for that.
func ValidateShape(doc Document) docerr.Result {
	if doc.Grid.Rows <= 0 || doc.Grid.Cols <= 0 {
		return docerr.Fail(docerr.Shape, nil, "grid dimensions must be positive, got rows=%d cols=%d", doc.Grid.Rows, doc.Grid.Cols)
	}
	if doc.Grid.HeaderRows < 0 || doc.Grid.HeaderRows > doc.Grid.Rows {
		return docerr.Fail(docerr.Shape, nil, "headerRows %d out of range [0,%d]", doc.Grid.HeaderRows, doc.Grid.Rows)
	}
	if doc.Grid.ColumnSizes != nil && len(doc.Grid.ColumnSizes) != doc.Grid.Cols {
		return docerr.Fail(docerr.Shape, nil, "columnSizes length %d does not match cols %d", len(doc.Grid.ColumnSizes), doc.Grid.Cols)
	}

	seen := make(map[coord]bool, len(doc.Cells))
	type rect struct{ r1, c1, r2, c2 int }
	var rects []rect
	for _, c := range doc.Cells {
		if seen[coord{c.R, c.C}] {
			return docerr.Fail(docerr.Shape, map[string]any{"r": c.R, "c": c.C}, "duplicate leading cell at (%d,%d)", c.R, c.C)
		}
		seen[coord{c.R, c.C}] = true

		if c.R < 0 || c.C < 0 || c.R >= doc.Grid.Rows || c.C >= doc.Grid.Cols {
			return docerr.Fail(docerr.Bounds, map[string]any{"r": c.R, "c": c.C}, "cell origin (%d,%d) out of bounds", c.R, c.C)
		}
		if c.effRowSpan() < 1 || c.effColSpan() < 1 {
			return docerr.Fail(docerr.Shape, map[string]any{"r": c.R, "c": c.C}, "cell at (%d,%d) has a non-positive span", c.R, c.C)
		}
		if c.R+c.effRowSpan() > doc.Grid.Rows || c.C+c.effColSpan() > doc.Grid.Cols {
			return docerr.Fail(docerr.Bounds, map[string]any{"r": c.R, "c": c.C}, "cell at (%d,%d) spans outside the grid", c.R, c.C)
		}
		rects = append(rects, rect{c.R, c.C, c.Bottom(), c.Right()})
	}

	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i], rects[j]
			overlap := a.r1 <= b.r2 && b.r1 <= a.r2 && a.c1 <= b.c2 && b.c1 <= a.c2
			if overlap {
				return docerr.Fail(docerr.Geometry, map[string]any{"a": a, "b": b}, "leading cells at (%d,%d) and (%d,%d) overlap", a.r1, a.c1, b.r1, b.c1)
			}
		}
	}

	return docerr.Ok(nil)
}

// ApplyDocument replaces the Model's version/meta/grid/cells in place,
// preserving the Model's external identity (ID, bus). Malformed input is
// rejected without mutating the receiver.
func (m *Model) ApplyDocument(doc Document, opts ApplyOptions) docerr.Result {
	result := ValidateShape(doc)
	if !result.OK {
		return result
	}

	doc = normalizeDocument(doc)
	clone := cloneDocument(doc)

	m.mu.Lock()
	m.doc = clone
	m.rebuildIndex()
	m.mu.Unlock()

	if opts.EmitEvent {
		m.emit(events.StructureChange, events.StructureChangePayload{Type: events.StructureApplyDocument})
	}
	return docerr.Ok(nil)
}

// FromJSON constructs a new Model from a Document, validating its shape
// first. bus may be nil.
func FromJSON(doc Document, bus *eventbus.Bus) (*Model, docerr.Result) {
	if result := ValidateShape(doc); !result.OK {
		return nil, result
	}
	return New(doc, bus), docerr.Ok(nil)
}
