// Package merge implements the pure merge/split operations described in
// spec.md §4.4, layered on document.Model's low-level rectangle primitives
// and internal/validate's geometry checks.
package merge

import (
	"strings"

	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/internal/events"
	"github.com/gridkit/tablecore/internal/validate"
	"github.com/gridkit/tablecore/pkg/docerr"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

// SplitMode selects which leading cells SplitAllInRange collects.
type SplitMode string

const (
	// SplitOverlap collects every leading cell whose rectangle overlaps the
	// range at all, including touching only at the border.
	SplitOverlap SplitMode = "overlap"
	// SplitFully collects only leading cells fully contained in the range.
	SplitFully SplitMode = "fully"
)

// Engine applies merge/split operations to a document.Model, emitting the
// events spec.md §4.1 defines for them.
type Engine struct {
	model *document.Model
	bus   *eventbus.Bus
}

// New builds an Engine over model. bus may be nil, in which case no merge,
// split or cell:change event is emitted for these operations
// (Model.ApplyMerge and Model.ApplySplit emit nothing themselves).
func New(model *document.Model, bus *eventbus.Bus) *Engine {
	return &Engine{model: model, bus: bus}
}

func (e *Engine) emit(name string, payload any) {
	if e.bus == nil {
		return
	}
	e.bus.Emit(name, payload)
}

// MergeRange normalizes (r1,c1)-(r2,c2), validates it defensively, and
// merges it into a single leading cell per spec.md §4.4: a 1x1 range, or a
// range lying inside one existing merge, is a no-op success; otherwise
// every non-empty trimmed value inside the
// rectangle is collected in row-major order and space-joined into the
// surviving leading cell.
func (e *Engine) MergeRange(r1, c1, r2, c2 int) docerr.Result {
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	if r1 == r2 && c1 == c2 {
		return docerr.Ok(nil)
	}

	if res := validate.ValidateMergeOperation(e.model, r1, c1, r2, c2); !res.OK {
		return res
	}
	if host, ok := e.model.CoveredBy(r1, c1); ok && host.Bottom() >= r2 && host.Right() >= c2 {
		return docerr.Ok(nil) // containment: already inside one merge
	}

	values := e.model.CollectRectValues(r1, c1, r2, c2)
	var joined *string
	if len(values) > 0 {
		s := strings.Join(values, " ")
		joined = &s
	}
	e.model.ApplyMerge(r1, c1, r2, c2, joined)

	if joined != nil {
		e.emit(events.CellChange, events.CellChangePayload{R: r1, C: c1, Field: events.FieldValue, NewValue: *joined})
	}
	e.emit(events.Merge, events.MergePayload{R1: r1, C1: c1, R2: r2, C2: c2, RowSpan: r2 - r1 + 1, ColSpan: c2 - c1 + 1})
	return docerr.Ok(nil)
}

// SplitCell resets the leading cell at (r,c) to a 1x1 span, creating an
// empty leading cell at every coordinate its former rectangle covered. A
// missing leading cell fails; an already-1x1 cell is a no-op success.
func (e *Engine) SplitCell(r, c int) docerr.Result {
	cell, ok := e.model.GetCell(r, c)
	if !ok {
		return docerr.Fail(docerr.Bounds, map[string]any{"r": r, "c": c}, "no leading cell at (%d,%d)", r, c)
	}
	if cell.Bottom() == r && cell.Right() == c {
		return docerr.Ok(nil)
	}

	bottom, right, ok := e.model.ApplySplit(r, c)
	if !ok {
		return docerr.Fail(docerr.Bounds, map[string]any{"r": r, "c": c}, "no leading cell at (%d,%d)", r, c)
	}
	e.emit(events.Split, events.SplitPayload{R: r, C: c, RowSpan: bottom - r + 1, ColSpan: right - c + 1})
	return docerr.Ok(nil)
}

// SplitAllInRange splits every leading cell selected by mode within
// (r1,c1)-(r2,c2), returning the count processed. The candidate set is
// snapshotted before any split runs so later splits in the same call never
// see a partially-mutated cell list.
func (e *Engine) SplitAllInRange(r1, c1, r2, c2 int, mode SplitMode) int {
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}

	processed := 0
	for _, cell := range e.model.LeadingCellsSnapshot() {
		selected := false
		switch mode {
		case SplitFully:
			selected = cell.R >= r1 && cell.Bottom() <= r2 && cell.C >= c1 && cell.Right() <= c2
		default: // SplitOverlap
			selected = cell.R <= r2 && r1 <= cell.Bottom() && cell.C <= c2 && c1 <= cell.Right()
		}
		if !selected {
			continue
		}
		if res := e.SplitCell(cell.R, cell.C); res.OK {
			processed++
		}
	}
	return processed
}
