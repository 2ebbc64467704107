package clipboard

import (
	"strings"

	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/internal/events"
	"github.com/gridkit/tablecore/internal/merge"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

// Engine applies parsed clipboard content into a document.Model. It shares
// its merge primitives with internal/merge rather than filtering the cell
// list ad hoc, so a pasted table's spans are applied the same way a manual
// merge is.
type Engine struct {
	model *document.Model
	bus   *eventbus.Bus
	merge *merge.Engine
}

// NewEngine builds a paste Engine over model. bus may be nil.
func NewEngine(model *document.Model, bus *eventbus.Bus) *Engine {
	return &Engine{model: model, bus: bus, merge: merge.New(model, bus)}
}

func (e *Engine) emit(name string, payload any) {
	if e.bus == nil {
		return
	}
	e.bus.Emit(name, payload)
}

// ApplyPaste writes a plain string matrix into model starting at
// (startR,startC), growing the grid to fit first. Every value is trimmed.
// Emits paste.
func (e *Engine) ApplyPaste(startR, startC int, matrix [][]string) {
	if len(matrix) == 0 {
		return
	}
	maxCols := 0
	for _, row := range matrix {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	e.model.EnsureSize(startR+len(matrix), startC+maxCols)

	for i, row := range matrix {
		for j, value := range row {
			e.model.SetCellValue(startR+i, startC+j, strings.TrimSpace(value))
		}
	}

	e.emit(events.Paste, events.PastePayload{StartR: startR, StartC: startC, Rows: len(matrix), Cols: maxCols})
}

// ApplyHTMLTablePaste writes a ParsedTable into model at (startR,startC).
// Any merges already occupying the destination rectangle are split first
// (via the same MergeEngine used for manual splits) so no stale merge
// survives the paste; the parsed table's own spans are then assigned
// directly as new merges. Emits paste with HTML:true. A failed parse
// (Success:false) is a no-op.
func (e *Engine) ApplyHTMLTablePaste(startR, startC int, parsed ParsedTable) {
	if !parsed.Success || parsed.Rows == 0 {
		return
	}

	e.model.EnsureSize(startR+parsed.Rows, startC+parsed.Cols)

	endR := startR + parsed.Rows - 1
	endC := startC + parsed.Cols - 1
	if parsed.Cols > 0 {
		e.merge.SplitAllInRange(startR, startC, endR, endC, merge.SplitOverlap)

		for r := startR; r <= endR; r++ {
			for c := startC; c <= endC; c++ {
				e.model.SetCellValue(r, c, "")
			}
		}
	}

	for _, cell := range parsed.Cells {
		r, c := startR+cell.R, startC+cell.C
		value := cell.Value
		if cell.RowSpan > 1 || cell.ColSpan > 1 {
			e.model.ApplyMerge(r, c, r+cell.RowSpan-1, c+cell.ColSpan-1, &value)
		} else {
			e.model.SetCellValue(r, c, value)
		}
	}

	e.emit(events.Paste, events.PastePayload{StartR: startR, StartC: startC, Rows: parsed.Rows, Cols: parsed.Cols, HTML: true})
}
