// Package selection implements spec.md §4.7's SelectionEngine: a single
// selected cell, an optional rectangular range, and merge-aware keyboard
// navigation over a document.Model.
package selection

import (
	"sync"

	"github.com/gridkit/tablecore/config"
	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/internal/events"
	"github.com/gridkit/tablecore/pkg/docerr"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

// Direction is a keyboard navigation direction.
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Coord is a grid coordinate.
type Coord struct{ R, C int }

// Range is a normalized rectangular selection (r1<=r2, c1<=c2).
type Range struct{ R1, C1, R2, C2 int }

// Engine holds selection state over a single document.Model.
type Engine struct {
	mu      sync.Mutex
	model   *document.Model
	bus     *eventbus.Bus
	maxHops int

	selected    *Coord
	rangeAnchor *Coord
	rangeActive *Coord
	rangeMode   bool
}

// New builds an Engine over model. bus may be nil.
func New(model *document.Model, bus *eventbus.Bus) *Engine {
	return &Engine{model: model, bus: bus, maxHops: config.DefaultMaxNavigationHops}
}

func (e *Engine) emit(name string, payload any) {
	if e.bus == nil {
		return
	}
	e.bus.Emit(name, payload)
}

// checkSelectable reports whether (r,c) is a valid selection/range-anchor
// target: in bounds, and either a leading cell or plain ground — not a
// coordinate covered by someone else's merge.
func (e *Engine) checkSelectable(r, c int) docerr.Result {
	if r < 0 || c < 0 || r >= e.model.Rows() || c >= e.model.Cols() {
		return docerr.Fail(docerr.Bounds, map[string]any{"r": r, "c": c}, "coordinate (%d,%d) out of bounds", r, c)
	}
	if e.model.IsLeading(r, c) {
		return docerr.Ok(nil)
	}
	if _, covered := e.model.CoveredBy(r, c); covered {
		return docerr.Fail(docerr.Covered, map[string]any{"r": r, "c": c}, "cannot select covered coordinate (%d,%d)", r, c)
	}
	return docerr.Ok(nil)
}

// Select moves the single-cell selection to (r,c). A covered (non-leading)
// coordinate is rejected; the caller should select the merge's leading
// cell instead. A plain ground coordinate (no cell stored there at all) is
// a valid selection target. Clears any in-progress range. Emits
// selection:change.
func (e *Engine) Select(r, c int) docerr.Result {
	if res := e.checkSelectable(r, c); !res.OK {
		return res
	}

	e.mu.Lock()
	e.selected = &Coord{r, c}
	e.rangeMode = false
	e.rangeAnchor = nil
	e.rangeActive = nil
	e.mu.Unlock()

	cell, _ := e.model.GetCell(r, c)
	e.emit(events.SelectionChange, events.SelectionChangePayload{R: r, C: c, Cell: cell})
	return docerr.Ok(nil)
}

// StartRange begins a drag-range gesture anchored at (r,c).
func (e *Engine) StartRange(r, c int) docerr.Result {
	if res := e.checkSelectable(r, c); !res.OK {
		return res
	}
	e.mu.Lock()
	e.rangeAnchor = &Coord{r, c}
	e.rangeActive = &Coord{r, c}
	e.rangeMode = true
	e.mu.Unlock()
	return docerr.Ok(nil)
}

// UpdateRange moves the active end of an in-progress range to (r,c).
// Emits selection:range.
func (e *Engine) UpdateRange(r, c int) docerr.Result {
	e.mu.Lock()
	if e.rangeAnchor == nil {
		e.mu.Unlock()
		return docerr.Fail(docerr.Argument, nil, "no active range")
	}
	e.rangeActive = &Coord{r, c}
	anchor, active := *e.rangeAnchor, *e.rangeActive
	e.mu.Unlock()

	e.emit(events.SelectionRange, e.rangePayload(anchor, active))
	return docerr.Ok(nil)
}

// CommitRange ends the drag gesture, keeping the range as the current
// selection (rangeMode stays true with anchor/active as last set).
func (e *Engine) CommitRange() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rangeMode = e.rangeAnchor != nil && e.rangeActive != nil
}

// CancelRange aborts an in-progress drag gesture, discarding anchor/active
// entirely (e.g. on Escape mid-drag).
func (e *Engine) CancelRange() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rangeAnchor = nil
	e.rangeActive = nil
	e.rangeMode = false
}

// ClearRange drops a previously committed range, returning to a plain
// single-cell selection (e.g. once an operation has consumed the range).
func (e *Engine) ClearRange() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rangeAnchor = nil
	e.rangeActive = nil
	e.rangeMode = false
}

// GetRange returns the normalized current range, or ok=false if none.
func (e *Engine) GetRange() (Range, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rangeAnchor == nil || e.rangeActive == nil {
		return Range{}, false
	}
	return normalizeRange(*e.rangeAnchor, *e.rangeActive), true
}

// Selected returns the current single-cell selection, or ok=false if none.
func (e *Engine) Selected() (Coord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == nil {
		return Coord{}, false
	}
	return *e.selected, true
}

// HasRange reports whether a range is active and spans more than one cell.
func (e *Engine) HasRange() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.rangeMode || e.rangeAnchor == nil || e.rangeActive == nil {
		return false
	}
	return *e.rangeAnchor != *e.rangeActive
}

// SelectFullRow sets a range spanning the entire row r and selects its
// leftmost cell. Emits selection:range.
func (e *Engine) SelectFullRow(r int) docerr.Result {
	cols := e.model.Cols()
	if cols <= 0 {
		return docerr.Fail(docerr.Bounds, map[string]any{"r": r}, "grid has no columns")
	}
	anchor, active := Coord{r, 0}, Coord{r, cols - 1}
	e.mu.Lock()
	e.rangeAnchor, e.rangeActive, e.rangeMode = &anchor, &active, true
	e.selected = &anchor
	e.mu.Unlock()
	e.emit(events.SelectionRange, e.rangePayload(anchor, active))
	return docerr.Ok(nil)
}

// SelectFullColumn sets a range spanning the entire column c and selects
// its topmost cell. Emits selection:range.
func (e *Engine) SelectFullColumn(c int) docerr.Result {
	rows := e.model.Rows()
	if rows <= 0 {
		return docerr.Fail(docerr.Bounds, map[string]any{"c": c}, "grid has no rows")
	}
	anchor, active := Coord{0, c}, Coord{rows - 1, c}
	e.mu.Lock()
	e.rangeAnchor, e.rangeActive, e.rangeMode = &anchor, &active, true
	e.selected = &anchor
	e.mu.Unlock()
	e.emit(events.SelectionRange, e.rangePayload(anchor, active))
	return docerr.Ok(nil)
}

// MoveSelection navigates from the current selection in dir and lands the
// single-cell selection there, clearing any range. Fails if there is no
// current selection or navigation runs off the grid.
func (e *Engine) MoveSelection(dir Direction) docerr.Result {
	e.mu.Lock()
	cur := e.selected
	e.mu.Unlock()
	if cur == nil {
		return docerr.Fail(docerr.Argument, nil, "no current selection to move from")
	}

	nr, nc, ok := e.navigate(cur.R, cur.C, dir)
	if !ok {
		return docerr.Fail(docerr.Bounds, map[string]any{"dir": dir}, "navigation %s from (%d,%d) ran off the grid", dir, cur.R, cur.C)
	}
	return e.Select(nr, nc)
}

// ExtendRange grows the active range in dir, keeping the anchor fixed. If
// no range is active, it is initialized from the current selection first.
// Emits selection:range.
func (e *Engine) ExtendRange(dir Direction) docerr.Result {
	e.mu.Lock()
	if e.rangeAnchor == nil {
		if e.selected == nil {
			e.mu.Unlock()
			return docerr.Fail(docerr.Argument, nil, "no current selection to extend from")
		}
		anchor := *e.selected
		e.rangeAnchor = &anchor
		e.rangeActive = &anchor
		e.rangeMode = true
	}
	active := *e.rangeActive
	e.mu.Unlock()

	nr, nc, ok := e.navigate(active.R, active.C, dir)
	if !ok {
		return docerr.Fail(docerr.Bounds, map[string]any{"dir": dir}, "range extend %s from (%d,%d) ran off the grid", dir, active.R, active.C)
	}

	e.mu.Lock()
	e.rangeActive = &Coord{nr, nc}
	anchor := *e.rangeAnchor
	e.mu.Unlock()

	e.emit(events.SelectionRange, e.rangePayload(anchor, Coord{nr, nc}))
	return docerr.Ok(nil)
}

func (e *Engine) rangePayload(anchor, active Coord) events.SelectionRangePayload {
	rng := normalizeRange(anchor, active)
	var cells []any
	for r := rng.R1; r <= rng.R2; r++ {
		for c := rng.C1; c <= rng.C2; c++ {
			if cell, ok := e.model.GetCell(r, c); ok {
				cells = append(cells, cell)
			}
		}
	}
	return events.SelectionRangePayload{R1: rng.R1, C1: rng.C1, R2: rng.R2, C2: rng.C2, Cells: cells}
}

func normalizeRange(a, b Coord) Range {
	r1, r2 := a.R, b.R
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	c1, c2 := a.C, b.C
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	return Range{r1, c1, r2, c2}
}

// navigate implements spec.md §4.7's merge-aware navigation: from (r,c) in
// dir, land on the first non-covered coordinate, jumping past the current
// cell's own merge rectangle when the initial step lands back inside it.
// The loop is bounded by maxHops rather than recursing.
func (e *Engine) navigate(r, c int, dir Direction) (int, int, bool) {
	rows, cols := e.model.Rows(), e.model.Cols()

	tr, tc := step(r, c, dir)
	if outOfBounds(tr, tc, rows, cols) {
		return 0, 0, false
	}

	for hop := 0; hop < e.maxHops; hop++ {
		if e.model.IsLeading(tr, tc) {
			return tr, tc, true
		}
		covering, found := e.model.CoveredBy(tr, tc)
		if !found {
			return tr, tc, true
		}
		if covering.R != r || covering.C != c {
			return covering.R, covering.C, true
		}
		tr, tc = jumpPast(tr, tc, covering, dir)
		if outOfBounds(tr, tc, rows, cols) {
			return 0, 0, false
		}
	}
	return 0, 0, false
}

func step(r, c int, dir Direction) (int, int) {
	switch dir {
	case Up:
		return r - 1, c
	case Down:
		return r + 1, c
	case Left:
		return r, c - 1
	case Right:
		return r, c + 1
	}
	return r, c
}

// jumpPast moves past cell's rectangle in dir, preserving the coordinate
// perpendicular to the movement axis.
func jumpPast(tr, tc int, cell document.Cell, dir Direction) (int, int) {
	switch dir {
	case Up:
		return cell.R - 1, tc
	case Down:
		return cell.Bottom() + 1, tc
	case Left:
		return tr, cell.C - 1
	case Right:
		return tr, cell.Right() + 1
	}
	return tr, tc
}

func outOfBounds(r, c, rows, cols int) bool {
	return r < 0 || c < 0 || r >= rows || c >= cols
}
