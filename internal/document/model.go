// Package document implements the table document core: a rectangular grid
// of cells with rectangular merges, and the typed mutators that keep the
// invariants in spec.md §3 holding after every public operation.
package document

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gridkit/tablecore/pkg/eventbus"
)

// ColumnSize is the width hint for one column.
type ColumnSize struct {
	V float64 `json:"v"`
	U string  `json:"u"` // "px" | "ratio"
}

// DefaultColumnSize is used wherever a column's size has never been set.
var DefaultColumnSize = ColumnSize{V: 1, U: "ratio"}

// Grid carries the document's dimensions and optional column sizing.
type Grid struct {
	Rows        int          `json:"rows"`
	Cols        int          `json:"cols"`
	HeaderRows  int          `json:"headerRows"`
	ColumnSizes []ColumnSize `json:"columnSizes,omitempty"`
}

// Meta is free-form document metadata.
type Meta struct {
	Name       string `json:"name"`
	CreatedUtc string `json:"createdUtc,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Cell is a leading cell: the top-left corner of a merged rectangle, or a
// plain 1x1 cell. Covered coordinates are never stored; they're derived
// from leading cells at lookup time.
type Cell struct {
	R       int            `json:"r"`
	C       int            `json:"c"`
	Value   string         `json:"value"`
	RowSpan int            `json:"rowSpan,omitempty"`
	ColSpan int            `json:"colSpan,omitempty"`
	Classes []string       `json:"classes,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// effRowSpan/effColSpan normalize the omitted (zero) span to 1.
func (c Cell) effRowSpan() int {
	if c.RowSpan <= 0 {
		return 1
	}
	return c.RowSpan
}
func (c Cell) effColSpan() int {
	if c.ColSpan <= 0 {
		return 1
	}
	return c.ColSpan
}

// Bottom returns the last row index covered by c's rectangle.
func (c Cell) Bottom() int { return c.R + c.effRowSpan() - 1 }

// Right returns the last column index covered by c's rectangle.
func (c Cell) Right() int { return c.C + c.effColSpan() - 1 }

// IsEmpty reports whether c carries no observable content: no value, a
// trivial 1x1 span, no classes, no data. Such cells are dropped on
// serialization (spec.md §3 Lifecycle).
func (c Cell) IsEmpty() bool {
	return c.Value == "" && c.effRowSpan() == 1 && c.effColSpan() == 1 &&
		len(c.Classes) == 0 && len(c.Data) == 0
}

// Document is the wire schema (version 1) described in spec.md §3.
type Document struct {
	Version int    `json:"version"`
	Meta    Meta   `json:"meta"`
	Grid    Grid   `json:"grid"`
	Cells   []Cell `json:"cells"`
}

type coord struct{ r, c int }

// Model owns a Document and exposes typed mutators that emit events on a
// bus. It is the in-memory analogue of spec.md's TableModel.
type Model struct {
	ID  string
	bus *eventbus.Bus

	mu  sync.RWMutex
	doc Document
	// index maps (r,c) to the leading cell at that coordinate. Rebuilt
	// after every structural change; never exposed directly so the list
	// and the index cannot be observed out of sync (spec.md §9).
	index map[coord]*Cell
}

// New constructs a Model from doc, wired to bus for event emission. bus may
// be nil, in which case mutations are silent (useful in tests).
func New(doc Document, bus *eventbus.Bus) *Model {
	m := &Model{ID: uuid.NewString(), bus: bus}
	m.doc = normalizeDocument(doc)
	m.rebuildIndex()
	return m
}

// normalizeDocument fills in the defaults a freshly-constructed document
// needs: version, trimmed name, at least 1x1 grid.
func normalizeDocument(doc Document) Document {
	if doc.Version == 0 {
		doc.Version = 1
	}
	if doc.Grid.Rows <= 0 {
		doc.Grid.Rows = 1
	}
	if doc.Grid.Cols <= 0 {
		doc.Grid.Cols = 1
	}
	if doc.Grid.HeaderRows < 0 {
		doc.Grid.HeaderRows = 0
	}
	if doc.Grid.HeaderRows > doc.Grid.Rows {
		doc.Grid.HeaderRows = doc.Grid.Rows
	}
	doc.Meta.Name = strings.TrimSpace(doc.Meta.Name)
	return doc
}

func (m *Model) rebuildIndex() {
	idx := make(map[coord]*Cell, len(m.doc.Cells))
	for i := range m.doc.Cells {
		c := &m.doc.Cells[i]
		idx[coord{c.R, c.C}] = c
	}
	m.index = idx
}

func (m *Model) emit(name string, payload any) {
	if m.bus == nil {
		return
	}
	m.bus.Emit(name, payload)
}

// Rows returns the current grid row count.
func (m *Model) Rows() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Grid.Rows
}

// Cols returns the current grid column count.
func (m *Model) Cols() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Grid.Cols
}

// HeaderRows returns the current header row count.
func (m *Model) HeaderRows() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Grid.HeaderRows
}

// GetCell returns the leading cell at (r,c), if any. The boolean return is
// false both when the coordinate is out of bounds and when it's simply
// empty ground (no leading cell has been created there yet).
func (m *Model) GetCell(r, c int) (Cell, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cell, ok := m.index[coord{r, c}]
	if !ok {
		return Cell{}, false
	}
	return *cell, true
}

// CoveredBy returns the leading cell whose rectangle contains (r,c),
// whether or not (r,c) is itself the leading coordinate. The second
// return is false if (r,c) is out of bounds or ground (no cell covers it).
func (m *Model) CoveredBy(r, c int) (Cell, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.coveredByLocked(r, c)
}

func (m *Model) coveredByLocked(r, c int) (Cell, bool) {
	if r < 0 || c < 0 || r >= m.doc.Grid.Rows || c >= m.doc.Grid.Cols {
		return Cell{}, false
	}
	if cell, ok := m.index[coord{r, c}]; ok {
		return *cell, true
	}
	for _, cell := range m.index {
		if r >= cell.R && r <= cell.Bottom() && c >= cell.C && c <= cell.Right() {
			return *cell, true
		}
	}
	return Cell{}, false
}

// IsLeading reports whether (r,c) holds a stored leading cell (as opposed
// to being covered by one, or being ground).
func (m *Model) IsLeading(r, c int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.index[coord{r, c}]
	return ok
}

// Snapshot returns a deep copy of the current Document, suitable for
// handing to another goroutine or storing in history.
func (m *Model) Snapshot() Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneDocument(m.doc)
}

func cloneDocument(doc Document) Document {
	out := doc
	if doc.Grid.ColumnSizes != nil {
		out.Grid.ColumnSizes = append([]ColumnSize(nil), doc.Grid.ColumnSizes...)
	}
	out.Cells = make([]Cell, len(doc.Cells))
	for i, c := range doc.Cells {
		out.Cells[i] = cloneCell(c)
	}
	return out
}

func cloneCell(c Cell) Cell {
	out := c
	if c.Classes != nil {
		out.Classes = append([]string(nil), c.Classes...)
	}
	if c.Data != nil {
		out.Data = make(map[string]any, len(c.Data))
		for k, v := range c.Data {
			out.Data[k] = v
		}
	}
	return out
}
