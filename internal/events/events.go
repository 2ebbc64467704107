// Package events defines the event names and payload shapes the document
// core emits on the shared eventbus.Bus, per spec.md §4.1. Centralizing
// them here keeps producers (document, merge, clipboard, selection) and
// consumers (telemetry, history debouncer) from disagreeing on shape.
package events

const (
	CellChange      = "cell:change"
	StructureChange = "structure:change"
	Paste           = "paste"
	Merge           = "merge"
	Split           = "split"
	SelectionChange = "selection:change"
	SelectionRange  = "selection:range"
	EditStart       = "edit:start"
	EditCommit      = "edit:commit"
	EditCancel      = "edit:cancel"
)

// CellChangeField names which facet of a cell changed.
type CellChangeField string

const (
	FieldValue   CellChangeField = "value"
	FieldClasses CellChangeField = "classes"
	FieldData    CellChangeField = "data"
)

// CellChangePayload is emitted for CellChange.
type CellChangePayload struct {
	R, C     int
	Field    CellChangeField
	OldValue any
	NewValue any
}

// StructureChangeType names which structural edit occurred.
type StructureChangeType string

const (
	StructureResize         StructureChangeType = "resize"
	StructureHeaderRows     StructureChangeType = "headerRows"
	StructureMeta           StructureChangeType = "meta"
	StructureApplyDocument  StructureChangeType = "applyDocument"
	StructureInsertRows     StructureChangeType = "insertRows"
	StructureInsertColumns  StructureChangeType = "insertColumns"
	StructureDeleteRows     StructureChangeType = "deleteRows"
	StructureDeleteColumns  StructureChangeType = "deleteColumns"
	StructureColumnSizes    StructureChangeType = "columnSizes"
	StructureImport         StructureChangeType = "import"
)

// StructureChangePayload is emitted for StructureChange.
type StructureChangePayload struct {
	Type  StructureChangeType
	Extra map[string]any
}

// PastePayload is emitted for Paste.
type PastePayload struct {
	StartR, StartC int
	Rows, Cols     int
	HTML           bool
}

// MergePayload is emitted for Merge.
type MergePayload struct {
	R1, C1, R2, C2 int
	RowSpan        int
	ColSpan        int
}

// SplitPayload is emitted for Split.
type SplitPayload struct {
	R, C           int
	RowSpan        int
	ColSpan        int
}

// SelectionChangePayload is emitted for SelectionChange.
type SelectionChangePayload struct {
	R, C int
	Cell any
}

// SelectionRangePayload is emitted for SelectionRange.
type SelectionRangePayload struct {
	R1, C1, R2, C2 int
	Cells          []any
}

// EditPayload is emitted for EditStart/EditCommit/EditCancel.
type EditPayload struct {
	R, C     int
	OldValue string
	NewValue *string
}
