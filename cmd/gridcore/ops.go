package main

import (
	"time"

	"github.com/gridkit/tablecore/internal/clipboard"
	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/internal/history"
	"github.com/gridkit/tablecore/internal/merge"
	"github.com/gridkit/tablecore/internal/registry"
	"github.com/gridkit/tablecore/internal/runtime"
	"github.com/gridkit/tablecore/internal/selection"
	"github.com/gridkit/tablecore/pkg/docerr"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

// Operation is one entry in an ops script file: a tagged union decoded
// from JSON, dispatched by environment.apply.
type Operation struct {
	Type string `json:"type"`

	R, C       int `json:"r,omitempty"`
	R1, C1     int `json:"r1,omitempty"`
	R2, C2     int `json:"r2,omitempty"`
	Index      int `json:"index,omitempty"`
	Count      int `json:"count,omitempty"`
	ColumnSize int `json:"columnIndex,omitempty"`

	Value      string         `json:"value,omitempty"`
	Classes    []string       `json:"classes,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	Dir        string         `json:"dir,omitempty"`
	Matrix     [][]string     `json:"matrix,omitempty"`
	HTML       string         `json:"html,omitempty"`
	SplitMode  string         `json:"splitMode,omitempty"`
	ColumnSpec string         `json:"columnSpec,omitempty"`
	HeaderRows int            `json:"headerRows,omitempty"`
}

// environment bundles every document-core component over a single model,
// the way a host UI would hold one of these per open document.
type environment struct {
	model            *document.Model
	bus              *eventbus.Bus
	registry         registry.Registry
	controller       *runtime.Controller
	mergeEngine      *merge.Engine
	clipboardEngine  *clipboard.Engine
	historyService   *history.Service
	historyDebouncer *history.Debouncer
	selectionEngine  *selection.Engine
}

func newEnvironment(model *document.Model, bus *eventbus.Bus, reg registry.Registry, controller *runtime.Controller, historyLimit int, debounceDelay time.Duration) *environment {
	historyService := history.NewService(historyLimit)
	env := &environment{
		model:            model,
		bus:              bus,
		registry:         reg,
		controller:       controller,
		mergeEngine:      merge.New(model, bus),
		clipboardEngine:  clipboard.NewEngine(model, bus),
		historyService:   historyService,
		historyDebouncer: history.NewDebouncer(historyService, model, debounceDelay, bus),
		selectionEngine:  selection.New(model, bus),
	}
	historyService.Record(model) // baseline snapshot before any op runs
	return env
}

// apply dispatches a single Operation. Mutating operations schedule a
// history snapshot afterward; navigation-only operations do not.
func (e *environment) apply(op Operation) docerr.Result {
	switch op.Type {
	case "setCellValue":
		e.model.SetCellValue(op.R, op.C, op.Value)
		e.historyDebouncer.Schedule()
		return docerr.Ok(nil)

	case "setCellClasses":
		e.model.SetCellClasses(op.R, op.C, op.Classes)
		e.historyDebouncer.Schedule()
		return docerr.Ok(nil)

	case "setCellData":
		e.model.SetCellData(op.R, op.C, op.Data)
		e.historyDebouncer.Schedule()
		return docerr.Ok(nil)

	case "merge":
		res := e.mergeEngine.MergeRange(op.R1, op.C1, op.R2, op.C2)
		if res.OK {
			e.historyDebouncer.Schedule()
		}
		return res

	case "split":
		res := e.mergeEngine.SplitCell(op.R, op.C)
		if res.OK {
			e.historyDebouncer.Schedule()
		}
		return res

	case "splitRange":
		mode := merge.SplitOverlap
		if op.SplitMode == "fully" {
			mode = merge.SplitFully
		}
		e.mergeEngine.SplitAllInRange(op.R1, op.C1, op.R2, op.C2, mode)
		e.historyDebouncer.Schedule()
		return docerr.Ok(nil)

	case "pasteMatrix":
		e.clipboardEngine.ApplyPaste(op.R, op.C, op.Matrix)
		e.historyDebouncer.Schedule()
		return docerr.Ok(nil)

	case "pasteHTML":
		parsed := clipboard.ParseHTMLTable(op.HTML)
		e.clipboardEngine.ApplyHTMLTablePaste(op.R, op.C, parsed)
		e.historyDebouncer.Schedule()
		return docerr.Ok(nil)

	case "insertRows":
		res := e.model.InsertRows(op.Index, op.Count)
		if res.OK {
			e.historyDebouncer.Schedule()
		}
		return res

	case "insertColumns":
		res := e.model.InsertColumns(op.Index, op.Count)
		if res.OK {
			e.historyDebouncer.Schedule()
		}
		return res

	case "deleteRows":
		res := e.model.DeleteRows(op.Index, op.Count)
		if res.OK {
			e.historyDebouncer.Schedule()
		}
		return res

	case "deleteColumns":
		res := e.model.DeleteColumns(op.Index, op.Count)
		if res.OK {
			e.historyDebouncer.Schedule()
		}
		return res

	case "setHeaderRows":
		e.model.SetHeaderRows(op.HeaderRows)
		e.historyDebouncer.Schedule()
		return docerr.Ok(nil)

	case "setColumnSize":
		e.model.SetColumnSize(op.ColumnSize, op.ColumnSpec)
		e.historyDebouncer.Schedule()
		return docerr.Ok(nil)

	case "select":
		return e.selectionEngine.Select(op.R, op.C)

	case "startRange":
		return e.selectionEngine.StartRange(op.R, op.C)

	case "updateRange":
		return e.selectionEngine.UpdateRange(op.R, op.C)

	case "commitRange":
		e.selectionEngine.CommitRange()
		return docerr.Ok(nil)

	case "cancelRange":
		e.selectionEngine.CancelRange()
		return docerr.Ok(nil)

	case "clearRange":
		e.selectionEngine.ClearRange()
		return docerr.Ok(nil)

	case "selectFullRow":
		return e.selectionEngine.SelectFullRow(op.R)

	case "selectFullColumn":
		return e.selectionEngine.SelectFullColumn(op.C)

	case "moveSelection":
		return e.selectionEngine.MoveSelection(selection.Direction(op.Dir))

	case "extendRange":
		return e.selectionEngine.ExtendRange(selection.Direction(op.Dir))

	case "undo":
		return e.applyHistoryMove(e.historyService.Undo)

	case "redo":
		return e.applyHistoryMove(e.historyService.Redo)

	case "batch":
		e.bus.Pause()
		e.bus.Resume()
		return docerr.Ok(nil)

	default:
		return docerr.Fail(docerr.Argument, map[string]any{"type": op.Type}, "unknown operation type %q", op.Type)
	}
}

func (e *environment) applyHistoryMove(move func() (document.Document, bool)) docerr.Result {
	doc, ok := move()
	if !ok {
		return docerr.Fail(docerr.Argument, nil, "no history entry available")
	}
	e.historyService.Restore(func(d document.Document) {
		e.model.ApplyDocument(d, document.DefaultApplyOptions())
	}, doc)
	return docerr.Ok(nil)
}
