// Package telemetry wires structured logging onto the document core's
// eventbus.Bus. It is intentionally minimal; metrics backends can be
// added later under this package.
package telemetry

import (
	"github.com/rs/zerolog"

	"github.com/gridkit/tablecore/internal/events"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

// Hooks subscribes a zerolog.Logger to every document-core event name and
// emits one structured line per delivery.
type Hooks struct {
	logger zerolog.Logger
}

// NewHooks constructs a Hooks instance with the provided logger.
func NewHooks(logger zerolog.Logger) *Hooks {
	return &Hooks{logger: logger}
}

// Attach registers a handler for every event name the document core emits,
// plus the bus's synthetic batch:flush. Calling it twice on the same bus
// double-logs, since eventbus.Bus keeps separate handler slots per
// registration.
func (h *Hooks) Attach(bus *eventbus.Bus) {
	bus.On(events.CellChange, h.onCellChange)
	bus.On(events.StructureChange, h.onStructureChange)
	bus.On(events.Paste, h.onPaste)
	bus.On(events.Merge, h.onMerge)
	bus.On(events.Split, h.onSplit)
	bus.On(events.SelectionChange, h.onSelectionChange)
	bus.On(events.SelectionRange, h.onSelectionRange)
	bus.On(events.EditStart, h.onEdit("edit started"))
	bus.On(events.EditCommit, h.onEdit("edit committed"))
	bus.On(events.EditCancel, h.onEdit("edit cancelled"))
	bus.On(eventbus.BatchFlush, h.onBatchFlush)
}

func (h *Hooks) onCellChange(payload any) {
	p, ok := payload.(events.CellChangePayload)
	if !ok {
		return
	}
	h.logger.Info().
		Int("r", p.R).Int("c", p.C).
		Str("field", string(p.Field)).
		Interface("old_value", p.OldValue).
		Interface("new_value", p.NewValue).
		Msg("cell changed")
}

func (h *Hooks) onStructureChange(payload any) {
	p, ok := payload.(events.StructureChangePayload)
	if !ok {
		return
	}
	h.logger.Info().
		Str("type", string(p.Type)).
		Interface("extra", p.Extra).
		Msg("structure changed")
}

func (h *Hooks) onPaste(payload any) {
	p, ok := payload.(events.PastePayload)
	if !ok {
		return
	}
	h.logger.Info().
		Int("start_r", p.StartR).Int("start_c", p.StartC).
		Int("rows", p.Rows).Int("cols", p.Cols).
		Bool("html", p.HTML).
		Msg("paste applied")
}

func (h *Hooks) onMerge(payload any) {
	p, ok := payload.(events.MergePayload)
	if !ok {
		return
	}
	h.logger.Info().
		Int("r1", p.R1).Int("c1", p.C1).Int("r2", p.R2).Int("c2", p.C2).
		Int("row_span", p.RowSpan).Int("col_span", p.ColSpan).
		Msg("cells merged")
}

func (h *Hooks) onSplit(payload any) {
	p, ok := payload.(events.SplitPayload)
	if !ok {
		return
	}
	h.logger.Info().
		Int("r", p.R).Int("c", p.C).
		Int("row_span", p.RowSpan).Int("col_span", p.ColSpan).
		Msg("cell split")
}

func (h *Hooks) onSelectionChange(payload any) {
	p, ok := payload.(events.SelectionChangePayload)
	if !ok {
		return
	}
	h.logger.Debug().Int("r", p.R).Int("c", p.C).Msg("selection changed")
}

func (h *Hooks) onSelectionRange(payload any) {
	p, ok := payload.(events.SelectionRangePayload)
	if !ok {
		return
	}
	h.logger.Debug().
		Int("r1", p.R1).Int("c1", p.C1).Int("r2", p.R2).Int("c2", p.C2).
		Int("cells", len(p.Cells)).
		Msg("selection range updated")
}

func (h *Hooks) onEdit(msg string) eventbus.Handler {
	return func(payload any) {
		p, ok := payload.(events.EditPayload)
		if !ok {
			return
		}
		evt := h.logger.Debug().Int("r", p.R).Int("c", p.C).Str("old_value", p.OldValue)
		if p.NewValue != nil {
			evt = evt.Str("new_value", *p.NewValue)
		}
		evt.Msg(msg)
	}
}

func (h *Hooks) onBatchFlush(payload any) {
	p, ok := payload.(eventbus.FlushPayload)
	if !ok {
		return
	}
	h.logger.Debug().Int("buffered_event_count", p.BufferedEventCount).Msg("batch flushed")
}
