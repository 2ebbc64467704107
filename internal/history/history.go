// Package history implements spec.md §4.6's HistoryService and
// HistoryDebouncer: a bounded undo/redo stack with duplicate suppression,
// and a timer/batch-driven recorder that coalesces rapid edits into one
// snapshot.
package history

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/gridkit/tablecore/config"
	"github.com/gridkit/tablecore/internal/document"
)

// Snapshot is one recorded document state in the undo/redo stack.
type Snapshot struct {
	ID  string
	Doc document.Document
}

// Service is a bounded stack of Documents with a single undo/redo cursor.
// index is -1 when empty, otherwise points at the "current" entry.
type Service struct {
	mu      sync.Mutex
	limit   int
	stack   []Snapshot
	index   int
	suspend bool
}

// NewService builds a Service bounded to limit entries; limit<=0 uses
// config.DefaultHistoryLimit.
func NewService(limit int) *Service {
	if limit <= 0 {
		limit = config.DefaultHistoryLimit
	}
	return &Service{limit: limit, index: -1}
}

// Record takes model's current JSON snapshot and pushes it onto the stack,
// unless recording is suspended (mid-restore) or the snapshot is identical
// to the one at the cursor (duplicate suppression via stable JSON
// comparison — encoding/json preserves struct field order and sorts map
// keys, so Marshal output is deterministic for equal Documents). If the
// cursor isn't at the top, the redo tail is discarded first.
func (s *Service) Record(model *document.Model) {
	doc := model.ToJSON()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.suspend {
		return
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if s.index >= 0 {
		if top, err := json.Marshal(s.stack[s.index].Doc); err == nil && string(top) == string(encoded) {
			return
		}
	}

	if s.index < len(s.stack)-1 {
		s.stack = s.stack[:s.index+1]
	}

	s.stack = append(s.stack, Snapshot{ID: uuid.NewString(), Doc: doc})
	s.index = len(s.stack) - 1

	if len(s.stack) > s.limit {
		drop := len(s.stack) - s.limit
		s.stack = append([]Snapshot(nil), s.stack[drop:]...)
		s.index -= drop
	}
}

// CanUndo reports whether there is an earlier entry to move to.
func (s *Service) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index > 0
}

// CanRedo reports whether there is a later entry to move to.
func (s *Service) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index >= 0 && s.index < len(s.stack)-1
}

// Undo moves the cursor one entry back and returns the Document there,
// without applying it. ok is false if already at the oldest entry.
func (s *Service) Undo() (document.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index <= 0 {
		return document.Document{}, false
	}
	s.index--
	return s.stack[s.index].Doc, true
}

// Redo moves the cursor one entry forward and returns the Document there,
// without applying it. ok is false if already at the newest entry.
func (s *Service) Redo() (document.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 || s.index >= len(s.stack)-1 {
		return document.Document{}, false
	}
	s.index++
	return s.stack[s.index].Doc, true
}

// Restore sets the suspend flag, invokes applyFn(doc), then always clears
// the flag — the discipline that keeps applying an undo/redo result from
// recursively recording itself.
func (s *Service) Restore(applyFn func(document.Document), doc document.Document) {
	s.mu.Lock()
	s.suspend = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.suspend = false
		s.mu.Unlock()
	}()

	applyFn(doc)
}

// Len reports the current number of stack entries (test/inspection helper).
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stack)
}
