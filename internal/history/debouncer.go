package history

import (
	"sync"
	"time"

	"github.com/gridkit/tablecore/config"
	"github.com/gridkit/tablecore/internal/document"
	"github.com/gridkit/tablecore/pkg/eventbus"
)

// Debouncer coalesces rapid model changes into a single Service.Record
// call: schedule() (re)starts a delay timer, and expiration or a bus
// batch:flush both trigger a record. Grounded on workbooks.Manager's
// ticker-driven background loop for the timer lifecycle discipline.
type Debouncer struct {
	mu      sync.Mutex
	service *Service
	model   *document.Model
	delay   time.Duration
	timer   *time.Timer
	pending bool
}

// NewDebouncer builds a Debouncer that records model into service. delay<=0
// uses config.DefaultDebounceDelay. If bus is non-nil, the debouncer also
// subscribes to eventbus.BatchFlush and records immediately on delivery.
func NewDebouncer(service *Service, model *document.Model, delay time.Duration, bus *eventbus.Bus) *Debouncer {
	if delay <= 0 {
		delay = config.DefaultDebounceDelay
	}
	d := &Debouncer{service: service, model: model, delay: delay}
	if bus != nil {
		bus.On(eventbus.BatchFlush, func(any) { d.Flush() })
	}
	return d
}

// Schedule (re)starts the delay timer; a call while one is already pending
// resets it rather than stacking a second one.
func (d *Debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if !d.pending {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.mu.Unlock()
		d.service.Record(d.model)
	})
}

// Flush forces immediate recording if a schedule is pending; a no-op
// otherwise. Used for both the explicit API and the batch:flush reaction.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.service.Record(d.model)
}

// Cancel discards any pending schedule without recording.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
