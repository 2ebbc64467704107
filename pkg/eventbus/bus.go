// Package eventbus implements a synchronous, single-threaded publish/
// subscribe bus with reference-counted pause/resume batching, the
// coordination channel between the document core's mutators and any
// external observer (history debouncer, telemetry, a UI layer).
package eventbus

import (
	"fmt"
	"os"
	"reflect"
	"sync"
)

// Handler receives a payload emitted under name.
type Handler func(payload any)

// Bus is a pausable, synchronous pub/sub dispatcher. The zero value is not
// usable; construct with New.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]Handler
	pauseN   int
	buffer   []buffered
}

type buffered struct {
	name    string
	payload any
}

// New constructs an empty Bus.
func New() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// On registers handler for name. Handlers are invoked in registration order.
func (b *Bus) On(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Off removes the first handler registered for name whose underlying
// function matches handler (compared by code pointer via reflect, the
// same approach most minimal Go event-bus implementations use since func
// values aren't otherwise comparable).
func (b *Bus) Off(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	target := reflect.ValueOf(handler).Pointer()
	list := b.handlers[name]
	for i, h := range list {
		if reflect.ValueOf(h).Pointer() == target {
			b.handlers[name] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Emit delivers payload to every handler registered for name. While the
// bus is paused, the payload is buffered instead and delivered in order on
// Resume.
func (b *Bus) Emit(name string, payload any) {
	b.mu.Lock()
	if b.pauseN > 0 {
		b.buffer = append(b.buffer, buffered{name: name, payload: payload})
		b.mu.Unlock()
		return
	}
	handlers := b.snapshotHandlers(name)
	b.mu.Unlock()
	b.deliver(name, payload, handlers)
}

// Pause increments the pause refcount. While the count is > 0, Emit
// buffers instead of delivering.
func (b *Bus) Pause() {
	b.mu.Lock()
	b.pauseN++
	b.mu.Unlock()
}

// Resume decrements the pause refcount. On the transition to 0, every
// buffered payload is flushed in original emission order, then a
// synthetic "batch:flush" event carries the total buffered count.
func (b *Bus) Resume() {
	b.mu.Lock()
	if b.pauseN == 0 {
		b.mu.Unlock()
		return
	}
	b.pauseN--
	if b.pauseN > 0 {
		b.mu.Unlock()
		return
	}
	pending := b.buffer
	b.buffer = nil
	b.mu.Unlock()

	for _, ev := range pending {
		b.mu.Lock()
		handlers := b.snapshotHandlers(ev.name)
		b.mu.Unlock()
		b.deliver(ev.name, ev.payload, handlers)
	}

	b.mu.Lock()
	flushHandlers := b.snapshotHandlers(BatchFlush)
	b.mu.Unlock()
	b.deliver(BatchFlush, FlushPayload{BufferedEventCount: len(pending)}, flushHandlers)
}

// Batch pauses the bus, runs fn, and resumes the bus even if fn panics.
func (b *Bus) Batch(fn func()) {
	b.Pause()
	defer b.Resume()
	fn()
}

// snapshotHandlers must be called with b.mu held; it returns a copy so
// delivery can run without the lock (handlers may re-enter the bus).
func (b *Bus) snapshotHandlers(name string) []Handler {
	src := b.handlers[name]
	if len(src) == 0 {
		return nil
	}
	out := make([]Handler, len(src))
	copy(out, src)
	return out
}

// deliver invokes every handler for an event, isolating panics so one bad
// handler never blocks delivery to its peers.
func (b *Bus) deliver(name string, payload any, handlers []Handler) {
	for _, h := range handlers {
		b.invoke(name, payload, h)
	}
}

func (b *Bus) invoke(name string, payload any, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "eventbus: handler for %q panicked: %v\n", name, r)
		}
	}()
	h(payload)
}

// BatchFlush is the synthetic event name delivered after every completed
// batch, strictly after all buffered payloads for that batch.
const BatchFlush = "batch:flush"

// FlushPayload is the payload carried by BatchFlush.
type FlushPayload struct {
	BufferedEventCount int
}
