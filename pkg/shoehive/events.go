package shoehive

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// listener is one registration. Handlers are matched by registration,
// not by function value, so the same func may be registered twice.
type listener struct {
	handler Handler
}

type pendingEvent struct {
	name    string
	payload any
}

// eventTable maps event names to ordered listener lists and serializes delivery.
//
// emit never runs handlers concurrently: the first emitter drains the queue
// and later emitters (including handlers emitting re-entrantly) only enqueue.
type eventTable struct {
	logger *slog.Logger

	mu        sync.Mutex
	listeners map[string][]*listener
	queue     []pendingEvent
	draining  bool
}

func newEventTable(logger *slog.Logger) *eventTable {
	return &eventTable{
		logger:    logger,
		listeners: make(map[string][]*listener),
	}
}

// on appends h and returns a func that removes exactly this registration.
func (t *eventTable) on(event string, h Handler) func() {
	l := &listener{handler: h}

	t.mu.Lock()
	t.listeners[event] = append(t.listeners[event], l)
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		list := t.listeners[event]
		if i := slices.Index(list, l); i >= 0 {
			list = slices.Delete(list, i, i+1)
		}
		if len(list) == 0 {
			delete(t.listeners, event)
		} else {
			t.listeners[event] = list
		}
	}
}

// count returns the number of listeners registered for event.
func (t *eventTable) count(event string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners[event])
}

// emit queues an event and, unless another goroutine is already draining,
// delivers all queued events in order.
func (t *eventTable) emit(event string, payload any) {
	t.mu.Lock()
	t.queue = append(t.queue, pendingEvent{name: event, payload: payload})
	if t.draining {
		t.mu.Unlock()
		return
	}
	t.draining = true

	for len(t.queue) > 0 {
		ev := t.queue[0]
		t.queue[0] = pendingEvent{}
		t.queue = t.queue[1:]
		snapshot := slices.Clone(t.listeners[ev.name])
		t.mu.Unlock()

		for _, l := range snapshot {
			t.invoke(ev, l)
		}

		t.mu.Lock()
	}

	t.queue = nil
	t.draining = false
	t.mu.Unlock()
}

// invoke runs one handler, isolating panics.
func (t *eventTable) invoke(ev pendingEvent, l *listener) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("event handler panicked",
				"event", ev.name,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	l.handler(ev.payload)
}
