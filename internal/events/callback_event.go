// Package events provides a small typed pub/sub primitive used to push
// state snapshots to observers.
package events

import (
	"slices"
	"sync"
)

// CallbackEvent fans a value of type T out to registered callbacks.
type CallbackEvent[T any] struct {
	mu        sync.RWMutex
	listeners map[uint64]func(T)
	nextID    uint64
	replay    bool
	last      *T
}

// NewCallbackEvent creates a CallbackEvent. When replayLast is true a new
// listener is immediately called with the most recent notified value, if any.
func NewCallbackEvent[T any](replayLast bool) *CallbackEvent[T] {
	return &CallbackEvent[T]{
		listeners: make(map[uint64]func(T)),
		replay:    replayLast,
	}
}

// Listen registers a callback and returns a function that removes it.
func (e *CallbackEvent[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("callback cannot be nil")
	}

	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = callback
	var last *T
	if e.replay && e.last != nil {
		v := *e.last
		last = &v
	}
	e.mu.Unlock()

	// Outside the lock so the callback may call back into the event.
	if last != nil {
		callback(*last)
	}

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// Notify calls every registered callback with value, in registration order.
func (e *CallbackEvent[T]) Notify(value T) {
	e.mu.Lock()
	if e.replay {
		v := value
		e.last = &v
	}
	ids := make([]uint64, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	callbacks := make(map[uint64]func(T), len(e.listeners))
	for id, cb := range e.listeners {
		callbacks[id] = cb
	}
	e.mu.Unlock()

	slices.Sort(ids)
	for _, id := range ids {
		callbacks[id](value)
	}
}

// ListenerCount returns the number of registered listeners.
func (e *CallbackEvent[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
