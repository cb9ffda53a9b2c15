package replication

import "log"

// Listener receives the previous and new value of a cell, in that order.
type Listener[T any] func(old, new T)

// Value is a single-writer replicated cell. The authority mutates it with
// Set; observer nodes ingest snapshot state with ApplyRemote. Both paths
// notify subscribers synchronously, exactly once per change, in the order
// the changes were applied on this node.
//
// Values are confined to the owning node's tick loop and are not safe for
// concurrent use; router callbacks must queue work for the tick instead of
// touching cells directly.
type Value[T comparable] struct {
	ctx  *Context
	name string

	value     T
	listeners []listenerEntry[T]
	nextID    int
}

type listenerEntry[T comparable] struct {
	id int
	fn Listener[T]
}

// NewValue creates a cell bound to the given session context. The initial
// value is visible to reads but does not fire listeners.
func NewValue[T comparable](ctx *Context, name string, initial T) *Value[T] {
	return &Value[T]{ctx: ctx, name: name, value: initial}
}

func (v *Value[T]) Get() T {
	return v.value
}

// Set mutates the cell. Callable only on the authority; elsewhere it is a
// no-op with a diagnostic. Setting the current value again is not a change
// and fires no notification.
func (v *Value[T]) Set(next T) {
	if !v.ctx.IsAuthority() {
		log.Printf("[replication] ignored non-authority write to %q (role=%s)", v.name, v.ctx.Role())
		return
	}
	v.apply(next)
}

// ApplyRemote ingests an authority-replicated value on an observer node.
// Full snapshots re-deliver unchanged state every sync, so an identical
// value is ignored; listeners fire only on actual changes, preserving the
// authority's issue order (the transport is ordered per entity stream).
// A late joiner's first snapshot carries the current value, so its first
// observation is the live state rather than a diff from an unseen baseline.
func (v *Value[T]) ApplyRemote(next T) {
	v.apply(next)
}

func (v *Value[T]) apply(next T) {
	if next == v.value {
		return
	}
	old := v.value
	v.value = next

	// Dispatch over a copy: subscribing or unsubscribing from inside a
	// listener during this change is documented undefined, but must not
	// corrupt the registry.
	entries := make([]listenerEntry[T], len(v.listeners))
	copy(entries, v.listeners)
	for _, e := range entries {
		e.fn(old, next)
	}
}

// Subscribe registers a change listener and returns a token for
// Unsubscribe. Listeners must not register or deregister other listeners
// on the same cell from within their callback.
func (v *Value[T]) Subscribe(fn Listener[T]) int {
	v.nextID++
	v.listeners = append(v.listeners, listenerEntry[T]{id: v.nextID, fn: fn})
	return v.nextID
}

func (v *Value[T]) Unsubscribe(id int) {
	for i, e := range v.listeners {
		if e.id == id {
			v.listeners = append(v.listeners[:i], v.listeners[i+1:]...)
			return
		}
	}
}
