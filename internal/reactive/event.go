package reactive

// EventStream delivers fired values to observers. It keeps no state.
type EventStream[T any] struct {
	observers observers[T]
}

// NewEventStream creates an empty stream.
func NewEventStream[T any]() *EventStream[T] {
	return &EventStream[T]{}
}

// Fire delivers v to every observer.
func (e *EventStream[T]) Fire(v T) {
	e.observers.deliver(v)
}

// Events calls fn for every later event.
func (e *EventStream[T]) Events(fn func(T)) *Subscription {
	return e.observers.add(fn)
}

// EventsStartingWith calls fn with initial, then for every later event.
func (e *EventStream[T]) EventsStartingWith(initial T, fn func(T)) *Subscription {
	sub := e.observers.add(fn)
	fn(initial)
	return sub
}

// Observers returns the number of active subscriptions.
func (e *EventStream[T]) Observers() int {
	return e.observers.count()
}
