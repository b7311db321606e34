package reactive

import "sync"

// Variable holds a current value and notifies observers when it changes.
type Variable[T comparable] struct {
	mu        sync.RWMutex
	value     T
	observers observers[T]
}

// NewVariable creates a variable holding initial.
func NewVariable[T comparable](initial T) *Variable[T] {
	return &Variable[T]{value: initial}
}

// Current returns the stored value.
func (v *Variable[T]) Current() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set stores value and notifies observers. Nothing happens when value equals
// the stored one. Set reports whether the value changed.
func (v *Variable[T]) Set(value T) bool {
	v.mu.Lock()
	if v.value == value {
		v.mu.Unlock()
		return false
	}
	v.value = value
	v.mu.Unlock()

	v.observers.deliver(value)
	return true
}

// Value calls fn with the current value, then with every later change.
func (v *Variable[T]) Value(fn func(T)) *Subscription {
	sub := v.observers.add(fn)
	fn(v.Current())
	return sub
}

// Changes calls fn with every later change only.
func (v *Variable[T]) Changes(fn func(T)) *Subscription {
	return v.observers.add(fn)
}

// Observers returns the number of active subscriptions.
func (v *Variable[T]) Observers() int {
	return v.observers.count()
}
