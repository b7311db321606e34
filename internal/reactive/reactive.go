// Package reactive provides observable values and event streams.
//
// Observers are called synchronously, in subscription order, on the
// goroutine that changed the value. Subscribing or unsubscribing from inside
// an observer is allowed; the change takes effect for the next delivery.
package reactive

import "sync"

// Subscription represents an active observer subscription.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe removes the observer. It is safe to call more than once and
// on a nil subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}

type entry[T any] struct {
	id uint64
	fn func(T)
}

// observers is an ordered observer list shared by Variable and EventStream.
type observers[T any] struct {
	mu      sync.Mutex
	entries []entry[T]
	nextID  uint64
}

func (o *observers[T]) add(fn func(T)) *Subscription {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.entries = append(o.entries, entry[T]{id: id, fn: fn})
	o.mu.Unlock()

	return &Subscription{cancel: func() { o.remove(id) }}
}

func (o *observers[T]) remove(id uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, e := range o.entries {
		if e.id == id {
			// Copy so that a delivery in progress keeps its snapshot intact.
			next := make([]entry[T], 0, len(o.entries)-1)
			next = append(next, o.entries[:i]...)
			o.entries = append(next, o.entries[i+1:]...)
			return
		}
	}
}

func (o *observers[T]) snapshot() []entry[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.entries
}

func (o *observers[T]) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

func (o *observers[T]) deliver(v T) {
	for _, e := range o.snapshot() {
		e.fn(v)
	}
}

// Lifetime collects subscriptions and releases them together.
type Lifetime struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Add registers subscriptions to release on Destroy.
func (l *Lifetime) Add(subs ...*Subscription) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subs = append(l.subs, subs...)
}

// Destroy unsubscribes everything added so far.
func (l *Lifetime) Destroy() {
	l.mu.Lock()
	subs := l.subs
	l.subs = nil
	l.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}
