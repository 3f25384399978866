package celeste

// EventHandle identifies a subscription. The zero handle is never issued.
type EventHandle uint64

type subscriber[T any] struct {
	id EventHandle
	fn func(T)
}

// Event is a multi-subscriber callback list carrying one argument.
// Invoke calls a snapshot of the subscribers taken before the first call, so
// subscribing or unsubscribing from inside a callback affects the next Invoke
// only.
type Event[T any] struct {
	subs   []subscriber[T]
	nextID EventHandle
}

// Subscribe appends fn and returns a handle for Unsubscribe.
// A nil fn is ignored and yields the zero handle.
func (e *Event[T]) Subscribe(fn func(T)) EventHandle {
	if fn == nil {
		return 0
	}
	e.nextID++
	e.subs = append(e.subs, subscriber[T]{id: e.nextID, fn: fn})
	return e.nextID
}

// Unsubscribe removes the subscription. It returns false if h is unknown.
func (e *Event[T]) Unsubscribe(h EventHandle) bool {
	for i := range e.subs {
		if e.subs[i].id == h {
			copy(e.subs[i:], e.subs[i+1:])
			e.subs[len(e.subs)-1] = subscriber[T]{}
			e.subs = e.subs[:len(e.subs)-1]
			return true
		}
	}
	return false
}

// UnsubscribeAll removes every subscription.
func (e *Event[T]) UnsubscribeAll() {
	clear(e.subs)
	e.subs = e.subs[:0]
}

// Len returns the number of subscriptions.
func (e *Event[T]) Len() int { return len(e.subs) }

// Invoke calls every subscriber in subscription order.
func (e *Event[T]) Invoke(arg T) {
	switch len(e.subs) {
	case 0:
		return
	case 1:
		e.subs[0].fn(arg)
		return
	}
	snapshot := make([]subscriber[T], len(e.subs))
	copy(snapshot, e.subs)
	for _, s := range snapshot {
		s.fn(arg)
	}
}

// Signal is an Event without an argument.
type Signal struct {
	ev Event[struct{}]
}

// Subscribe appends fn and returns a handle for Unsubscribe.
func (s *Signal) Subscribe(fn func()) EventHandle {
	if fn == nil {
		return 0
	}
	return s.ev.Subscribe(func(struct{}) { fn() })
}

// Unsubscribe removes the subscription. It returns false if h is unknown.
func (s *Signal) Unsubscribe(h EventHandle) bool { return s.ev.Unsubscribe(h) }

// UnsubscribeAll removes every subscription.
func (s *Signal) UnsubscribeAll() { s.ev.UnsubscribeAll() }

// Len returns the number of subscriptions.
func (s *Signal) Len() int { return s.ev.Len() }

// Invoke calls every subscriber in subscription order.
func (s *Signal) Invoke() { s.ev.Invoke(struct{}{}) }
