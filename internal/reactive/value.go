package reactive

// Source is anything a watcher can track. Value implements it.
type Source interface {
	onChange(fn func()) (unsubscribe func())
}

type subscriber[T comparable] struct {
	id int
	fn func(old, new T)
}

// Value is a reactive cell. Set notifies subscribers only when the value actually changes.
// A Value is not safe for concurrent use: mutate it from the loop goroutine and have other
// goroutines post their updates to the loop.
type Value[T comparable] struct {
	v      T
	subs   []subscriber[T]
	nextID int
}

// New returns a Value holding v.
func New[T comparable](v T) *Value[T] {
	return &Value[T]{v: v}
}

// Get returns the current value.
func (rv *Value[T]) Get() T {
	return rv.v
}

// Set stores v and notifies subscribers in subscription order. Equal values are ignored.
func (rv *Value[T]) Set(v T) {
	if rv.v == v {
		return
	}
	old := rv.v
	rv.v = v
	// Copy so a subscriber may unsubscribe (or subscribe) while we iterate.
	subs := make([]subscriber[T], len(rv.subs))
	copy(subs, rv.subs)
	for _, s := range subs {
		s.fn(old, v)
	}
}

// Update sets the value to fn(current).
func (rv *Value[T]) Update(fn func(T) T) {
	rv.Set(fn(rv.v))
}

// Subscribe registers fn to be called with the old and new value after each change.
// The returned function removes the subscription; calling it more than once is harmless.
func (rv *Value[T]) Subscribe(fn func(old, new T)) (unsubscribe func()) {
	id := rv.nextID
	rv.nextID++
	rv.subs = append(rv.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, s := range rv.subs {
			if s.id == id {
				rv.subs = append(rv.subs[:i:i], rv.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (rv *Value[T]) Subscribers() int {
	return len(rv.subs)
}

func (rv *Value[T]) onChange(fn func()) func() {
	return rv.Subscribe(func(_, _ T) { fn() })
}
