// Bounded FIFO windows back every "keep the last K" memory in the
// model: bid history, profit history, peer observations, market
// intelligence. The cap is hard; pushing onto a full window evicts the
// oldest entry.
package agents

// Window is a fixed-capacity FIFO of the most recent values.
type Window[T any] struct {
	cap    int
	values []T
}

// NewWindow creates a window holding at most capacity values.
func NewWindow[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{cap: capacity}
}

// Push appends v, evicting the oldest value once the cap is exceeded.
func (w *Window[T]) Push(v T) {
	w.values = append(w.values, v)
	if len(w.values) > w.cap {
		w.values = w.values[1:]
	}
}

// Values returns the retained values, oldest first. The returned slice
// is the window's backing store; callers must not mutate it.
func (w *Window[T]) Values() []T {
	return w.values
}

// Len returns the number of retained values.
func (w *Window[T]) Len() int {
	return len(w.values)
}

// Cap returns the hard capacity.
func (w *Window[T]) Cap() int {
	return w.cap
}

// Last returns the most recent value and whether one exists.
func (w *Window[T]) Last() (T, bool) {
	var zero T
	if len(w.values) == 0 {
		return zero, false
	}
	return w.values[len(w.values)-1], true
}
