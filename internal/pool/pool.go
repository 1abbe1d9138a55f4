// Package pool recycles reusable buffers, such as the association
// worker's batch accumulators.
package pool

// Buffer is the contract for pooled objects: they can be cleared for
// reuse.
type Buffer interface {
	Reset()
}

// Pool holds up to a fixed number of idle buffers. Get falls back to the
// constructor when none are idle, so callers always receive a usable
// buffer.
type Pool[T Buffer] struct {
	idle    chan T
	newItem func() T
}

// New creates a Pool keeping at most capacity idle buffers, constructing
// fresh ones with newItem on demand.
func New[T Buffer](capacity int, newItem func() T) *Pool[T] {
	return &Pool[T]{
		idle:    make(chan T, capacity),
		newItem: newItem,
	}
}

// Get returns an idle buffer, or a freshly constructed one.
func (p *Pool[T]) Get() T {
	select {
	case item := <-p.idle:
		return item
	default:
		return p.newItem()
	}
}

// Put resets the buffer and parks it for reuse. When capacity idle
// buffers are already parked, the buffer is discarded.
func (p *Pool[T]) Put(item T) {
	item.Reset()

	select {
	case p.idle <- item:
	default:
	}
}
