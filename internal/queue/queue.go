// Package queue provides a growable FIFO ring buffer.
package queue

import "errors"

// ErrOverflow is returned when the queue cannot double its capacity.
var ErrOverflow = errors.New("queue: capacity overflow")

const maxCap = 1 << 31

// Queue is a circular buffer whose capacity is always a power of two.
// head and tail are free-running counters; positions are taken modulo the
// capacity, so wraparound needs no special casing on push or pop.
type Queue[T any] struct {
	data []T
	head uint32
	tail uint32
}

// New returns a queue with the given initial capacity, rounded up to a
// power of two.
func New[T any](capacity int) *Queue[T] {
	c := 1
	for c < capacity && c < maxCap {
		c <<= 1
	}
	return &Queue[T]{data: make([]T, c)}
}

// Len reports the number of queued elements.
func (q *Queue[T]) Len() int { return int(q.tail - q.head) }

// Cap reports the current capacity.
func (q *Queue[T]) Cap() int { return len(q.data) }

// Push appends v, growing the buffer when full.
func (q *Queue[T]) Push(v T) error {
	if len(q.data) == 0 {
		q.data = make([]T, 1)
	} else if int(q.tail-q.head) == len(q.data) {
		if err := q.grow(); err != nil {
			return err
		}
	}
	q.data[q.tail&q.mask()] = v
	q.tail++
	return nil
}

// Pop removes the oldest element. ok is false when the queue is empty.
func (q *Queue[T]) Pop() (v T, ok bool) {
	if q.tail == q.head {
		return v, false
	}
	v = q.data[q.head&q.mask()]
	q.head++
	return v, true
}

func (q *Queue[T]) mask() uint32 { return uint32(len(q.data) - 1) }

func (q *Queue[T]) grow() error {
	if len(q.data) >= maxCap {
		return ErrOverflow
	}
	ndata := make([]T, len(q.data)<<1)

	size := int(q.tail - q.head)
	head := int(q.head & q.mask())
	n := copy(ndata, q.data[head:])
	if n < size {
		copy(ndata[n:], q.data[:size-n])
	}

	q.data = ndata
	q.head = 0
	q.tail = uint32(size)
	return nil
}
