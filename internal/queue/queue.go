// Package queue holds records waiting for a batched database write.
package queue

import (
	"sync"
)

// Queue is a generic thread-safe FIFO.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// New creates a new empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
	}
}

// Push appends items to the queue.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
}

// Requeue puts items back at the head of the queue, ahead of anything pushed since
// they were taken. Used after a failed write so ordering survives the retry.
func (q *Queue[T]) Requeue(items ...T) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(append(make([]T, 0, len(items)+len(q.items)), items...), q.items...)
}

// Pop removes and returns the first item. ok is false when the queue is empty.
func (q *Queue[T]) Pop() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return item, false
	}
	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Empty returns true if the queue has no items.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Len returns the number of items in the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Take removes and returns up to n items from the head. n <= 0 takes everything.
func (q *Queue[T]) Take(n int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n <= 0 || n >= len(q.items) {
		result := q.items
		q.items = make([]T, 0, cap(q.items))
		return result
	}
	result := make([]T, n)
	copy(result, q.items[:n])
	q.items = q.items[n:]
	return result
}

// GetAndEmpty returns all items and clears the queue.
func (q *Queue[T]) GetAndEmpty() []T {
	return q.Take(0)
}
