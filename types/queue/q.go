package queue

import "github.com/ef-ds/deque"

// Q is a generic double-ended queue supporting both stack and queue operations.
// All operations are O(1) amortized.
type Q[T any] struct {
	d *deque.Deque
}

// New creates a new Q, optionally seeded with items in queue order
func New[T any](items ...T) *Q[T] {
	q := &Q[T]{d: deque.New()}
	for _, item := range items {
		q.d.PushBack(item)
	}
	return q
}

// Stack Operations

// Push adds an item to the top of the stack (stack behavior)
func (q *Q[T]) Push(item T) {
	q.d.PushBack(item)
}

// Pop removes and returns the top item from the stack (stack behavior)
func (q *Q[T]) Pop() (T, bool) {
	return cast[T](q.d.PopBack())
}

// Peek returns the top item from the stack without removing it
func (q *Q[T]) Peek() (T, bool) {
	return cast[T](q.d.Back())
}

// Queue Operations

// Enqueue adds an item to the end of the queue (queue behavior)
func (q *Q[T]) Enqueue(item T) {
	q.d.PushBack(item)
}

// Dequeue removes and returns the first item from the queue (queue behavior)
func (q *Q[T]) Dequeue() (T, bool) {
	return cast[T](q.d.PopFront())
}

// Front returns the first item of the queue without removing it
func (q *Q[T]) Front() (T, bool) {
	return cast[T](q.d.Front())
}

// PushFront puts items back at the head of the queue so that the first of items
// is the next one to be dequeued
func (q *Q[T]) PushFront(items ...T) {
	for i := len(items) - 1; i >= 0; i-- {
		q.d.PushFront(items[i])
	}
}

// Utility Methods

// Len returns the number of items in the Q
func (q *Q[T]) Len() int {
	return q.d.Len()
}

// Clear removes all items
func (q *Q[T]) Clear() {
	q.d.Init()
}

// Drain dequeues every remaining item and returns them in queue order
func (q *Q[T]) Drain() []T {
	items := make([]T, 0, q.d.Len())
	for {
		item, ok := q.Dequeue()
		if !ok {
			return items
		}
		items = append(items, item)
	}
}

func cast[T any](v interface{}, ok bool) (T, bool) {
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}
