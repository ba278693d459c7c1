// Package queue provides bounded single-producer/single-consumer queues.
//
// A queue is created once and split into a Producer and a Consumer handle.
// Each handle is meant to be owned by exactly one goroutine. All operations
// are non-blocking.
package queue

import "errors"

// ErrQueueFull indicates the queue has no room and the value was dropped.
var ErrQueueFull = errors.New("queue full")

// Producer is the enqueueing end of a queue.
type Producer[T any] struct {
	ch chan T
}

// Consumer is the dequeueing end of a queue.
type Consumer[T any] struct {
	ch chan T
}

// New creates a queue with the given capacity and returns both handles.
// A capacity below 1 is treated as 1.
func New[T any](capacity int) (*Producer[T], *Consumer[T]) {
	if capacity < 1 {
		capacity = 1
	}
	ch := make(chan T, capacity)
	return &Producer[T]{ch: ch}, &Consumer[T]{ch: ch}
}

// Enqueue appends v, or returns ErrQueueFull without blocking.
func (p *Producer[T]) Enqueue(v T) error {
	select {
	case p.ch <- v:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len returns the number of queued values.
func (p *Producer[T]) Len() int { return len(p.ch) }

// Cap returns the capacity.
func (p *Producer[T]) Cap() int { return cap(p.ch) }

// Dequeue pops the oldest value if any.
func (c *Consumer[T]) Dequeue() (v T, ok bool) {
	select {
	case v = <-c.ch:
		ok = true
	default:
	}
	return
}

// Drain dequeues until the queue is empty, calling fn for each value.
// Values enqueued while draining may be included. It returns the number of
// values consumed.
func (c *Consumer[T]) Drain(fn func(T)) (n int) {
	for {
		v, ok := c.Dequeue()
		if !ok {
			return
		}
		fn(v)
		n++
	}
}

// Len returns the number of queued values.
func (c *Consumer[T]) Len() int { return len(c.ch) }

// Cap returns the capacity.
func (c *Consumer[T]) Cap() int { return cap(c.ch) }
