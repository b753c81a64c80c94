package utils

import (
	"iter"

	"github.com/oomph-ac/locomotion/oerror"
)

// RingBuffer is a fixed-capacity buffer that overwrites its oldest element once full.
type RingBuffer[T any] struct {
	items []T
	head  int
	size  int
}

// NewRingBuffer returns a RingBuffer able to hold capacity elements. It returns an error if the
// capacity is not positive.
func NewRingBuffer[T any](capacity int) (*RingBuffer[T], error) {
	if capacity <= 0 {
		return nil, oerror.New("ringBuffer: capacity must be positive, got %d", capacity)
	}
	return &RingBuffer[T]{items: make([]T, capacity)}, nil
}

// Push appends an item, dropping the oldest one if the buffer is full.
func (b *RingBuffer[T]) Push(item T) {
	tail := (b.head + b.size) % len(b.items)
	b.items[tail] = item
	if b.size == len(b.items) {
		b.head = (b.head + 1) % len(b.items)
		return
	}
	b.size++
}

// At returns the element at logical position index (0 = oldest).
func (b *RingBuffer[T]) At(index int) (T, bool) {
	var zero T
	if index < 0 || index >= b.size {
		return zero, false
	}
	return b.items[(b.head+index)%len(b.items)], true
}

// Latest returns the most recently pushed element.
func (b *RingBuffer[T]) Latest() (T, bool) {
	return b.At(b.size - 1)
}

// All iterates the buffer from oldest to newest.
func (b *RingBuffer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range b.size {
			if !yield(b.items[(b.head+index)%len(b.items)]) {
				return
			}
		}
	}
}

// Len returns the amount of elements currently held.
func (b *RingBuffer[T]) Len() int {
	return b.size
}

// Cap returns the maximum number of elements the buffer can hold.
func (b *RingBuffer[T]) Cap() int {
	return len(b.items)
}

// Reset empties the buffer without releasing its storage.
func (b *RingBuffer[T]) Reset() {
	clear(b.items)
	b.head, b.size = 0, 0
}
