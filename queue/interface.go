/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package queue provides the ordered collections the kernel schedules with:
// a plain FIFO queue, a key-ordered queue with stable insertion, and a
// multilevel queue whose dequeue rotates across levels.
//
// None of the types locks: callers serialize access through the scheduling
// discipline (interrupts disabled or a semaphore held as mutex).
package queue

// Queue is a FIFO sequence.
type Queue[T any] interface {
	// Enqueue appends item at the tail.
	Enqueue(item T)

	// Dequeue removes and returns the head, reporting whether one existed.
	Dequeue() (T, bool)

	// Peek returns the head without removing it.
	Peek() (T, bool)

	// Remove deletes the first item matching the predicate and reports
	// whether one was found.
	Remove(match func(T) bool) bool

	// Len returns the number of queued items.
	Len() int
}

// Sorted is a sequence ordered by a uint64 key, FIFO among equal keys.
type Sorted[T any] interface {
	// Insert places item in key order, after existing items with the same key.
	Insert(key uint64, item T)

	// Peek returns the smallest key and its item without removing them.
	Peek() (uint64, T, bool)

	// Dequeue removes and returns the smallest key and its item.
	Dequeue() (uint64, T, bool)

	// Remove deletes the first item matching the predicate and reports
	// whether one was found.
	Remove(match func(T) bool) bool

	// Len returns the number of queued items.
	Len() int
}

// MultiLevel is a vector of FIFO sequences. Dequeue and Peek search from a
// given level, wrapping around, so any non-empty level is always reachable.
type MultiLevel[T any] interface {
	// Levels returns the number of levels.
	Levels() int

	// Enqueue appends item at the tail of the given level.
	Enqueue(level int, item T) bool

	// Dequeue removes the head of the closest populated level at or after
	// the given one (wrapping) and returns that level and item.
	Dequeue(level int) (int, T, bool)

	// Peek is Dequeue without removal.
	Peek(level int) (int, T, bool)

	// Len returns the total number of items across all levels.
	Len() int
}

// New returns an empty FIFO queue.
func New[T any]() Queue[T] {
	return &fifo[T]{}
}

// NewSorted returns an empty key-ordered queue.
func NewSorted[T any]() Sorted[T] {
	return &srt[T]{}
}

// NewMultiLevel returns an empty multilevel queue with the given number of
// levels, or nil when levels is not positive.
func NewMultiLevel[T any](levels int) MultiLevel[T] {
	if levels < 1 {
		return nil
	}

	return &mlq[T]{
		q: make([][]T, levels),
	}
}
