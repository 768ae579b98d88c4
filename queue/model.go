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

package queue

type fifo[T any] struct {
	s []T
}

func (o *fifo[T]) Enqueue(item T) {
	o.s = append(o.s, item)
}

func (o *fifo[T]) Dequeue() (T, bool) {
	var z T

	if len(o.s) == 0 {
		return z, false
	}

	i := o.s[0]
	o.s[0] = z
	o.s = o.s[1:]

	return i, true
}

func (o *fifo[T]) Peek() (T, bool) {
	var z T

	if len(o.s) == 0 {
		return z, false
	}

	return o.s[0], true
}

func (o *fifo[T]) Remove(match func(T) bool) bool {
	if match == nil {
		return false
	}

	for i := range o.s {
		if match(o.s[i]) {
			o.s = append(o.s[:i], o.s[i+1:]...)
			return true
		}
	}

	return false
}

func (o *fifo[T]) Len() int {
	return len(o.s)
}

type srtItem[T any] struct {
	k uint64
	v T
}

type srt[T any] struct {
	s []srtItem[T]
}

func (o *srt[T]) Insert(key uint64, item T) {
	i := len(o.s)

	for i > 0 && o.s[i-1].k > key {
		i--
	}

	o.s = append(o.s, srtItem[T]{})
	copy(o.s[i+1:], o.s[i:])
	o.s[i] = srtItem[T]{
		k: key,
		v: item,
	}
}

func (o *srt[T]) Peek() (uint64, T, bool) {
	var z T

	if len(o.s) == 0 {
		return 0, z, false
	}

	return o.s[0].k, o.s[0].v, true
}

func (o *srt[T]) Dequeue() (uint64, T, bool) {
	var z T

	if len(o.s) == 0 {
		return 0, z, false
	}

	i := o.s[0]
	o.s[0] = srtItem[T]{}
	o.s = o.s[1:]

	return i.k, i.v, true
}

func (o *srt[T]) Remove(match func(T) bool) bool {
	if match == nil {
		return false
	}

	for i := range o.s {
		if match(o.s[i].v) {
			o.s = append(o.s[:i], o.s[i+1:]...)
			return true
		}
	}

	return false
}

func (o *srt[T]) Len() int {
	return len(o.s)
}
