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

type mlq[T any] struct {
	q [][]T
	n int
}

func (o *mlq[T]) Levels() int {
	return len(o.q)
}

func (o *mlq[T]) Enqueue(level int, item T) bool {
	if level < 0 || level >= len(o.q) {
		return false
	}

	o.q[level] = append(o.q[level], item)
	o.n++

	return true
}

// find returns the closest populated level at or after the given one,
// wrapping around, or -1 when the queue is empty.
func (o *mlq[T]) find(level int) int {
	if o.n == 0 || level < 0 || level >= len(o.q) {
		return -1
	}

	for i := 0; i < len(o.q); i++ {
		l := (level + i) % len(o.q)
		if len(o.q[l]) > 0 {
			return l
		}
	}

	return -1
}

func (o *mlq[T]) Dequeue(level int) (int, T, bool) {
	var z T

	l := o.find(level)
	if l < 0 {
		return -1, z, false
	}

	i := o.q[l][0]
	o.q[l][0] = z
	o.q[l] = o.q[l][1:]
	o.n--

	return l, i, true
}

func (o *mlq[T]) Peek(level int) (int, T, bool) {
	var z T

	l := o.find(level)
	if l < 0 {
		return -1, z, false
	}

	return l, o.q[l][0], true
}

func (o *mlq[T]) Len() int {
	return o.n
}
