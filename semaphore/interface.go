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

// Package semaphore provides the kernel's counting semaphores.
//
// A semaphore is created with a sentinel count of -1 and must be initialized
// to a non-negative value before use; using one uninitialized aborts, since
// such a bug cannot be recovered safely in a shared-state kernel. The
// scheduler is the only mutator of thread state: P blocks through Stop, V
// wakes through Start, and waiters resume in FIFO order. Initialized to 1, a
// semaphore is the kernel's mutex.
package semaphore

import (
	krnirq "github.com/nabbar/minikern/interrupt"
	krnque "github.com/nabbar/minikern/queue"
	krnsch "github.com/nabbar/minikern/scheduler"
)

// Sem is a counting semaphore.
type Sem interface {
	// Init sets the count to a non-negative value. It must be called once
	// before the first P or V.
	Init(count int)

	// P decrements the count when positive, otherwise blocks the calling
	// thread until a V hands it the processor.
	P()

	// V wakes the oldest waiter when one exists, otherwise increments the
	// count. Safe from interrupt handlers: it never blocks.
	V()

	// Count returns the current count.
	Count() int

	// Waiting returns the number of blocked threads.
	Waiting() int
}

// New returns an uninitialized semaphore bound to the given scheduler and
// interrupt controller.
func New(s krnsch.Scheduler, c krnirq.Controller) Sem {
	if s == nil || c == nil {
		return nil
	}

	return &sem{
		s: s,
		c: c,
		n: -1,
		q: krnque.New[krnsch.Thread](),
	}
}
