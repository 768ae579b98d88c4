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

package semaphore

import (
	krnirq "github.com/nabbar/minikern/interrupt"
	krnque "github.com/nabbar/minikern/queue"
	krnsch "github.com/nabbar/minikern/scheduler"
)

type sem struct {
	s krnsch.Scheduler
	c krnirq.Controller
	n int
	q krnque.Queue[krnsch.Thread]
}

func (o *sem) Init(count int) {
	if count < 0 {
		panic("semaphore: initialize with negative count")
	}

	l := o.c.SetLevel(krnirq.Disabled)
	o.n = count
	o.c.SetLevel(l)
}

func (o *sem) P() {
	o.c.Sync()

	if o.n < 0 {
		panic("semaphore: P before initialize")
	}

	l := o.c.SetLevel(krnirq.Disabled)

	if o.n > 0 {
		o.n--
		o.c.SetLevel(l)
		return
	}

	o.q.Enqueue(o.s.Self())

	// Stop switches away with interrupts still disabled; the context switch
	// re-enables them on the next thread.
	o.s.Stop()
}

func (o *sem) V() {
	o.c.Sync()

	if o.n < 0 {
		panic("semaphore: V before initialize")
	}

	l := o.c.SetLevel(krnirq.Disabled)

	if o.q.Len() == 0 {
		o.n++
	} else if t, k := o.q.Dequeue(); k {
		o.s.Start(t)
	}

	o.c.SetLevel(l)
}

func (o *sem) Count() int {
	return o.n
}

func (o *sem) Waiting() int {
	return o.q.Len()
}
