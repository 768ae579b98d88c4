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

package clock

import (
	"sync/atomic"
	"time"

	liberr "github.com/nabbar/golib/errors"

	krnirq "github.com/nabbar/minikern/interrupt"
	krnque "github.com/nabbar/minikern/queue"
)

type alm struct {
	t uint64
	f Handler
	a interface{}
	d bool
}

func (o *alm) Fired() bool {
	return o.d
}

func (o *alm) Deadline() uint64 {
	return o.t
}

type clk struct {
	t atomic.Uint64
	p time.Duration
	c krnirq.Controller
	q krnque.Sorted[*alm]
}

func (o *clk) Tick() uint64 {
	return o.t.Load()
}

func (o *clk) Period() time.Duration {
	return o.p
}

func (o *clk) Advance() uint64 {
	return o.t.Add(1)
}

func (o *clk) RunDue() {
	for {
		k, a, ok := o.q.Peek()
		if !ok || k > o.Tick() {
			return
		}

		o.q.Dequeue()
		a.d = true
		a.f(a.a)
	}
}

func (o *clk) Register(delay time.Duration, fn Handler, arg interface{}) (Alarm, liberr.Error) {
	if fn == nil || delay < 0 {
		return nil, ErrorParamEmpty.Error(nil)
	}

	n := uint64((delay + o.p/2) / o.p)
	if n < 1 {
		n = 1
	}

	a := &alm{
		f: fn,
		a: arg,
	}

	l := o.c.SetLevel(krnirq.Disabled)
	a.t = o.Tick() + n
	o.q.Insert(a.t, a)
	o.c.SetLevel(l)

	return a, nil
}

func (o *clk) Deregister(a Alarm) bool {
	v, k := a.(*alm)
	if !k || v == nil {
		return false
	}

	l := o.c.SetLevel(krnirq.Disabled)
	defer o.c.SetLevel(l)

	if o.q.Remove(func(i *alm) bool { return i == v }) {
		return false
	}

	return v.d
}

func (o *clk) Pending() int {
	return o.q.Len()
}
