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

package scheduler

import (
	liberr "github.com/nabbar/golib/errors"

	krnirq "github.com/nabbar/minikern/interrupt"
	krnmch "github.com/nabbar/minikern/machine"
)

type thread struct {
	i int
	b krnmch.StackBase
	t krnmch.StackTop
	s Status
	l int
	q int
}

func (o *thread) ID() int {
	return o.i
}

func (o *thread) Status() Status {
	return o.s
}

func (o *thread) Level() int {
	return o.l
}

// newThread allocates a thread with its stack, set up to run proc(arg) then
// the cleanup trampoline. The thread is enqueued at level 0 when asked to.
func (o *sched) newThread(proc Proc, arg interface{}, st Status, enqueue bool) (*thread, liberr.Error) {
	if proc == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	t := &thread{
		s: st,
		l: 0,
		q: initialQuanta[0],
	}

	t.b, t.t = o.m.AllocateStack()

	e := o.m.InitializeStack(t.t, func(a interface{}) {
		proc(a)
	}, arg, o.cleanup, nil)

	if e != nil {
		o.m.FreeStack(t.b)
		return nil, ErrorThreadCreate.Error(e)
	}

	l := o.c.SetLevel(krnirq.Disabled)

	t.i = o.ni
	o.ni++

	if enqueue {
		o.r.Enqueue(t.l, t)
	}

	o.c.SetLevel(l)

	return t, nil
}
