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
	liblog "github.com/nabbar/golib/logger"
	loglvl "github.com/nabbar/golib/logger/level"

	krnclk "github.com/nabbar/minikern/clock"
	krnirq "github.com/nabbar/minikern/interrupt"
	krnmch "github.com/nabbar/minikern/machine"
	krnque "github.com/nabbar/minikern/queue"
)

type sched struct {
	m krnmch.Machine
	c krnirq.Controller
	k krnclk.Clock

	r krnque.MultiLevel[*thread]
	z krnque.Queue[*thread]

	ti *thread // idle
	tr *thread // reaper
	tc *thread // running

	kb krnmch.StackBase
	kt krnmch.StackTop

	ni int // next thread id
	cl int // current level
	bg int // remaining level budget
	on bool

	lg liblog.FuncLog
}

func (o *sched) RegisterLogger(fct liblog.FuncLog) {
	o.lg = fct
}

func (o *sched) getLogger() liblog.Logger {
	if o.lg != nil {
		if l := o.lg(); l != nil {
			return l
		}
	}

	return liblog.GetDefault()
}

func (o *sched) Fork(proc Proc, arg interface{}) (Thread, liberr.Error) {
	return o.newThread(proc, arg, StatusReady, true)
}

func (o *sched) Create(proc Proc, arg interface{}) (Thread, liberr.Error) {
	return o.newThread(proc, arg, StatusWait, false)
}

func (o *sched) Start(t Thread) {
	v, k := t.(*thread)
	if !k || v == nil {
		panic("scheduler: start with nil thread")
	}

	if v.s == StatusRunning || v.s == StatusReady || v.s == StatusDone {
		return
	}

	v.s = StatusReady

	l := o.c.SetLevel(krnirq.Disabled)
	o.r.Enqueue(v.l, v)
	o.c.SetLevel(l)
}

func (o *sched) Self() Thread {
	if o.tc == nil {
		return nil
	}

	return o.tc
}

func (o *sched) ID() int {
	if o.tc == nil {
		return -1
	}

	return o.tc.i
}

func (o *sched) Ready() int {
	if o.r == nil {
		return 0
	}

	return o.r.Len()
}

// stopTo sets the running thread to the given status, optionally enqueues it,
// and switches to next. Interrupts must be disabled; the switch re-enables
// them on the restored thread.
func (o *sched) stopTo(st Status, q krnque.Queue[*thread], next *thread) {
	cur := o.tc

	if cur == nil || cur.s != StatusRunning || cur == next {
		panic("scheduler: inconsistent running thread on stop")
	}

	cur.s = st

	if q != nil {
		q.Enqueue(cur)
	}

	o.tc = next
	next.s = StatusRunning

	o.m.SwitchContext(cur.t, next.t)
}

func (o *sched) Stop() {
	if o.tc == o.ti || o.tc == o.tr {
		panic("scheduler: idle or reaper thread cannot stop")
	}

	o.c.SetLevel(krnirq.Disabled)

	next := o.ti

	if o.r.Len() > 0 {
		l, t, _ := o.r.Dequeue(o.cl)
		if l != o.cl {
			o.cl = l
			o.bg = levelBudget[l]
		}

		next = t
	}

	o.stopTo(StatusWait, nil, next)
}

func (o *sched) Yield() {
	o.c.Sync()

	old := o.c.SetLevel(krnirq.Disabled)

	cur := o.tc

	if cur == nil || cur.s != StatusRunning {
		panic("scheduler: yield without a running thread")
	}

	var next *thread

	if cur == o.ti || cur == o.tr {
		if o.r.Len() == 0 {
			if cur == o.tr {
				next = o.ti
			}
		} else {
			_, next, _ = o.r.Dequeue(o.cl)
		}
	} else {
		// quanta accounting for the running thread
		cur.q--
		if cur.q <= 0 {
			if cur.l < NumLevels-1 {
				cur.l++
			}

			cur.q = initialQuanta[cur.l]
		}

		// level budget accounting for the rotation
		o.bg--
		if o.bg <= 0 {
			o.cl = (o.cl + 1) % NumLevels
			o.bg = levelBudget[o.cl]
		}

		if o.r.Len() > 0 {
			nl, _, _ := o.r.Peek(o.cl)

			// the head preempts only when its level is hit first in the
			// rotation order starting from the current level
			lv := o.cl
			for lv != cur.l && lv != nl {
				lv = (lv + 1) % NumLevels
			}

			if lv == nl {
				_, next, _ = o.r.Dequeue(o.cl)
			}
		}
	}

	if next == nil {
		o.c.SetLevel(old)
		return
	}

	cur.s = StatusReady

	if cur != o.ti && cur != o.tr {
		o.r.Enqueue(cur.l, cur)
	}

	next.s = StatusRunning
	o.tc = next

	o.m.SwitchContext(cur.t, next.t)
}

func (o *sched) TickHandler() {
	o.k.Advance()
	o.k.RunDue()
	o.Yield()
}

func (o *sched) logDebug(msg string) {
	o.getLogger().Entry(loglvl.DebugLevel, msg).Log()
}
