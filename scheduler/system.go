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
	"time"

	liberr "github.com/nabbar/golib/errors"
	loglvl "github.com/nabbar/golib/logger/level"

	krnirq "github.com/nabbar/minikern/interrupt"
	krnque "github.com/nabbar/minikern/queue"
)

func (o *sched) Run(main Proc, arg interface{}) liberr.Error {
	if main == nil {
		return ErrorParamEmpty.Error(nil)
	} else if o.on {
		return ErrorAlreadyStarted.Error(nil)
	}

	o.r = krnque.NewMultiLevel[*thread](NumLevels)
	o.z = krnque.New[*thread]()
	o.ni = 0
	o.cl = 0
	o.bg = levelBudget[0]

	var (
		e  liberr.Error
		tm *thread
	)

	if o.tr, e = o.newThread(o.reaperProc, nil, StatusReady, false); e != nil {
		return e
	} else if o.ti, e = o.newThread(o.idleProc, nil, StatusReady, false); e != nil {
		return e
	} else if tm, e = o.newThread(main, arg, StatusReady, false); e != nil {
		return e
	}

	o.kb, o.kt = o.m.AllocateStack()

	o.tc = tm
	tm.s = StatusRunning
	o.on = true

	o.getLogger().Entry(loglvl.InfoLevel, "scheduler started").FieldAdd("tick.period", o.k.Period().String()).Log()

	o.m.SwitchContext(o.kt, tm.t)

	o.on = false
	o.getLogger().Entry(loglvl.InfoLevel, "scheduler halted").FieldAdd("tick.count", o.k.Tick()).Log()

	return nil
}

func (o *sched) Halt() {
	if !o.on || o.tc == nil {
		return
	}

	o.c.SetLevel(krnirq.Disabled)
	o.m.SwitchContext(o.tc.t, o.kt)
}

// cleanup is the trampoline every thread body falls into when it returns:
// mark the thread finished, hand it to the zombie queue and switch to the
// reaper.
func (o *sched) cleanup(_ interface{}) {
	o.c.SetLevel(krnirq.Disabled)
	o.stopTo(StatusDone, o.z, o.tr)
}

func (o *sched) reaperProc(_ interface{}) {
	for {
		l := o.c.SetLevel(krnirq.Disabled)

		for o.z.Len() > 0 {
			if t, k := o.z.Dequeue(); k {
				o.m.FreeStack(t.b)
			}
		}

		o.c.SetLevel(l)
		o.Yield()
	}
}

func (o *sched) idleProc(_ interface{}) {
	for {
		o.c.Wait()
		o.Yield()
	}
}

func (o *sched) SleepWithTimeout(delay time.Duration) liberr.Error {
	o.c.Sync()

	_, e := o.k.Register(delay, func(a interface{}) {
		if t, k := a.(*thread); k {
			o.Start(t)
		}
	}, o.tc)

	if e != nil {
		return ErrorAlarmRegister.Error(e)
	}

	o.Stop()

	return nil
}
