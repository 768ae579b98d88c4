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

// Package scheduler drives lightweight kernel threads over the machine's
// stack-switching primitive with a four-level feedback run queue.
//
// Threads start at level 0 with one quantum and sink one level each time
// their quanta run out, trading rotation frequency for longer quanta. The
// scheduler rotates across levels on a per-level tick budget, so no level
// starves. Two companion threads live outside every queue: the idle thread,
// which parks on the interrupt controller whenever nothing is runnable, and
// the reaper, which frees the stacks of finished threads.
//
// The clock interrupt handler advances the shared tick counter, fires due
// alarms and then yields, which is where preemption happens. All scheduling
// operations are only legal on a kernel thread, between Run and Halt.
package scheduler

import (
	"time"

	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	krnclk "github.com/nabbar/minikern/clock"
	krnirq "github.com/nabbar/minikern/interrupt"
	krnmch "github.com/nabbar/minikern/machine"
)

const (
	// NumLevels is the number of feedback levels of the run queue.
	NumLevels = 4
)

var (
	// initialQuanta is the per-thread quanta granted on entering each level.
	initialQuanta = [NumLevels]int{1, 2, 4, 8}

	// levelBudget is the consecutive tick budget of each level before the
	// scheduler rotates to the next one.
	levelBudget = [NumLevels]int{80, 40, 24, 16}
)

// Proc is a thread body.
type Proc func(arg interface{})

// Status is a thread's lifecycle state.
type Status uint8

const (
	StatusRunning Status = iota
	StatusReady
	StatusWait
	StatusDone
)

// Thread is the handle of a kernel thread.
type Thread interface {
	// ID returns the unique, monotonically assigned thread identifier.
	ID() int

	// Status returns the thread's current lifecycle state.
	Status() Status

	// Level returns the thread's current feedback level.
	Level() int
}

// Scheduler is the thread API.
type Scheduler interface {
	// Run boots the system: it creates the idle and reaper threads, forks
	// main(arg) and switches into it. It blocks until Halt is called from a
	// kernel thread, then returns. Run is single use.
	Run(main Proc, arg interface{}) liberr.Error

	// Halt switches back to the bootstrap stack, unblocking Run. It never
	// returns for the calling thread.
	Halt()

	// Fork creates a thread ready to run proc(arg) at level 0 and enqueues it.
	Fork(proc Proc, arg interface{}) (Thread, liberr.Error)

	// Create creates a waiting thread with no queue membership; a later
	// Start makes it runnable.
	Create(proc Proc, arg interface{}) (Thread, liberr.Error)

	// Start makes a waiting thread ready at its current level. Starting a
	// running, ready or finished thread is a no-op.
	Start(t Thread)

	// Yield relinquishes the processor when a closer level has a runnable
	// thread, otherwise the caller keeps running.
	Yield()

	// Stop blocks the calling thread without enqueueing it anywhere; only a
	// Start from another thread or an interrupt handler resumes it.
	Stop()

	// Self returns the running thread.
	Self() Thread

	// ID returns the running thread's identifier, or -1 outside a thread.
	ID() int

	// SleepWithTimeout blocks the calling thread until the tick counter has
	// advanced by the delay rounded to the nearest tick (at least one); the
	// first of those ticks may come at any point of the current period.
	SleepWithTimeout(delay time.Duration) liberr.Error

	// TickHandler is the clock interrupt body: advance the tick counter,
	// fire due alarms, then yield. The kernel posts it on every tick.
	TickHandler()

	// Ready returns the number of threads in the run queue.
	Ready() int

	// RegisterLogger sets the logger factory used by the scheduler.
	RegisterLogger(fct liblog.FuncLog)
}

// New returns a Scheduler over the given machine, interrupt controller and
// tick clock.
func New(m krnmch.Machine, c krnirq.Controller, k krnclk.Clock) (Scheduler, liberr.Error) {
	if m == nil || c == nil || k == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	return &sched{
		m: m,
		c: c,
		k: k,
	}, nil
}
