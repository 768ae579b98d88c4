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

// Package clock holds the shared tick counter and the table of one-shot
// alarms keyed by tick deadline.
//
// The clock is passive: the scheduler's tick handler drives it by calling
// Advance then RunDue on every clock interrupt. Alarm handlers run
// synchronously under that handler with interrupts disabled and must not
// block.
package clock

import (
	"time"

	liberr "github.com/nabbar/golib/errors"

	krnirq "github.com/nabbar/minikern/interrupt"
	krnque "github.com/nabbar/minikern/queue"
)

// Handler is an alarm callback.
type Handler func(arg interface{})

// Alarm is the handle returned by Register, usable for deregistration.
type Alarm interface {
	// Fired reports whether the alarm handler has already run.
	Fired() bool

	// Deadline returns the target tick of the alarm.
	Deadline() uint64
}

// Clock is the tick counter and alarm table.
type Clock interface {
	// Tick returns the current tick count.
	Tick() uint64

	// Period returns the duration of one tick.
	Period() time.Duration

	// Advance increments the tick counter and returns the new value.
	// It is called by the clock interrupt handler only.
	Advance() uint64

	// RunDue fires every alarm whose target tick has passed, in
	// non-decreasing order of target tick. Interrupts must be disabled.
	RunDue()

	// Register schedules fn(arg) after the given delay, rounded to the
	// nearest tick with a floor of one tick.
	Register(delay time.Duration, fn Handler, arg interface{}) (Alarm, liberr.Error)

	// Deregister removes the alarm when still pending and reports whether
	// it had already fired.
	Deregister(a Alarm) bool

	// Pending returns the number of scheduled alarms.
	Pending() int
}

// New returns a Clock with the given tick period.
func New(period time.Duration, c krnirq.Controller) (Clock, liberr.Error) {
	if period <= 0 || c == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	return &clk{
		p: period,
		c: c,
		q: krnque.NewSorted[*alm](),
	}, nil
}
