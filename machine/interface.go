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

// Package machine provides the low-level primitives the kernel runs on: stack
// allocation, context switching and the periodic tick source.
//
// A stack is backed by a parked goroutine. Switching contexts hands a resume
// token to the incoming stack and parks the caller on the outgoing one, so at
// most one kernel thread executes at any time. The optional resume hook given
// to New runs on a thread each time it is restored; the kernel uses it to
// re-enable the interrupt level atomically with the switch.
//
// Example usage:
//
//	m := machine.New(func() { ctl.SetLevel(irq.Enabled) })
//	base, top := m.AllocateStack()
//	_ = m.InitializeStack(top, body, arg, cleanup, nil)
//	m.SwitchContext(self, top)
package machine

import (
	"sync"
	"time"

	liberr "github.com/nabbar/golib/errors"
)

// Proc is the signature of a thread body or cleanup function.
type Proc func(arg interface{})

// StackBase is the opaque handle used to release a stack.
type StackBase interface {
	isStackBase()
}

// StackTop is the opaque handle used to switch into or out of a stack.
type StackTop interface {
	isStackTop()
}

// Machine exposes the stack-switching primitive.
//
// AllocateStack returns a fresh (base, top) pair with no goroutine attached;
// such a bare stack can be parked on directly (the kernel boots this way).
// InitializeStack attaches a goroutine that, on first switch, runs entry(arg)
// followed by cleanup(cleanupArg). SwitchContext resumes `in` and parks the
// calling goroutine on `out`. FreeStack releases the stack; a goroutine still
// parked on it exits. Close releases every stack ever allocated.
type Machine interface {
	AllocateStack() (StackBase, StackTop)
	InitializeStack(t StackTop, entry Proc, arg interface{}, cleanup Proc, cleanupArg interface{}) liberr.Error
	SwitchContext(out, in StackTop)
	FreeStack(b StackBase)
	Close()
}

// TickSource delivers a periodic tick to a handler until stopped.
// The handler runs on the source's own goroutine and must not block.
type TickSource interface {
	Start()
	Stop()
}

// New returns a Machine. The onResume hook, if not nil, runs on each thread
// right after its context is restored and before it resumes execution.
func New(onResume func()) Machine {
	return &mac{
		m: sync.Mutex{},
		h: onResume,
	}
}

// NewTicker returns a TickSource invoking handler every period.
func NewTicker(period time.Duration, handler func()) TickSource {
	return &tck{
		p: period,
		h: handler,
	}
}
