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

// Package interrupt models the single-processor preemption toggle and the
// delivery of external events into the kernel.
//
// External goroutines (the tick source, the network transceiver) never touch
// kernel state directly: they Post a handler on the controller. The running
// kernel thread takes pending handlers at safepoints by calling Sync, each
// handler running with the level disabled. The idle thread parks in Wait
// until a handler is posted.
package interrupt

import (
	"sync"

	libatm "github.com/nabbar/golib/atomic"
)

// Level is the interrupt delivery level.
type Level uint8

const (
	// Disabled holds posted handlers pending; Sync is a no-op.
	Disabled Level = iota
	// Enabled lets Sync run the pending handlers.
	Enabled
)

// Handler is a posted interrupt body. It runs on the kernel thread that hits
// the next safepoint, with the level disabled, and must not block.
type Handler func()

// Controller serializes interrupt delivery with kernel execution.
type Controller interface {
	// SetLevel switches the delivery level and returns the prior one.
	SetLevel(l Level) Level

	// CurrentLevel returns the delivery level.
	CurrentLevel() Level

	// Post queues a handler and wakes a Wait caller. Safe from any goroutine.
	Post(h Handler)

	// Sync runs every pending handler when the level is Enabled, each with
	// the level forced to Disabled for its duration. Kernel threads call it
	// on entry of every blocking or scheduling operation.
	Sync()

	// Wait blocks until at least one handler is pending.
	Wait()

	// Pending returns the number of queued handlers.
	Pending() int
}

// New returns a Controller with the level Disabled, matching a machine before
// its first context switch.
func New() Controller {
	return &ctl{
		m: sync.Mutex{},
		l: libatm.NewValue[Level](),
		w: make(chan struct{}, 1),
	}
}
