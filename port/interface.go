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

// Package port manages a flat port namespace: a fixed table from port number
// to owner, plus an allocator for the client half of the range.
//
// Client numbers come from a monotonically increasing counter; once the
// counter passes the top of the range, the availability bitmap becomes the
// authoritative source and allocation falls back to scanning it for a clear
// bit. Table mutations serialize on a kernel semaphore held as mutex; lookups
// are lock-free so interrupt handlers may route packets without blocking.
package port

import (
	"github.com/bits-and-blooms/bitset"

	liberr "github.com/nabbar/golib/errors"

	krnsem "github.com/nabbar/minikern/semaphore"
)

const (
	// ServerStart is the first receiving / server port number.
	ServerStart uint16 = 0

	// ServerEnd is the last receiving / server port number.
	ServerEnd uint16 = 32767

	// ClientStart is the first sending / client port number.
	ClientStart uint16 = 32768

	// ClientEnd is the last sending / client port number.
	ClientEnd uint16 = 65535
)

// Table maps port numbers to their owner of type T.
type Table[T any] interface {
	// Get returns the owner installed at the given number.
	// It takes no lock and is safe at interrupt time.
	Get(n uint16) (T, bool)

	// InUse reports whether a number has an installed owner.
	InUse(n uint16) bool

	// Install binds the owner to a free number, or fails with ErrorPortInUse.
	Install(n uint16, v T) liberr.Error

	// LoadOrInstall returns the installed owner, or installs the one built
	// by create. The whole operation holds the table mutex.
	LoadOrInstall(n uint16, create func() (T, liberr.Error)) (T, liberr.Error)

	// Uninstall clears a number's slot.
	Uninstall(n uint16)

	// Reserve allocates a number from the client range and marks it used.
	Reserve() (uint16, liberr.Error)

	// Release clears a number's slot and, for a client number, marks it
	// available again.
	Release(n uint16)
}

// New returns an empty table guarded by the given mutex semaphore, which must
// be initialized to 1.
func New[T any](mtx krnsem.Sem) (Table[T], liberr.Error) {
	if mtx == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	return &tbl[T]{
		s: make([]T, int(ClientEnd)+1),
		o: make([]bool, int(ClientEnd)+1),
		b: bitset.New(uint(ClientEnd-ClientStart) + 1),
		c: uint32(ClientStart),
		m: mtx,
	}, nil
}
