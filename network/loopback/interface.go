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

// Package loopback is an in-process network hub. Each endpoint joined to the
// hub is a full transceiver with its own address; packets sent to a joined
// address are delivered to that endpoint's handler, packets to anything else
// vanish silently, like an unanswered wire. An endpoint can send to its own
// address, which is how a single kernel talks to localhost.
package loopback

import (
	"sync"

	krnnet "github.com/nabbar/minikern/network"
)

// Hub connects loopback endpoints together.
type Hub interface {
	// Join attaches a new endpoint and assigns it the next address.
	Join() krnnet.Transceiver

	// Close detaches every endpoint.
	Close()
}

// New returns an empty hub.
func New() Hub {
	return &hub{
		m: sync.Mutex{},
		e: make(map[krnnet.Address]*edp),
	}
}
