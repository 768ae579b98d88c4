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

// Package message is the unreliable datagram layer.
//
// A receiving port owns a packet queue and a ready semaphore and lives in the
// low half of the port namespace; creating the same number twice returns the
// existing port. A sending port is a private record holding a remote address
// and remote receiving port, numbered from the high half of the namespace.
// Receive blocks until the demultiplexer queues a packet for the receiving
// port, then answers with a fresh sending port addressed back to the sender.
package message

import (
	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	krnirq "github.com/nabbar/minikern/interrupt"
	krnnet "github.com/nabbar/minikern/network"
	krnprt "github.com/nabbar/minikern/port"
	krnsem "github.com/nabbar/minikern/semaphore"
)

// Port is a datagram port of either polarity.
type Port interface {
	// Number returns the port number.
	Number() uint16
}

// Unbound is a receiving port.
type Unbound interface {
	Port

	// Pending returns the number of queued datagrams.
	Pending() int
}

// Bound is a sending port.
type Bound interface {
	Port

	// RemoteAddress returns the destination machine.
	RemoteAddress() krnnet.Address

	// RemotePort returns the destination receiving port number.
	RemotePort() uint16
}

// Layer is the datagram messaging API.
type Layer interface {
	// CreateUnbound returns the receiving port with the given number in
	// [0, 32767], creating it on first use.
	CreateUnbound(n uint16) (Unbound, liberr.Error)

	// CreateBound allocates a sending port addressed at the remote
	// receiving port, numbered from [32768, 65535].
	CreateBound(addr krnnet.Address, remotePort uint16) (Bound, liberr.Error)

	// Destroy releases a port of either polarity.
	Destroy(p Port)

	// Send transmits msg from the local receiving port through the sending
	// port and returns the payload bytes sent.
	Send(local Unbound, to Bound, msg []byte) (int, liberr.Error)

	// Receive blocks until a datagram arrives on the receiving port, copies
	// up to len(buf) payload bytes, and returns a fresh sending port
	// addressed back to the sender.
	Receive(local Unbound, buf []byte) (int, Bound, liberr.Error)

	// HandlePacket is the demultiplexer entry for datagram packets. It runs
	// at interrupt time and must not block.
	HandlePacket(pkt *krnnet.Packet)

	// RegisterLogger sets the logger factory used by the layer.
	RegisterLogger(fct liblog.FuncLog)
}

// New returns a datagram layer over the given transceiver, using the
// semaphore factory for the port table mutex and the per-port ready
// semaphores.
func New(c krnirq.Controller, x krnnet.Transceiver, f krnsem.Factory) (Layer, liberr.Error) {
	if c == nil || x == nil || f == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	m := f()
	if m == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	m.Init(1)

	t, e := krnprt.New[*unbound](m)
	if e != nil {
		return nil, e
	}

	return &lyr{
		c: c,
		x: x,
		f: f,
		t: t,
	}, nil
}
