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

// Package stream is the reliable, connection-oriented transport layered on
// the datagram substrate.
//
// A socket carries a three-way handshake, a window-of-one retransmission
// scheme with a fixed backoff schedule, in-order delivery through a
// receive queue with a carry-over slot for partially consumed packets, and a
// graceful close with a linger period after a peer FIN. The demultiplexer
// records every arrival in the socket's state and counters; the owning
// threads set the awaited wait state before each send, serialize data sends
// under the socket's send mutex, and move the socket to CLOSING and CLOSED in
// Close.
package stream

import (
	"time"

	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	krnclk "github.com/nabbar/minikern/clock"
	krnirq "github.com/nabbar/minikern/interrupt"
	krnnet "github.com/nabbar/minikern/network"
	krnprt "github.com/nabbar/minikern/port"
	krnsem "github.com/nabbar/minikern/semaphore"
)

// DefaultRetryDelays is the retransmission backoff schedule: one entry per
// try, so a transmission is attempted at most seven times.
var DefaultRetryDelays = []time.Duration{
	100 * time.Millisecond,
	200 * time.Millisecond,
	400 * time.Millisecond,
	800 * time.Millisecond,
	1600 * time.Millisecond,
	3200 * time.Millisecond,
	6400 * time.Millisecond,
}

// DefaultLinger is how long a socket in CLOSING after a peer FIN keeps
// answering before moving to CLOSED.
const DefaultLinger = 15 * time.Second

// Options tunes the transport; zero values take the defaults above.
type Options struct {
	RetryDelays []time.Duration
	Linger      time.Duration
}

// Socket is one end of an established or pending connection.
type Socket interface {
	// Send transmits the whole buffer in bounded fragments, each
	// acknowledged before the next leaves. It returns the bytes sent, which
	// is short only when the connection failed or closed mid-transfer.
	Send(msg []byte) (int, liberr.Error)

	// Receive blocks until payload is available and copies up to len(buf)
	// bytes, preserving the peer's send order. A partially consumed packet
	// is carried over to the next call.
	Receive(buf []byte) (int, liberr.Error)

	// Close tears the connection down: FIN exchange when connected, waiting
	// out the linger period when the peer initiated, then unlinks the
	// socket and wakes every blocked thread.
	Close()

	// LocalPort returns the socket's port number.
	LocalPort() uint16

	// RemoteAddress returns the peer machine address.
	RemoteAddress() krnnet.Address
}

// Layer is the reliable stream API.
type Layer interface {
	// ServerCreate binds a server socket on a port in [0, 32767] and blocks
	// until a client completes the handshake.
	ServerCreate(port uint16) (Socket, liberr.Error)

	// ClientCreate allocates a client port and connects to the server at
	// the given address and port in [0, 32767].
	ClientCreate(addr krnnet.Address, port uint16) (Socket, liberr.Error)

	// HandlePacket is the demultiplexer entry for stream packets. It runs
	// at interrupt time and must not block.
	HandlePacket(pkt *krnnet.Packet)

	// RegisterLogger sets the logger factory used by the layer.
	RegisterLogger(fct liblog.FuncLog)
}

// New returns a stream layer over the given transceiver and tick clock.
func New(c krnirq.Controller, k krnclk.Clock, x krnnet.Transceiver, f krnsem.Factory, opt Options) (Layer, liberr.Error) {
	if c == nil || k == nil || x == nil || f == nil {
		return nil, ErrorInvalidParams.Error(nil)
	}

	m := f()
	if m == nil {
		return nil, ErrorInvalidParams.Error(nil)
	}

	m.Init(1)

	t, e := krnprt.New[*sock](m)
	if e != nil {
		return nil, e
	}

	if len(opt.RetryDelays) == 0 {
		opt.RetryDelays = DefaultRetryDelays
	}

	if opt.Linger <= 0 {
		opt.Linger = DefaultLinger
	}

	return &lyr{
		c: c,
		k: k,
		x: x,
		f: f,
		t: t,
		d: opt.RetryDelays,
		w: opt.Linger,
	}, nil
}
