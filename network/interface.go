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

// Package network defines the wire model shared by the datagram and stream
// layers: addresses, big-endian packet headers, the transceiver contract of
// the underlying byte network, and the demultiplexer that routes every
// incoming packet to the layer owning its protocol tag.
package network

import (
	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"
)

const (
	// ProtocolDatagram tags unreliable datagram packets.
	ProtocolDatagram byte = 0x01

	// ProtocolStream tags reliable stream packets.
	ProtocolStream byte = 0x02

	// DatagramHeaderSize is the fixed datagram header length:
	// protocol (1) + source address (8) + source port (2)
	// + destination address (8) + destination port (2).
	DatagramHeaderSize = 21

	// StreamHeaderSize appends message type (1) + sequence (4)
	// + acknowledgement (4) to the datagram header.
	StreamHeaderSize = 30

	// MaxPacketSize bounds a whole packet, header included.
	MaxPacketSize = 8192

	// MaxDatagramPayload bounds the payload of one datagram.
	MaxDatagramPayload = 4096

	// MaxStreamPayload bounds the data carried by one stream packet.
	MaxStreamPayload = MaxPacketSize - 32
)

// MessageType is the stream header message type.
type MessageType byte

const (
	MsgSyn MessageType = iota + 1
	MsgSynAck
	MsgAck
	MsgFin
)

// Packet is an incoming packet descriptor handed up by the transceiver.
type Packet struct {
	From Address
	Data []byte
}

// Size returns the total packet length, header included.
func (p *Packet) Size() int {
	if p == nil {
		return 0
	}

	return len(p.Data)
}

// Receiver is the transceiver upcall invoked for each arriving packet. It may
// run on any goroutine; implementations hand the packet to the kernel's
// interrupt controller.
type Receiver func(pkt *Packet)

// Transceiver is the underlying byte-oriented network. Send returns the
// number of bytes handed to the wire, header included.
type Transceiver interface {
	Send(remote Address, header []byte, payload []byte) (int, liberr.Error)
	RegisterHandler(fct Receiver)
	LocalAddress() Address
	Close() liberr.Error
}

// Handler consumes a validated packet of one protocol. It runs at interrupt
// time on a kernel thread and must not block.
type Handler func(pkt *Packet)

// Demux is the single entry point invoked per incoming packet. It validates
// sizes and the protocol tag, then routes to the registered layer handler;
// anything else is dropped.
type Demux interface {
	RegisterDatagram(h Handler)
	RegisterStream(h Handler)
	RegisterLogger(fct liblog.FuncLog)
	Handle(pkt *Packet)
}

// NewDemux returns an empty demultiplexer; packets of an unregistered
// protocol are dropped.
func NewDemux() Demux {
	return &dmx{}
}
