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

package network

import (
	"encoding/binary"

	liberr "github.com/nabbar/golib/errors"
)

// DatagramHeader is the fixed 21-byte header of every packet. All integers
// are big-endian on the wire.
type DatagramHeader struct {
	Protocol   byte
	SourceAddr Address
	SourcePort uint16
	DestAddr   Address
	DestPort   uint16
}

// Marshal packs the header into a fresh wire buffer.
func (h DatagramHeader) Marshal() []byte {
	b := make([]byte, DatagramHeaderSize)
	h.marshal(b)
	return b
}

func (h DatagramHeader) marshal(b []byte) {
	b[0] = h.Protocol
	h.SourceAddr.marshal(b[1:9])
	binary.BigEndian.PutUint16(b[9:11], h.SourcePort)
	h.DestAddr.marshal(b[11:19])
	binary.BigEndian.PutUint16(b[19:21], h.DestPort)
}

// ParseDatagramHeader reads a datagram header from the start of a packet.
func ParseDatagramHeader(b []byte) (DatagramHeader, liberr.Error) {
	if len(b) < DatagramHeaderSize {
		return DatagramHeader{}, ErrorHeaderShort.Error(nil)
	}

	return DatagramHeader{
		Protocol:   b[0],
		SourceAddr: parseAddress(b[1:9]),
		SourcePort: binary.BigEndian.Uint16(b[9:11]),
		DestAddr:   parseAddress(b[11:19]),
		DestPort:   binary.BigEndian.Uint16(b[19:21]),
	}, nil
}

// StreamHeader is the 30-byte header of reliable stream packets: the
// datagram header followed by message type, sequence number and
// acknowledgement number.
type StreamHeader struct {
	DatagramHeader
	Type MessageType
	Seq  uint32
	Ack  uint32
}

// Marshal packs the header into a fresh wire buffer.
func (h StreamHeader) Marshal() []byte {
	b := make([]byte, StreamHeaderSize)
	h.DatagramHeader.marshal(b)
	b[21] = byte(h.Type)
	binary.BigEndian.PutUint32(b[22:26], h.Seq)
	binary.BigEndian.PutUint32(b[26:30], h.Ack)
	return b
}

// ParseStreamHeader reads a stream header from the start of a packet.
func ParseStreamHeader(b []byte) (StreamHeader, liberr.Error) {
	if len(b) < StreamHeaderSize {
		return StreamHeader{}, ErrorHeaderShort.Error(nil)
	}

	d, e := ParseDatagramHeader(b)
	if e != nil {
		return StreamHeader{}, e
	}

	return StreamHeader{
		DatagramHeader: d,
		Type:           MessageType(b[21]),
		Seq:            binary.BigEndian.Uint32(b[22:26]),
		Ack:            binary.BigEndian.Uint32(b[26:30]),
	}, nil
}
