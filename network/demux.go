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
	liblog "github.com/nabbar/golib/logger"
	loglvl "github.com/nabbar/golib/logger/level"
)

type dmx struct {
	hd Handler
	hs Handler
	lg liblog.FuncLog
}

func (o *dmx) RegisterDatagram(h Handler) {
	o.hd = h
}

func (o *dmx) RegisterStream(h Handler) {
	o.hs = h
}

func (o *dmx) RegisterLogger(fct liblog.FuncLog) {
	o.lg = fct
}

func (o *dmx) getLogger() liblog.Logger {
	if o.lg != nil {
		if l := o.lg(); l != nil {
			return l
		}
	}

	return liblog.GetDefault()
}

func (o *dmx) Handle(pkt *Packet) {
	if pkt == nil || pkt.Size() < DatagramHeaderSize {
		return
	}

	switch pkt.Data[0] {
	case ProtocolDatagram:
		if pkt.Size()-DatagramHeaderSize > MaxDatagramPayload {
			o.drop(pkt, "oversize datagram")
		} else if o.hd != nil {
			o.hd(pkt)
		}

	case ProtocolStream:
		if pkt.Size() < StreamHeaderSize || pkt.Size() > MaxPacketSize {
			o.drop(pkt, "malformed stream packet")
		} else if o.hs != nil {
			o.hs(pkt)
		}

	default:
		o.drop(pkt, "unknown protocol")
	}
}

func (o *dmx) drop(pkt *Packet, why string) {
	o.getLogger().Entry(loglvl.DebugLevel, "dropping packet").FieldAdd("from", pkt.From.String()).FieldAdd("size", pkt.Size()).FieldAdd("reason", why).Log()
}
