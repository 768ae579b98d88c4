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

package stream

import (
	krnnet "github.com/nabbar/minikern/network"
)

// HandlePacket routes one stream packet to its socket and applies the state
// machine. It records every arrival in the socket's state and counters; the
// owning threads set the awaited wait state and ack number before each send,
// and Close moves the socket to CLOSING and CLOSED. It runs with interrupts
// disabled on a kernel thread.
func (o *lyr) HandlePacket(pkt *krnnet.Packet) {
	h, e := krnnet.ParseStreamHeader(pkt.Data)
	if e != nil {
		return
	}

	s, k := o.t.Get(h.DestPort)
	if !k || s == nil {
		return
	}

	data := pkt.Size() - krnnet.StreamHeaderSize

	if s.st == stateClosed {
		return
	}

	if s.ws != waitSyn {
		if h.Type == krnnet.MsgSyn {
			if h.SourceAddr.Equal(s.ra) && h.SourcePort == s.rp {
				// duplicate SYN of the handshake in progress
				return
			}

			// an unrelated SYN is refused with a FIN
			f := s.header(krnnet.MsgFin)
			f.DestAddr = h.SourceAddr
			f.DestPort = h.SourcePort
			o.x.Send(h.SourceAddr, f.Marshal(), nil)

			return
		} else if !h.SourceAddr.Equal(s.ra) || h.SourcePort != s.rp {
			// a packet from another endpoint is answered with a FIN; a FIN
			// from there is dropped, so two sockets never trade FINs
			if h.Type != krnnet.MsgFin {
				f := s.header(krnnet.MsgFin)
				f.DestAddr = h.SourceAddr
				f.DestPort = h.SourcePort
				o.x.Send(h.SourceAddr, f.Marshal(), nil)
			}

			return
		}
	}

	switch h.Type {
	case krnnet.MsgSyn:
		if s.ws == waitSyn && s.wa == h.Ack && data == 0 {
			s.ra = h.SourceAddr
			s.rp = h.SourcePort
			s.ws = gotSyn
			s.sw.V()
		}

	case krnnet.MsgSynAck:
		if s.ws == waitSynAck && s.wa == h.Ack && data == 0 {
			s.st = stateConnected
			s.seq = h.Ack
			s.ack++
			s.ws = gotSynAck
			s.sw.V()
		}

		// answer with the current counters, also re-acknowledging a
		// duplicate SYNACK whose ACK got lost
		if s.st == stateConnected {
			r := s.header(krnnet.MsgAck)
			o.x.Send(s.ra, r.Marshal(), nil)
		}

	case krnnet.MsgAck:
		if s.ws == waitAck && s.wa == h.Ack {
			if s.st == stateUnconnected {
				s.st = stateConnected
			}

			s.seq = h.Ack
			s.ws = gotAck
			s.sw.V()
		}

		if data > 0 && s.st == stateConnected {
			if s.ack == h.Seq {
				// in-order data: advance the ack and hand the packet up
				s.ack += uint32(data)
				s.iq.Enqueue(pkt)
				s.sr.V()
			}

			// acknowledge matched data; a duplicate or out-of-order packet
			// gets the current ack again to prod the sender
			r := s.header(krnnet.MsgAck)
			o.x.Send(s.ra, r.Marshal(), nil)
		}

	case krnnet.MsgFin:
		if s.st == stateConnected {
			// peer-initiated close: linger, then answer with a FIN
			s.st = stateClosing
			s.ack++
			s.ws = gotFin

			o.k.Register(o.w, s.closeAlarm, nil)

			r := s.header(krnnet.MsgFin)
			o.x.Send(s.ra, r.Marshal(), nil)

			// a blocked receiver wakes now; once CLOSING, Receive no longer
			// blocks: it drains the queued packets and then fails
			s.sr.V()

			for s.sw.Waiting() > 0 {
				s.sw.V()
			}
		} else if s.st == stateClosing {
			if s.ws == waitAck && s.wa == h.Ack {
				// the peer's FIN answers our own
				s.seq = h.Ack
				s.ws = gotAck
				s.sw.V()
			} else {
				r := s.header(krnnet.MsgFin)
				o.x.Send(s.ra, r.Marshal(), nil)
			}
		} else if s.st == stateUnconnected && s.ws == waitSynAck {
			// connect refused by the peer
			s.st = stateClosing
			s.ws = gotFin
			s.sw.V()
		}
	}
}
