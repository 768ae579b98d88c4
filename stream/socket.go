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
	liberr "github.com/nabbar/golib/errors"

	krnclk "github.com/nabbar/minikern/clock"
	krnirq "github.com/nabbar/minikern/interrupt"
	krnnet "github.com/nabbar/minikern/network"
	krnque "github.com/nabbar/minikern/queue"
	krnsem "github.com/nabbar/minikern/semaphore"
)

// connState is the socket's connection state.
type connState uint8

const (
	stateUnconnected connState = iota
	stateConnected
	stateClosing
	stateClosed
)

// waitState discriminates which packet the socket's control path waits for,
// and which one the demultiplexer observed.
type waitState uint8

const (
	waitNone waitState = iota
	waitSyn
	waitSynAck
	waitAck
	waitFin
	gotSyn
	gotSynAck
	gotAck
	gotFin
)

type sock struct {
	y *lyr

	ra krnnet.Address // remote machine
	lp uint16         // local port
	rp uint16         // remote port

	seq uint32
	ack uint32

	st connState
	ws waitState
	wa uint32 // awaited acknowledgement number
	nf int    // retransmission alarms fired during the pending send

	sw krnsem.Sem // control wait
	sm krnsem.Sem // send mutex
	sr krnsem.Sem // receive ready
	sc krnsem.Sem // close wait

	iq krnque.Queue[*krnnet.Packet]

	co *krnnet.Packet // carry-over packet
	cu int            // consumed bytes of the carry-over, header included
}

func (s *sock) LocalPort() uint16 {
	return s.lp
}

func (s *sock) RemoteAddress() krnnet.Address {
	return s.ra
}

// header builds an outgoing header from the socket's template and current
// counters.
func (s *sock) header(t krnnet.MessageType) krnnet.StreamHeader {
	return krnnet.StreamHeader{
		DatagramHeader: krnnet.DatagramHeader{
			Protocol:   krnnet.ProtocolStream,
			SourceAddr: s.y.x.LocalAddress(),
			SourcePort: s.lp,
			DestAddr:   s.ra,
			DestPort:   s.rp,
		},
		Type: t,
		Seq:  s.seq,
		Ack:  s.ack,
	}
}

// retryAlarm is the retransmission timer body: count the firing and prod the
// control semaphore when a thread is waiting on the handshake or an ACK.
func (s *sock) retryAlarm(_ interface{}) {
	s.nf++

	if s.ws == waitSyn || s.ws == waitSynAck || s.ws == waitAck {
		s.sw.V()
	}
}

// closeAlarm ends the linger period after a peer FIN.
func (s *sock) closeAlarm(_ interface{}) {
	s.st = stateClosed

	for s.sc.Waiting() > 0 {
		s.sc.V()
	}
}

// sendPacket transmits one packet reliably: up to one try per schedule entry,
// each armed with an alarm at that try's delay, blocking on the control
// semaphore between tries. Success is the expected wait state together with
// the awaited acknowledgement number having been written into seq by the
// demultiplexer. The fin flag lets a close-initiated send survive the
// CLOSING state it set itself.
func (s *sock) sendPacket(h krnnet.StreamHeader, data []byte, expect waitState, fin bool) (int, liberr.Error) {
	var (
		alarm krnclk.Alarm
		tries int
	)

	s.nf = 0
	s.wa += uint32(len(data))

	w := h.Marshal()

	for s.nf < len(s.y.d) {
		if tries == s.nf {
			if _, e := s.y.x.Send(s.ra, w, data); e != nil {
				return -1, ErrorSendError.Error(e)
			}

			var e liberr.Error
			if alarm, e = s.y.k.Register(s.y.d[tries], s.retryAlarm, nil); e != nil {
				return -1, ErrorSendError.Error(e)
			}

			tries++
		}

		s.sw.P()

		if s.st == stateClosed || (s.st == stateClosing && !fin) {
			break
		} else if s.ws == expect && s.seq == s.wa {
			if tries > s.nf {
				s.y.k.Deregister(alarm)
			}

			return len(data), nil
		}
	}

	return -1, ErrorNoServer.Error(nil)
}

func (s *sock) Send(msg []byte) (int, liberr.Error) {
	s.sm.P()

	if s.st != stateConnected {
		s.sm.V()
		return -1, ErrorSendError.Error(nil)
	}

	var (
		e    liberr.Error
		sent int
	)

	for sent < len(msg) {
		f := msg[sent:]
		if len(f) > krnnet.MaxStreamPayload {
			f = f[:krnnet.MaxStreamPayload]
		}

		s.ws = waitAck

		n, err := s.sendPacket(s.header(krnnet.MsgAck), f, gotAck, false)
		if err != nil {
			e = ErrorSendError.Error(err)
			break
		}

		sent += n
	}

	s.sm.V()

	return sent, e
}

func (s *sock) Receive(buf []byte) (int, liberr.Error) {
	if len(buf) == 0 {
		return 0, nil
	}

	if s.co != nil {
		n := len(s.co.Data) - s.cu
		if n > len(buf) {
			n = len(buf)
		}

		copy(buf, s.co.Data[s.cu:s.cu+n])
		s.cu += n

		if s.cu == len(s.co.Data) {
			s.co = nil
			s.cu = 0
		}

		return n, nil
	}

	// while connected, block until the demultiplexer queues a packet or the
	// peer closes; once closing, drain what already arrived without blocking
	if s.st == stateConnected {
		s.sr.P()
	}

	l := s.y.c.SetLevel(krnirq.Disabled)
	pkt, ok := s.iq.Dequeue()
	s.y.c.SetLevel(l)

	if !ok {
		return -1, ErrorReceiveError.Error(nil)
	}

	used := krnnet.StreamHeaderSize

	n := len(pkt.Data) - used
	if n > len(buf) {
		n = len(buf)
	}

	copy(buf, pkt.Data[used:used+n])
	used += n

	if used < len(pkt.Data) {
		s.co = pkt
		s.cu = used
	}

	return n, nil
}

func (s *sock) Close() {
	if s.st == stateConnected {
		s.st = stateClosing
		s.ws = waitAck
		s.wa = s.seq + 1 // the answer to a FIN advances the ack by one

		s.sendPacket(s.header(krnnet.MsgFin), nil, gotAck, true)
		s.st = stateClosed
	} else if s.st == stateClosing {
		s.sc.P()
	}

	s.y.t.Release(s.lp)

	s.wakeAll()

	l := s.y.c.SetLevel(krnirq.Disabled)
	for s.iq.Len() > 0 {
		s.iq.Dequeue()
	}
	s.co = nil
	s.cu = 0
	s.y.c.SetLevel(l)
}

// wakeAll releases every thread blocked on any of the socket's semaphores;
// each wakes, observes the CLOSED state and fails its operation.
func (s *sock) wakeAll() {
	for _, v := range []krnsem.Sem{s.sw, s.sm, s.sr, s.sc} {
		for v.Waiting() > 0 {
			v.V()
		}
	}
}
