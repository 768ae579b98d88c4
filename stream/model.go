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
	"time"

	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"
	loglvl "github.com/nabbar/golib/logger/level"

	krnclk "github.com/nabbar/minikern/clock"
	krnirq "github.com/nabbar/minikern/interrupt"
	krnnet "github.com/nabbar/minikern/network"
	krnprt "github.com/nabbar/minikern/port"
	krnque "github.com/nabbar/minikern/queue"
	krnsem "github.com/nabbar/minikern/semaphore"
)

type lyr struct {
	c krnirq.Controller
	k krnclk.Clock
	x krnnet.Transceiver
	f krnsem.Factory
	t krnprt.Table[*sock]

	d []time.Duration // retransmission schedule
	w time.Duration   // linger

	lg liblog.FuncLog
}

func (o *lyr) RegisterLogger(fct liblog.FuncLog) {
	o.lg = fct
}

func (o *lyr) getLogger() liblog.Logger {
	if o.lg != nil {
		if l := o.lg(); l != nil {
			return l
		}
	}

	return liblog.GetDefault()
}

// newSock builds an unconnected socket with its semaphores and queue.
func (o *lyr) newSock() (*sock, liberr.Error) {
	s := &sock{
		y:  o,
		st: stateUnconnected,
		ws: waitNone,
		iq: krnque.New[*krnnet.Packet](),
	}

	for _, i := range []struct {
		sem   *krnsem.Sem
		count int
	}{
		{&s.sw, 0},
		{&s.sm, 1},
		{&s.sr, 0},
		{&s.sc, 0},
	} {
		v := o.f()
		if v == nil {
			return nil, ErrorOutOfMemory.Error(nil)
		}

		v.Init(i.count)
		*i.sem = v
	}

	return s, nil
}

func (o *lyr) ServerCreate(port uint16) (Socket, liberr.Error) {
	if port > krnprt.ServerEnd {
		return nil, ErrorInvalidParams.Error(nil)
	}

	s, e := o.newSock()
	if e != nil {
		return nil, e
	}

	s.lp = port
	s.seq = 0
	s.ack = 1 // the SYNACK acknowledges the one-byte SYN
	s.ws = waitSyn
	s.wa = 0

	if e = o.t.Install(port, s); e != nil {
		return nil, ErrorPortInUse.Error(e)
	}

	for {
		s.sw.P() // wait for a SYN; the demultiplexer records the remote end

		s.ws = waitAck
		s.wa = s.seq + 1

		if _, e = s.sendPacket(s.header(krnnet.MsgSynAck), nil, gotAck, false); e == nil {
			o.getLogger().Entry(loglvl.DebugLevel, "stream connection accepted").FieldAdd("local.port", s.lp).FieldAdd("remote", s.ra.String()).Log()
			return s, nil
		}

		// the handshake timed out, return to listening
		s.ws = waitSyn
		s.wa = 0
	}
}

func (o *lyr) ClientCreate(addr krnnet.Address, port uint16) (Socket, liberr.Error) {
	if port > krnprt.ServerEnd {
		return nil, ErrorInvalidParams.Error(nil)
	}

	s, e := o.newSock()
	if e != nil {
		return nil, e
	}

	n, e := o.t.Reserve()
	if e != nil {
		return nil, ErrorNoMorePorts.Error(e)
	}

	s.lp = n
	s.ra = addr
	s.rp = port
	s.seq = 0
	s.ack = 0
	s.ws = waitSynAck
	s.wa = 1

	if e = o.t.Install(n, s); e != nil {
		o.t.Release(n)
		return nil, ErrorPortInUse.Error(e)
	}

	if _, e = s.sendPacket(s.header(krnnet.MsgSyn), nil, gotSynAck, false); e == nil {
		return s, nil
	}

	o.t.Release(n)

	if s.ws == gotFin {
		return nil, ErrorBusy.Error(nil)
	}

	return nil, ErrorNoServer.Error(e)
}
