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

package message

import (
	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"
	loglvl "github.com/nabbar/golib/logger/level"

	krnirq "github.com/nabbar/minikern/interrupt"
	krnnet "github.com/nabbar/minikern/network"
	krnprt "github.com/nabbar/minikern/port"
	krnque "github.com/nabbar/minikern/queue"
	krnsem "github.com/nabbar/minikern/semaphore"
)

type lyr struct {
	c krnirq.Controller
	x krnnet.Transceiver
	f krnsem.Factory
	t krnprt.Table[*unbound]

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

func (o *lyr) CreateUnbound(n uint16) (Unbound, liberr.Error) {
	if n > krnprt.ServerEnd {
		return nil, ErrorPortPolarity.Error(nil)
	}

	u, e := o.t.LoadOrInstall(n, func() (*unbound, liberr.Error) {
		s := o.f()
		if s == nil {
			return nil, ErrorParamEmpty.Error(nil)
		}

		s.Init(0)

		return &unbound{
			n: n,
			q: krnque.New[*krnnet.Packet](),
			r: s,
		}, nil
	})

	if e != nil {
		return nil, e
	}

	return u, nil
}

func (o *lyr) CreateBound(addr krnnet.Address, remotePort uint16) (Bound, liberr.Error) {
	if remotePort > krnprt.ServerEnd {
		return nil, ErrorPortPolarity.Error(nil)
	}

	n, e := o.t.Reserve()
	if e != nil {
		return nil, e
	}

	return &bound{
		n: n,
		a: addr,
		p: remotePort,
	}, nil
}

func (o *lyr) Destroy(p Port) {
	switch v := p.(type) {
	case *unbound:
		o.t.Uninstall(v.n)

		l := o.c.SetLevel(krnirq.Disabled)
		for v.q.Len() > 0 {
			v.q.Dequeue()
		}
		o.c.SetLevel(l)

	case *bound:
		o.t.Release(v.n)
	}
}

func (o *lyr) Send(local Unbound, to Bound, msg []byte) (int, liberr.Error) {
	u, ku := local.(*unbound)
	b, kb := to.(*bound)

	if !ku || !kb || u == nil || b == nil || msg == nil {
		return -1, ErrorParamEmpty.Error(nil)
	} else if len(msg) > krnnet.MaxDatagramPayload {
		return -1, ErrorPayloadOversize.Error(nil)
	}

	h := krnnet.DatagramHeader{
		Protocol:   krnnet.ProtocolDatagram,
		SourceAddr: o.x.LocalAddress(),
		SourcePort: u.n,
		DestAddr:   b.a,
		DestPort:   b.p,
	}

	n, e := o.x.Send(b.a, h.Marshal(), msg)
	if e != nil {
		return -1, ErrorSendFailed.Error(e)
	}

	return n - krnnet.DatagramHeaderSize, nil
}

func (o *lyr) Receive(local Unbound, buf []byte) (int, Bound, liberr.Error) {
	u, k := local.(*unbound)
	if !k || u == nil || buf == nil {
		return -1, nil, ErrorParamEmpty.Error(nil)
	}

	u.r.P()

	l := o.c.SetLevel(krnirq.Disabled)
	pkt, ok := u.q.Dequeue()
	o.c.SetLevel(l)

	if !ok {
		panic("message: ready semaphore signaled with empty packet queue")
	}

	h, e := krnnet.ParseDatagramHeader(pkt.Data)
	if e != nil {
		return -1, nil, e
	}

	n := copy(buf, pkt.Data[krnnet.DatagramHeaderSize:])

	b, e := o.CreateBound(h.SourceAddr, h.SourcePort)
	if e != nil {
		return -1, nil, e
	}

	return n, b, nil
}

func (o *lyr) HandlePacket(pkt *krnnet.Packet) {
	h, e := krnnet.ParseDatagramHeader(pkt.Data)
	if e != nil {
		return
	}

	if h.DestPort > krnprt.ServerEnd {
		o.getLogger().Entry(loglvl.DebugLevel, "dropping datagram").FieldAdd("port", h.DestPort).FieldAdd("reason", "destination out of receiving range").Log()
		return
	}

	u, k := o.t.Get(h.DestPort)
	if !k || u == nil {
		o.getLogger().Entry(loglvl.DebugLevel, "dropping datagram").FieldAdd("port", h.DestPort).FieldAdd("reason", "no receiving port bound").Log()
		return
	}

	u.q.Enqueue(pkt)
	u.r.V()
}
