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

package loopback

import (
	"sync"

	liberr "github.com/nabbar/golib/errors"

	krnnet "github.com/nabbar/minikern/network"
)

type hub struct {
	m sync.Mutex
	e map[krnnet.Address]*edp
	n uint32
}

func (o *hub) Join() krnnet.Transceiver {
	o.m.Lock()
	defer o.m.Unlock()

	o.n++

	e := &edp{
		h: o,
		a: krnnet.Address{0, o.n},
	}

	o.e[e.a] = e

	return e
}

func (o *hub) lookup(a krnnet.Address) *edp {
	o.m.Lock()
	defer o.m.Unlock()

	return o.e[a]
}

func (o *hub) leave(a krnnet.Address) {
	o.m.Lock()
	defer o.m.Unlock()

	delete(o.e, a)
}

func (o *hub) Close() {
	o.m.Lock()
	defer o.m.Unlock()

	o.e = make(map[krnnet.Address]*edp)
}

type edp struct {
	h *hub
	a krnnet.Address

	m sync.Mutex
	f krnnet.Receiver
}

func (o *edp) LocalAddress() krnnet.Address {
	return o.a
}

func (o *edp) RegisterHandler(fct krnnet.Receiver) {
	o.m.Lock()
	defer o.m.Unlock()

	o.f = fct
}

func (o *edp) Send(remote krnnet.Address, header []byte, payload []byte) (int, liberr.Error) {
	if len(header) == 0 {
		return -1, krnnet.ErrorParamEmpty.Error(nil)
	}

	n := len(header) + len(payload)

	t := o.h.lookup(remote)
	if t == nil {
		// nobody listens there; the wire swallows the packet
		return n, nil
	}

	d := make([]byte, 0, n)
	d = append(d, header...)
	d = append(d, payload...)

	t.deliver(&krnnet.Packet{
		From: o.a,
		Data: d,
	})

	return n, nil
}

func (o *edp) deliver(pkt *krnnet.Packet) {
	o.m.Lock()
	f := o.f
	o.m.Unlock()

	if f != nil {
		f(pkt)
	}
}

func (o *edp) Close() liberr.Error {
	o.h.leave(o.a)
	return nil
}
