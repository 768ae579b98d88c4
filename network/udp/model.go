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

package udp

import (
	"encoding/binary"
	"net"
	"sync"
	"sync/atomic"

	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"
	loglvl "github.com/nabbar/golib/logger/level"

	krnnet "github.com/nabbar/minikern/network"
)

func addressOf(u *net.UDPAddr) krnnet.Address {
	var h uint32

	if i := u.IP.To4(); i != nil {
		h = binary.BigEndian.Uint32(i)
	}

	return krnnet.Address{h, uint32(u.Port)}
}

func udpAddrOf(a krnnet.Address) *net.UDPAddr {
	i := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(i, a[0])

	return &net.UDPAddr{
		IP:   i,
		Port: int(a[1]),
	}
}

type trx struct {
	c *net.UDPConn
	a krnnet.Address

	m sync.Mutex
	f krnnet.Receiver
	s atomic.Bool // closed

	lg liblog.FuncLog
}

func (o *trx) getLogger() liblog.Logger {
	if o.lg != nil {
		if l := o.lg(); l != nil {
			return l
		}
	}

	return liblog.GetDefault()
}

func (o *trx) LocalAddress() krnnet.Address {
	return o.a
}

func (o *trx) RegisterHandler(fct krnnet.Receiver) {
	o.m.Lock()
	defer o.m.Unlock()

	o.f = fct
}

func (o *trx) Send(remote krnnet.Address, header []byte, payload []byte) (int, liberr.Error) {
	if len(header) == 0 {
		return -1, krnnet.ErrorParamEmpty.Error(nil)
	} else if o.s.Load() {
		return -1, ErrorClosed.Error(nil)
	}

	d := make([]byte, 0, len(header)+len(payload))
	d = append(d, header...)
	d = append(d, payload...)

	n, err := o.c.WriteToUDP(d, udpAddrOf(remote))
	if err != nil {
		return -1, ErrorWrite.Error(err)
	}

	return n, nil
}

func (o *trx) reader() {
	b := make([]byte, krnnet.MaxPacketSize)

	for {
		n, r, err := o.c.ReadFromUDP(b)

		if err != nil {
			if o.s.Load() {
				return
			}

			o.getLogger().Entry(loglvl.ErrorLevel, "udp transceiver read").ErrorAdd(true, err).Log()
			continue
		}

		d := make([]byte, n)
		copy(d, b[:n])

		o.m.Lock()
		f := o.f
		o.m.Unlock()

		if f != nil {
			f(&krnnet.Packet{
				From: addressOf(r),
				Data: d,
			})
		}
	}
}

func (o *trx) Close() liberr.Error {
	if o.s.Swap(true) {
		return nil
	}

	if err := o.c.Close(); err != nil {
		return ErrorClose.Error(err)
	}

	return nil
}
