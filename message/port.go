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
	krnnet "github.com/nabbar/minikern/network"
	krnque "github.com/nabbar/minikern/queue"
	krnsem "github.com/nabbar/minikern/semaphore"
)

type unbound struct {
	n uint16
	q krnque.Queue[*krnnet.Packet]
	r krnsem.Sem
}

func (o *unbound) Number() uint16 {
	return o.n
}

func (o *unbound) Pending() int {
	return o.q.Len()
}

type bound struct {
	n uint16
	a krnnet.Address
	p uint16
}

func (o *bound) Number() uint16 {
	return o.n
}

func (o *bound) RemoteAddress() krnnet.Address {
	return o.a
}

func (o *bound) RemotePort() uint16 {
	return o.p
}
