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

package message_test

import (
	"bytes"
	"time"

	krnmsg "github.com/nabbar/minikern/message"
	krnnet "github.com/nabbar/minikern/network"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Datagram Messaging", func() {
	It("should reject the wrong port polarity without side effects", func() {
		k := bootKernel()

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			m := k.Messages()

			u, e := m.CreateUnbound(32768)
			Expect(u).To(BeNil())
			Expect(e).ToNot(BeNil())
			Expect(e.IsCode(krnmsg.ErrorPortPolarity)).To(BeTrue())

			b, e := m.CreateBound(k.Address(), 40000)
			Expect(b).To(BeNil())
			Expect(e).ToNot(BeNil())
			Expect(e.IsCode(krnmsg.ErrorPortPolarity)).To(BeTrue())

			k.Halt()
		}, nil)
	})

	It("should reuse the receiving port instance on duplicate create", func() {
		k := bootKernel()

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			m := k.Messages()

			a, e := m.CreateUnbound(100)
			Expect(e).To(BeNil())

			b, e := m.CreateUnbound(100)
			Expect(e).To(BeNil())
			Expect(a).To(BeIdenticalTo(b))

			k.Halt()
		}, nil)
	})

	It("should deliver a datagram to localhost and answer through the reply port", func() {
		k := bootKernel()

		var got []byte

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			c := k.Scheduler()
			m := k.Messages()

			mine, e := m.CreateUnbound(10)
			Expect(e).To(BeNil())

			peer, e := m.CreateUnbound(11)
			Expect(e).To(BeNil())

			_, e = c.Fork(func(interface{}) {
				buf := make([]byte, 64)

				n, from, er := m.Receive(peer, buf)
				Expect(er).To(BeNil())

				// answer through the fresh reply port
				_, er = m.Send(peer, from, buf[:n])
				Expect(er).To(BeNil())
			}, nil)
			Expect(e).To(BeNil())

			snd, e := m.CreateBound(k.Address(), 11)
			Expect(e).To(BeNil())

			n, e := m.Send(mine, snd, []byte("ping"))
			Expect(e).To(BeNil())
			Expect(n).To(Equal(4))

			buf := make([]byte, 64)
			n, _, e = m.Receive(mine, buf)
			Expect(e).To(BeNil())

			got = append([]byte{}, buf[:n]...)

			k.Halt()
		}, nil)

		Expect(got).To(Equal([]byte("ping")))
	})

	It("should truncate into a short receive buffer", func() {
		k := bootKernel()

		msg := []byte("Hello, world!\nGoodbye, world!\n")

		var got []byte

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			m := k.Messages()

			rcv, e := m.CreateUnbound(20)
			Expect(e).To(BeNil())

			snd, e := m.CreateBound(k.Address(), 20)
			Expect(e).To(BeNil())

			n, e := m.Send(rcv, snd, msg)
			Expect(e).To(BeNil())
			Expect(n).To(Equal(len(msg)))

			buf := make([]byte, 21)
			n, _, e = m.Receive(rcv, buf)
			Expect(e).To(BeNil())
			Expect(n).To(Equal(21))

			got = append([]byte{}, buf[:n]...)

			k.Halt()
		}, nil)

		Expect(got).To(Equal(msg[:21]))
		Expect(bytes.HasPrefix([]byte("Hello, world!\nGoodbye, world!\n"), got)).To(BeTrue())
	})

	It("should refuse an oversize payload and transmit nothing", func() {
		k := bootKernel()

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			c := k.Scheduler()
			m := k.Messages()

			rcv, e := m.CreateUnbound(30)
			Expect(e).To(BeNil())

			snd, e := m.CreateBound(k.Address(), 30)
			Expect(e).To(BeNil())

			n, er := m.Send(rcv, snd, make([]byte, krnnet.MaxDatagramPayload+1))
			Expect(er).ToNot(BeNil())
			Expect(er.IsCode(krnmsg.ErrorPayloadOversize)).To(BeTrue())
			Expect(n).To(Equal(-1))

			Expect(c.SleepWithTimeout(20 * time.Millisecond)).To(BeNil())
			Expect(rcv.Pending()).To(Equal(0))

			k.Halt()
		}, nil)
	})

	It("should accept a payload at the maximum size", func() {
		k := bootKernel()

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			m := k.Messages()

			rcv, e := m.CreateUnbound(31)
			Expect(e).To(BeNil())

			snd, e := m.CreateBound(k.Address(), 31)
			Expect(e).To(BeNil())

			p := make([]byte, krnnet.MaxDatagramPayload)
			for i := range p {
				p[i] = byte(i % 256)
			}

			n, er := m.Send(rcv, snd, p)
			Expect(er).To(BeNil())
			Expect(n).To(Equal(len(p)))

			buf := make([]byte, krnnet.MaxDatagramPayload)
			n, _, er = m.Receive(rcv, buf)
			Expect(er).To(BeNil())
			Expect(n).To(Equal(len(p)))
			Expect(buf[:n]).To(Equal(p))

			k.Halt()
		}, nil)
	})

	It("should hand out distinct sending port numbers", func() {
		k := bootKernel()

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			m := k.Messages()

			a, e := m.CreateBound(k.Address(), 0)
			Expect(e).To(BeNil())

			b, e := m.CreateBound(k.Address(), 0)
			Expect(e).To(BeNil())
			Expect(a.Number()).ToNot(Equal(b.Number()))

			m.Destroy(a)
			m.Destroy(b)

			k.Halt()
		}, nil)
	})
})
