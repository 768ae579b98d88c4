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

package udp_test

import (
	"time"

	krnnet "github.com/nabbar/minikern/network"
	trxudp "github.com/nabbar/minikern/network/udp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UDP Transceiver", func() {
	It("should refuse an empty bind address", func() {
		_, e := trxudp.New(trxudp.Config{}, nil)
		Expect(e).ToNot(BeNil())
	})

	It("should carry packets between two endpoints", func() {
		a, e := trxudp.New(trxudp.Config{Bind: "127.0.0.1:0"}, nil)
		Expect(e).To(BeNil())
		defer func() { _ = a.Close() }()

		b, e := trxudp.New(trxudp.Config{Bind: "127.0.0.1:0"}, nil)
		Expect(e).To(BeNil())
		defer func() { _ = b.Close() }()

		got := make(chan *krnnet.Packet, 1)
		b.RegisterHandler(func(p *krnnet.Packet) { got <- p })

		n, e := a.Send(b.LocalAddress(), []byte{1, 2, 3}, []byte{4, 5})
		Expect(e).To(BeNil())
		Expect(n).To(Equal(5))

		var pkt *krnnet.Packet
		Eventually(got, time.Second).Should(Receive(&pkt))
		Expect(pkt.Data).To(Equal([]byte{1, 2, 3, 4, 5}))
		Expect(pkt.From).To(Equal(a.LocalAddress()))
	})

	It("should refuse to send once closed", func() {
		a, e := trxudp.New(trxudp.Config{Bind: "127.0.0.1:0"}, nil)
		Expect(e).To(BeNil())

		Expect(a.Close()).To(BeNil())

		_, e = a.Send(a.LocalAddress(), []byte{1}, nil)
		Expect(e).ToNot(BeNil())
	})
})
