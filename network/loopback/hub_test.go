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

package loopback_test

import (
	krnnet "github.com/nabbar/minikern/network"
	lbhub "github.com/nabbar/minikern/network/loopback"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Loopback Hub", func() {
	It("should assign distinct addresses to endpoints", func() {
		h := lbhub.New()
		defer h.Close()

		a := h.Join()
		b := h.Join()

		Expect(a.LocalAddress()).ToNot(Equal(b.LocalAddress()))
	})

	It("should deliver between endpoints and to self", func() {
		h := lbhub.New()
		defer h.Close()

		a := h.Join()
		b := h.Join()

		var got []*krnnet.Packet

		b.RegisterHandler(func(p *krnnet.Packet) { got = append(got, p) })
		a.RegisterHandler(func(p *krnnet.Packet) { got = append(got, p) })

		n, e := a.Send(b.LocalAddress(), []byte{1, 2, 3}, []byte{4})
		Expect(e).To(BeNil())
		Expect(n).To(Equal(4))

		n, e = a.Send(a.LocalAddress(), []byte{9}, nil)
		Expect(e).To(BeNil())
		Expect(n).To(Equal(1))

		Expect(got).To(HaveLen(2))
		Expect(got[0].From).To(Equal(a.LocalAddress()))
		Expect(got[0].Data).To(Equal([]byte{1, 2, 3, 4}))
		Expect(got[1].Data).To(Equal([]byte{9}))
	})

	It("should swallow packets to unknown addresses", func() {
		h := lbhub.New()
		defer h.Close()

		a := h.Join()

		n, e := a.Send(krnnet.Address{0, 4242}, []byte{1}, nil)
		Expect(e).To(BeNil())
		Expect(n).To(Equal(1))
	})

	It("should detach a closed endpoint", func() {
		h := lbhub.New()

		a := h.Join()
		b := h.Join()

		hit := false
		b.RegisterHandler(func(*krnnet.Packet) { hit = true })

		Expect(b.Close()).To(BeNil())

		_, e := a.Send(b.LocalAddress(), []byte{1}, nil)
		Expect(e).To(BeNil())
		Expect(hit).To(BeFalse())
	})
})
