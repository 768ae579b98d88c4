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

package clock_test

import (
	"time"

	krnclk "github.com/nabbar/minikern/clock"
	krnirq "github.com/nabbar/minikern/interrupt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Clock Alarms", func() {
	var (
		ctl krnirq.Controller
		clk krnclk.Clock
	)

	BeforeEach(func() {
		ctl = krnirq.New()

		c, e := krnclk.New(100*time.Millisecond, ctl)
		Expect(e).To(BeNil())

		clk = c
	})

	step := func() {
		clk.Advance()
		clk.RunDue()
	}

	It("should reject an empty handler", func() {
		_, e := clk.Register(time.Second, nil, nil)
		Expect(e).ToNot(BeNil())
	})

	It("should round delays to the nearest tick with a floor of one", func() {
		a, e := clk.Register(10*time.Millisecond, func(interface{}) {}, nil)
		Expect(e).To(BeNil())
		Expect(a.Deadline()).To(Equal(uint64(1)))

		a, e = clk.Register(150*time.Millisecond, func(interface{}) {}, nil)
		Expect(e).To(BeNil())
		Expect(a.Deadline()).To(Equal(uint64(2)))

		a, e = clk.Register(100*time.Millisecond, func(interface{}) {}, nil)
		Expect(e).To(BeNil())
		Expect(a.Deadline()).To(Equal(uint64(1)))
	})

	It("should fire handlers in deadline order", func() {
		var fired []time.Duration

		h := func(arg interface{}) {
			fired = append(fired, arg.(time.Duration))
		}

		for _, d := range []time.Duration{50 * time.Millisecond, 150 * time.Millisecond, 100 * time.Millisecond} {
			_, e := clk.Register(d, h, d)
			Expect(e).To(BeNil())
		}

		step()
		step()

		Expect(fired).To(Equal([]time.Duration{
			50 * time.Millisecond,
			100 * time.Millisecond,
			150 * time.Millisecond,
		}))
		Expect(clk.Pending()).To(Equal(0))
	})

	It("should keep only future deadlines in the table", func() {
		for _, d := range []time.Duration{100 * time.Millisecond, 300 * time.Millisecond, 500 * time.Millisecond} {
			_, e := clk.Register(d, func(interface{}) {}, nil)
			Expect(e).To(BeNil())
		}

		for _, n := range []int{2, 2, 1, 1, 0} {
			step()
			Expect(clk.Pending()).To(Equal(n))
		}
	})

	It("should deregister a pending alarm and report a fired one", func() {
		n := 0
		a, e := clk.Register(100*time.Millisecond, func(interface{}) { n++ }, nil)
		Expect(e).To(BeNil())

		Expect(clk.Deregister(a)).To(BeFalse())
		step()
		Expect(n).To(Equal(0))

		b, e := clk.Register(100*time.Millisecond, func(interface{}) { n++ }, nil)
		Expect(e).To(BeNil())
		step()
		Expect(n).To(Equal(1))
		Expect(b.Fired()).To(BeTrue())
		Expect(clk.Deregister(b)).To(BeTrue())
	})
})
