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

package kernel_test

import (
	"time"

	libdur "github.com/nabbar/golib/duration"

	krnkrn "github.com/nabbar/minikern/kernel"
	lbhub "github.com/nabbar/minikern/network/loopback"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Kernel Config", func() {
	It("should accept the default config", func() {
		Expect(krnkrn.DefaultConfig().Validate()).To(BeNil())
	})

	It("should refuse a missing tick period", func() {
		Expect(krnkrn.Config{}.Validate()).ToNot(BeNil())
	})

	It("should refuse a negative retry delay", func() {
		c := krnkrn.DefaultConfig()
		c.RetryDelays = []libdur.Duration{libdur.Duration(-time.Millisecond)}

		Expect(c.Validate()).ToNot(BeNil())
	})
})

var _ = Describe("Kernel Assembly", func() {
	It("should refuse a nil transceiver", func() {
		k, e := krnkrn.New(krnkrn.DefaultConfig(), nil)
		Expect(k).To(BeNil())
		Expect(e).ToNot(BeNil())
	})

	It("should refuse an invalid config", func() {
		k, e := krnkrn.New(krnkrn.Config{}, lbhub.New().Join())
		Expect(k).To(BeNil())
		Expect(e).ToNot(BeNil())
	})

	It("should boot, expose its parts and halt", func() {
		k, e := krnkrn.New(krnkrn.Config{
			TickPeriod: libdur.Duration(time.Millisecond),
		}, lbhub.New().Join())
		Expect(e).To(BeNil())

		Expect(k.Scheduler()).ToNot(BeNil())
		Expect(k.Clock()).ToNot(BeNil())
		Expect(k.Messages()).ToNot(BeNil())
		Expect(k.Streams()).ToNot(BeNil())

		ticks := uint64(0)

		err := k.Run(func(interface{}) {
			defer GinkgoRecover()

			s := k.Scheduler()
			Expect(s.SleepWithTimeout(20 * time.Millisecond)).To(BeNil())

			ticks = k.Clock().Tick()
			k.Halt()
		}, nil)

		Expect(err).To(BeNil())
		Expect(ticks).To(BeNumerically(">", uint64(0)))
	})
})
