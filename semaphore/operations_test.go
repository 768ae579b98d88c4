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

package semaphore_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Semaphore Operations", func() {
	It("should count down on P and up on V without waiters", func() {
		k := bootKernel()

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			s := k.NewSemaphore()
			s.Init(2)

			s.P()
			s.P()
			Expect(s.Count()).To(Equal(0))
			Expect(s.Waiting()).To(Equal(0))

			s.V()
			Expect(s.Count()).To(Equal(1))

			k.Halt()
		}, nil)
	})

	It("should block on zero and wake FIFO", func() {
		k := bootKernel()

		var order []int

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			c := k.Scheduler()
			s := k.NewSemaphore()
			s.Init(0)

			for i := 0; i < 3; i++ {
				_, e := c.Fork(func(arg interface{}) {
					s.P()
					order = append(order, arg.(int))
				}, i)
				Expect(e).To(BeNil())
			}

			// let all three block on the semaphore
			Expect(c.SleepWithTimeout(20 * time.Millisecond)).To(BeNil())
			Expect(s.Waiting()).To(Equal(3))
			Expect(s.Count()).To(Equal(0))

			for i := 0; i < 3; i++ {
				s.V()
				Expect(c.SleepWithTimeout(10 * time.Millisecond)).To(BeNil())
			}

			k.Halt()
		}, nil)

		Expect(order).To(Equal([]int{0, 1, 2}))
	})

	It("should keep the count non-negative while waiters exist", func() {
		k := bootKernel()

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			c := k.Scheduler()
			s := k.NewSemaphore()
			s.Init(0)

			_, e := c.Fork(func(interface{}) { s.P() }, nil)
			Expect(e).To(BeNil())

			Expect(c.SleepWithTimeout(20 * time.Millisecond)).To(BeNil())

			// count > 0 with a non-empty wait queue would break the
			// semaphore invariant
			Expect(s.Count()).To(Equal(0))
			Expect(s.Waiting()).To(Equal(1))

			s.V()
			Expect(c.SleepWithTimeout(10 * time.Millisecond)).To(BeNil())
			Expect(s.Waiting()).To(Equal(0))
			Expect(s.Count()).To(Equal(0))

			k.Halt()
		}, nil)
	})

	It("should serialize threads used as a mutex", func() {
		k := bootKernel()

		depth, worst := 0, 0

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			c := k.Scheduler()
			m := k.NewSemaphore()
			m.Init(1)

			for i := 0; i < 4; i++ {
				_, e := c.Fork(func(interface{}) {
					m.P()
					depth++
					if depth > worst {
						worst = depth
					}

					c.Yield()

					depth--
					m.V()
				}, nil)
				Expect(e).To(BeNil())
			}

			Expect(c.SleepWithTimeout(30 * time.Millisecond)).To(BeNil())
			k.Halt()
		}, nil)

		Expect(worst).To(Equal(1))
	})
})
