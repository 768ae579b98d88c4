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

package interrupt_test

import (
	krnirq "github.com/nabbar/minikern/interrupt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Interrupt Controller", func() {
	It("should start disabled", func() {
		c := krnirq.New()
		Expect(c.CurrentLevel()).To(Equal(krnirq.Disabled))
	})

	It("should return the prior level on set", func() {
		c := krnirq.New()
		Expect(c.SetLevel(krnirq.Enabled)).To(Equal(krnirq.Disabled))
		Expect(c.SetLevel(krnirq.Disabled)).To(Equal(krnirq.Enabled))
	})

	It("should hold posted handlers while disabled", func() {
		c := krnirq.New()

		n := 0
		c.Post(func() { n++ })

		c.Sync()
		Expect(n).To(Equal(0))
		Expect(c.Pending()).To(Equal(1))

		c.SetLevel(krnirq.Enabled)
		c.Sync()
		Expect(n).To(Equal(1))
		Expect(c.Pending()).To(Equal(0))
	})

	It("should run pending handlers in posting order with the level disabled", func() {
		c := krnirq.New()
		c.SetLevel(krnirq.Enabled)

		var seen []int

		c.Post(func() {
			seen = append(seen, 1)
			Expect(c.CurrentLevel()).To(Equal(krnirq.Disabled))
		})
		c.Post(func() { seen = append(seen, 2) })

		c.Sync()
		Expect(seen).To(Equal([]int{1, 2}))
		Expect(c.CurrentLevel()).To(Equal(krnirq.Enabled))
	})

	It("should unblock Wait on post", func() {
		c := krnirq.New()

		done := make(chan struct{})
		go func() {
			defer GinkgoRecover()
			c.Wait()
			close(done)
		}()

		c.Post(func() {})
		Eventually(done).Should(BeClosed())
	})
})
