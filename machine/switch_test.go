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

package machine_test

import (
	"time"

	krnmch "github.com/nabbar/minikern/machine"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Stack Switching", func() {
	It("should refuse an empty entry or cleanup", func() {
		m := krnmch.New(nil)
		defer m.Close()

		_, t := m.AllocateStack()
		Expect(m.InitializeStack(t, nil, nil, nil, nil)).ToNot(BeNil())
	})

	It("should run entry then cleanup across switches", func() {
		m := krnmch.New(nil)
		defer m.Close()

		_, boot := m.AllocateStack()

		var steps []string

		_, t := m.AllocateStack()
		e := m.InitializeStack(t, func(arg interface{}) {
			steps = append(steps, arg.(string))
		}, "entry", func(interface{}) {
			steps = append(steps, "cleanup")
			m.SwitchContext(t, boot)
		}, nil)
		Expect(e).To(BeNil())

		m.SwitchContext(boot, t)

		Expect(steps).To(Equal([]string{"entry", "cleanup"}))
	})

	It("should run the resume hook on each restore", func() {
		n := 0
		m := krnmch.New(func() { n++ })
		defer m.Close()

		_, boot := m.AllocateStack()
		_, t := m.AllocateStack()

		e := m.InitializeStack(t, func(interface{}) {}, nil, func(interface{}) {
			m.SwitchContext(t, boot)
		}, nil)
		Expect(e).To(BeNil())

		m.SwitchContext(boot, t)

		// one restore for the thread's first entry, one for the boot stack
		Expect(n).To(Equal(2))
	})

	It("should unwind a parked goroutine on free", func() {
		m := krnmch.New(nil)

		_, boot := m.AllocateStack()
		b, t := m.AllocateStack()

		done := make(chan struct{})

		e := m.InitializeStack(t, func(interface{}) {
			m.SwitchContext(t, boot)
		}, nil, func(interface{}) {
			// never reached: the stack is freed while parked in entry
			close(done)
		}, nil)
		Expect(e).To(BeNil())

		m.SwitchContext(boot, t)
		m.FreeStack(b)

		Consistently(done, 50*time.Millisecond).ShouldNot(BeClosed())
		m.Close()
	})
})

var _ = Describe("Tick Source", func() {
	It("should deliver ticks until stopped", func() {
		c := make(chan struct{}, 64)

		t := krnmch.NewTicker(time.Millisecond, func() {
			select {
			case c <- struct{}{}:
			default:
			}
		})

		t.Start()
		Eventually(c, time.Second).Should(Receive())
		t.Stop()

		// draining after stop leaves the channel quiet
		time.Sleep(5 * time.Millisecond)
		for len(c) > 0 {
			<-c
		}
		Consistently(c, 20*time.Millisecond).ShouldNot(Receive())
	})

	It("should tolerate repeated start and stop", func() {
		t := krnmch.NewTicker(time.Millisecond, func() {})
		t.Start()
		t.Start()
		t.Stop()
		t.Stop()
	})
})
