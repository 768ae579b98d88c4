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

package kernel

import (
	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	krnclk "github.com/nabbar/minikern/clock"
	krnirq "github.com/nabbar/minikern/interrupt"
	krnmch "github.com/nabbar/minikern/machine"
	krnmsg "github.com/nabbar/minikern/message"
	krnnet "github.com/nabbar/minikern/network"
	krnsch "github.com/nabbar/minikern/scheduler"
	krnsem "github.com/nabbar/minikern/semaphore"
	krnstr "github.com/nabbar/minikern/stream"
)

type krn struct {
	m krnmch.Machine
	c krnirq.Controller
	k krnclk.Clock
	s krnsch.Scheduler
	g krnmsg.Layer
	r krnstr.Layer
	d krnnet.Demux
	x krnnet.Transceiver
	t krnmch.TickSource
}

func (o *krn) Run(main krnsch.Proc, arg interface{}) liberr.Error {
	o.t.Start()

	e := o.s.Run(main, arg)

	o.t.Stop()
	_ = o.x.Close()
	o.m.Close()

	return e
}

func (o *krn) Halt() {
	o.s.Halt()
}

func (o *krn) Scheduler() krnsch.Scheduler {
	return o.s
}

func (o *krn) Clock() krnclk.Clock {
	return o.k
}

func (o *krn) NewSemaphore() krnsem.Sem {
	return krnsem.New(o.s, o.c)
}

func (o *krn) Messages() krnmsg.Layer {
	return o.g
}

func (o *krn) Streams() krnstr.Layer {
	return o.r
}

func (o *krn) Address() krnnet.Address {
	return o.x.LocalAddress()
}

func (o *krn) RegisterLogger(fct liblog.FuncLog) {
	o.s.RegisterLogger(fct)
	o.g.RegisterLogger(fct)
	o.r.RegisterLogger(fct)
	o.d.RegisterLogger(fct)
}
