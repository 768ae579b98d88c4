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

// Package kernel assembles the whole system: machine, interrupt controller,
// tick clock, scheduler, semaphores, port namespaces, datagram and stream
// layers, and the network demultiplexer, wired over one transceiver.
//
// Example usage:
//
//	hub := loopback.New()
//	krn, _ := kernel.New(kernel.DefaultConfig(), hub.Join())
//	_ = krn.Run(func(arg interface{}) {
//		// kernel threads live here
//		krn.Halt()
//	}, nil)
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

// Kernel is an assembled system instance.
type Kernel interface {
	// Run boots the scheduler with main(arg) as first thread and starts the
	// tick source. It blocks until Halt, then releases the ticker, the
	// transceiver and every stack.
	Run(main krnsch.Proc, arg interface{}) liberr.Error

	// Halt stops the system from inside a kernel thread.
	Halt()

	// Scheduler returns the thread API.
	Scheduler() krnsch.Scheduler

	// Clock returns the shared tick clock and alarm table.
	Clock() krnclk.Clock

	// NewSemaphore returns a fresh uninitialized kernel semaphore.
	NewSemaphore() krnsem.Sem

	// Messages returns the datagram messaging layer.
	Messages() krnmsg.Layer

	// Streams returns the reliable stream layer.
	Streams() krnstr.Layer

	// Address returns this kernel's network address.
	Address() krnnet.Address

	// RegisterLogger sets the logger factory for every component.
	RegisterLogger(fct liblog.FuncLog)
}

// New assembles a kernel over the given transceiver.
func New(cfg Config, x krnnet.Transceiver) (Kernel, liberr.Error) {
	if x == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	if e := cfg.Validate(); e != nil {
		return nil, e
	}

	var (
		o   = &krn{x: x}
		ctl = krnirq.New()
	)

	o.c = ctl
	o.m = krnmch.New(func() {
		ctl.SetLevel(krnirq.Enabled)
	})

	var err liberr.Error

	if o.k, err = krnclk.New(cfg.TickPeriod.Time(), ctl); err != nil {
		return nil, err
	} else if o.s, err = krnsch.New(o.m, ctl, o.k); err != nil {
		return nil, err
	}

	f := krnsem.Factory(func() krnsem.Sem {
		return krnsem.New(o.s, ctl)
	})

	if o.g, err = krnmsg.New(ctl, x, f); err != nil {
		return nil, err
	} else if o.r, err = krnstr.New(ctl, o.k, x, f, cfg.streamOptions()); err != nil {
		return nil, err
	}

	o.d = krnnet.NewDemux()
	o.d.RegisterDatagram(o.g.HandlePacket)
	o.d.RegisterStream(o.r.HandlePacket)

	x.RegisterHandler(func(pkt *krnnet.Packet) {
		ctl.Post(func() {
			o.d.Handle(pkt)
		})
	})

	o.t = krnmch.NewTicker(cfg.TickPeriod.Time(), func() {
		ctl.Post(o.s.TickHandler)
	})

	return o, nil
}
