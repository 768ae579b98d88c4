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

package machine

import (
	"runtime"
	"sync"

	liberr "github.com/nabbar/golib/errors"
)

type stk struct {
	r chan struct{} // resume token, buffered
	q chan struct{} // quit signal, closed on free
	f bool          // freed
}

type stkBase struct {
	s *stk
}

type stkTop struct {
	s *stk
}

func (o *stkBase) isStackBase() {}
func (o *stkTop) isStackTop()   {}

type mac struct {
	m sync.Mutex
	a []*stk
	h func()
}

func (o *mac) AllocateStack() (StackBase, StackTop) {
	s := &stk{
		r: make(chan struct{}, 1),
		q: make(chan struct{}),
	}

	o.m.Lock()
	o.a = append(o.a, s)
	o.m.Unlock()

	return &stkBase{s: s}, &stkTop{s: s}
}

func (o *mac) InitializeStack(t StackTop, entry Proc, arg interface{}, cleanup Proc, cleanupArg interface{}) liberr.Error {
	s, k := t.(*stkTop)
	if !k || s == nil || s.s == nil {
		return ErrorParamEmpty.Error(nil)
	} else if entry == nil || cleanup == nil {
		return ErrorParamEmpty.Error(nil)
	}

	go func() {
		o.park(s.s)
		entry(arg)
		cleanup(cleanupArg)
	}()

	return nil
}

func (o *mac) SwitchContext(out, in StackTop) {
	so, ko := out.(*stkTop)
	si, ki := in.(*stkTop)

	if !ko || !ki || so == nil || si == nil {
		panic("machine: switch context with invalid stack top")
	}

	si.s.r <- struct{}{}
	o.park(so.s)
}

// park blocks until the stack is resumed or freed. A freed stack unwinds the
// parked goroutine.
func (o *mac) park(s *stk) {
	select {
	case <-s.r:
		if o.h != nil {
			o.h()
		}
	case <-s.q:
		runtime.Goexit()
	}
}

func (o *mac) FreeStack(b StackBase) {
	s, k := b.(*stkBase)
	if !k || s == nil || s.s == nil {
		return
	}

	o.m.Lock()
	defer o.m.Unlock()

	o.free(s.s)
}

func (o *mac) free(s *stk) {
	if s.f {
		return
	}

	s.f = true
	close(s.q)

	for i := range o.a {
		if o.a[i] == s {
			o.a = append(o.a[:i], o.a[i+1:]...)
			break
		}
	}
}

func (o *mac) Close() {
	o.m.Lock()
	defer o.m.Unlock()

	for len(o.a) > 0 {
		o.free(o.a[0])
	}
}
