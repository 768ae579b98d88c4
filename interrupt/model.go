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

package interrupt

import (
	"sync"

	libatm "github.com/nabbar/golib/atomic"
)

type ctl struct {
	m sync.Mutex
	p []Handler
	l libatm.Value[Level]
	w chan struct{}
}

func (o *ctl) SetLevel(l Level) Level {
	return o.l.Swap(l)
}

func (o *ctl) CurrentLevel() Level {
	return o.l.Load()
}

func (o *ctl) Post(h Handler) {
	if h == nil {
		return
	}

	o.m.Lock()
	o.p = append(o.p, h)
	o.m.Unlock()

	select {
	case o.w <- struct{}{}:
	default:
	}
}

func (o *ctl) Sync() {
	if o.CurrentLevel() != Enabled {
		return
	}

	for {
		h := o.pop()
		if h == nil {
			return
		}

		p := o.SetLevel(Disabled)
		h()
		o.SetLevel(p)
	}
}

func (o *ctl) pop() Handler {
	o.m.Lock()
	defer o.m.Unlock()

	if len(o.p) == 0 {
		return nil
	}

	h := o.p[0]
	o.p = o.p[1:]

	return h
}

func (o *ctl) Wait() {
	for o.Pending() == 0 {
		<-o.w
	}
}

func (o *ctl) Pending() int {
	o.m.Lock()
	defer o.m.Unlock()

	return len(o.p)
}
