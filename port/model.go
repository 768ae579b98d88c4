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

package port

import (
	"github.com/bits-and-blooms/bitset"

	liberr "github.com/nabbar/golib/errors"

	krnsem "github.com/nabbar/minikern/semaphore"
)

type tbl[T any] struct {
	s []T
	o []bool
	b *bitset.BitSet
	c uint32
	m krnsem.Sem
}

func (o *tbl[T]) Get(n uint16) (T, bool) {
	var z T

	if !o.o[n] {
		return z, false
	}

	return o.s[n], true
}

func (o *tbl[T]) InUse(n uint16) bool {
	return o.o[n]
}

func (o *tbl[T]) Install(n uint16, v T) liberr.Error {
	o.m.P()
	defer o.m.V()

	return o.install(n, v)
}

func (o *tbl[T]) install(n uint16, v T) liberr.Error {
	if o.o[n] {
		return ErrorPortInUse.Error(nil)
	}

	o.s[n] = v
	o.o[n] = true

	if n >= ClientStart {
		o.b.Set(uint(n - ClientStart))
	}

	return nil
}

func (o *tbl[T]) LoadOrInstall(n uint16, create func() (T, liberr.Error)) (T, liberr.Error) {
	var z T

	if create == nil {
		return z, ErrorParamEmpty.Error(nil)
	}

	o.m.P()
	defer o.m.V()

	if o.o[n] {
		return o.s[n], nil
	}

	v, e := create()
	if e != nil {
		return z, e
	}

	if e = o.install(n, v); e != nil {
		return z, e
	}

	return v, nil
}

func (o *tbl[T]) Uninstall(n uint16) {
	var z T

	o.m.P()
	defer o.m.V()

	o.s[n] = z
	o.o[n] = false
}

func (o *tbl[T]) Reserve() (uint16, liberr.Error) {
	o.m.P()
	defer o.m.V()

	if o.c <= uint32(ClientEnd) {
		n := uint16(o.c)
		o.c++
		o.b.Set(uint(n - ClientStart))

		return n, nil
	}

	// counter exhausted: the availability bitmap is now authoritative
	if i, k := o.b.NextClear(0); k && i <= uint(ClientEnd-ClientStart) {
		o.b.Set(i)
		return ClientStart + uint16(i), nil
	}

	return 0, ErrorNoMorePorts.Error(nil)
}

func (o *tbl[T]) Release(n uint16) {
	var z T

	o.m.P()
	defer o.m.V()

	o.s[n] = z
	o.o[n] = false

	if n >= ClientStart {
		o.b.Clear(uint(n - ClientStart))
	}
}
