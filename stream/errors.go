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

package stream

import (
	"fmt"

	liberr "github.com/nabbar/golib/errors"
)

const (
	ErrorInvalidParams liberr.CodeError = iota + liberr.MinAvailable + 120
	ErrorNoMorePorts
	ErrorPortInUse
	ErrorNoServer
	ErrorBusy
	ErrorSendError
	ErrorReceiveError
	ErrorOutOfMemory
)

func init() {
	if liberr.ExistInMapMessage(ErrorInvalidParams) {
		panic(fmt.Errorf("error code collision with package minikern/stream"))
	}
	liberr.RegisterIdFctMessage(ErrorInvalidParams, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorInvalidParams:
		return "given parameters is empty or out of range"
	case ErrorNoMorePorts:
		return "stream: no available client port left"
	case ErrorPortInUse:
		return "stream: server port already bound"
	case ErrorNoServer:
		return "stream: no answer after the full retransmission schedule"
	case ErrorBusy:
		return "stream: connection refused by the remote socket"
	case ErrorSendError:
		return "stream: cannot send on this socket"
	case ErrorReceiveError:
		return "stream: cannot receive on this socket"
	case ErrorOutOfMemory:
		return "stream: cannot allocate socket resources"
	}

	return liberr.NullMessage
}
