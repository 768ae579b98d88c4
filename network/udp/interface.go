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

// Package udp carries kernel packets over a real UDP socket, one datagram
// per packet, so two kernels on different hosts interoperate. The kernel
// address packs the IPv4 address in the high half and the UDP port in the
// low half; bind a concrete interface address, not a wildcard, so the
// advertised local address is routable.
package udp

import (
	"fmt"
	"net"

	libval "github.com/go-playground/validator/v10"

	liberr "github.com/nabbar/golib/errors"
	liblog "github.com/nabbar/golib/logger"

	krnnet "github.com/nabbar/minikern/network"
)

// Config holds the transceiver settings.
type Config struct {
	// Bind is the local "host:port" UDP address to listen on.
	Bind string `json:"bind" yaml:"bind" mapstructure:"bind" validate:"required,hostname_port"`
}

// Validate checks the config against its constraints.
func (c Config) Validate() liberr.Error {
	var e = ErrorValidatorError.Error(nil)

	if err := libval.New().Struct(c); err != nil {
		if er, k := err.(*libval.InvalidValidationError); k {
			e.Add(er)
		}

		for _, er := range err.(libval.ValidationErrors) {
			//nolint #goerr113
			e.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
		}
	}

	if !e.HasParent() {
		e = nil
	}

	return e
}

// New binds the UDP socket and starts the receive loop. Packets arriving
// before RegisterHandler is called are dropped.
func New(cfg Config, log liblog.FuncLog) (krnnet.Transceiver, liberr.Error) {
	if e := cfg.Validate(); e != nil {
		return nil, e
	}

	a, err := net.ResolveUDPAddr("udp4", cfg.Bind)
	if err != nil {
		return nil, ErrorResolveAddress.Error(err)
	}

	c, err := net.ListenUDP("udp4", a)
	if err != nil {
		return nil, ErrorListen.Error(err)
	}

	t := &trx{
		c:  c,
		a:  addressOf(c.LocalAddr().(*net.UDPAddr)),
		lg: log,
	}

	go t.reader()

	return t, nil
}
