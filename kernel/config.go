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
	"fmt"
	"time"

	libval "github.com/go-playground/validator/v10"

	libdur "github.com/nabbar/golib/duration"
	liberr "github.com/nabbar/golib/errors"

	krnstr "github.com/nabbar/minikern/stream"
)

// Config holds the kernel settings. The retransmission and linger knobs
// default to the stream layer's schedule when left empty.
type Config struct {
	// TickPeriod is the clock interrupt period.
	TickPeriod libdur.Duration `json:"tick-period" yaml:"tick-period" mapstructure:"tick-period" validate:"required,gt=0"`

	// RetryDelays overrides the stream retransmission schedule, one entry
	// per try.
	RetryDelays []libdur.Duration `json:"retry-delays" yaml:"retry-delays" mapstructure:"retry-delays" validate:"omitempty,dive,gt=0"`

	// Linger overrides how long a socket answers after a peer FIN before
	// moving to closed.
	Linger libdur.Duration `json:"linger" yaml:"linger" mapstructure:"linger" validate:"omitempty,gt=0"`
}

// DefaultConfig returns the production settings: 100ms ticks and the
// standard stream schedule.
func DefaultConfig() Config {
	return Config{
		TickPeriod: libdur.Duration(100 * time.Millisecond),
	}
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

func (c Config) streamOptions() krnstr.Options {
	o := krnstr.Options{
		Linger: c.Linger.Time(),
	}

	for _, d := range c.RetryDelays {
		o.RetryDelays = append(o.RetryDelays, d.Time())
	}

	return o
}
