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

package network

import (
	"encoding/binary"
	"fmt"
)

// Address is the eight-byte network address of a machine, packed big-endian
// on the wire as two 32-bit halves. The udp transceiver stores the IPv4
// address in the high half and the UDP port in the low one; the loopback hub
// assigns sequential low halves.
type Address [2]uint32

// IsNull reports whether the address is the zero address.
func (a Address) IsNull() bool {
	return a[0] == 0 && a[1] == 0
}

// Equal reports whether both addresses are the same machine.
func (a Address) Equal(b Address) bool {
	return a[0] == b[0] && a[1] == b[1]
}

func (a Address) String() string {
	return fmt.Sprintf("%08x:%08x", a[0], a[1])
}

func (a Address) marshal(buf []byte) {
	binary.BigEndian.PutUint32(buf[0:4], a[0])
	binary.BigEndian.PutUint32(buf[4:8], a[1])
}

func parseAddress(buf []byte) Address {
	return Address{
		binary.BigEndian.Uint32(buf[0:4]),
		binary.BigEndian.Uint32(buf[4:8]),
	}
}
