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

package stream_test

import (
	"bytes"
	"fmt"

	lbhub "github.com/nabbar/minikern/network/loopback"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const bulkSize = 100000

var _ = Describe("Stream Transfer", func() {
	It("should carry a loopback bulk transfer byte for byte", func() {
		k := bootKernel(lbhub.New())

		sent := pattern(bulkSize, 0)

		var (
			got  []byte
			nOut int
		)

		_ = k.Run(func(interface{}) {
			defer GinkgoRecover()

			c := k.Scheduler()
			y := k.Streams()

			done := k.NewSemaphore()
			done.Init(0)

			_, e := c.Fork(func(interface{}) {
				defer done.V()

				srv, er := y.ServerCreate(80)
				Expect(er).To(BeNil())

				buf := make([]byte, 4096)
				for len(got) < bulkSize {
					n, er := srv.Receive(buf)
					Expect(er).To(BeNil())
					got = append(got, buf[:n]...)
				}

				srv.Close()
			}, nil)
			Expect(e).To(BeNil())

			cli, er := y.ClientCreate(k.Address(), 80)
			Expect(er).To(BeNil())

			nOut, er = cli.Send(sent)
			Expect(er).To(BeNil())

			done.P()
			cli.Close()
			k.Halt()
		}, nil)

		Expect(nOut).To(Equal(bulkSize))
		Expect(got).To(HaveLen(bulkSize))
		Expect(bytes.Equal(got, sent)).To(BeTrue())
	})

	It("should complete ten parallel streams without cross-talk", func() {
		hub := lbhub.New()

		ks := bootKernel(hub)
		kc := bootKernel(hub)

		const size = 100000

		var (
			srvDone = make(chan error, 10)
			cliDone = make(chan error, 10)
			stop    = make(chan struct{})
		)

		go func() {
			defer GinkgoRecover()

			_ = ks.Run(func(interface{}) {
				defer GinkgoRecover()

				c := ks.Scheduler()
				y := ks.Streams()

				done := ks.NewSemaphore()
				done.Init(0)

				for i := 0; i < 10; i++ {
					_, e := c.Fork(func(arg interface{}) {
						defer done.V()

						port := arg.(int)

						srv, er := y.ServerCreate(uint16(80 + port))
						if er != nil {
							srvDone <- fmt.Errorf("server %d: %s", port, er.Error())
							return
						}

						// echo the whole stream back
						buf := make([]byte, 8192)
						read := 0
						for read < size {
							n, er := srv.Receive(buf)
							if er != nil {
								srvDone <- fmt.Errorf("server %d receive: %s", port, er.Error())
								return
							}

							if _, er = srv.Send(buf[:n]); er != nil {
								srvDone <- fmt.Errorf("server %d send: %s", port, er.Error())
								return
							}

							read += n
						}

						srv.Close()
						srvDone <- nil
					}, i)
					Expect(e).To(BeNil())
				}

				for i := 0; i < 10; i++ {
					done.P()
				}

				ks.Halt()
			}, nil)
		}()

		go func() {
			defer GinkgoRecover()

			_ = kc.Run(func(interface{}) {
				defer GinkgoRecover()

				c := kc.Scheduler()
				y := kc.Streams()

				done := kc.NewSemaphore()
				done.Init(0)

				for i := 0; i < 10; i++ {
					_, e := c.Fork(func(arg interface{}) {
						defer done.V()

						port := arg.(int)
						sent := pattern(size, port)

						cli, er := y.ClientCreate(ks.Address(), uint16(80+port))
						if er != nil {
							cliDone <- fmt.Errorf("client %d: %s", port, er.Error())
							return
						}

						if n, er := cli.Send(sent); er != nil || n != size {
							cliDone <- fmt.Errorf("client %d send %d: %v", port, n, er)
							return
						}

						got := make([]byte, 0, size)
						buf := make([]byte, 8192)
						for len(got) < size {
							n, er := cli.Receive(buf)
							if er != nil {
								cliDone <- fmt.Errorf("client %d receive: %s", port, er.Error())
								return
							}

							got = append(got, buf[:n]...)
						}

						cli.Close()

						if !bytes.Equal(got, sent) {
							cliDone <- fmt.Errorf("client %d: stream corrupted", port)
							return
						}

						cliDone <- nil
					}, i)
					Expect(e).To(BeNil())
				}

				for i := 0; i < 10; i++ {
					done.P()
				}

				kc.Halt()
			}, nil)

			close(stop)
		}()

		for i := 0; i < 10; i++ {
			Eventually(cliDone, "60s").Should(Receive(BeNil()))
			Eventually(srvDone, "60s").Should(Receive(BeNil()))
		}

		Eventually(stop, "10s").Should(BeClosed())
	})
})
