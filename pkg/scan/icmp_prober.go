/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scan

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/carverauto/cloudlatency/pkg/models"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const (
	DefaultICMPTimeout = 2 * time.Second

	protocolICMP     = 1  // ipv4.ICMPTypeEcho.Protocol()
	protocolIPv6ICMP = 58 // ipv6.ICMPTypeEchoRequest.Protocol()

	packetBufferSize = 1500
	readPollInterval = 100 * time.Millisecond

	ipv4MinHeaderLen = 20
	ipv6HeaderLen    = 40
	echoHeaderLen    = 8
)

var echoPayload = []byte("cloudlatency")

type echoReply struct {
	at  time.Time
	err error
}

type pendingEcho struct {
	dst   net.IP
	reply chan echoReply
}

// ICMPProber sends echo requests over one shared ICMP transport per address
// family and matches replies back to the waiting probe by sequence number.
// Probes run concurrently and never wait on one another.
type ICMPProber struct {
	timeout    time.Duration
	privileged bool
	id         int
	seq        atomic.Uint32
	conn4      *icmp.PacketConn
	conn6      *icmp.PacketConn
	mu         sync.Mutex
	pending    map[uint16]*pendingEcho
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewICMPProber opens the ICMP transport. In privileged mode raw sockets are
// used (root or CAP_NET_RAW); otherwise unprivileged datagram ICMP sockets.
// Failure to open the IPv4 transport is fatal and wraps ErrICMPSetup; a missing
// IPv6 transport only disables IPv6 probes.
func NewICMPProber(timeout time.Duration, privileged bool) (*ICMPProber, error) {
	if timeout <= 0 {
		timeout = DefaultICMPTimeout
	}

	p := &ICMPProber{
		timeout:    timeout,
		privileged: privileged,
		id:         os.Getpid() & 0xffff,
		pending:    make(map[uint16]*pendingEcho),
		done:       make(chan struct{}),
	}

	network4, network6 := "udp4", "udp6"
	if privileged {
		network4, network6 = "ip4:icmp", "ip6:ipv6-icmp"
	}

	conn4, err := icmp.ListenPacket(network4, "0.0.0.0")
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s: %w", ErrICMPSetup, network4, err)
	}

	p.conn4 = conn4

	conn6, err := icmp.ListenPacket(network6, "::")
	if err != nil {
		log.Printf("IPv6 ICMP transport unavailable, IPv6 echo probes will fail: %v", err)
	} else {
		p.conn6 = conn6
	}

	p.wg.Add(1)

	go p.listen(p.conn4, protocolICMP)

	if p.conn6 != nil {
		p.wg.Add(1)

		go p.listen(p.conn6, protocolIPv6ICMP)
	}

	return p, nil
}

// Probe sends one echo request to target.IP and waits for the reply.
func (p *ICMPProber) Probe(ctx context.Context, target models.Target) (time.Duration, error) {
	conn, msgType, err := p.transportFor(target.IP)
	if err != nil {
		return 0, err
	}

	seq := uint16(p.seq.Add(1))
	pe := &pendingEcho{dst: target.IP, reply: make(chan echoReply, 1)}

	p.register(seq, pe)
	defer p.unregister(seq, pe)

	msg := icmp.Message{
		Type: msgType,
		Code: 0,
		Body: &icmp.Echo{ID: p.id, Seq: int(seq), Data: echoPayload},
	}

	wb, err := msg.Marshal(nil)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal echo request: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()

	if _, err := conn.WriteTo(wb, p.destination(target.IP)); err != nil {
		return 0, fmt.Errorf("%w: send echo to %s: %w", ErrProbeUnreachable, target.IP, err)
	}

	select {
	case r := <-pe.reply:
		if r.err != nil {
			return 0, r.err
		}

		return r.at.Sub(start), nil
	case <-probeCtx.Done():
		return 0, fmt.Errorf("%w: no echo reply from %s within %v", ErrProbeTimeout, target.IP, p.timeout)
	case <-p.done:
		return 0, errProberClosed
	}
}

// Close shuts down the transport and waits for the listeners to exit.
func (p *ICMPProber) Close() error {
	var err error

	p.closeOnce.Do(func() {
		close(p.done)

		if cerr := p.conn4.Close(); cerr != nil {
			err = fmt.Errorf("failed to close ICMP transport: %w", cerr)
		}

		if p.conn6 != nil {
			if cerr := p.conn6.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close ICMPv6 transport: %w", cerr)
			}
		}

		p.wg.Wait()
	})

	return err
}

func (p *ICMPProber) transportFor(ip net.IP) (*icmp.PacketConn, icmp.Type, error) {
	if ip.To4() != nil {
		return p.conn4, ipv4.ICMPTypeEcho, nil
	}

	if p.conn6 == nil {
		return nil, nil, fmt.Errorf("%w: no IPv6 ICMP transport for %s", ErrProbeUnreachable, ip)
	}

	return p.conn6, ipv6.ICMPTypeEchoRequest, nil
}

func (p *ICMPProber) destination(ip net.IP) net.Addr {
	if p.privileged {
		return &net.IPAddr{IP: ip}
	}

	return &net.UDPAddr{IP: ip}
}

func (p *ICMPProber) register(seq uint16, pe *pendingEcho) {
	p.mu.Lock()
	p.pending[seq] = pe
	p.mu.Unlock()
}

func (p *ICMPProber) unregister(seq uint16, pe *pendingEcho) {
	p.mu.Lock()
	if p.pending[seq] == pe {
		delete(p.pending, seq)
	}
	p.mu.Unlock()
}

// deliver hands r to the probe waiting on seq, provided the packet concerns
// the address that probe sent to.
func (p *ICMPProber) deliver(seq uint16, from net.IP, r echoReply) {
	p.mu.Lock()
	pe := p.pending[seq]
	p.mu.Unlock()

	if pe == nil {
		return
	}

	if from != nil && !from.Equal(pe.dst) {
		return
	}

	select {
	case pe.reply <- r:
	default:
	}
}

func (p *ICMPProber) listen(conn *icmp.PacketConn, proto int) {
	defer p.wg.Done()

	buf := make([]byte, packetBufferSize)

	for {
		select {
		case <-p.done:
			return
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(readPollInterval)); err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}

			continue
		}

		n, peer, err := conn.ReadFrom(buf)
		at := time.Now()

		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			if errors.Is(err, net.ErrClosed) {
				return
			}

			log.Printf("Error reading ICMP packet: %v", err)

			continue
		}

		p.handlePacket(proto, buf[:n], peer, at)
	}
}

func (p *ICMPProber) handlePacket(proto int, b []byte, peer net.Addr, at time.Time) {
	msg, err := icmp.ParseMessage(proto, b)
	if err != nil {
		return
	}

	switch msg.Type {
	case ipv4.ICMPTypeEchoReply, ipv6.ICMPTypeEchoReply:
		echo, ok := msg.Body.(*icmp.Echo)
		if !ok {
			return
		}

		// Datagram sockets get their ID rewritten by the kernel, which also
		// filters replies per socket.
		if p.privileged && echo.ID != p.id {
			return
		}

		p.deliver(uint16(echo.Seq), peerIP(peer), echoReply{at: at})
	case ipv4.ICMPTypeDestinationUnreachable, ipv6.ICMPTypeDestinationUnreachable,
		ipv4.ICMPTypeTimeExceeded, ipv6.ICMPTypeTimeExceeded:
		var quoted []byte

		switch body := msg.Body.(type) {
		case *icmp.DstUnreach:
			quoted = body.Data
		case *icmp.TimeExceeded:
			quoted = body.Data
		}

		seq, dst, ok := quotedEcho(proto, quoted, p.id, p.privileged)
		if !ok {
			return
		}

		p.deliver(seq, dst, echoReply{
			err: fmt.Errorf("%w: %v from %s", ErrProbeUnreachable, msg.Type, peerIP(peer)),
		})
	}
}

// quotedEcho extracts the destination and sequence number of our echo request
// from the datagram quoted in an ICMP error message.
func quotedEcho(proto int, data []byte, id int, checkID bool) (seq uint16, dst net.IP, ok bool) {
	var (
		hdrLen   int
		echoType byte
	)

	switch proto {
	case protocolICMP:
		if len(data) < ipv4MinHeaderLen {
			return 0, nil, false
		}

		hdrLen = int(data[0]&0x0f) * 4
		if hdrLen < ipv4MinHeaderLen || len(data) < hdrLen+echoHeaderLen {
			return 0, nil, false
		}

		dst = net.IP(append([]byte(nil), data[16:20]...))
		echoType = byte(ipv4.ICMPTypeEcho)
	case protocolIPv6ICMP:
		hdrLen = ipv6HeaderLen
		if len(data) < hdrLen+echoHeaderLen {
			return 0, nil, false
		}

		dst = net.IP(append([]byte(nil), data[24:40]...))
		echoType = byte(ipv6.ICMPTypeEchoRequest)
	default:
		return 0, nil, false
	}

	echo := data[hdrLen:]
	if echo[0] != echoType {
		return 0, nil, false
	}

	if checkID && binary.BigEndian.Uint16(echo[4:6]) != uint16(id) {
		return 0, nil, false
	}

	return binary.BigEndian.Uint16(echo[6:8]), dst, true
}

func peerIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	default:
		return nil
	}
}
