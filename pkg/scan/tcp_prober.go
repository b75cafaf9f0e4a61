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
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/carverauto/cloudlatency/pkg/models"
)

const DefaultTCPTimeout = 5 * time.Second

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// TCPProber measures time-to-connect. The connection is closed as soon as it
// is established; nothing is written.
type TCPProber struct {
	timeout time.Duration
	dial    dialFunc
}

func NewTCPProber(timeout time.Duration) *TCPProber {
	if timeout <= 0 {
		timeout = DefaultTCPTimeout
	}

	var d net.Dialer

	return &TCPProber{
		timeout: timeout,
		dial:    d.DialContext,
	}
}

func (p *TCPProber) Probe(ctx context.Context, target models.Target) (time.Duration, error) {
	connCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	addr := target.Address()

	start := time.Now()

	conn, err := p.dial(connCtx, "tcp", addr)
	if err != nil {
		return 0, classifyDialError(addr, err)
	}

	elapsed := time.Since(start)

	if err := conn.Close(); err != nil {
		log.Printf("Error closing connection to %s: %v", addr, err)
	}

	return elapsed, nil
}

func classifyDialError(addr string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: connect to %s: %w", ErrProbeTimeout, addr, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: connect to %s: %w", ErrProbeTimeout, addr, err)
	}

	return fmt.Errorf("%w: connect to %s: %w", ErrProbeUnreachable, addr, err)
}
