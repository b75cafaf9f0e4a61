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
	"net"
	"testing"
	"time"

	"github.com/carverauto/cloudlatency/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tcpTarget(t *testing.T, addr string) models.Target {
	t.Helper()

	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	require.NoError(t, err)

	return models.Target{
		Endpoint: models.Endpoint{Name: addr, Protocol: models.ProtocolTCP},
		Host:     tcpAddr.IP.String(),
		Port:     tcpAddr.Port,
		IP:       tcpAddr.IP,
	}
}

func TestTCPProber_Connects(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			_ = conn.Close()
		}
	}()

	prober := NewTCPProber(time.Second)

	latency, err := prober.Probe(context.Background(), tcpTarget(t, ln.Addr().String()))
	require.NoError(t, err)
	assert.Positive(t, latency)
	assert.Less(t, latency, time.Second)
}

func TestTCPProber_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	prober := NewTCPProber(time.Second)

	latency, err := prober.Probe(context.Background(), tcpTarget(t, addr))
	require.ErrorIs(t, err, ErrProbeUnreachable)
	assert.Zero(t, latency)
}

func hangingDial(ctx context.Context, _, _ string) (net.Conn, error) {
	<-ctx.Done()

	return nil, ctx.Err()
}

func TestTCPProber_Timeout(t *testing.T) {
	prober := NewTCPProber(200 * time.Millisecond)
	prober.dial = hangingDial

	start := time.Now()

	_, err := prober.Probe(context.Background(), tcpTarget(t, "192.0.2.1:443"))
	require.ErrorIs(t, err, ErrProbeTimeout)
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestTCPProber_DefaultTimeoutBound(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the full default connect timeout")
	}

	prober := NewTCPProber(0)
	prober.dial = hangingDial

	start := time.Now()

	_, err := prober.Probe(context.Background(), tcpTarget(t, "192.0.2.1:443"))
	require.ErrorIs(t, err, ErrProbeTimeout)
	assert.Less(t, time.Since(start), DefaultTCPTimeout+100*time.Millisecond)
}

func TestTCPProber_ParentCancel(t *testing.T) {
	prober := NewTCPProber(time.Minute)
	prober.dial = hangingDial

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, err := prober.Probe(ctx, tcpTarget(t, "192.0.2.1:443"))
	require.ErrorIs(t, err, ErrProbeTimeout)
}
