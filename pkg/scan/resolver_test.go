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
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_LiteralSkipsLookup(t *testing.T) {
	lookups := 0
	r := NewResolverWithLookup(func(context.Context, string) ([]net.IPAddr, error) {
		lookups++
		return nil, errors.New("unexpected lookup")
	})

	for _, literal := range []string{"10.0.0.1", "192.168.1.254", "::1", "2001:db8::42"} {
		t.Run(literal, func(t *testing.T) {
			ip, err := r.Resolve(context.Background(), literal)
			require.NoError(t, err)
			assert.True(t, ip.Equal(net.ParseIP(literal)))
		})
	}

	assert.Zero(t, lookups, "literal addresses must not trigger a lookup")
}

func TestResolver_Hostname(t *testing.T) {
	tests := []struct {
		name    string
		addrs   []net.IPAddr
		err     error
		want    net.IP
		wantErr error
	}{
		{
			name:  "first address wins",
			addrs: []net.IPAddr{{IP: net.ParseIP("192.0.2.10")}, {IP: net.ParseIP("192.0.2.11")}},
			want:  net.ParseIP("192.0.2.10"),
		},
		{
			name:  "no family preference",
			addrs: []net.IPAddr{{IP: net.ParseIP("2001:db8::1")}, {IP: net.ParseIP("192.0.2.1")}},
			want:  net.ParseIP("2001:db8::1"),
		},
		{
			name:    "empty result",
			addrs:   nil,
			wantErr: ErrResolution,
		},
		{
			name:    "lookup error",
			err:     &net.DNSError{Err: "no such host", Name: "example.invalid", IsNotFound: true},
			wantErr: ErrResolution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var asked string

			r := NewResolverWithLookup(func(_ context.Context, host string) ([]net.IPAddr, error) {
				asked = host
				return tt.addrs, tt.err
			})

			ip, err := r.Resolve(context.Background(), "example.invalid")
			assert.Equal(t, "example.invalid", asked)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, ip)

				return
			}

			require.NoError(t, err)
			assert.True(t, ip.Equal(tt.want), "got %v, want %v", ip, tt.want)
		})
	}
}

func TestSplitTCPTarget(t *testing.T) {
	tests := []struct {
		target   string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{target: "example.com:443", wantHost: "example.com", wantPort: 443},
		{target: "10.0.0.1:22", wantHost: "10.0.0.1", wantPort: 22},
		{target: "[2001:db8::1]:8080", wantHost: "2001:db8::1", wantPort: 8080},
		{target: "example.com", wantErr: true},
		{target: ":80", wantErr: true},
		{target: "example.com:", wantErr: true},
		{target: "example.com:http", wantErr: true},
		{target: "example.com:0", wantErr: true},
		{target: "example.com:70000", wantErr: true},
		{target: "host:80:90", wantErr: true},
		{target: "[::1]", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			host, port, err := SplitTCPTarget(tt.target)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedEndpoint)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}
