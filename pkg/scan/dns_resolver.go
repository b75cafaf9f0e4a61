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
	"net"
	"time"

	"github.com/miekg/dns"
)

const (
	DefaultDNSTimeout = 2 * time.Second
	defaultDNSPort    = "53"
)

var errDNSRcode = errors.New("dns server answered")

// DNSResolver queries one explicit nameserver instead of the system resolver.
// A and AAAA are asked in parallel and whichever answers with an address
// first wins. Nothing is cached.
type DNSResolver struct {
	server string
	client *dns.Client
}

// NewDNSResolver returns a resolver for server ("host" or "host:port") over
// network ("udp" or "tcp").
func NewDNSResolver(server, network string, timeout time.Duration) *DNSResolver {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, defaultDNSPort)
	}

	if network == "" {
		network = "udp"
	}

	if timeout <= 0 {
		timeout = DefaultDNSTimeout
	}

	return &DNSResolver{
		server: server,
		client: &dns.Client{Net: network, Timeout: timeout},
	}
}

// Server returns the nameserver address in host:port form.
func (r *DNSResolver) Server() string {
	return r.server
}

func (r *DNSResolver) Resolve(ctx context.Context, identifier string) (net.IP, error) {
	if ip := net.ParseIP(identifier); ip != nil {
		return ip, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type answer struct {
		ip  net.IP
		err error
	}

	qtypes := []uint16{dns.TypeA, dns.TypeAAAA}
	answers := make(chan answer, len(qtypes))

	for _, qtype := range qtypes {
		qtype := qtype

		go func() {
			ip, err := r.query(ctx, identifier, qtype)
			answers <- answer{ip: ip, err: err}
		}()
	}

	var lastErr error

	for range qtypes {
		a := <-answers
		if a.ip != nil {
			return a.ip, nil
		}

		if a.err != nil {
			lastErr = a.err
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: lookup %s via %s: %w", ErrResolution, identifier, r.server, lastErr)
	}

	return nil, fmt.Errorf("%w: %s has no addresses", ErrResolution, identifier)
}

func (r *DNSResolver) query(ctx context.Context, host string, qtype uint16) (net.IP, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), qtype)

	resp, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err != nil {
		return nil, err
	}

	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w %s", errDNSRcode, dns.RcodeToString[resp.Rcode])
	}

	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *dns.A:
			return v.A, nil
		case *dns.AAAA:
			return v.AAAA, nil
		}
	}

	return nil, nil
}
