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
	"fmt"
	"net"
	"strconv"
	"strings"
)

const maxPort = 65535

// LookupFunc is the hostname lookup used by NetResolver.
type LookupFunc func(ctx context.Context, host string) ([]net.IPAddr, error)

// NetResolver resolves identifiers fresh on every call. Nothing is cached, so
// DNS changes are picked up on the next cycle.
type NetResolver struct {
	lookup LookupFunc
}

func NewResolver() *NetResolver {
	return &NetResolver{lookup: net.DefaultResolver.LookupIPAddr}
}

// NewResolverWithLookup returns a resolver using fn for hostname lookups.
func NewResolverWithLookup(fn LookupFunc) *NetResolver {
	return &NetResolver{lookup: fn}
}

// Resolve returns identifier itself when it is a literal IPv4/IPv6 address,
// otherwise the first address the lookup returns. No address family is preferred.
func (r *NetResolver) Resolve(ctx context.Context, identifier string) (net.IP, error) {
	if ip := net.ParseIP(identifier); ip != nil {
		return ip, nil
	}

	addrs, err := r.lookup(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup %s: %w", ErrResolution, identifier, err)
	}

	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: %s has no addresses", ErrResolution, identifier)
	}

	return addrs[0].IP, nil
}

// SplitTCPTarget splits a "host:port" target on its first colon. A bracketed
// IPv6 literal ("[::1]:443") is split with net.SplitHostPort instead.
func SplitTCPTarget(target string) (host string, port int, err error) {
	var portStr string

	if strings.HasPrefix(target, "[") {
		host, portStr, err = net.SplitHostPort(target)
		if err != nil {
			return "", 0, fmt.Errorf("%w: %q: %w", ErrMalformedEndpoint, target, err)
		}
	} else {
		idx := strings.Index(target, ":")
		if idx < 0 {
			return "", 0, fmt.Errorf("%w: %q has no ':' separator", ErrMalformedEndpoint, target)
		}

		host, portStr = target[:idx], target[idx+1:]
	}

	if host == "" {
		return "", 0, fmt.Errorf("%w: %q has an empty host", ErrMalformedEndpoint, target)
	}

	port, err = strconv.Atoi(portStr)
	if err != nil || port < 1 || port > maxPort {
		return "", 0, fmt.Errorf("%w: %q has an invalid port", ErrMalformedEndpoint, target)
	}

	return host, port, nil
}
