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

package models

import (
	"net"
	"strconv"
	"time"
)

type Protocol string

const (
	ProtocolICMP Protocol = "icmp"
	ProtocolTCP  Protocol = "tcp"
)

// Endpoint is a single configured probe target. Name is the string exactly as
// it appears in the configuration and is what gets shipped.
type Endpoint struct {
	Name     string
	Protocol Protocol
}

// Target is an Endpoint after resolution.
type Target struct {
	Endpoint Endpoint
	Host     string
	Port     int
	IP       net.IP
}

// Address returns the dialable address of the target. ICMP targets have no
// port and yield the bare IP.
func (t Target) Address() string {
	if t.Port == 0 {
		return t.IP.String()
	}

	return net.JoinHostPort(t.IP.String(), strconv.Itoa(t.Port))
}

// Measurement is the result of a successful probe.
type Measurement struct {
	Endpoint   string
	Protocol   Protocol
	Latency    time.Duration
	ObservedAt time.Time
}

// EndpointsFrom builds the ordered endpoint list for one cycle, ICMP targets first.
func EndpointsFrom(icmpTargets, tcpTargets []string) []Endpoint {
	endpoints := make([]Endpoint, 0, len(icmpTargets)+len(tcpTargets))

	for _, name := range icmpTargets {
		endpoints = append(endpoints, Endpoint{Name: name, Protocol: ProtocolICMP})
	}

	for _, name := range tcpTargets {
		endpoints = append(endpoints, Endpoint{Name: name, Protocol: ProtocolTCP})
	}

	return endpoints
}
