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

package config

import (
	"net"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// LatencyConfig is the single immutable configuration value handed to the
// probing core. Top-level keys keep the cloud-latency config.yml names.
type LatencyConfig struct {
	TSDBPrefix     string         `mapstructure:"tsdb_prefix" json:"tsdb_prefix"`
	TestInterval   int            `mapstructure:"test_interval" json:"test_interval"` // seconds
	GrafanaAddress string         `mapstructure:"grafana_address" json:"grafana_address"`
	GrafanaPort    string         `mapstructure:"grafana_port" json:"grafana_port"`
	Endpoints      []string       `mapstructure:"endpoints" json:"endpoints"`
	TCPEndpoints   []string       `mapstructure:"tcp_endpoints" json:"tcp_endpoints"`
	Resolver       ResolverConfig `mapstructure:"resolver" json:"resolver"`
	Probe          ProbeConfig    `mapstructure:"probe" json:"probe"`
	Shipper        ShipperConfig  `mapstructure:"shipper" json:"shipper"`
	Server         ServerConfig   `mapstructure:"server" json:"server"`
}

// ResolverConfig selects an explicit nameserver. An empty Nameserver means
// the system resolver.
type ResolverConfig struct {
	Nameserver string        `mapstructure:"nameserver" json:"nameserver,omitempty"`
	Network    string        `mapstructure:"network" json:"network"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout"`
}

// ProbeConfig bounds the probing engine.
type ProbeConfig struct {
	ICMPTimeout    time.Duration `mapstructure:"icmp_timeout" json:"icmp_timeout"`
	TCPTimeout     time.Duration `mapstructure:"tcp_timeout" json:"tcp_timeout"`
	Concurrency    int           `mapstructure:"concurrency" json:"concurrency"`
	CycleDeadline  time.Duration `mapstructure:"cycle_deadline" json:"cycle_deadline"` // 0 = test_interval
	RateLimit      float64       `mapstructure:"rate_limit" json:"rate_limit"`         // probes/sec, 0 = unlimited
	ICMPPrivileged bool          `mapstructure:"icmp_privileged" json:"icmp_privileged"`
}

// ShipperConfig bounds each shipment and sets the health threshold.
type ShipperConfig struct {
	DialTimeout      time.Duration `mapstructure:"dial_timeout" json:"dial_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	FailureThreshold int           `mapstructure:"failure_threshold" json:"failure_threshold"`
}

// ServerConfig enables the optional observability listeners.
type ServerConfig struct {
	GRPCListenAddr string `mapstructure:"grpc_listen_addr" json:"grpc_listen_addr,omitempty"`
	HTTPListenAddr string `mapstructure:"http_listen_addr" json:"http_listen_addr,omitempty"`
}

// CycleInterval returns test_interval as a duration.
func (c *LatencyConfig) CycleInterval() time.Duration {
	return time.Duration(c.TestInterval) * time.Second
}

// BackendAddr returns the metrics backend address in host:port form.
func (c *LatencyConfig) BackendAddr() string {
	return net.JoinHostPort(c.GrafanaAddress, c.GrafanaPort)
}

// Defaults implements Defaulter.
func (*LatencyConfig) Defaults() map[string]interface{} {
	return map[string]interface{}{
		"endpoints":                 []string{},
		"tcp_endpoints":             []string{},
		"resolver.nameserver":       "",
		"resolver.network":          "udp",
		"resolver.timeout":          "2s",
		"probe.icmp_timeout":        "2s",
		"probe.tcp_timeout":         "5s",
		"probe.concurrency":         4,
		"probe.cycle_deadline":      "0s",
		"probe.rate_limit":          0,
		"probe.icmp_privileged":     true,
		"shipper.dial_timeout":      "5s",
		"shipper.write_timeout":     "5s",
		"shipper.failure_threshold": 3,
		"server.grpc_listen_addr":   "",
		"server.http_listen_addr":   "",
	}
}

// Validate implements Validator. A zero cycle deadline is replaced by the
// cycle interval.
func (c *LatencyConfig) Validate() error {
	if c.Probe.CycleDeadline == 0 {
		c.Probe.CycleDeadline = c.CycleInterval()
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.TSDBPrefix, validation.Required),
		validation.Field(&c.TestInterval, validation.Required, validation.Min(1)),
		validation.Field(&c.GrafanaAddress, validation.Required, is.Host),
		validation.Field(&c.GrafanaPort, validation.Required, is.Port),
		validation.Field(&c.Endpoints, validation.Each(validation.Required)),
		validation.Field(&c.TCPEndpoints, validation.Each(validation.Required)),
		validation.Field(&c.Resolver),
		validation.Field(&c.Probe),
		validation.Field(&c.Shipper),
		validation.Field(&c.Server),
	)
}

func (r ResolverConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nameserver, validation.By(validateNameserver)),
		validation.Field(&r.Network, validation.Required, validation.In("udp", "tcp")),
		validation.Field(&r.Timeout, validation.Required, validation.Min(time.Millisecond)),
	)
}

func (p ProbeConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ICMPTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&p.TCPTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&p.Concurrency, validation.Required, validation.Min(1)),
		validation.Field(&p.CycleDeadline, validation.Min(time.Duration(0))),
		validation.Field(&p.RateLimit, validation.Min(0.0)),
	)
}

func (s ShipperConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.DialTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&s.WriteTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&s.FailureThreshold, validation.Required, validation.Min(1)),
	)
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.GRPCListenAddr, validation.By(validateListenAddr)),
		validation.Field(&s.HTTPListenAddr, validation.By(validateListenAddr)),
	)
}

// validateNameserver accepts "host" or "host:port".
func validateNameserver(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if addr == "" {
		return nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = addr, ""
	}

	if port != "" {
		if err := is.Port.Validate(port); err != nil {
			return validation.NewError("validation_invalid_port", "invalid port")
		}
	}

	if err := is.Host.Validate(host); err != nil {
		return validation.NewError("validation_invalid_host", "invalid host")
	}

	return nil
}

func validateListenAddr(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if addr == "" {
		return nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if err := is.Port.Validate(port); err != nil {
		return validation.NewError("validation_invalid_port", "invalid port")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
