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

package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/carverauto/cloudlatency/pkg/config"
)

const validConfig = `
tsdb_prefix: "cloud.latency.home"
test_interval: 30
grafana_address: "graphite.example.com"
grafana_port: "2003"
endpoints:
  - "8.8.8.8"
  - "ec2.us-east-1.amazonaws.com"
tcp_endpoints:
  - "1.1.1.1:443"
`

var _ = Describe("LatencyConfig", func() {
	var (
		tempDir    string
		configPath string
	)

	writeConfig := func(content string) {
		configPath = filepath.Join(tempDir, "config.yml")
		Expect(os.WriteFile(configPath, []byte(content), 0o600)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "cloudlatency-config-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
		os.Unsetenv("CLOUDLATENCY_PROBE_TCP_TIMEOUT")
		os.Unsetenv("CLOUDLATENCY_TSDB_PREFIX")
		os.Unsetenv("CLOUDLATENCY_TCP_ENDPOINTS")
	})

	Describe("LoadAndValidate", func() {
		Context("with a valid config file", func() {
			var cfg config.LatencyConfig

			BeforeEach(func() {
				writeConfig(validConfig)
				cfg = config.LatencyConfig{}
				Expect(config.LoadAndValidate(configPath, &cfg)).To(Succeed())
			})

			It("should read the backend settings", func() {
				Expect(cfg.TSDBPrefix).To(Equal("cloud.latency.home"))
				Expect(cfg.BackendAddr()).To(Equal("graphite.example.com:2003"))
			})

			It("should read both endpoint lists in order", func() {
				Expect(cfg.Endpoints).To(Equal([]string{"8.8.8.8", "ec2.us-east-1.amazonaws.com"}))
				Expect(cfg.TCPEndpoints).To(Equal([]string{"1.1.1.1:443"}))
			})

			It("should convert the interval to a duration", func() {
				Expect(cfg.CycleInterval()).To(Equal(30 * time.Second))
			})

			It("should apply probe and shipper defaults", func() {
				Expect(cfg.Probe.ICMPTimeout).To(Equal(2 * time.Second))
				Expect(cfg.Probe.TCPTimeout).To(Equal(5 * time.Second))
				Expect(cfg.Probe.Concurrency).To(Equal(4))
				Expect(cfg.Probe.ICMPPrivileged).To(BeTrue())
				Expect(cfg.Shipper.DialTimeout).To(Equal(5 * time.Second))
				Expect(cfg.Shipper.WriteTimeout).To(Equal(5 * time.Second))
				Expect(cfg.Shipper.FailureThreshold).To(Equal(3))
			})

			It("should default to the system resolver", func() {
				Expect(cfg.Resolver.Nameserver).To(BeEmpty())
				Expect(cfg.Resolver.Network).To(Equal("udp"))
				Expect(cfg.Resolver.Timeout).To(Equal(2 * time.Second))
			})

			It("should default the cycle deadline to the interval", func() {
				Expect(cfg.Probe.CycleDeadline).To(Equal(30 * time.Second))
			})

			It("should leave the servers disabled", func() {
				Expect(cfg.Server.GRPCListenAddr).To(BeEmpty())
				Expect(cfg.Server.HTTPListenAddr).To(BeEmpty())
			})
		})

		Context("with overrides in the file", func() {
			It("should honour explicit probe settings", func() {
				writeConfig(validConfig + `
probe:
  tcp_timeout: "750ms"
  concurrency: 8
  cycle_deadline: "10s"
  icmp_privileged: false
server:
  http_listen_addr: "127.0.0.1:8080"
resolver:
  nameserver: "9.9.9.9:53"
  network: "tcp"
`)
				var cfg config.LatencyConfig
				Expect(config.LoadAndValidate(configPath, &cfg)).To(Succeed())
				Expect(cfg.Probe.TCPTimeout).To(Equal(750 * time.Millisecond))
				Expect(cfg.Probe.Concurrency).To(Equal(8))
				Expect(cfg.Probe.CycleDeadline).To(Equal(10 * time.Second))
				Expect(cfg.Probe.ICMPPrivileged).To(BeFalse())
				Expect(cfg.Server.HTTPListenAddr).To(Equal("127.0.0.1:8080"))
				Expect(cfg.Resolver.Nameserver).To(Equal("9.9.9.9:53"))
				Expect(cfg.Resolver.Network).To(Equal("tcp"))
			})
		})

		Context("with environment variables", func() {
			It("should let the environment override the file", func() {
				writeConfig(validConfig)
				os.Setenv("CLOUDLATENCY_PROBE_TCP_TIMEOUT", "1s")
				os.Setenv("CLOUDLATENCY_TSDB_PREFIX", "override")

				var cfg config.LatencyConfig
				Expect(config.LoadAndValidate(configPath, &cfg)).To(Succeed())
				Expect(cfg.Probe.TCPTimeout).To(Equal(time.Second))
				Expect(cfg.TSDBPrefix).To(Equal("override"))
			})

			It("should split comma separated lists", func() {
				writeConfig(validConfig)
				os.Setenv("CLOUDLATENCY_TCP_ENDPOINTS", "a.example.com:80,b.example.com:443")

				var cfg config.LatencyConfig
				Expect(config.LoadAndValidate(configPath, &cfg)).To(Succeed())
				Expect(cfg.TCPEndpoints).To(Equal([]string{"a.example.com:80", "b.example.com:443"}))
			})
		})

		Context("with an unquoted grafana port", func() {
			It("should accept the bare integer as the port", func() {
				writeConfig(`
tsdb_prefix: "cloud.latency.home"
test_interval: 30
grafana_address: "graphite.example.com"
grafana_port: 2003
endpoints:
  - "8.8.8.8"
`)

				var cfg config.LatencyConfig
				Expect(config.LoadAndValidate(configPath, &cfg)).To(Succeed())
				Expect(cfg.GrafanaPort).To(Equal("2003"))
				Expect(cfg.BackendAddr()).To(Equal("graphite.example.com:2003"))
			})
		})

		Context("with a missing file", func() {
			It("should return an error", func() {
				var cfg config.LatencyConfig
				err := config.LoadAndValidate(filepath.Join(tempDir, "nope.yml"), &cfg)
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with invalid settings", func() {
			DescribeTable("should reject the configuration",
				func(content string) {
					writeConfig(content)
					var cfg config.LatencyConfig
					err := config.LoadAndValidate(configPath, &cfg)
					Expect(err).To(HaveOccurred())
					Expect(err.Error()).To(ContainSubstring("invalid configuration"))
				},
				Entry("missing prefix", `
test_interval: 30
grafana_address: "localhost"
grafana_port: "2003"
`),
				Entry("zero interval", `
tsdb_prefix: "p"
test_interval: 0
grafana_address: "localhost"
grafana_port: "2003"
`),
				Entry("bad port", `
tsdb_prefix: "p"
test_interval: 30
grafana_address: "localhost"
grafana_port: "notaport"
`),
				Entry("empty endpoint", `
tsdb_prefix: "p"
test_interval: 30
grafana_address: "localhost"
grafana_port: "2003"
endpoints:
  - ""
`),
				Entry("zero concurrency", `
tsdb_prefix: "p"
test_interval: 30
grafana_address: "localhost"
grafana_port: "2003"
probe:
  concurrency: 0
`),
				Entry("unknown resolver network", `
tsdb_prefix: "p"
test_interval: 30
grafana_address: "localhost"
grafana_port: "2003"
resolver:
  network: "quic"
`),
				Entry("bad nameserver port", `
tsdb_prefix: "p"
test_interval: 30
grafana_address: "localhost"
grafana_port: "2003"
resolver:
  nameserver: "9.9.9.9:99999"
`),
				Entry("bad listen address", `
tsdb_prefix: "p"
test_interval: 30
grafana_address: "localhost"
grafana_port: "2003"
server:
  http_listen_addr: "no-port"
`),
			)
		})

		Context("with malformed TCP targets", func() {
			It("should leave them for the engine to skip", func() {
				writeConfig(`
tsdb_prefix: "p"
test_interval: 30
grafana_address: "localhost"
grafana_port: "2003"
tcp_endpoints:
  - "no-port-here"
`)
				var cfg config.LatencyConfig
				Expect(config.LoadAndValidate(configPath, &cfg)).To(Succeed())
				Expect(cfg.TCPEndpoints).To(Equal([]string{"no-port-here"}))
			})
		})
	})
})
