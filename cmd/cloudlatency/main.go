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

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/carverauto/cloudlatency/pkg/api"
	"github.com/carverauto/cloudlatency/pkg/config"
	"github.com/carverauto/cloudlatency/pkg/lifecycle"
	"github.com/carverauto/cloudlatency/pkg/metrics"
	"github.com/carverauto/cloudlatency/pkg/models"
	"github.com/carverauto/cloudlatency/pkg/poller"
	"github.com/carverauto/cloudlatency/pkg/scan"
	"github.com/carverauto/cloudlatency/pkg/tsdb"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./config.yml"

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "cloudlatency",
		Short:         "Measure ICMP and TCP latency to cloud endpoints and ship it to Graphite",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cfgFile)
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", defaultConfigPath, "path to the configuration file")

	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Printf("cloudlatency: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("Config file %s does not exist, nothing to measure\n", configPath)

		return nil
	}

	var cfg config.LatencyConfig
	if err := config.LoadAndValidate(configPath, &cfg); err != nil {
		return err
	}

	logConfig(&cfg)

	probers := map[models.Protocol]scan.Prober{
		models.ProtocolTCP: scan.NewTCPProber(cfg.Probe.TCPTimeout),
	}

	if len(cfg.Endpoints) > 0 {
		icmpProber, err := scan.NewICMPProber(cfg.Probe.ICMPTimeout, cfg.Probe.ICMPPrivileged)
		if err != nil {
			return err
		}

		defer func() {
			if err := icmpProber.Close(); err != nil {
				log.Printf("Error closing ICMP transport: %v", err)
			}
		}()

		probers[models.ProtocolICMP] = icmpProber
	}

	tracker := metrics.NewShipmentTracker(cfg.Shipper.FailureThreshold)

	shipper := tsdb.NewCarbonShipper(tsdb.Config{
		Host:         cfg.GrafanaAddress,
		Port:         cfg.GrafanaPort,
		Prefix:       cfg.TSDBPrefix,
		DialTimeout:  cfg.Shipper.DialTimeout,
		WriteTimeout: cfg.Shipper.WriteTimeout,
	}, tracker)

	engineOpts := []poller.EngineOption{poller.WithOutcomeRecorder(tracker)}

	var hub *api.Hub
	if cfg.Server.HTTPListenAddr != "" {
		hub = api.NewHub()
		engineOpts = append(engineOpts, poller.WithOutcomeListener(hub))
	}

	engine := poller.NewEngine(poller.EngineConfig{
		ICMPTargets:   cfg.Endpoints,
		TCPTargets:    cfg.TCPEndpoints,
		Concurrency:   cfg.Probe.Concurrency,
		CycleDeadline: cfg.Probe.CycleDeadline,
		RateLimit:     cfg.Probe.RateLimit,
	}, newResolver(&cfg.Resolver), probers, shipper, engineOpts...)

	opts := &lifecycle.ServerOptions{
		ServiceName:    "cloudlatency",
		Service:        poller.New(engine, cfg.CycleInterval()),
		GRPCListenAddr: cfg.Server.GRPCListenAddr,
		HTTPListenAddr: cfg.Server.HTTPListenAddr,
		Health:         tracker,
	}

	if hub != nil {
		opts.HTTPServer = api.NewAPIServer(tracker, engine,
			models.EndpointsFrom(cfg.Endpoints, cfg.TCPEndpoints), api.WithHub(hub))
	}

	if err := lifecycle.RunServer(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Printf("Shutdown complete")

	return nil
}

func newResolver(cfg *config.ResolverConfig) scan.Resolver {
	if cfg.Nameserver == "" {
		return scan.NewResolver()
	}

	r := scan.NewDNSResolver(cfg.Nameserver, cfg.Network, cfg.Timeout)
	log.Printf("Resolving endpoints via %s/%s", r.Server(), cfg.Network)

	return r
}

func logConfig(cfg *config.LatencyConfig) {
	log.Printf("Metrics backend: %s", cfg.BackendAddr())
	log.Printf("Test interval: %v, prefix: %s", cfg.CycleInterval(), cfg.TSDBPrefix)
	log.Printf("ICMP endpoints: %s", strings.Join(cfg.Endpoints, ", "))
	log.Printf("TCP endpoints: %s", strings.Join(cfg.TCPEndpoints, ", "))
	log.Printf("Probe concurrency: %d, cycle deadline: %v, ICMP timeout: %v, TCP timeout: %v",
		cfg.Probe.Concurrency, cfg.Probe.CycleDeadline, cfg.Probe.ICMPTimeout, cfg.Probe.TCPTimeout)
}
