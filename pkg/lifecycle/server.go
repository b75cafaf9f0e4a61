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

// Package lifecycle runs the agent's long-lived parts and coordinates their
// shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/carverauto/cloudlatency/pkg/api"
	"github.com/carverauto/cloudlatency/pkg/grpc"
	"github.com/carverauto/cloudlatency/pkg/metrics"
)

const (
	ShutdownTimeout           = 10 * time.Second
	DefaultHealthPollInterval = time.Second
)

// Service defines the interface that all services must implement.
type Service interface {
	Start(context.Context) error
	Stop(context.Context) error
}

// ServerOptions holds configuration for running the agent.
type ServerOptions struct {
	ServiceName string
	Service     Service

	// GRPCListenAddr enables the gRPC health server when GRPCServer is nil.
	GRPCListenAddr string
	GRPCServer     grpc.HealthServer

	// HTTPListenAddr enables HTTPServer.
	HTTPListenAddr string
	HTTPServer     api.Service

	// Health drives the gRPC serving status. Required when a gRPC server runs.
	Health             metrics.HealthReporter
	HealthPollInterval time.Duration
}

// RunServer starts the service and the optional servers, then blocks until
// SIGINT/SIGTERM, a component error, or ctx cancellation.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Printf("*** Starting service %s", opts.ServiceName)

	grpcServer := opts.GRPCServer
	if grpcServer == nil && opts.GRPCListenAddr != "" {
		grpcServer = grpc.NewServer(opts.GRPCListenAddr)
	}

	httpServer := opts.HTTPServer
	if opts.HTTPListenAddr == "" {
		httpServer = nil
	}

	errChan := make(chan error, 3)

	report := func(component string, err error) {
		select {
		case errChan <- fmt.Errorf("%s: %w", component, err):
		default:
			log.Printf("%s error: %v", component, err)
		}
	}

	// wg covers goroutines that must be gone before the caller releases
	// resources the service depends on.
	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		if err := opts.Service.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			report("service", err)
		}
	}()

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				report("gRPC server", err)
			}
		}()

		if opts.Health != nil {
			wg.Add(1)

			go func() {
				defer wg.Done()

				watchHealth(ctx, grpcServer, opts.Health, opts.HealthPollInterval)
			}()
		}
	}

	if httpServer != nil {
		go func() {
			if err := httpServer.Start(opts.HTTPListenAddr); err != nil {
				report("status API", err)
			}
		}()
	}

	err := handleShutdown(ctx, cancel, grpcServer, httpServer, opts.Service, errChan)

	wg.Wait()

	return err
}

// watchHealth mirrors the shipment health onto the gRPC serving status.
func watchHealth(ctx context.Context, hs grpc.HealthServer, health metrics.HealthReporter, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultHealthPollInterval
	}

	current := health.Healthy()
	hs.SetServing(current)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			healthy := health.Healthy()
			if healthy == current {
				continue
			}

			current = healthy

			if healthy {
				log.Printf("Metrics backend recovered, reporting SERVING")
			} else {
				log.Printf("Metrics backend unhealthy, reporting NOT_SERVING")
			}

			hs.SetServing(healthy)
		}
	}
}

func handleShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	grpcServer grpc.HealthServer,
	httpServer api.Service,
	svc Service,
	errChan chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	defer signal.Stop(sigChan)

	var result error

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, initiating shutdown", sig)
	case err := <-errChan:
		log.Printf("Received error: %v, initiating shutdown", err)

		result = fmt.Errorf("service error: %w", err)
	case <-ctx.Done():
		log.Printf("Context canceled, initiating shutdown")

		result = ctx.Err()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	cancel()

	if grpcServer != nil {
		grpcServer.Stop(shutdownCtx)
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during status API shutdown: %v", err)
		}
	}

	if err := svc.Stop(shutdownCtx); err != nil {
		log.Printf("Error during service shutdown: %v", err)

		if result == nil {
			result = fmt.Errorf("shutdown error: %w", err)
		}
	}

	return result
}
