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

// Package grpc pkg/grpc/server.go
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// ServerOption is a function type that modifies Server configuration.
type ServerOption func(*Server)

const (
	shutdownTimer = 5 * time.Second

	// ServiceName is the health service name the agent reports under.
	ServiceName = "cloudlatency.Agent"
)

// Server wraps a gRPC server exposing the standard health service.
type Server struct {
	srv              *grpc.Server
	healthCheck      *health.Server
	addr             string
	serviceName      string
	mu               sync.RWMutex
	listener         net.Listener
	serverOpts       []grpc.ServerOption
	healthRegistered bool
}

// NewServer creates a new gRPC server listening on addr once started.
func NewServer(addr string, opts ...ServerOption) *Server {
	defaultOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor,
			RecoveryInterceptor,
		),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     10 * time.Minute,
			MaxConnectionAge:      24 * time.Hour,
			MaxConnectionAgeGrace: 5 * time.Minute,
			Time:                  120 * time.Second,
			Timeout:               20 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             120 * time.Second,
			PermitWithoutStream: true,
		}),
	}

	s := &Server{
		addr:        addr,
		serviceName: ServiceName,
		serverOpts:  defaultOpts,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.srv = grpc.NewServer(s.serverOpts...)
	s.healthCheck = health.NewServer()

	// Enable reflection for debugging
	reflection.Register(s.srv)

	return s
}

// WithServerOptions adds gRPC server options.
func WithServerOptions(opt ...grpc.ServerOption) ServerOption {
	return func(s *Server) {
		s.serverOpts = append(s.serverOpts, opt...)
	}
}

// WithServiceName overrides the health service name.
func WithServiceName(name string) ServerOption {
	return func(s *Server) {
		s.serviceName = name
	}
}

// WithListener serves on an already bound listener instead of addr.
func WithListener(lis net.Listener) ServerOption {
	return func(s *Server) {
		s.listener = lis
		s.addr = lis.Addr().String()
	}
}

// GetGRPCServer returns the underlying gRPC server.
func (s *Server) GetGRPCServer() *grpc.Server {
	return s.srv
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.addr
}

// RegisterHealthServer registers the health server if not already registered.
func (s *Server) RegisterHealthServer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.healthRegistered {
		return errHealthServerRegistered
	}

	log.Printf("Registering health server for %s", s.addr)

	healthpb.RegisterHealthServer(s.srv, s.healthCheck)
	s.healthCheck.SetServingStatus(s.serviceName, healthpb.HealthCheckResponse_SERVING)
	s.healthRegistered = true

	return nil
}

// SetServing sets the status of both the agent service and the overall ("") service.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	s.healthCheck.SetServingStatus(s.serviceName, status)
	s.healthCheck.SetServingStatus("", status)
}

// Start listens and serves until Stop.
func (s *Server) Start() error {
	if err := s.RegisterHealthServer(); err != nil && !errors.Is(err, errHealthServerRegistered) {
		return err
	}

	s.mu.Lock()
	lis := s.listener

	if lis == nil {
		var err error

		lis, err = net.Listen("tcp", s.addr)
		if err != nil {
			s.mu.Unlock()

			return fmt.Errorf("failed to listen: %w", err)
		}

		s.listener = lis
		s.addr = lis.Addr().String()
	}
	s.mu.Unlock()

	log.Printf("gRPC server listening on %s", lis.Addr())

	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

// Stop marks the service NOT_SERVING and stops gracefully, forcing the stop
// once ctx or the shutdown timer expires.
func (s *Server) Stop(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimer)
	defer cancel()

	s.healthCheck.Shutdown()

	stopped := make(chan struct{})

	go func() {
		s.srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		log.Printf("gRPC server stopped gracefully")
	case <-ctx.Done():
		log.Printf("gRPC server shutdown timed out, forcing stop")
		s.srv.Stop()
	}
}
