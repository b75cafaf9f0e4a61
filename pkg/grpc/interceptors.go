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

package grpc

import (
	"context"
	"log"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

const healthCheckMethod = "/grpc.health.v1.Health/Check"

// LoggingInterceptor logs unary calls with the caller and the resulting status
// code. Health checks that succeed are skipped since pollers hit them on every
// interval.
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	if info.FullMethod == healthCheckMethod && code == codes.OK {
		return resp, err
	}

	log.Printf("Agent RPC %s from %s: code=%s took=%v", shortMethod(info.FullMethod), callerAddr(ctx), code, time.Since(start))

	return resp, err
}

// RecoveryInterceptor converts a handler panic into an Internal status.
func RecoveryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Agent RPC %s from %s panicked: %v", shortMethod(info.FullMethod), callerAddr(ctx), r)

			resp = nil
			err = status.Error(codes.Internal, errInternalError.Error())
		}
	}()

	return handler(ctx, req)
}

func shortMethod(full string) string {
	return strings.TrimPrefix(full, "/")
}

func callerAddr(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}

	return "unknown"
}
