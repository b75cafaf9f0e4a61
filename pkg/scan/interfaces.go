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
	"net"
	"time"

	"github.com/carverauto/cloudlatency/pkg/models"
)

//go:generate mockgen -destination=mock_scan.go -package=scan github.com/carverauto/cloudlatency/pkg/scan Resolver,Prober

// Resolver turns an endpoint identifier into an address.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (net.IP, error)
}

// Prober measures the latency to one resolved target.
type Prober interface {
	// Probe returns the measured latency, or an error wrapping ErrProbeTimeout
	// or ErrProbeUnreachable. It never blocks past its configured timeout.
	Probe(ctx context.Context, target models.Target) (time.Duration, error)
}
