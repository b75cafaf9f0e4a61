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

package tsdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"github.com/carverauto/cloudlatency/pkg/metrics"
	"github.com/carverauto/cloudlatency/pkg/models"
)

const (
	DefaultDialTimeout  = 5 * time.Second
	DefaultWriteTimeout = 5 * time.Second
)

var ErrShipment = errors.New("shipment failed")

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Config holds the backend address and shipping bounds.
type Config struct {
	Host         string
	Port         string
	Prefix       string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// CarbonShipper opens a fresh connection per measurement, writes a single
// line and closes it. Failures are logged, counted and dropped; nothing is
// buffered or retried.
type CarbonShipper struct {
	addr         string
	prefix       string
	dialTimeout  time.Duration
	writeTimeout time.Duration
	dial         dialFunc
	recorder     metrics.ShipmentRecorder
}

// NewCarbonShipper creates a shipper. recorder may be nil.
func NewCarbonShipper(cfg Config, recorder metrics.ShipmentRecorder) *CarbonShipper {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}

	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}

	var d net.Dialer

	return &CarbonShipper{
		addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		prefix:       cfg.Prefix,
		dialTimeout:  cfg.DialTimeout,
		writeTimeout: cfg.WriteTimeout,
		dial:         d.DialContext,
		recorder:     recorder,
	}
}

// Addr returns the backend address in host:port form.
func (s *CarbonShipper) Addr() string {
	return s.addr
}

// Ship sends m to the backend.
func (s *CarbonShipper) Ship(ctx context.Context, m models.Measurement) error {
	line := MeasurementLine(s.prefix, &m)

	if err := s.send(ctx, line); err != nil {
		log.Printf("Unable to ship to the metrics backend at %s: %v, dropping this measurement", s.addr, err)

		if s.recorder != nil {
			s.recorder.RecordShipFailure(time.Now(), err)
		}

		return fmt.Errorf("%w: %s: %w", ErrShipment, s.addr, err)
	}

	if s.recorder != nil {
		s.recorder.RecordShipSuccess(time.Now())
	}

	return nil
}

func (s *CarbonShipper) send(ctx context.Context, line string) error {
	dialCtx, cancel := context.WithTimeout(ctx, s.dialTimeout)
	defer cancel()

	conn, err := s.dial(dialCtx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("Error closing connection to %s: %v", s.addr, err)
		}
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}

	if _, err := io.WriteString(conn, line); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}
