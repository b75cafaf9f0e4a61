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

// Package api pkg/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	httpx "github.com/carverauto/cloudlatency/pkg/http"
	"github.com/carverauto/cloudlatency/pkg/metrics"
	"github.com/carverauto/cloudlatency/pkg/models"
	"github.com/gorilla/mux"
)

const readHeaderTimeout = 5 * time.Second

// APIServer serves the read-only status endpoints.
type APIServer struct {
	mu      sync.Mutex
	srv     *http.Server
	health  metrics.HealthReporter
	reports ReportSource
	targets []models.Endpoint
	started time.Time
	hub     *Hub
	router  *mux.Router
}

// ServerOption customizes an APIServer.
type ServerOption func(*APIServer)

// WithHub serves live probe outcomes from h on /api/stream.
func WithHub(h *Hub) ServerOption {
	return func(s *APIServer) {
		s.hub = h
	}
}

// NewAPIServer builds the router. reports may be nil.
func NewAPIServer(
	health metrics.HealthReporter,
	reports ReportSource,
	targets []models.Endpoint,
	opts ...ServerOption) *APIServer {
	s := &APIServer{
		health:  health,
		reports: reports,
		targets: targets,
		started: time.Now(),
		router:  mux.NewRouter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	return s
}

func (s *APIServer) setupRoutes() {
	s.router.Use(httpx.CommonMiddleware, httpx.LogErrors)

	s.router.HandleFunc("/api/status", s.getSystemStatus).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/api/health", s.getHealth).Methods(http.MethodGet, http.MethodOptions)

	if s.hub != nil {
		s.router.Handle("/api/stream", s.hub).Methods(http.MethodGet)
	}
}

// Handler returns the routed handler.
func (s *APIServer) Handler() http.Handler {
	return s.router
}

// Start listens on addr and blocks until Shutdown.
func (s *APIServer) Start(addr string) error {
	s.mu.Lock()
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	srv := s.srv
	s.mu.Unlock()

	log.Printf("Status API listening on %s", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown gracefully stops a started server and disconnects stream
// subscribers.
func (s *APIServer) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}

	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}

func (s *APIServer) getSystemStatus(w http.ResponseWriter, _ *http.Request) {
	stats := s.health.Snapshot()

	status := SystemStatus{
		Healthy:  stats.Healthy,
		UpTime:   time.Since(s.started).Round(time.Second).String(),
		Shipment: stats,
	}

	var report *models.CycleReport
	if s.reports != nil {
		report = s.reports.LastReport()
	}

	if report != nil {
		status.LastCycle = summarize(report)
	}

	status.Targets = targetStatuses(s.targets, report)

	writeJSON(w, http.StatusOK, status)
}

func (s *APIServer) getHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.health.Snapshot()

	code := http.StatusOK
	if !stats.Healthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthStatus{
		Healthy:             stats.Healthy,
		ConsecutiveFailures: stats.ConsecutiveFailures,
		LastError:           stats.LastError,
	})
}

func summarize(report *models.CycleReport) *CycleSummary {
	summary := &CycleSummary{
		Started:          report.Started,
		Finished:         report.Finished,
		DurationMS:       report.Finished.Sub(report.Started).Milliseconds(),
		Probed:           len(report.Outcomes),
		Shipped:          report.Shipped,
		DeadlineExceeded: report.DeadlineExceeded,
		States:           make(map[string]int),
	}

	for i := range report.Outcomes {
		summary.States[report.Outcomes[i].State.String()]++
	}

	return summary
}

func targetStatuses(targets []models.Endpoint, report *models.CycleReport) []TargetStatus {
	latest := make(map[models.Endpoint]*models.ProbeOutcome)

	if report != nil {
		for i := range report.Outcomes {
			latest[report.Outcomes[i].Endpoint] = &report.Outcomes[i]
		}
	}

	statuses := make([]TargetStatus, 0, len(targets))

	for _, ep := range targets {
		if out, ok := latest[ep]; ok {
			statuses = append(statuses, targetStatus(out))

			continue
		}

		statuses = append(statuses, TargetStatus{Name: ep.Name, Protocol: ep.Protocol})
	}

	return statuses
}

func targetStatus(out *models.ProbeOutcome) TargetStatus {
	ts := TargetStatus{
		Name:      out.Name,
		Protocol:  out.Protocol,
		State:     out.State.String(),
		LatencyMS: out.Latency.Milliseconds(),
	}

	if out.Err != nil {
		ts.Error = out.Err.Error()
	}

	if out.ShipErr != nil {
		ts.ShipError = out.ShipErr.Error()
	}

	if out.Measurement != nil {
		ts.ObservedAt = out.Measurement.ObservedAt
	}

	return ts
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
