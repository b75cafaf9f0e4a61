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

package api

import (
	"time"

	"github.com/carverauto/cloudlatency/pkg/models"
)

// TargetStatus is a configured endpoint and how its most recent probe ended.
type TargetStatus struct {
	Name       string          `json:"name"`
	Protocol   models.Protocol `json:"protocol"`
	State      string          `json:"state,omitempty"`
	LatencyMS  int64           `json:"latency_ms,omitempty"`
	ObservedAt time.Time       `json:"observed_at,omitempty"`
	Error      string          `json:"error,omitempty"`
	ShipError  string          `json:"ship_error,omitempty"`
}

// CycleSummary condenses the last cycle report.
type CycleSummary struct {
	Started          time.Time      `json:"started"`
	Finished         time.Time      `json:"finished"`
	DurationMS       int64          `json:"duration_ms"`
	Probed           int            `json:"probed"`
	Shipped          int            `json:"shipped"`
	DeadlineExceeded bool           `json:"deadline_exceeded"`
	States           map[string]int `json:"states"`
}

// SystemStatus is the body of GET /api/status.
type SystemStatus struct {
	Healthy   bool                 `json:"healthy"`
	UpTime    string               `json:"uptime"`
	Shipment  models.ShipmentStats `json:"shipment"`
	LastCycle *CycleSummary        `json:"last_cycle,omitempty"`
	Targets   []TargetStatus       `json:"targets"`
}

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Healthy             bool   `json:"healthy"`
	ConsecutiveFailures int64  `json:"consecutive_failures"`
	LastError           string `json:"last_error,omitempty"`
}
