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

package metrics

import (
	"time"

	"github.com/carverauto/cloudlatency/pkg/models"
)

//go:generate mockgen -destination=mock_metrics.go -package=metrics github.com/carverauto/cloudlatency/pkg/metrics HealthReporter

// ShipmentRecorder is notified of every shipment attempt.
type ShipmentRecorder interface {
	RecordShipSuccess(at time.Time)
	RecordShipFailure(at time.Time, err error)
}

// OutcomeRecorder counts probe outcomes and completed cycles.
type OutcomeRecorder interface {
	RecordOutcome(state models.ProbeState)
	RecordCycle()
}

// HealthReporter is consumed by the health and status surfaces.
type HealthReporter interface {
	Healthy() bool
	Snapshot() models.ShipmentStats
}
