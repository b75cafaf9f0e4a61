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

package poller

import (
	"context"

	"github.com/carverauto/cloudlatency/pkg/models"
)

//go:generate mockgen -destination=mock_poller.go -package=poller github.com/carverauto/cloudlatency/pkg/poller Shipper,CycleRunner

// Shipper transmits one measurement to the metrics backend.
type Shipper interface {
	Ship(ctx context.Context, m models.Measurement) error
}

// CycleRunner runs one measurement cycle over every configured endpoint.
type CycleRunner interface {
	RunCycle(ctx context.Context) *models.CycleReport
}

// OutcomeListener is told about every probe outcome as soon as it is final.
// Implementations must not block.
type OutcomeListener interface {
	OnOutcome(out models.ProbeOutcome)
}
