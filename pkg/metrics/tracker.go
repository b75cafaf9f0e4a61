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

// Package metrics tracks shipment health for external observability. It keeps
// counters only; measurements themselves are never retained.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/carverauto/cloudlatency/pkg/models"
)

const DefaultFailureThreshold = 3

// ShipmentTracker counts shipment results and probe outcomes. All methods are
// safe for concurrent use.
type ShipmentTracker struct {
	threshold   int64
	shipped     atomic.Int64
	failed      atomic.Int64
	consecutive atomic.Int64
	cycles      atomic.Int64
	lastSuccess atomic.Int64 // unix nanos
	lastFailure atomic.Int64 // unix nanos
	lastError   atomic.Value // string
	outcomes    sync.Map     // state name -> *atomic.Int64
}

// NewShipmentTracker reports unhealthy once threshold consecutive shipments
// have failed.
func NewShipmentTracker(threshold int) *ShipmentTracker {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}

	return &ShipmentTracker{threshold: int64(threshold)}
}

func (t *ShipmentTracker) RecordShipSuccess(at time.Time) {
	t.shipped.Add(1)
	t.consecutive.Store(0)
	t.lastSuccess.Store(at.UnixNano())
}

func (t *ShipmentTracker) RecordShipFailure(at time.Time, err error) {
	t.failed.Add(1)
	t.consecutive.Add(1)
	t.lastFailure.Store(at.UnixNano())

	if err != nil {
		t.lastError.Store(err.Error())
	}
}

func (t *ShipmentTracker) RecordOutcome(state models.ProbeState) {
	counter, _ := t.outcomes.LoadOrStore(state.String(), new(atomic.Int64))
	counter.(*atomic.Int64).Add(1)
}

func (t *ShipmentTracker) RecordCycle() {
	t.cycles.Add(1)
}

// ConsecutiveFailures returns the length of the current failure streak.
func (t *ShipmentTracker) ConsecutiveFailures() int64 {
	return t.consecutive.Load()
}

func (t *ShipmentTracker) Healthy() bool {
	return t.consecutive.Load() < t.threshold
}

func (t *ShipmentTracker) Snapshot() models.ShipmentStats {
	stats := models.ShipmentStats{
		Shipped:             t.shipped.Load(),
		Failed:              t.failed.Load(),
		ConsecutiveFailures: t.consecutive.Load(),
		FailureThreshold:    t.threshold,
		Healthy:             t.Healthy(),
		ProbeOutcomes:       make(map[string]int64),
		Cycles:              t.cycles.Load(),
	}

	if ns := t.lastSuccess.Load(); ns != 0 {
		stats.LastSuccess = time.Unix(0, ns)
	}

	if ns := t.lastFailure.Load(); ns != 0 {
		stats.LastFailure = time.Unix(0, ns)
	}

	if msg, ok := t.lastError.Load().(string); ok {
		stats.LastError = msg
	}

	t.outcomes.Range(func(key, value any) bool {
		stats.ProbeOutcomes[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})

	return stats
}
