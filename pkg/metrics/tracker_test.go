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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/carverauto/cloudlatency/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipmentTracker(t *testing.T) {
	t.Run("failure streak flips health", func(t *testing.T) {
		tracker := NewShipmentTracker(2)
		now := time.Now()

		assert.True(t, tracker.Healthy())

		tracker.RecordShipFailure(now, errors.New("connection refused"))
		assert.True(t, tracker.Healthy())

		tracker.RecordShipFailure(now, errors.New("connection refused"))
		assert.False(t, tracker.Healthy())
		assert.Equal(t, int64(2), tracker.ConsecutiveFailures())

		tracker.RecordShipSuccess(now)
		assert.True(t, tracker.Healthy())
		assert.Zero(t, tracker.ConsecutiveFailures())
	})

	t.Run("snapshot", func(t *testing.T) {
		tracker := NewShipmentTracker(0)
		success := time.Unix(1700000000, 0)
		failure := time.Unix(1700000060, 0)

		tracker.RecordShipSuccess(success)
		tracker.RecordShipFailure(failure, errors.New("i/o timeout"))
		tracker.RecordOutcome(models.StateSuccess)
		tracker.RecordOutcome(models.StateSuccess)
		tracker.RecordOutcome(models.StateTimeout)
		tracker.RecordCycle()

		stats := tracker.Snapshot()
		assert.Equal(t, int64(1), stats.Shipped)
		assert.Equal(t, int64(1), stats.Failed)
		assert.Equal(t, int64(1), stats.ConsecutiveFailures)
		assert.Equal(t, int64(DefaultFailureThreshold), stats.FailureThreshold)
		assert.True(t, stats.Healthy)
		assert.True(t, stats.LastSuccess.Equal(success))
		assert.True(t, stats.LastFailure.Equal(failure))
		assert.Equal(t, "i/o timeout", stats.LastError)
		assert.Equal(t, int64(1), stats.Cycles)
		assert.Equal(t, map[string]int64{"success": 2, "timeout": 1}, stats.ProbeOutcomes)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		stats := NewShipmentTracker(1).Snapshot()
		assert.True(t, stats.LastSuccess.IsZero())
		assert.Empty(t, stats.LastError)
		assert.Empty(t, stats.ProbeOutcomes)
	})

	t.Run("concurrent access", func(t *testing.T) {
		tracker := NewShipmentTracker(5)

		const goroutines = 10

		const iterations = 100

		var wg sync.WaitGroup

		for i := 0; i < goroutines; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for j := 0; j < iterations; j++ {
					tracker.RecordShipSuccess(time.Now())
					tracker.RecordOutcome(models.StateSuccess)
				}
			}()
		}

		wg.Wait()

		stats := tracker.Snapshot()
		require.Equal(t, int64(goroutines*iterations), stats.Shipped)
		assert.Equal(t, int64(goroutines*iterations), stats.ProbeOutcomes["success"])
	})
}
