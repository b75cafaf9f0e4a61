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

package models

import "time"

// ProbeState tracks a single probe through Pending → Resolved → terminal.
type ProbeState int

const (
	StatePending ProbeState = iota
	StateResolved
	StateSuccess
	StateTimeout
	StateUnreachable
	StateMalformedInput
	StateResolutionFailed
)

var probeStateNames = map[ProbeState]string{
	StatePending:          "pending",
	StateResolved:         "resolved",
	StateSuccess:          "success",
	StateTimeout:          "timeout",
	StateUnreachable:      "unreachable",
	StateMalformedInput:   "malformed_input",
	StateResolutionFailed: "resolution_failed",
}

func (s ProbeState) String() string {
	if name, ok := probeStateNames[s]; ok {
		return name
	}

	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s ProbeState) Terminal() bool {
	return s != StatePending && s != StateResolved
}

// ProbeOutcome is what one probe of a cycle ended with.
type ProbeOutcome struct {
	Endpoint    Endpoint      `json:"-"`
	Name        string        `json:"endpoint"`
	Protocol    Protocol      `json:"protocol"`
	State       ProbeState    `json:"-"`
	StateName   string        `json:"state"`
	Latency     time.Duration `json:"latency_ns,omitempty"`
	Err         error         `json:"-"`
	ShipErr     error         `json:"-"`
	Measurement *Measurement  `json:"-"`
}

// CycleReport summarizes one measurement cycle.
type CycleReport struct {
	Started          time.Time      `json:"started"`
	Finished         time.Time      `json:"finished"`
	Outcomes         []ProbeOutcome `json:"outcomes"`
	Shipped          int            `json:"shipped"`
	DeadlineExceeded bool           `json:"deadline_exceeded"`
}

// Count returns how many outcomes ended in state.
func (r *CycleReport) Count(state ProbeState) int {
	n := 0

	for i := range r.Outcomes {
		if r.Outcomes[i].State == state {
			n++
		}
	}

	return n
}

// ShipmentStats is a point-in-time view of the shipment health tracker.
type ShipmentStats struct {
	Shipped             int64            `json:"shipped"`
	Failed              int64            `json:"failed"`
	ConsecutiveFailures int64            `json:"consecutive_failures"`
	FailureThreshold    int64            `json:"failure_threshold"`
	Healthy             bool             `json:"healthy"`
	LastSuccess         time.Time        `json:"last_success,omitempty"`
	LastFailure         time.Time        `json:"last_failure,omitempty"`
	LastError           string           `json:"last_error,omitempty"`
	ProbeOutcomes       map[string]int64 `json:"probe_outcomes"`
	Cycles              int64            `json:"cycles"`
}
