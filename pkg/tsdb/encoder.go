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

// Package tsdb encodes latency measurements in the carbon plaintext protocol
// and ships them to a Graphite-compatible backend.
package tsdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/carverauto/cloudlatency/pkg/models"
)

// Sanitize replaces every '.' with '-' so identifiers cannot be mistaken for
// namespace separators.
func Sanitize(s string) string {
	return strings.ReplaceAll(s, ".", "-")
}

// FormatLine renders one measurement as
//
//	<prefix>.<protocol>.<name> <latencyMilliseconds> <unixSeconds>\n
//
// Latency is truncated to whole milliseconds.
func FormatLine(prefix string, proto models.Protocol, name string, latency time.Duration, timestamp int64) string {
	return fmt.Sprintf("%s.%s.%s %d %d\n",
		Sanitize(prefix),
		strings.ToLower(string(proto)),
		Sanitize(name),
		latency.Milliseconds(),
		timestamp)
}

// MeasurementLine formats m under prefix using the time it was observed.
func MeasurementLine(prefix string, m *models.Measurement) string {
	return FormatLine(prefix, m.Protocol, m.Endpoint, m.Latency, m.ObservedAt.Unix())
}
