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

package grpc

import "context"

//go:generate mockgen -destination=mock_grpc.go -package=grpc github.com/carverauto/cloudlatency/pkg/grpc HealthServer

// HealthServer is the part of Server the lifecycle health watcher drives.
type HealthServer interface {
	// SetServing flips the agent service between SERVING and NOT_SERVING.
	SetServing(serving bool)
	Start() error
	Stop(ctx context.Context)
}
