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
	"context"

	"github.com/carverauto/cloudlatency/pkg/models"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/carverauto/cloudlatency/pkg/api ReportSource

// ReportSource exposes the most recent cycle report, nil before the first cycle.
type ReportSource interface {
	LastReport() *models.CycleReport
}

// Service represents the API server functionality.
type Service interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}
