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

// Package poller schedules measurement cycles and runs them through the
// probe engine.
package poller

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
	"time"
)

// Poller triggers one cycle immediately and then one per interval tick until
// its context is canceled or Stop is called. A cycle that overruns the
// interval causes ticks to be dropped, never queued.
type Poller struct {
	runner   CycleRunner
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

func New(runner CycleRunner, interval time.Duration) *Poller {
	return &Poller{
		runner:   runner,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("Starting poller with interval %v", p.interval)

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.done:
			return nil
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// Stop ends the polling loop after the current cycle.
func (p *Poller) Stop(context.Context) error {
	p.stopOnce.Do(func() {
		close(p.done)
	})

	return nil
}

// poll runs one cycle. A panic inside the cycle is logged and the loop keeps
// ticking.
func (p *Poller) poll(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in measurement cycle: %v\n%s", r, debug.Stack())
		}
	}()

	p.runner.RunCycle(ctx)
}
