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
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/carverauto/cloudlatency/pkg/metrics"
	"github.com/carverauto/cloudlatency/pkg/models"
	"github.com/carverauto/cloudlatency/pkg/scan"
	"golang.org/x/time/rate"
)

const DefaultConcurrency = 4

var (
	errNoProber        = errors.New("no prober for protocol")
	errNotDispatched   = fmt.Errorf("%w: cycle deadline reached before dispatch", scan.ErrProbeTimeout)
	errUnknownProtocol = errors.New("unknown protocol")
	errWorkerPanic     = errors.New("panic while measuring target")
)

// EngineConfig holds the per-cycle inputs. Target lists are read-only.
type EngineConfig struct {
	ICMPTargets   []string
	TCPTargets    []string
	Concurrency   int
	CycleDeadline time.Duration
	RateLimit     float64 // probes dispatched per second, 0 = unlimited
}

// Engine runs measurement cycles. All probes of a cycle, ICMP and TCP alike,
// go through one bounded worker pool, and a cycle never outlives its deadline
// by more than the time in-flight work needs to observe cancellation.
type Engine struct {
	config    EngineConfig
	resolver  scan.Resolver
	probers   map[models.Protocol]scan.Prober
	shipper   Shipper
	recorder  metrics.OutcomeRecorder
	listeners []OutcomeListener
	limiter   *rate.Limiter
	now       func() time.Time

	mu         sync.RWMutex
	lastReport *models.CycleReport
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithOutcomeRecorder counts every probe outcome and cycle in r.
func WithOutcomeRecorder(r metrics.OutcomeRecorder) EngineOption {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithOutcomeListener streams every final probe outcome to l.
func WithOutcomeListener(l OutcomeListener) EngineOption {
	return func(e *Engine) {
		e.listeners = append(e.listeners, l)
	}
}

// WithClock overrides the clock used to timestamp measurements.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(
	cfg EngineConfig,
	resolver scan.Resolver,
	probers map[models.Protocol]scan.Prober,
	shipper Shipper,
	opts ...EngineOption) *Engine {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	e := &Engine{
		config:   cfg,
		resolver: resolver,
		probers:  probers,
		shipper:  shipper,
		now:      time.Now,
	}

	if cfg.RateLimit > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// LastReport returns the report of the most recent completed cycle, or nil.
func (e *Engine) LastReport() *models.CycleReport {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.lastReport
}

// RunCycle probes every configured endpoint once. Per-endpoint failures are
// recorded in the report and never abort the cycle.
func (e *Engine) RunCycle(ctx context.Context) *models.CycleReport {
	report := &models.CycleReport{Started: e.now()}

	endpoints := models.EndpointsFrom(e.config.ICMPTargets, e.config.TCPTargets)
	if len(endpoints) == 0 {
		e.finish(report)

		return report
	}

	cycleCtx, cancel := e.cycleContext(ctx)
	defer cancel()

	outcomes := make([]models.ProbeOutcome, len(endpoints))
	dispatched := make([]bool, len(endpoints))
	jobs := make(chan int, e.config.Concurrency)

	var wg sync.WaitGroup

	for i := 0; i < min(e.config.Concurrency, len(endpoints)); i++ {
		wg.Add(1)

		go e.runWorker(cycleCtx, ctx, &wg, endpoints, jobs, outcomes)
	}

	e.feedEndpoints(cycleCtx, len(endpoints), jobs, dispatched)

	wg.Wait()

	for i, ep := range endpoints {
		if !dispatched[i] {
			outcomes[i] = newOutcome(ep)
			outcomes[i].State = models.StateTimeout
			outcomes[i].Err = errNotDispatched
			e.recordOutcome(&outcomes[i])
		}
	}

	report.Outcomes = outcomes
	report.DeadlineExceeded = errors.Is(cycleCtx.Err(), context.DeadlineExceeded)

	e.finish(report)

	return report
}

func (e *Engine) cycleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.config.CycleDeadline <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, e.config.CycleDeadline)
}

func (e *Engine) feedEndpoints(ctx context.Context, n int, jobs chan<- int, dispatched []bool) {
	defer close(jobs)

	for i := 0; i < n; i++ {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return
			}
		}

		select {
		case jobs <- i:
			dispatched[i] = true
		case <-ctx.Done():
			return
		}
	}
}

// runWorker probes with the cycle context but ships with the parent context,
// so a measurement taken just before the deadline is still delivered.
func (e *Engine) runWorker(
	cycleCtx, shipCtx context.Context,
	wg *sync.WaitGroup,
	endpoints []models.Endpoint,
	jobs <-chan int,
	outcomes []models.ProbeOutcome) {
	defer wg.Done()

	for idx := range jobs {
		outcomes[idx] = e.probeEndpoint(cycleCtx, shipCtx, endpoints[idx])
	}
}

func newOutcome(ep models.Endpoint) models.ProbeOutcome {
	return models.ProbeOutcome{
		Endpoint: ep,
		Name:     ep.Name,
		Protocol: ep.Protocol,
		State:    models.StatePending,
	}
}

func (e *Engine) probeEndpoint(ctx, shipCtx context.Context, ep models.Endpoint) (out models.ProbeOutcome) {
	out = newOutcome(ep)
	defer e.recordOutcome(&out)
	defer e.recoverOutcome(&out)

	target, err := e.resolveTarget(ctx, ep)
	if err != nil {
		out.Err = err

		if errors.Is(err, scan.ErrMalformedEndpoint) {
			out.State = models.StateMalformedInput
		} else {
			out.State = models.StateResolutionFailed
		}

		log.Printf("Skipping %s target %q: %v", ep.Protocol, ep.Name, err)

		return out
	}

	out.State = models.StateResolved

	prober, ok := e.probers[ep.Protocol]
	if !ok {
		out.State = models.StateUnreachable
		out.Err = fmt.Errorf("%w %s", errNoProber, ep.Protocol)

		return out
	}

	latency, err := prober.Probe(ctx, target)
	if err != nil {
		out.Err = err

		if errors.Is(err, scan.ErrProbeTimeout) {
			out.State = models.StateTimeout
		} else {
			out.State = models.StateUnreachable
		}

		log.Printf("Failed %s probe to %q (%s): %v", ep.Protocol, ep.Name, target.Address(), err)

		return out
	}

	m := models.Measurement{
		Endpoint:   ep.Name,
		Protocol:   ep.Protocol,
		Latency:    latency,
		ObservedAt: e.now(),
	}

	out.State = models.StateSuccess
	out.Latency = latency
	out.Measurement = &m

	log.Printf("%s Target: %q Latency: %dms", strings.ToUpper(string(ep.Protocol)), ep.Name, latency.Milliseconds())

	// The shipper logs and counts its own failures.
	out.ShipErr = e.shipper.Ship(shipCtx, m)

	return out
}

func (e *Engine) resolveTarget(ctx context.Context, ep models.Endpoint) (models.Target, error) {
	target := models.Target{Endpoint: ep}

	switch ep.Protocol {
	case models.ProtocolICMP:
		target.Host = ep.Name
	case models.ProtocolTCP:
		host, port, err := scan.SplitTCPTarget(ep.Name)
		if err != nil {
			return target, err
		}

		target.Host, target.Port = host, port
	default:
		return target, fmt.Errorf("%w: %w %q", scan.ErrMalformedEndpoint, errUnknownProtocol, ep.Protocol)
	}

	ip, err := e.resolver.Resolve(ctx, target.Host)
	if err != nil {
		return target, err
	}

	target.IP = ip

	return target, nil
}

func (e *Engine) recordOutcome(out *models.ProbeOutcome) {
	out.StateName = out.State.String()

	if e.recorder != nil {
		e.recorder.RecordOutcome(out.State)
	}

	for _, l := range e.listeners {
		notify(l, *out)
	}
}

// recoverOutcome turns a panic from a prober or the shipper into a failed
// outcome so one bad target cannot take the worker pool down with it.
func (e *Engine) recoverOutcome(out *models.ProbeOutcome) {
	r := recover()
	if r == nil {
		return
	}

	log.Printf("Recovered panic measuring %s target %q: %v\n%s", out.Protocol, out.Name, r, debug.Stack())

	err := fmt.Errorf("%w: %v", errWorkerPanic, r)

	if out.Measurement != nil {
		out.ShipErr = err
		return
	}

	out.State = models.StateUnreachable
	out.Latency = 0
	out.Err = err
}

func notify(l OutcomeListener, out models.ProbeOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered panic in outcome listener for %q: %v", out.Name, r)
		}
	}()

	l.OnOutcome(out)
}

func (e *Engine) finish(report *models.CycleReport) {
	report.Finished = e.now()

	for i := range report.Outcomes {
		if report.Outcomes[i].Measurement != nil && report.Outcomes[i].ShipErr == nil {
			report.Shipped++
		}
	}

	if len(report.Outcomes) > 0 {
		log.Printf("Cycle completed in %v: %d/%d probes succeeded, %d shipped",
			report.Finished.Sub(report.Started),
			report.Count(models.StateSuccess),
			len(report.Outcomes),
			report.Shipped)
	}

	if report.DeadlineExceeded {
		log.Printf("Cycle deadline of %v exceeded", e.config.CycleDeadline)
	}

	if e.recorder != nil {
		e.recorder.RecordCycle()
	}

	e.mu.Lock()
	e.lastReport = report
	e.mu.Unlock()
}
