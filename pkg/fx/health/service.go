/*
 * Copyright (c) 2019 OysterPack, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// MetricCheckStatus is the health check status gauge, labeled by check ID. The value is the Status.
const MetricCheckStatus = "isowords_health_check_status"

// Checker performs the health check. Return a YellowError to report a Yellow status.
//
// Health checks must be designed to run as fast as possible, and must honor ctx cancellation.
type Checker func(ctx context.Context) error

// Service runs the registered health checks
type Service struct {
	lock    sync.RWMutex
	checks  map[string]Registration
	results map[string]Result
	started bool

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	status *prometheus.GaugeVec

	logRegistered eventlog.Logger
	logGreen      eventlog.Logger
	logNotGreen   eventlog.Logger
}

// NewService constructs a new Service. If registerer is nil, then the status gauge is not registered.
func NewService(registerer prometheus.Registerer, logger *zerolog.Logger) (*Service, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	logger = eventlog.ForComponent(logger, "health")
	s := &Service{
		checks:  make(map[string]Registration),
		results: make(map[string]Result),
		stop:    make(chan struct{}),
		status: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricCheckStatus,
			Help: "Health check status: 0 = green, 1 = yellow, 2 = red",
		}, []string{"check"}),
		logRegistered: CheckRegistered.NewLogger(logger, zerolog.InfoLevel),
		logGreen:      CheckStatusChanged.NewLogger(logger, zerolog.InfoLevel),
		logNotGreen:   CheckStatusChanged.NewLogger(logger, zerolog.WarnLevel),
	}
	if registerer != nil {
		if err := registerer.Register(s.status); err != nil {
			return nil, errors.Wrap(err, "failed to register health check metric")
		}
	}
	return s, nil
}

// Register registers the health check. If the service is started, then the check is scheduled right away.
func (s *Service) Register(reg Registration) error {
	if reg.Checker == nil {
		return ErrNilChecker
	}
	reg.Check = reg.Check.trimSpace()
	if err := reg.Check.validate(); err != nil {
		return err
	}
	reg.CheckerOpts = reg.CheckerOpts.normalize()

	s.lock.Lock()
	defer s.lock.Unlock()
	select {
	case <-s.stop:
		return ErrServiceShutdown
	default:
	}
	if _, exists := s.checks[reg.ID]; exists {
		return errors.Wrap(ErrDuplicateCheck, reg.ID)
	}
	s.checks[reg.ID] = reg
	if s.started {
		s.schedule(reg)
	}
	s.logRegistered(eventlog.Fields{
		"id":       reg.ID,
		"timeout":  reg.Timeout.String(),
		"interval": reg.RunInterval.String(),
	}, "health check registered")
	return nil
}

// Start schedules the registered checks. Each check is run immediately, and then on its run interval.
func (s *Service) Start() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.started {
		return
	}
	select {
	case <-s.stop:
		return
	default:
	}
	s.started = true
	for _, reg := range s.checks {
		s.schedule(reg)
	}
}

func (s *Service) schedule(reg Registration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(reg.RunInterval)
		defer ticker.Stop()
		for {
			s.run(reg)
			select {
			case <-s.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Shutdown stops running the health checks, and waits for the runs in progress to complete
func (s *Service) Shutdown() {
	s.lock.Lock()
	s.stopOnce.Do(func() { close(s.stop) })
	s.lock.Unlock()
	s.wg.Wait()
}

// Run runs the registered health check now
func (s *Service) Run(id string) (Result, error) {
	s.lock.RLock()
	reg, ok := s.checks[id]
	s.lock.RUnlock()
	if !ok {
		return Result{}, errors.Errorf("health check is not registered: %s", id)
	}
	return s.run(reg), nil
}

func (s *Service) run(reg Registration) Result {
	ctx, cancel := context.WithTimeout(context.Background(), reg.Timeout)
	defer cancel()
	go func() {
		select {
		case <-s.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	err := check(ctx, reg.Checker)
	result := Result{
		ID:       reg.ID,
		Err:      err,
		Time:     start,
		Duration: time.Since(start),
	}
	var yellow YellowError
	switch {
	case err == nil:
		result.Status = Green
	case errors.As(err, &yellow):
		result.Status = Yellow
	default:
		result.Status = Red
	}
	s.record(result)
	return result
}

// check enforces the timeout for checkers that do not honor ctx, and recovers checker panics
func check(ctx context.Context, checker Checker) error {
	errs := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				errs <- fmt.Errorf("health check panicked: %v", p)
			}
		}()
		errs <- checker(ctx)
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		return errors.Wrap(ErrTimeout, ctx.Err().Error())
	}
}

func (s *Service) record(result Result) {
	s.lock.Lock()
	prev, ok := s.results[result.ID]
	s.results[result.ID] = result
	s.lock.Unlock()

	s.status.WithLabelValues(result.ID).Set(float64(result.Status))
	if ok && prev.Status == result.Status {
		return
	}
	data := eventlog.Fields{"id": result.ID, "status": result.Status.String()}
	if result.Status == Green {
		s.logGreen(data, "health check status changed")
		return
	}
	data["error"] = result.Err.Error()
	s.logNotGreen(data, "health check status changed")
}

// Registrations returns the registered checks sorted by ID
func (s *Service) Registrations() []Registration {
	s.lock.RLock()
	defer s.lock.RUnlock()
	regs := make([]Registration, 0, len(s.checks))
	for _, reg := range s.checks {
		regs = append(regs, reg)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs
}

// Results returns the latest results sorted by check ID. Checks that have not run yet have no result.
func (s *Service) Results() []Result {
	s.lock.RLock()
	defer s.lock.RUnlock()
	results := make([]Result, 0, len(s.results))
	for _, result := range s.results {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results
}

// Status returns the worst status across the latest results
func (s *Service) Status() Status {
	s.lock.RLock()
	defer s.lock.RUnlock()
	status := Green
	for _, result := range s.results {
		if result.Status > status {
			status = result.Status
		}
	}
	return status
}
