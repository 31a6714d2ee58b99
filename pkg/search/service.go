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

package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
)

// ErrQueryFailure is returned when the store could not be read.
var ErrQueryFailure = errors.New("query failure")

const defaultTimeout = 5 * time.Second

// Scanner is the read side of the snapshot store.
type Scanner interface {
	ScanSnapshots(ctx context.Context) ([]*models.DeviceSnapshot, error)
}

// QueryResult is an ordered, filtered view of the fleet.
type QueryResult struct {
	Devices []*models.DeviceSnapshot
	// Total is the fleet size before filtering.
	Total int
	// EvaluatedAt is the instant alerts and staleness were computed for.
	EvaluatedAt time.Time
}

// Service runs queries against the store.
type Service struct {
	store   Scanner
	engine  *Engine
	timeout time.Duration
	now     func() time.Time
	logger  logger.Logger
	tracer  trace.Tracer
}

type Option func(*Service)

// WithTimeout bounds each store scan.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store Scanner, engine *Engine, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		engine:  engine,
		timeout: defaultTimeout,
		now:     time.Now,
		logger:  log,
		tracer:  otel.Tracer(searchMeterName),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Engine() *Engine {
	return s.engine
}

// Query scans the store and applies filter. A failed or timed out scan
// returns ErrQueryFailure; a partial fleet is never returned.
func (s *Service) Query(ctx context.Context, filter Filter) (*QueryResult, error) {
	ctx, span := s.tracer.Start(ctx, "search.Query", trace.WithAttributes(
		attribute.Bool("alerts_only", filter.AlertsOnly),
	))
	defer span.End()

	start := time.Now()

	scanCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snapshots, err := s.store.ScanSnapshots(scanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store scan failed")
		recordQuery(ctx, time.Since(start), filter, statusError, 0, 0)

		s.logger.Error().Err(err).Dur("timeout", s.timeout).Msg("Failed to scan snapshot store")

		return nil, fmt.Errorf("%w: %w", ErrQueryFailure, err)
	}

	now := s.now().UTC()
	devices := s.engine.Query(snapshots, filter, now)

	span.SetAttributes(attribute.Int("total", len(snapshots)), attribute.Int("matched", len(devices)))
	recordQuery(ctx, time.Since(start), filter, statusSuccess, len(snapshots), len(devices))

	s.logger.Debug().
		Str("q", filter.Text).
		Bool("alerts_only", filter.AlertsOnly).
		Int("total", len(snapshots)).
		Int("matched", len(devices)).
		Msg("Query completed")

	return &QueryResult{
		Devices:     devices,
		Total:       len(snapshots),
		EvaluatedAt: now,
	}, nil
}
