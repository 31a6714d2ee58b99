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

// Package ingest accepts raw snapshot payloads from agents, validates them and
// hands them to the snapshot store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/fleetradar/pkg/db"
	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
)

const defaultStoreTimeout = 5 * time.Second

// Service is safe for concurrent use. It holds no lock of its own; ordering
// between writes for the same device is decided by the store.
type Service struct {
	store   db.SnapshotStore
	timeout time.Duration
	now     func() time.Time
	newID   func() uuid.UUID
	logger  logger.Logger
	tracer  trace.Tracer
}

type Option func(*Service)

// WithStoreTimeout bounds each store write.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store db.SnapshotStore, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		timeout: defaultStoreTimeout,
		now:     time.Now,
		newID:   uuid.New,
		logger:  log,
		tracer:  otel.Tracer(ingestMeterName),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ingest parses, validates and stores one raw snapshot payload.
//
// A payload that is not a JSON object returns ErrMalformedPayload. A payload
// that breaks a field rule returns ErrInvalidSnapshot wrapping a
// *models.ValidationError. Neither reaches the store. A store error or an
// expired write deadline returns ErrStorageFailure.
func (s *Service) Ingest(ctx context.Context, raw []byte) (*models.IngestAck, error) {
	ctx, span := s.tracer.Start(ctx, "ingest.Ingest", trace.WithAttributes(
		attribute.Int("payload_bytes", len(raw)),
	))
	defer span.End()

	wire, err := models.ParseSnapshot(raw)
	if err != nil {
		return nil, s.reject(ctx, span, err)
	}

	snapshot, err := models.NormalizeSnapshot(wire)
	if err != nil {
		return nil, s.reject(ctx, span, err)
	}

	span.SetAttributes(attribute.String("device_name", snapshot.DeviceName))

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.UpsertSnapshot(storeCtx, snapshot); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store upsert failed")
		recordOutcome(ctx, outcomeStorage)

		s.logger.Error().
			Err(err).
			Str("device_name", snapshot.DeviceName).
			Dur("timeout", s.timeout).
			Msg("Failed to store snapshot")

		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	recordOutcome(ctx, outcomeAccepted)

	ack := &models.IngestAck{
		DeviceName: snapshot.DeviceName,
		IngestID:   s.newID(),
		ReceivedAt: s.now().UTC(),
	}

	s.logger.Debug().
		Str("device_name", ack.DeviceName).
		Str("ingest_id", ack.IngestID.String()).
		Bool("reported_at_known", snapshot.ReportedAt != nil).
		Msg("Snapshot stored")

	return ack, nil
}

func (s *Service) reject(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		span.SetStatus(codes.Error, "invalid snapshot")
		recordOutcome(ctx, outcomeInvalid)
		recordRejectedField(ctx, verr.Field)

		s.logger.Warn().Str("field", verr.Field).Str("reason", verr.Reason).Msg("Rejected invalid snapshot")

		return err
	}

	span.SetStatus(codes.Error, "malformed payload")
	recordOutcome(ctx, outcomeMalformed)

	s.logger.Warn().Err(err).Msg("Rejected malformed snapshot payload")

	if !errors.Is(err, ErrMalformedPayload) {
		return fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	return err
}
