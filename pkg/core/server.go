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

// Package core wires the snapshot store, ingestion, alerting and query
// services behind the collector HTTP API.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/carverauto/fleetradar/pkg/alerts"
	"github.com/carverauto/fleetradar/pkg/core/api"
	"github.com/carverauto/fleetradar/pkg/core/auth"
	"github.com/carverauto/fleetradar/pkg/db"
	"github.com/carverauto/fleetradar/pkg/ingest"
	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
	"github.com/carverauto/fleetradar/pkg/search"
	"github.com/carverauto/fleetradar/pkg/version"
)

const shutdownTimeout = 10 * time.Second

// Server owns the collector's long-lived components.
type Server struct {
	config    *models.CoreConfig
	store     db.SnapshotStore
	ingest    *ingest.Service
	query     *search.Service
	apiServer api.Service
	logger    logger.Logger
}

// NewServer opens the configured store and builds the services on top of it.
// cfg must already be validated.
func NewServer(ctx context.Context, cfg *models.CoreConfig, log logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errNilConfig
	}

	store, err := openStore(ctx, &cfg.Store, log)
	if err != nil {
		return nil, err
	}

	server, err := newServer(cfg, store, log)
	if err != nil {
		_ = store.Close()

		return nil, err
	}

	return server, nil
}

func newServer(cfg *models.CoreConfig, store db.SnapshotStore, log logger.Logger) (*Server, error) {
	timeout := time.Duration(cfg.Store.Timeout)

	thresholds := alerts.ThresholdsFromConfig(cfg.Alerts)
	evaluator := alerts.NewEvaluator(thresholds)

	ingestSvc := ingest.NewService(store, log, ingest.WithStoreTimeout(timeout))
	querySvc := search.NewService(store, search.NewEngine(evaluator), log, search.WithTimeout(timeout))

	options := []func(*api.APIServer){
		api.WithIngestService(ingestSvc),
		api.WithQueryService(querySvc),
		api.WithAPIKeys(cfg.Ingest.APIKeys),
		api.WithMaxBodyBytes(cfg.Ingest.MaxBodyBytes),
		api.WithKnownSoftware(cfg.KnownSoftware),
		api.WithLogger(log),
	}

	if cfg.Auth != nil && cfg.Auth.JWTSecret != "" {
		authSvc, err := auth.NewAuth(cfg.Auth, log)
		if err != nil {
			return nil, err
		}

		options = append(options, api.WithAuthService(authSvc))
	} else if len(cfg.Ingest.APIKeys) == 0 {
		log.Warn().Msg("No API keys or JWT secret configured; API routes are unauthenticated")
	}

	log.Info().
		Str("version", version.GetFullVersion()).
		Str("backend", cfg.Store.Backend).
		Stringer("low_ram_threshold_gb", thresholds.LowRAMGB).
		Stringer("high_disk_usage_percent", thresholds.HighDiskUsagePercent).
		Dur("stale_after", thresholds.StaleAfter).
		Msg("Core services initialized")

	return &Server{
		config:    cfg,
		store:     store,
		ingest:    ingestSvc,
		query:     querySvc,
		apiServer: api.NewAPIServer(cfg.CORS, options...),
		logger:    log,
	}, nil
}

// API returns the HTTP server built for the configured services.
func (s *Server) API() api.Service {
	return s.apiServer
}

// Run serves the API until ctx is cancelled or the listener fails, then
// shuts the API down and closes the store.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- s.apiServer.Start(s.config.ListenAddr)
	}()

	var runErr error

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown requested")
	case runErr = <-errCh:
		if runErr != nil {
			s.logger.Error().Err(runErr).Msg("HTTP API server error")
		}
	}

	return errors.Join(runErr, s.Stop(context.WithoutCancel(ctx)))
}

// Stop drains in-flight requests and closes the store.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error

	if err := s.apiServer.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP API server")
		errs = append(errs, err)
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing snapshot store")
		errs = append(errs, err)
	}

	s.logger.Info().Msg("Core service stopped")

	return errors.Join(errs...)
}
