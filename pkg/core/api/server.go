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

// Package api provides the HTTP API of the FleetRadar collector.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/carverauto/fleetradar/pkg/core/auth"
	fleethttp "github.com/carverauto/fleetradar/pkg/http"
	"github.com/carverauto/fleetradar/pkg/ingest"
	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
	"github.com/carverauto/fleetradar/pkg/search"
)

const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

type APIServer struct {
	router        *mux.Router
	corsConfig    models.CORSConfig
	ingestService *ingest.Service
	queryService  *search.Service
	authService   auth.AuthService
	apiKeys       []string
	maxBodyBytes  int64
	knownSoftware []string
	logger        logger.Logger

	mu  sync.Mutex
	srv *http.Server
}

var _ Service = (*APIServer)(nil)

// NewAPIServer creates a new API server instance with the given configuration.
func NewAPIServer(config models.CORSConfig, options ...func(server *APIServer)) *APIServer {
	s := &APIServer{
		router:        mux.NewRouter(),
		corsConfig:    config,
		maxBodyBytes:  models.DefaultMaxBodyBytes,
		knownSoftware: models.DefaultKnownSoftware,
		logger:        logger.NewTestLogger(),
	}

	for _, o := range options {
		o(s)
	}

	s.setupRoutes()

	return s
}

func WithIngestService(svc *ingest.Service) func(server *APIServer) {
	return func(server *APIServer) {
		server.ingestService = svc
	}
}

func WithQueryService(svc *search.Service) func(server *APIServer) {
	return func(server *APIServer) {
		server.queryService = svc
	}
}

// WithAuthService enables /auth/login and bearer tokens on the query routes.
func WithAuthService(a auth.AuthService) func(server *APIServer) {
	return func(server *APIServer) {
		server.authService = a
	}
}

// WithAPIKeys sets the keys accepted in the X-API-Key header.
func WithAPIKeys(keys []string) func(server *APIServer) {
	return func(server *APIServer) {
		server.apiKeys = append([]string(nil), keys...)
	}
}

func WithMaxBodyBytes(n int64) func(server *APIServer) {
	return func(server *APIServer) {
		if n > 0 {
			server.maxBodyBytes = n
		}
	}
}

func WithKnownSoftware(products []string) func(server *APIServer) {
	return func(server *APIServer) {
		server.knownSoftware = products
	}
}

func WithLogger(log logger.Logger) func(server *APIServer) {
	return func(server *APIServer) {
		if log != nil {
			server.logger = log
		}
	}
}

func (s *APIServer) setupRoutes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return fleethttp.CommonMiddleware(next, s.corsConfig, s.logger)
	})

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet, http.MethodOptions)

	if s.authService != nil {
		s.router.HandleFunc("/auth/login", s.handleLocalLogin).Methods(http.MethodPost, http.MethodOptions)
	}

	v1 := s.router.PathPrefix("/api/v1").Subrouter()

	if s.ingestService != nil {
		ingestRoutes := v1.PathPrefix("/snapshots").Subrouter()
		ingestRoutes.Use(fleethttp.APIKeyMiddlewareWithOptions(fleethttp.APIKeyOptions{
			APIKeys:         s.apiKeys,
			LogUnauthorized: true,
			Logger:          s.logger,
		}))
		ingestRoutes.Use(fleethttp.MaxBodyMiddleware(s.maxBodyBytes))
		ingestRoutes.HandleFunc("", s.handleIngest).Methods(http.MethodPost, http.MethodOptions)
	}

	if s.queryService != nil {
		protected := v1.PathPrefix("/devices").Subrouter()
		protected.Use(s.authenticationMiddleware)
		protected.HandleFunc("", s.handleDevices).Methods(http.MethodGet, http.MethodOptions)
		protected.HandleFunc("/export.csv", s.handleExportCSV).Methods(http.MethodGet, http.MethodOptions)
	}
}

// authenticationMiddleware accepts either a valid bearer token or a valid API
// key. With neither an auth service nor API keys configured every request is
// allowed.
func (s *APIServer) authenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := auth.BearerToken(r); ok && s.authService != nil {
			user, err := s.authService.VerifyToken(r.Context(), token)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
				return
			}

			s.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Bearer token rejected")
		}

		if fleethttp.ValidAPIKey(r.Header.Get(fleethttp.APIKeyHeader), s.apiKeys) {
			next.ServeHTTP(w, r)
			return
		}

		if s.authService != nil || len(s.apiKeys) > 0 {
			writeError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *APIServer) Handler() http.Handler {
	return s.router
}

// Start serves the API on addr until Shutdown is called.
func (s *APIServer) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: defaultReadTimeout,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}

	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	s.logger.Info().Str("addr", addr).Msg("Starting HTTP API server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *APIServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	return srv.Shutdown(ctx)
}

// encodeJSONResponse encodes a response as JSON. Nothing is written until
// encoding succeeds; a failure becomes a 500.
func (*APIServer) encodeJSONResponse(w http.ResponseWriter, data interface{}) error {
	var buf bytes.Buffer

	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		writeError(w, "failed to encode response", http.StatusInternalServerError)

		return err
	}

	w.Header().Set("Content-Type", "application/json")

	_, err := buf.WriteTo(w)

	return err
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeErrorResponse(w, models.ErrorResponse{Message: message, Status: statusCode})
}

func writeErrorResponse(w http.ResponseWriter, resp models.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(resp.Status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
