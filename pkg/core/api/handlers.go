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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/carverauto/fleetradar/pkg/core/auth"
	"github.com/carverauto/fleetradar/pkg/export"
	"github.com/carverauto/fleetradar/pkg/ingest"
	"github.com/carverauto/fleetradar/pkg/models"
	"github.com/carverauto/fleetradar/pkg/search"
	"github.com/carverauto/fleetradar/pkg/version"
)

func (s *APIServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if err := s.encodeJSONResponse(w, models.HealthResponse{
		Status:  "ok",
		Version: version.GetVersion(),
		Time:    time.Now().UTC(),
	}); err != nil {
		s.logger.Error().Err(err).Msg("Error encoding health response")
	}
}

// handleIngest accepts one snapshot from an agent.
//
//	200 stored, 400 malformed, 413 too large, 422 invalid, 503 storage failure.
func (s *APIServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		writeError(w, "failed to read request body", http.StatusBadRequest)

		return
	}

	ack, err := s.ingestService.Ingest(r.Context(), raw)
	if err != nil {
		writeErrorResponse(w, ingestErrorResponse(err))
		return
	}

	if err := s.encodeJSONResponse(w, ack); err != nil {
		s.logger.Error().Err(err).Str("device_name", ack.DeviceName).Msg("Error encoding ingest ack")
	}
}

func ingestErrorResponse(err error) models.ErrorResponse {
	var verr *models.ValidationError

	switch {
	case errors.As(err, &verr):
		return models.ErrorResponse{Message: verr.Error(), Status: http.StatusUnprocessableEntity, Field: verr.Field}
	case errors.Is(err, ingest.ErrMalformedPayload):
		return models.ErrorResponse{Message: err.Error(), Status: http.StatusBadRequest}
	case errors.Is(err, ingest.ErrStorageFailure):
		return models.ErrorResponse{Message: "snapshot could not be stored, retry later", Status: http.StatusServiceUnavailable}
	default:
		return models.ErrorResponse{Message: "internal error", Status: http.StatusInternalServerError}
	}
}

func parseFilter(r *http.Request) (search.Filter, error) {
	q := r.URL.Query()

	filter := search.Filter{Text: q.Get("q")}

	if raw := q.Get("alerts_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, err
		}

		filter.AlertsOnly = v
	}

	return filter, nil
}

// runQuery writes the error response itself and returns nil on failure.
func (s *APIServer) runQuery(w http.ResponseWriter, r *http.Request) *search.QueryResult {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, "alerts_only must be a boolean", http.StatusBadRequest)
		return nil
	}

	result, err := s.queryService.Query(r.Context(), filter)
	if err != nil {
		writeError(w, "device data is temporarily unavailable", http.StatusServiceUnavailable)
		return nil
	}

	if user, ok := auth.UserFromContext(r.Context()); ok {
		s.logger.Debug().Str("user", user.Username).Int("matched", len(result.Devices)).Msg("Devices queried")
	}

	return result
}

func (s *APIServer) handleDevices(w http.ResponseWriter, r *http.Request) {
	result := s.runQuery(w, r)
	if result == nil {
		return
	}

	resp := models.QueryResponse{
		Total:   result.Total,
		Matched: len(result.Devices),
		Devices: result.Views(s.queryService.Engine().Evaluator(), s.knownSoftware),
	}

	if err := s.encodeJSONResponse(w, resp); err != nil {
		s.logger.Error().Err(err).Msg("Error encoding devices response")
	}
}

func (s *APIServer) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	result := s.runQuery(w, r)
	if result == nil {
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="fleet_export.csv"`)

	if err := export.WriteCSV(w, result.Devices); err != nil {
		s.logger.Error().Err(err).Msg("Error writing CSV export")
	}
}

func (s *APIServer) handleLocalLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.LoginRequest

	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&creds); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	token, err := s.authService.LoginLocal(r.Context(), creds.Username, creds.Password)
	if err != nil {
		writeError(w, "login failed", http.StatusUnauthorized)
		return
	}

	if err := s.encodeJSONResponse(w, token); err != nil {
		s.logger.Error().Err(err).Msg("Error encoding login response")
	}
}
