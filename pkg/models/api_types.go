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

// Package models pkg/models/api_types.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// IngestAck confirms a stored snapshot.
type IngestAck struct {
	// Identity the snapshot was stored under
	DeviceName string `json:"device_name" example:"LAB-PC10"`
	// Unique id of this ingestion
	IngestID uuid.UUID `json:"ingest_id" example:"0d3c1b8e-5a7e-4d1f-9a55-3c9f8a1e2b47"`
	// Server receive time (UTC)
	ReceivedAt time.Time `json:"received_at" example:"2025-04-24T14:15:22Z"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	// Error message
	Message string `json:"message" example:"invalid snapshot: device_name is required"`
	// HTTP status code
	Status int `json:"status" example:"400"`
	// Offending field for validation failures
	Field string `json:"field,omitempty" example:"device_name"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"password123"`
}

// Token represents an issued bearer token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type" example:"Bearer"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// User is an authenticated operator.
type User struct {
	Username string `json:"username"`
}

// QueryResponse is the body of GET /api/v1/devices.
type QueryResponse struct {
	// Fleet size before filtering
	Total int `json:"total" example:"42"`
	// Devices returned after filtering
	Matched int          `json:"matched" example:"3"`
	Devices []DeviceView `json:"devices"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string    `json:"status" example:"ok"`
	Version string    `json:"version" example:"dev"`
	Time    time.Time `json:"time"`
}
