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

package models

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPayload is returned when an inbound snapshot cannot be parsed at all.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrInvalidSnapshot is returned when a parsed snapshot violates a field rule.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	errInvalidDuration       = errors.New("invalid duration")
	errListenAddrRequired    = errors.New("listen address is required")
	errUnknownStoreBackend   = errors.New("unknown store backend")
	errCNPGHostRequired      = errors.New("store.cnpg.host is required for the cnpg backend")
	errCNPGDatabaseRequired  = errors.New("store.cnpg.database is required for the cnpg backend")
	errNATSURLRequired       = errors.New("store.nats.url is required for the nats backend")
	errNATSBucketRequired    = errors.New("store.nats.bucket is required for the nats backend")
	errDiskThresholdRange    = errors.New("alerts.high_disk_usage_percent must be within [0,100]")
	errWarnThresholdRange    = errors.New("alerts.warn_disk_usage_percent must be within [0,high_disk_usage_percent]")
	errRAMThresholdNegative  = errors.New("alerts.low_ram_threshold_gb must be non-negative")
	errThresholdNotFinite    = errors.New("alert threshold must be a finite number")
	errThresholdRequired     = errors.New("alert threshold is required")
	errJWTSecretRequired     = errors.New("auth.jwt_secret is required when local users are configured")
	errCollectorURLRequired  = errors.New("collector_url is required")
	errRetryAttemptsNegative = errors.New("retry.max_attempts must be non-negative")
)

// ValidationError names the snapshot field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidSnapshot, e.Field, e.Reason)
}

// Unwrap lets callers match any ValidationError with errors.Is(err, ErrInvalidSnapshot).
func (*ValidationError) Unwrap() error {
	return ErrInvalidSnapshot
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
