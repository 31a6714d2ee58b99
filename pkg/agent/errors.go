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

package agent

import (
	"errors"
	"fmt"
)

var (
	errHostnameUnavailable = errors.New("hostname unavailable")
	errCollectorURL        = errors.New("collector_url is required")
	errCPUUnavailable      = errors.New("cpu details unavailable")

	// ErrProbeUnsupported is returned by a probe method that has no source on this platform.
	ErrProbeUnsupported = errors.New("not supported on this platform")

	// ErrPushRejected is returned when the collector refuses a snapshot with a 4xx status.
	ErrPushRejected = errors.New("snapshot rejected by collector")
	// ErrPushFailed is returned once the retry policy gives up.
	ErrPushFailed = errors.New("snapshot push failed")
)

// StatusError carries the collector's response to a failed push.
type StatusError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *StatusError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("collector returned %d: %s (field %s)", e.StatusCode, e.Message, e.Field)
	}

	return fmt.Sprintf("collector returned %d: %s", e.StatusCode, e.Message)
}
