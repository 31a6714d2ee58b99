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

package cli

import (
	"errors"
	"fmt"
)

var (
	errEmptyPassword  = errors.New("password cannot be empty")
	errInvalidCost    = fmt.Errorf("cost must be a number between %d and %d", minCost, maxCost)
	errHashFailed     = errors.New("failed to generate hash")
	errUnknownCommand = errors.New("unknown command")
	errLoginArgs      = errors.New("login requires -username and -password")
	errRequestFailed  = errors.New("request failed")
	errServerRequired = errors.New("-server is required")
)

// APIError is a non-2xx response from the collector.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", errRequestFailed, e.StatusCode, e.Message)
}

func (*APIError) Unwrap() error {
	return errRequestFailed
}
