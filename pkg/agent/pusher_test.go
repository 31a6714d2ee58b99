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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2,
	}
}

func newTestPusher(t *testing.T, url string, attempts int) *HTTPPusher {
	t.Helper()

	p, err := NewHTTPPusher(url+"/", "agent-key", time.Second, logger.NewTestLogger(), WithRetryPolicy(fastPolicy(attempts)))
	require.NoError(t, err)

	return p
}

func writeAck(t *testing.T, w http.ResponseWriter, r *http.Request) {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

	_ = json.NewEncoder(w).Encode(models.IngestAck{
		DeviceName: body["device_name"].(string),
		IngestID:   uuid.New(),
		ReceivedAt: time.Now().UTC(),
	})
}

func TestPushSendsSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ingestPath, r.URL.Path)
		assert.Equal(t, "agent-key", r.Header.Get(apiKeyHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		writeAck(t, w, r)
	}))
	defer srv.Close()

	ack, err := newTestPusher(t, srv.URL, 3).Push(context.Background(), BuildSnapshot(sampleInfo()))
	require.NoError(t, err)
	assert.Equal(t, "LAB-PC10", ack.DeviceName)
}

func TestPushRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Message: "storage unavailable", Status: 503})

			return
		}

		writeAck(t, w, r)
	}))
	defer srv.Close()

	_, err := newTestPusher(t, srv.URL, 5).Push(context.Background(), BuildSnapshot(sampleInfo()))
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPushGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestPusher(t, srv.URL, 3).Push(context.Background(), BuildSnapshot(sampleInfo()))
	require.ErrorIs(t, err, ErrPushFailed)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPushDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{
			Message: "cpu_threads must not be negative",
			Status:  http.StatusUnprocessableEntity,
			Field:   "cpu_threads",
		})
	}))
	defer srv.Close()

	_, err := newTestPusher(t, srv.URL, 5).Push(context.Background(), BuildSnapshot(sampleInfo()))
	require.ErrorIs(t, err, ErrPushRejected)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "cpu_threads", statusErr.Field)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPushTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestPusher(t, url, 2).Push(context.Background(), BuildSnapshot(sampleInfo()))
	require.ErrorIs(t, err, ErrPushFailed)
}

func TestNewHTTPPusherRequiresURL(t *testing.T) {
	_, err := NewHTTPPusher("  ", "", time.Second, logger.NewTestLogger())
	require.ErrorIs(t, err, errCollectorURL)
}

func TestRetryPolicyDefaults(t *testing.T) {
	policy := RetryPolicyFromConfig(models.RetryConfig{})
	assert.Equal(t, uint(models.DefaultRetryMaxAttempts), policy.maxTries())

	bo := fastPolicy(1).backOff()
	assert.Equal(t, time.Millisecond, bo.InitialInterval)
	assert.InDelta(t, 2.0, bo.Multiplier, 0)
}
