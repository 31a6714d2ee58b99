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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
)

const (
	ingestPath     = "/api/v1/snapshots"
	apiKeyHeader   = "X-API-Key"
	maxErrorBody   = 4096
	userAgentValue = "fleetradar-agent"
)

// HTTPPusher posts snapshots to the collector's ingest endpoint, retrying
// transport errors, 429 and 5xx responses under its RetryPolicy. Any other
// 4xx is final.
type HTTPPusher struct {
	client   *http.Client
	endpoint string
	apiKey   string
	policy   RetryPolicy
	logger   logger.Logger
}

var _ SnapshotPusher = (*HTTPPusher)(nil)

// PusherOption configures an HTTPPusher.
type PusherOption func(*HTTPPusher)

func WithHTTPClient(c *http.Client) PusherOption {
	return func(p *HTTPPusher) {
		p.client = c
	}
}

func WithRetryPolicy(policy RetryPolicy) PusherOption {
	return func(p *HTTPPusher) {
		p.policy = policy
	}
}

// NewHTTPPusher targets collectorURL, the collector's base URL.
func NewHTTPPusher(collectorURL, apiKey string, timeout time.Duration, log logger.Logger, opts ...PusherOption) (*HTTPPusher, error) {
	base := strings.TrimRight(strings.TrimSpace(collectorURL), "/")
	if base == "" {
		return nil, errCollectorURL
	}

	p := &HTTPPusher{
		client:   &http.Client{Timeout: timeout},
		endpoint: base + ingestPath,
		apiKey:   apiKey,
		policy:   RetryPolicyFromConfig(models.RetryConfig{}),
		logger:   log,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *HTTPPusher) Push(ctx context.Context, snapshot *models.WireSnapshot) (*models.IngestAck, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("%w: encode snapshot: %w", ErrPushFailed, err)
	}

	attempt := 0

	operation := func() (*models.IngestAck, error) {
		attempt++

		return p.post(ctx, body)
	}

	notify := func(err error, wait time.Duration) {
		p.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("Snapshot push failed, retrying")
	}

	ack, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(p.policy.backOff()),
		backoff.WithMaxTries(p.policy.maxTries()),
		backoff.WithNotify(notify),
	)
	if err != nil {
		if errors.Is(err, ErrPushRejected) {
			return nil, err
		}

		return nil, fmt.Errorf("%w after %d attempt(s): %w", ErrPushFailed, attempt, err)
	}

	return ack, nil
}

func (p *HTTPPusher) post(ctx context.Context, body []byte) (*models.IngestAck, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgentValue)

	if p.apiKey != "" {
		req.Header.Set(apiKeyHeader, p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusOK {
		var ack models.IngestAck
		if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("decode ack: %w", err))
		}

		return &ack, nil
	}

	statusErr := readStatusError(resp)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			return nil, fmt.Errorf("%w: %w", statusErr, backoff.RetryAfter(secs))
		}

		return nil, statusErr
	default:
		return nil, backoff.Permanent(fmt.Errorf("%w: %w", ErrPushRejected, statusErr))
	}
}

func readStatusError(resp *http.Response) *StatusError {
	statusErr := &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return statusErr
	}

	var body models.ErrorResponse
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		statusErr.Message = body.Message
		statusErr.Field = body.Field

		return statusErr
	}

	statusErr.Message = strings.TrimSpace(string(raw))

	return statusErr
}
