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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/fleetradar/pkg/models"
)

const (
	devicesPath = "/api/v1/devices"
	exportPath  = "/api/v1/devices/export.csv"
	loginPath   = "/auth/login"
)

// Client talks to the collector's query and login endpoints.
type Client struct {
	baseURL string
	apiKey  string
	token   string
	http    *http.Client
}

func NewClient(baseURL, apiKey, token string, timeout time.Duration) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errServerRequired
	}

	return &Client{
		baseURL: base,
		apiKey:  apiKey,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Devices runs a fleet query.
func (c *Client) Devices(ctx context.Context, query string, alertsOnly bool) (*models.QueryResponse, error) {
	resp, err := c.get(ctx, devicesPath, query, alertsOnly)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var out models.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode devices response: %w", err)
	}

	return &out, nil
}

// ExportCSV streams the CSV export of a fleet query into w.
func (c *Client) ExportCSV(ctx context.Context, query string, alertsOnly bool, w io.Writer) error {
	resp, err := c.get(ctx, exportPath, query, alertsOnly)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	return nil
}

// Login exchanges operator credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Token, error) {
	body, err := json.Marshal(models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var token models.Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	return &token, nil
}

func (c *Client) get(ctx context.Context, path, query string, alertsOnly bool) (*http.Response, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}

	if alertsOnly {
		params.Set("alerts_only", strconv.FormatBool(true))
	}

	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, err
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	return c.do(req)
}

// do sends req and turns any non-200 response into an *APIError.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errRequestFailed, err)
	}

	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}

	defer func() { _ = resp.Body.Close() }()

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body models.ErrorResponse
	if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body) == nil && body.Message != "" {
		apiErr.Message = body.Message
	}

	return nil, apiErr
}
