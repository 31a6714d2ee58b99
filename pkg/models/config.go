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
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/carverauto/fleetradar/pkg/logger"
)

// Duration is a time.Duration that decodes from "5s"-style strings or from
// a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

const (
	StoreBackendMemory = "memory"
	StoreBackendCNPG   = "cnpg"
	StoreBackendNATS   = "nats"

	DefaultListenAddr           = ":8090"
	DefaultLowRAMThresholdGB    = 8
	DefaultHighDiskUsagePercent = 90
	DefaultWarnDiskUsagePercent = 70
	DefaultStaleAfter           = Duration(60 * time.Minute)
	DefaultStoreTimeout         = Duration(5 * time.Second)
	DefaultStorePageSize        = 500
	DefaultMaxBodyBytes         = 1 << 20
	DefaultJWTExpiration        = Duration(24 * time.Hour)
	DefaultSnapshotBucket       = "fleetradar-snapshots"
	DefaultAgentTimeout         = Duration(30 * time.Second)
	DefaultRetryMaxAttempts     = 5
	DefaultRetryInitialInterval = Duration(time.Second)
	DefaultRetryMaxInterval     = Duration(30 * time.Second)
	DefaultRetryMultiplier      = 2.0
)

// DefaultKnownSoftware is the product list reported when none is configured.
//
//nolint:gochecknoglobals // read-only defaults
var DefaultKnownSoftware = []string{"VMware", "Microsoft Office", "Google Chrome", "Cisco Packet Tracer"}

// CoreConfig configures the collector service (cmd/core).
type CoreConfig struct {
	ListenAddr    string             `json:"listen_addr"`
	Alerts        AlertsConfig       `json:"alerts"`
	Store         StoreConfig        `json:"store"`
	Ingest        IngestConfig       `json:"ingest"`
	Auth          *AuthConfig        `json:"auth,omitempty"`
	CORS          CORSConfig         `json:"cors"`
	KnownSoftware []string           `json:"known_software,omitempty"`
	Logging       *logger.Config     `json:"logging"`
	Metrics       *logger.OTelConfig `json:"metrics,omitempty"`
}

// AlertsConfig holds the alert thresholds. Absent thresholds select the
// defaults; an explicit 0 is kept. An absent warn threshold defaults to
// min(70, high_disk_usage_percent).
type AlertsConfig struct {
	LowRAMThresholdGB    *float64 `json:"low_ram_threshold_gb,omitempty"`
	HighDiskUsagePercent *float64 `json:"high_disk_usage_percent,omitempty"`
	WarnDiskUsagePercent *float64 `json:"warn_disk_usage_percent,omitempty"`
	StaleAfter           Duration `json:"stale_after"`
}

type StoreConfig struct {
	Backend  string        `json:"backend"`
	Timeout  Duration      `json:"timeout"`
	PageSize int           `json:"page_size"`
	CNPG     *CNPGDatabase `json:"cnpg,omitempty"`
	NATS     *NATSConfig   `json:"nats,omitempty"`
}

// CNPGDatabase describes the Postgres (CloudNativePG) cluster backing the cnpg store.
type CNPGDatabase struct {
	Host               string            `json:"host"`
	Port               int               `json:"port"`
	Database           string            `json:"database"`
	Username           string            `json:"username"`
	Password           string            `json:"password"`
	SSLMode            string            `json:"ssl_mode"`
	ApplicationName    string            `json:"application_name,omitempty"`
	MaxConnections     int32             `json:"max_connections,omitempty"`
	MinConnections     int32             `json:"min_connections,omitempty"`
	MaxConnLifetime    Duration          `json:"max_conn_lifetime,omitempty"`
	HealthCheckPeriod  Duration          `json:"health_check_period,omitempty"`
	StatementTimeout   Duration          `json:"statement_timeout,omitempty"`
	ExtraRuntimeParams map[string]string `json:"runtime_params,omitempty"`
	CertDir            string            `json:"cert_dir,omitempty"`
	TLS                *TLSConfig        `json:"tls,omitempty"`
}

type TLSConfig struct {
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
	CAFile   string `json:"ca_file"`
}

// NATSConfig selects the JetStream key-value bucket used by the nats store.
type NATSConfig struct {
	URL       string `json:"url"`
	Bucket    string `json:"bucket"`
	CredsFile string `json:"creds_file,omitempty"`
}

type IngestConfig struct {
	APIKeys      []string `json:"api_keys"`
	MaxBodyBytes int64    `json:"max_body_bytes"`
}

// AuthConfig enables operator login. LocalUsers maps usernames to bcrypt hashes.
type AuthConfig struct {
	JWTSecret     string            `json:"jwt_secret"`
	JWTExpiration Duration          `json:"jwt_expiration"`
	LocalUsers    map[string]string `json:"local_users"`
}

type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// ApplyDefaults fills every unset option with its default.
func (c *CoreConfig) ApplyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}

	c.Alerts.applyDefaults()

	if c.Store.Backend == "" {
		c.Store.Backend = StoreBackendMemory
	}

	if c.Store.Timeout <= 0 {
		c.Store.Timeout = DefaultStoreTimeout
	}

	if c.Store.PageSize <= 0 {
		c.Store.PageSize = DefaultStorePageSize
	}

	if c.Store.NATS != nil && c.Store.NATS.Bucket == "" {
		c.Store.NATS.Bucket = DefaultSnapshotBucket
	}

	if c.Ingest.MaxBodyBytes <= 0 {
		c.Ingest.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if c.Auth != nil && c.Auth.JWTExpiration <= 0 {
		c.Auth.JWTExpiration = DefaultJWTExpiration
	}

	if len(c.KnownSoftware) == 0 {
		c.KnownSoftware = append([]string(nil), DefaultKnownSoftware...)
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}
}

func (a *AlertsConfig) applyDefaults() {
	if a.LowRAMThresholdGB == nil {
		a.LowRAMThresholdGB = Float64Ptr(DefaultLowRAMThresholdGB)
	}

	if a.HighDiskUsagePercent == nil {
		a.HighDiskUsagePercent = Float64Ptr(DefaultHighDiskUsagePercent)
	}

	if a.WarnDiskUsagePercent == nil {
		a.WarnDiskUsagePercent = Float64Ptr(math.Min(DefaultWarnDiskUsagePercent, *a.HighDiskUsagePercent))
	}

	if a.StaleAfter <= 0 {
		a.StaleAfter = DefaultStaleAfter
	}
}

// Validate implements config.Validator. Defaults are applied first.
func (c *CoreConfig) Validate() error {
	c.ApplyDefaults()

	if c.ListenAddr == "" {
		return errListenAddrRequired
	}

	if err := c.Alerts.validate(); err != nil {
		return err
	}

	switch c.Store.Backend {
	case StoreBackendMemory:
	case StoreBackendCNPG:
		if c.Store.CNPG == nil || c.Store.CNPG.Host == "" {
			return errCNPGHostRequired
		}

		if c.Store.CNPG.Database == "" {
			return errCNPGDatabaseRequired
		}
	case StoreBackendNATS:
		if c.Store.NATS == nil || c.Store.NATS.URL == "" {
			return errNATSURLRequired
		}

		if c.Store.NATS.Bucket == "" {
			return errNATSBucketRequired
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownStoreBackend, c.Store.Backend)
	}

	if c.Auth != nil && len(c.Auth.LocalUsers) > 0 && c.Auth.JWTSecret == "" {
		return errJWTSecretRequired
	}

	return nil
}

func (a *AlertsConfig) validate() error {
	thresholds := []struct {
		name  string
		value *float64
	}{
		{"low_ram_threshold_gb", a.LowRAMThresholdGB},
		{"high_disk_usage_percent", a.HighDiskUsagePercent},
		{"warn_disk_usage_percent", a.WarnDiskUsagePercent},
	}

	for _, th := range thresholds {
		if th.value == nil {
			return fmt.Errorf("%w: alerts.%s", errThresholdRequired, th.name)
		}

		if math.IsNaN(*th.value) || math.IsInf(*th.value, 0) {
			return fmt.Errorf("%w: alerts.%s", errThresholdNotFinite, th.name)
		}
	}

	if *a.LowRAMThresholdGB < 0 {
		return errRAMThresholdNegative
	}

	if *a.HighDiskUsagePercent < 0 || *a.HighDiskUsagePercent > 100 {
		return errDiskThresholdRange
	}

	if *a.WarnDiskUsagePercent < 0 || *a.WarnDiskUsagePercent > *a.HighDiskUsagePercent {
		return errWarnThresholdRange
	}

	return nil
}

// AgentConfig configures the collection agent (cmd/agent).
type AgentConfig struct {
	CollectorURL  string         `json:"collector_url"`
	APIKey        string         `json:"api_key"`
	Interval      Duration       `json:"interval"`
	Timeout       Duration       `json:"timeout"`
	KnownSoftware []string       `json:"known_software,omitempty"`
	Retry         RetryConfig    `json:"retry"`
	Logging       *logger.Config `json:"logging"`
}

// RetryConfig bounds the agent's push retries. MaxAttempts counts the first try.
type RetryConfig struct {
	MaxAttempts     int      `json:"max_attempts"`
	InitialInterval Duration `json:"initial_interval"`
	MaxInterval     Duration `json:"max_interval"`
	Multiplier      float64  `json:"multiplier"`
}

func (c *AgentConfig) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultAgentTimeout
	}

	if len(c.KnownSoftware) == 0 {
		c.KnownSoftware = append([]string(nil), DefaultKnownSoftware...)
	}

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = DefaultRetryMaxAttempts
	}

	if c.Retry.InitialInterval <= 0 {
		c.Retry.InitialInterval = DefaultRetryInitialInterval
	}

	if c.Retry.MaxInterval <= 0 {
		c.Retry.MaxInterval = DefaultRetryMaxInterval
	}

	if c.Retry.Multiplier <= 1 {
		c.Retry.Multiplier = DefaultRetryMultiplier
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}
}

// Validate implements config.Validator. Defaults are applied first.
func (c *AgentConfig) Validate() error {
	c.ApplyDefaults()

	if c.CollectorURL == "" {
		return errCollectorURLRequired
	}

	if c.Retry.MaxAttempts < 0 {
		return errRetryAttemptsNegative
	}

	return nil
}
