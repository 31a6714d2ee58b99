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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshal(t *testing.T) {
	var d Duration

	require.NoError(t, json.Unmarshal([]byte(`"90s"`), &d))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, time.Duration(d))

	require.ErrorIs(t, json.Unmarshal([]byte(`"soon"`), &d), errInvalidDuration)
	require.ErrorIs(t, json.Unmarshal([]byte(`true`), &d), errInvalidDuration)

	out, err := json.Marshal(Duration(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, `"1m0s"`, string(out))
}

func TestCoreConfigDefaults(t *testing.T) {
	var cfg CoreConfig
	require.NoError(t, json.Unmarshal([]byte(`{}`), &cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.InDelta(t, 8.0, *cfg.Alerts.LowRAMThresholdGB, 0)
	assert.InDelta(t, 90.0, *cfg.Alerts.HighDiskUsagePercent, 0)
	assert.InDelta(t, 70.0, *cfg.Alerts.WarnDiskUsagePercent, 0)
	assert.Equal(t, 60*time.Minute, time.Duration(cfg.Alerts.StaleAfter))
	assert.Equal(t, StoreBackendMemory, cfg.Store.Backend)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Store.Timeout))
	assert.Equal(t, DefaultKnownSoftware, cfg.KnownSoftware)
	assert.NotNil(t, cfg.Logging)
}

func TestCoreConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{name: "unknown backend", json: `{"store":{"backend":"redis"}}`, want: errUnknownStoreBackend},
		{name: "cnpg without host", json: `{"store":{"backend":"cnpg"}}`, want: errCNPGHostRequired},
		{name: "cnpg without db", json: `{"store":{"backend":"cnpg","cnpg":{"host":"db"}}}`, want: errCNPGDatabaseRequired},
		{name: "nats without url", json: `{"store":{"backend":"nats","nats":{}}}`, want: errNATSURLRequired},
		{name: "disk over 100", json: `{"alerts":{"high_disk_usage_percent":120}}`, want: errDiskThresholdRange},
		{
			name: "warn above high",
			json: `{"alerts":{"high_disk_usage_percent":60,"warn_disk_usage_percent":65}}`,
			want: errWarnThresholdRange,
		},
		{name: "only high below default warn", json: `{"alerts":{"high_disk_usage_percent":60}}`},
		{name: "negative ram", json: `{"alerts":{"low_ram_threshold_gb":-1}}`, want: errRAMThresholdNegative},
		{name: "users without secret", json: `{"auth":{"local_users":{"admin":"hash"}}}`, want: errJWTSecretRequired},
		{name: "nats ok", json: `{"store":{"backend":"nats","nats":{"url":"nats://localhost:4222"}}}`},
		{name: "cnpg ok", json: `{"store":{"backend":"cnpg","cnpg":{"host":"db","database":"fleet"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg CoreConfig
			require.NoError(t, json.Unmarshal([]byte(tt.json), &cfg))

			err := cfg.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAlertThresholdPresence(t *testing.T) {
	var cfg CoreConfig
	require.NoError(t, json.Unmarshal([]byte(`{"alerts":{"high_disk_usage_percent":60,"low_ram_threshold_gb":0}}`), &cfg))
	require.NoError(t, cfg.Validate())

	assert.InDelta(t, 60.0, *cfg.Alerts.WarnDiskUsagePercent, 0)
	assert.InDelta(t, 0.0, *cfg.Alerts.LowRAMThresholdGB, 0)

	require.NoError(t, json.Unmarshal([]byte(`{"alerts":{"high_disk_usage_percent":0}}`), &cfg))
	cfg.Alerts.WarnDiskUsagePercent = nil
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 0.0, *cfg.Alerts.HighDiskUsagePercent, 0)
	assert.InDelta(t, 0.0, *cfg.Alerts.WarnDiskUsagePercent, 0)
}

func TestAlertThresholdsMustBeFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		for _, set := range []func(*AlertsConfig){
			func(a *AlertsConfig) { a.LowRAMThresholdGB = Float64Ptr(bad) },
			func(a *AlertsConfig) { a.HighDiskUsagePercent = Float64Ptr(bad) },
			func(a *AlertsConfig) { a.WarnDiskUsagePercent = Float64Ptr(bad) },
		} {
			var cfg CoreConfig
			set(&cfg.Alerts)

			require.ErrorIs(t, cfg.Validate(), errThresholdNotFinite)
		}
	}
}

func TestAgentConfigValidate(t *testing.T) {
	var cfg AgentConfig
	require.ErrorIs(t, cfg.Validate(), errCollectorURLRequired)

	cfg = AgentConfig{CollectorURL: "http://core:8090"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultRetryMaxAttempts, cfg.Retry.MaxAttempts)
	assert.InDelta(t, DefaultRetryMultiplier, cfg.Retry.Multiplier, 0)
	assert.Equal(t, time.Second, time.Duration(cfg.Retry.InitialInterval))

	cfg = AgentConfig{CollectorURL: "http://core:8090", Retry: RetryConfig{MaxAttempts: -2}}
	require.ErrorIs(t, cfg.Validate(), errRetryAttemptsNegative)
}
