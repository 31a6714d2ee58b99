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

package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetradar/pkg/models"
)

func clientTLS() *models.TLSConfig {
	return &models.TLSConfig{CertFile: "client.crt", KeyFile: "client.key", CAFile: "ca.crt"}
}

func TestBuildCNPGConnURLSSLModeDefaults(t *testing.T) {
	t.Parallel()

	plain, err := buildCNPGConnURL(&models.CNPGDatabase{Host: "fleet-rw", Database: "fleetradar"})
	require.NoError(t, err)
	assert.Equal(t, "disable", plain.Query().Get("sslmode"))
	assert.Equal(t, "fleet-rw:5432", plain.Host)
	assert.Equal(t, "/fleetradar", plain.Path)

	secured, err := buildCNPGConnURL(&models.CNPGDatabase{
		Host:     "fleet-rw",
		Port:     6432,
		Database: "fleetradar",
		TLS:      clientTLS(),
	})
	require.NoError(t, err)
	assert.Equal(t, "verify-full", secured.Query().Get("sslmode"))
	assert.Equal(t, "fleet-rw:6432", secured.Host)
}

func TestBuildCNPGConnURLRejectsTLSWithSSLModeDisable(t *testing.T) {
	t.Parallel()

	_, err := buildCNPGConnURL(&models.CNPGDatabase{
		Host:     "fleet-rw",
		Database: "fleetradar",
		SSLMode:  "disable",
		TLS:      clientTLS(),
	})
	require.ErrorIs(t, err, ErrCNPGTLSDisabled)
}

func TestBuildCNPGConnURLRequiresAllTLSFiles(t *testing.T) {
	t.Parallel()

	_, err := buildCNPGConnURL(&models.CNPGDatabase{
		Host:     "fleet-rw",
		Database: "fleetradar",
		TLS:      &models.TLSConfig{CAFile: "ca.crt"},
	})
	require.ErrorIs(t, err, ErrCNPGTLSFilesMissing)
}

func TestBuildCNPGConnURLResolvesTLSPathsViaCertDir(t *testing.T) {
	t.Parallel()

	u, err := buildCNPGConnURL(&models.CNPGDatabase{
		Host:     "fleet-rw",
		Database: "fleetradar",
		CertDir:  "/etc/fleetradar/cnpg",
		TLS: &models.TLSConfig{
			CertFile: "client.crt",
			KeyFile:  "client.key",
			CAFile:   "/opt/ca/root.crt",
		},
	})
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "/etc/fleetradar/cnpg/client.crt", q.Get("sslcert"))
	assert.Equal(t, "/etc/fleetradar/cnpg/client.key", q.Get("sslkey"))
	assert.Equal(t, "/opt/ca/root.crt", q.Get("sslrootcert"))
}

func TestBuildCNPGConnURLCredentialsAndParams(t *testing.T) {
	t.Parallel()

	u, err := buildCNPGConnURL(&models.CNPGDatabase{
		Host:            "fleet-rw",
		Database:        "fleetradar",
		Username:        "collector",
		Password:        "p@ss word",
		ApplicationName: "fleetradar-core",
		ExtraRuntimeParams: map[string]string{
			"search_path": "fleet",
			"SSLMODE":     "require",
		},
	})
	require.NoError(t, err)

	pw, ok := u.User.Password()
	require.True(t, ok)
	assert.Equal(t, "collector", u.User.Username())
	assert.Equal(t, "p@ss word", pw)

	q := u.Query()
	assert.Equal(t, "fleet", q.Get("search_path"))
	assert.Equal(t, "fleetradar-core", q.Get("application_name"))
	assert.Equal(t, "require", q.Get("sslmode"))
	assert.Empty(t, q.Get("SSLMODE"))
}

func TestResolveCNPGSSLModeUsesRuntimeParamsFallback(t *testing.T) {
	t.Parallel()

	got, err := resolveCNPGSSLMode(&models.CNPGDatabase{
		ExtraRuntimeParams: map[string]string{"sslmode": "Verify-CA"},
	})
	require.NoError(t, err)
	assert.Equal(t, "verify-ca", got)
}

func TestNewCNPGPoolRequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := NewCNPGPool(t.Context(), nil, nil)
	require.ErrorIs(t, err, ErrCNPGConfigRequired)
}

func TestConnPortDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, defaultCNPGPort, connPort(&models.CNPGDatabase{}))
	assert.Equal(t, 7000, connPort(&models.CNPGDatabase{Port: 7000, StatementTimeout: models.Duration(time.Second)}))
}
