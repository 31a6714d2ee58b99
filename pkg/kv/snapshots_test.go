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

package kv

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetradar/pkg/db"
	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
)

func runJetStreamServer(t *testing.T) *server.Server {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
		NoSigs:    true,
	}

	srv, err := server.NewServer(opts)
	require.NoError(t, err)

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		t.Fatalf("embedded NATS server not ready for connections")
	}

	require.Eventually(t, func() bool {
		return srv.JetStreamEnabled()
	}, 5*time.Second, 50*time.Millisecond, "embedded NATS server not ready for JetStream")

	t.Cleanup(srv.Shutdown)

	return srv
}

func newTestStore(t *testing.T) *NATSStore {
	t.Helper()

	srv := runJetStreamServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewNATSStore(ctx, &models.NATSConfig{URL: srv.ClientURL()}, logger.NewTestLogger())
	require.NoError(t, err)

	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSnapshotKeyRoundTrip(t *testing.T) {
	for _, name := range []string{"PC-01", "Lab PC #3", "Ünïcode/host", "a.b.c"} {
		key := snapshotKey(name)
		assert.Regexp(t, `^device\.[A-Za-z0-9_-]+$`, key)

		got, err := deviceNameFromKey(key)
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}
}

func TestNATSStoreEmptyScan(t *testing.T) {
	store := newTestStore(t)

	all, err := store.ScanSnapshots(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNATSStoreUpsertAndScan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.DeviceSnapshot{
		DeviceName: "Lab PC #3",
		RAMTotalGB: decimal.NewNullDecimal(decimal.RequireFromString("8")),
	}
	second := &models.DeviceSnapshot{
		DeviceName: "Lab PC #3",
		RAMTotalGB: decimal.NewNullDecimal(decimal.RequireFromString("15.98")),
		InstalledSoftware: map[string]string{
			"Google Chrome": "Google Chrome 126.0",
		},
	}
	other := &models.DeviceSnapshot{DeviceName: "PC-02", IPAddress: models.StringPtr("10.1.1.2")}

	require.NoError(t, store.UpsertSnapshot(ctx, first))
	require.NoError(t, store.UpsertSnapshot(ctx, second))
	require.NoError(t, store.UpsertSnapshot(ctx, other))

	all, err := store.ScanSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	byName := map[string]*models.DeviceSnapshot{}
	for _, s := range all {
		byName[s.DeviceName] = s
	}

	require.Contains(t, byName, "Lab PC #3")
	assert.Equal(t, "15.98", byName["Lab PC #3"].RAMTotalGB.Decimal.String())
	assert.Equal(t, "Google Chrome 126.0", byName["Lab PC #3"].InstalledSoftware["Google Chrome"])
	assert.Equal(t, "10.1.1.2", *byName["PC-02"].IPAddress)
}

func TestNATSStoreRejectsInvalidSnapshots(t *testing.T) {
	store := newTestStore(t)

	err := store.UpsertSnapshot(context.Background(), &models.DeviceSnapshot{})
	require.ErrorIs(t, err, db.ErrStoreFailure)
	require.ErrorIs(t, err, db.ErrDeviceNameRequired)
}

func TestNewNATSStoreRequiresURL(t *testing.T) {
	_, err := NewNATSStore(context.Background(), &models.NATSConfig{}, nil)
	require.ErrorIs(t, err, db.ErrStoreFailure)
	require.ErrorIs(t, err, errNatsURLRequired)
}
