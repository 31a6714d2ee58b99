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
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetradar/pkg/models"
)

func testSnapshot(name, ram string) *models.DeviceSnapshot {
	s := &models.DeviceSnapshot{
		DeviceName: name,
		IPAddress:  models.StringPtr("10.0.0.5"),
		DiskVolumes: map[string]models.DiskVolume{
			"C:": {UsedPercent: decimal.NewNullDecimal(decimal.RequireFromString("42.5"))},
		},
		InstalledSoftware: map[string]string{"VMware": "VMware Workstation 17"},
	}

	if ram != "" {
		s.RAMTotalGB = decimal.NewNullDecimal(decimal.RequireFromString(ram))
	}

	return s
}

func TestMemoryStoreUpsertIsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.UpsertSnapshot(ctx, testSnapshot("PC-01", "8")))
	require.NoError(t, store.UpsertSnapshot(ctx, testSnapshot("PC-01", "15.98")))
	require.NoError(t, store.UpsertSnapshot(ctx, testSnapshot("PC-02", "")))

	all, err := store.ScanSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	byName := map[string]*models.DeviceSnapshot{}
	for _, s := range all {
		byName[s.DeviceName] = s
	}

	assert.Equal(t, "15.98", byName["PC-01"].RAMTotalGB.Decimal.String())
	assert.False(t, byName["PC-02"].RAMTotalGB.Valid)
}

func TestMemoryStoreUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	snap := testSnapshot("PC-01", "16")

	require.NoError(t, store.UpsertSnapshot(ctx, snap))
	require.NoError(t, store.UpsertSnapshot(ctx, snap))

	all, err := store.ScanSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, snap, all[0])
}

func TestMemoryStoreIsolatesCallerCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	snap := testSnapshot("PC-01", "16")

	require.NoError(t, store.UpsertSnapshot(ctx, snap))

	snap.InstalledSoftware["VMware"] = "changed"
	*snap.IPAddress = "192.168.1.1"

	first, err := store.ScanSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "10.0.0.5", *first[0].IPAddress)
	assert.Equal(t, "VMware Workstation 17", first[0].InstalledSoftware["VMware"])

	first[0].DiskVolumes["D:"] = models.DiskVolume{}

	second, err := store.ScanSnapshots(ctx)
	require.NoError(t, err)
	assert.NotContains(t, second[0].DiskVolumes, "D:")
}

func TestMemoryStoreRejectsInvalidSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.UpsertSnapshot(ctx, nil)
	require.ErrorIs(t, err, ErrStoreFailure)
	require.ErrorIs(t, err, ErrSnapshotNil)

	err = store.UpsertSnapshot(ctx, &models.DeviceSnapshot{})
	require.ErrorIs(t, err, ErrStoreFailure)
	require.ErrorIs(t, err, ErrDeviceNameRequired)
}

func TestMemoryStoreClosedAndCancelled(t *testing.T) {
	store := NewMemoryStore()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.UpsertSnapshot(cancelled, testSnapshot("PC-01", ""))
	require.ErrorIs(t, err, ErrStoreFailure)
	require.ErrorIs(t, err, context.Canceled)

	require.NoError(t, store.Close())

	err = store.UpsertSnapshot(context.Background(), testSnapshot("PC-01", ""))
	require.ErrorIs(t, err, ErrStoreFailure)
	require.ErrorIs(t, err, ErrStoreClosed)

	_, err = store.ScanSnapshots(context.Background())
	require.ErrorIs(t, err, ErrStoreClosed)
}

func TestMemoryStoreEmptyScan(t *testing.T) {
	all, err := NewMemoryStore().ScanSnapshots(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}
