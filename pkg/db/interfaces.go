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

// Package db pkg/db/interfaces.go
package db

import (
	"context"

	"github.com/carverauto/fleetradar/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/carverauto/fleetradar/pkg/db SnapshotStore

// SnapshotStore persists the latest snapshot per device_name.
//
// UpsertSnapshot fully replaces any stored snapshot with the same identity and
// is atomic per key: readers observe either the old or the new record, never
// a mix. ScanSnapshots returns every stored snapshot in no particular order;
// if any page of the scan fails the whole call fails. Every error wraps
// ErrStoreFailure.
type SnapshotStore interface {
	UpsertSnapshot(ctx context.Context, snapshot *models.DeviceSnapshot) error
	ScanSnapshots(ctx context.Context) ([]*models.DeviceSnapshot, error)
	Close() error
}
