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
	"fmt"
	"sync"

	"github.com/carverauto/fleetradar/pkg/models"
)

// MemoryStore keeps snapshots in process memory. Stored values are private
// copies, so callers may keep mutating what they passed in or got back.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*models.DeviceSnapshot
	closed    bool
}

var _ SnapshotStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*models.DeviceSnapshot)}
}

func (m *MemoryStore) UpsertSnapshot(ctx context.Context, snapshot *models.DeviceSnapshot) error {
	if err := validateSnapshot(snapshot); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	stored := snapshot.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("%w: %w", ErrStoreFailure, ErrStoreClosed)
	}

	m.snapshots[stored.DeviceName] = stored

	return nil
}

func (m *MemoryStore) ScanSnapshots(ctx context.Context) ([]*models.DeviceSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, ErrStoreClosed)
	}

	out := make([]*models.DeviceSnapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, s.Clone())
	}

	return out, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.snapshots = nil

	return nil
}

func validateSnapshot(snapshot *models.DeviceSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, ErrSnapshotNil)
	}

	if snapshot.DeviceName == "" {
		return fmt.Errorf("%w: %w", ErrStoreFailure, ErrDeviceNameRequired)
	}

	return nil
}
