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
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/fleetradar/pkg/db"
	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
)

const snapshotKeyPrefix = "device."

// NATSStore keeps one JetStream KV entry per device, holding the snapshot
// JSON document. Bucket history is 1, so a put replaces the previous value.
type NATSStore struct {
	nc     *nats.Conn
	kv     jetstream.KeyValue
	logger logger.Logger
}

var _ db.SnapshotStore = (*NATSStore)(nil)

func NewNATSStore(ctx context.Context, cfg *models.NATSConfig, log logger.Logger) (*NATSStore, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("%w: %w", db.ErrStoreFailure, errNatsURLRequired)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = models.DefaultSnapshotBucket
	}

	opts := []nats.Option{nats.Name("fleetradar-core")}
	if cfg.CredsFile != "" {
		opts = append(opts, nats.UserCredentials(cfg.CredsFile))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to NATS: %w", db.ErrStoreFailure, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()

		return nil, fmt.Errorf("%w: failed to create JetStream context: %w", db.ErrStoreFailure, err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "latest device snapshot per device_name",
		History:     1,
	})
	if err != nil {
		nc.Close()

		return nil, fmt.Errorf("%w: failed to create KV bucket %s: %w", db.ErrStoreFailure, bucket, err)
	}

	if log != nil {
		log.Info().Str("url", cfg.URL).Str("bucket", bucket).Msg("connected to NATS snapshot bucket")
	}

	return &NATSStore{nc: nc, kv: kv, logger: log}, nil
}

// snapshotKey maps a device name onto the restricted NATS key alphabet.
func snapshotKey(deviceName string) string {
	return snapshotKeyPrefix + base64.RawURLEncoding.EncodeToString([]byte(deviceName))
}

func deviceNameFromKey(key string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(key, snapshotKeyPrefix))
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func (n *NATSStore) UpsertSnapshot(ctx context.Context, snapshot *models.DeviceSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: %w", db.ErrStoreFailure, db.ErrSnapshotNil)
	}

	if snapshot.DeviceName == "" {
		return fmt.Errorf("%w: %w", db.ErrStoreFailure, db.ErrDeviceNameRequired)
	}

	value, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %w", db.ErrStoreFailure, snapshot.DeviceName, err)
	}

	key := snapshotKey(snapshot.DeviceName)
	if _, err := n.kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("%w: failed to put key %s: %w", db.ErrStoreFailure, key, err)
	}

	return nil
}

// ScanSnapshots replays the bucket through a watcher and stops at the marker
// that signals the initial values have all been delivered.
func (n *NATSStore) ScanSnapshots(ctx context.Context) ([]*models.DeviceSnapshot, error) {
	watcher, err := n.kv.WatchAll(ctx, jetstream.IgnoreDeletes())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to watch bucket: %w", db.ErrStoreFailure, err)
	}

	defer func() {
		if err := watcher.Stop(); err != nil && n.logger != nil {
			n.logger.Warn().Err(err).Msg("failed to stop snapshot watcher")
		}
	}()

	out := []*models.DeviceSnapshot{}

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", db.ErrStoreFailure, ctx.Err())
		case entry, ok := <-watcher.Updates():
			if !ok {
				return nil, fmt.Errorf("%w: %w", db.ErrStoreFailure, errWatcherClosed)
			}

			if entry == nil {
				return out, nil
			}

			snapshot, err := decodeEntry(entry.Key(), entry.Value())
			if err != nil {
				return nil, err
			}

			out = append(out, snapshot)
		}
	}
}

func decodeEntry(key string, value []byte) (*models.DeviceSnapshot, error) {
	name, err := deviceNameFromKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: bad key %s: %w", db.ErrStoreFailure, key, err)
	}

	var snapshot models.DeviceSnapshot
	if err := json.Unmarshal(value, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %w", db.ErrStoreFailure, name, err)
	}

	snapshot.DeviceName = name

	return &snapshot, nil
}

func (n *NATSStore) Close() error {
	if n.nc == nil {
		return nil
	}

	if err := n.nc.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		n.nc.Close()

		return fmt.Errorf("%w: %w", db.ErrStoreFailure, err)
	}

	return nil
}
