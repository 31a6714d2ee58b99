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

package core

import (
	"context"
	"fmt"

	"github.com/carverauto/fleetradar/pkg/db"
	"github.com/carverauto/fleetradar/pkg/kv"
	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
)

// openStore returns the snapshot store selected by cfg.Backend.
func openStore(ctx context.Context, cfg *models.StoreConfig, log logger.Logger) (db.SnapshotStore, error) {
	switch cfg.Backend {
	case models.StoreBackendMemory, "":
		log.Warn().Msg("Using in-memory snapshot store; snapshots are lost on restart")

		return db.NewMemoryStore(), nil
	case models.StoreBackendCNPG:
		store, err := db.NewCNPGStore(ctx, cfg.CNPG, cfg.PageSize, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errStoreOpen, err)
		}

		log.Info().
			Str("host", cfg.CNPG.Host).
			Str("database", cfg.CNPG.Database).
			Msg("Connected to CNPG snapshot store")

		return store, nil
	case models.StoreBackendNATS:
		store, err := kv.NewNATSStore(ctx, cfg.NATS, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errStoreOpen, err)
		}

		log.Info().
			Str("url", cfg.NATS.URL).
			Str("bucket", cfg.NATS.Bucket).
			Msg("Connected to NATS KV snapshot store")

		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBackend, cfg.Backend)
	}
}
