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
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
)

const (
	upsertSnapshotSQL = `
		INSERT INTO device_snapshots (
			device_name,
			document,
			ram_total_gb,
			reported_at,
			updated_at
		) VALUES ($1, $2::jsonb, $3::text::numeric, $4, NOW())
		ON CONFLICT (device_name) DO UPDATE SET
			document = EXCLUDED.document,
			ram_total_gb = EXCLUDED.ram_total_gb,
			reported_at = EXCLUDED.reported_at,
			updated_at = NOW()`

	scanSnapshotsSQL = `
		SELECT device_name, document, ram_total_gb::text
		FROM device_snapshots
		WHERE device_name > $1
		ORDER BY device_name
		LIMIT $2`
)

// pgxConn is the subset of *pgxpool.Pool the store uses.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CNPGStore keeps snapshots in the device_snapshots table.
type CNPGStore struct {
	conn     pgxConn
	pool     *pgxpool.Pool
	pageSize int
	logger   logger.Logger
}

var _ SnapshotStore = (*CNPGStore)(nil)

// NewCNPGStore connects to cfg, applies the embedded migrations and returns a
// store that scans in pages of pageSize rows.
func NewCNPGStore(ctx context.Context, cfg *models.CNPGDatabase, pageSize int, log logger.Logger) (*CNPGStore, error) {
	pool, err := NewCNPGPool(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	if err := MigrateSnapshots(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	store := newCNPGStore(pool, pageSize, log)
	store.pool = pool

	return store, nil
}

func newCNPGStore(conn pgxConn, pageSize int, log logger.Logger) *CNPGStore {
	if pageSize <= 0 {
		pageSize = models.DefaultStorePageSize
	}

	return &CNPGStore{conn: conn, pageSize: pageSize, logger: log}
}

// UpsertSnapshot replaces the row for snapshot.DeviceName in one statement.
func (s *CNPGStore) UpsertSnapshot(ctx context.Context, snapshot *models.DeviceSnapshot) error {
	if err := validateSnapshot(snapshot); err != nil {
		return err
	}

	document, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: %w: encode document: %w", ErrStoreFailure, ErrFailedToInsert, err)
	}

	var ram *string
	if snapshot.RAMTotalGB.Valid {
		text := snapshot.RAMTotalGB.Decimal.String()
		ram = &text
	}

	if _, err := s.conn.Exec(ctx, upsertSnapshotSQL,
		snapshot.DeviceName,
		string(document),
		ram,
		snapshot.ReportedAt,
	); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrStoreFailure, ErrFailedToInsert, err)
	}

	return nil
}

// ScanSnapshots pages through the table by device_name.
func (s *CNPGStore) ScanSnapshots(ctx context.Context) ([]*models.DeviceSnapshot, error) {
	var (
		out    []*models.DeviceSnapshot
		cursor string
	)

	for {
		page, err := s.scanPage(ctx, cursor)
		if err != nil {
			return nil, err
		}

		out = append(out, page...)

		if len(page) < s.pageSize {
			break
		}

		cursor = page[len(page)-1].DeviceName
	}

	if out == nil {
		out = []*models.DeviceSnapshot{}
	}

	return out, nil
}

func (s *CNPGStore) scanPage(ctx context.Context, after string) ([]*models.DeviceSnapshot, error) {
	rows, err := s.conn.Query(ctx, scanSnapshotsSQL, after, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrStoreFailure, ErrFailedToQuery, err)
	}
	defer rows.Close()

	page := make([]*models.DeviceSnapshot, 0, s.pageSize)

	for rows.Next() {
		var (
			name     string
			document []byte
			ram      *string
		)

		if err := rows.Scan(&name, &document, &ram); err != nil {
			return nil, fmt.Errorf("%w: %w: %w", ErrStoreFailure, ErrFailedToScan, err)
		}

		snapshot, err := decodeSnapshotRow(name, document, ram)
		if err != nil {
			return nil, err
		}

		page = append(page, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrStoreFailure, ErrFailedToScan, err)
	}

	return page, nil
}

// decodeSnapshotRow rebuilds a snapshot from its JSON document. The numeric
// column is read back as text and is authoritative for ram_total_gb.
func decodeSnapshotRow(name string, document []byte, ram *string) (*models.DeviceSnapshot, error) {
	var snapshot models.DeviceSnapshot
	if err := json.Unmarshal(document, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w: decode %q: %w", ErrStoreFailure, ErrFailedToScan, name, err)
	}

	snapshot.DeviceName = name

	if ram != nil {
		d, err := decimal.NewFromString(*ram)
		if err != nil {
			return nil, fmt.Errorf("%w: %w: ram_total_gb for %q: %w", ErrStoreFailure, ErrFailedToScan, name, err)
		}

		snapshot.RAMTotalGB = decimal.NullDecimal{Decimal: d, Valid: true}
	} else {
		snapshot.RAMTotalGB = decimal.NullDecimal{}
	}

	return &snapshot, nil
}

func (s *CNPGStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}

	return nil
}
