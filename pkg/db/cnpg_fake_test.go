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
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetradar/pkg/logger"
)

var errConnReset = errors.New("connection reset by peer")

type fakeRow struct {
	name     string
	document []byte
	ram      *string
}

// fakeConn serves scanSnapshotsSQL from an in-memory table. failQueryOn and
// failRowsOn make the n-th Query call (1-based) fail up front or after its
// rows were read.
type fakeConn struct {
	mu          sync.Mutex
	table       map[string]fakeRow
	cursors     []string
	failQueryOn int
	failRowsOn  int
	execArgs    [][]any
}

func newFakeConn(names ...string) *fakeConn {
	c := &fakeConn{table: make(map[string]fakeRow, len(names))}

	for _, name := range names {
		ram := "16"
		c.table[name] = fakeRow{name: name, document: []byte(`{"device_name":"` + name + `"}`), ram: &ram}
	}

	return c
}

func (c *fakeConn) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.execArgs = append(c.execArgs, args)

	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (c *fakeConn) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	after, _ := args[0].(string)
	limit, _ := args[1].(int)

	c.cursors = append(c.cursors, after)
	call := len(c.cursors)

	if call == c.failQueryOn {
		return nil, errConnReset
	}

	names := make([]string, 0, len(c.table))
	for name := range c.table {
		if name > after {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	if len(names) > limit {
		names = names[:limit]
	}

	rows := &fakeRows{pos: -1}
	for _, name := range names {
		rows.rows = append(rows.rows, c.table[name])
	}

	if call == c.failRowsOn {
		rows.err = errConnReset
	}

	return rows, nil
}

type fakeRows struct {
	rows   []fakeRow
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Close() { r.closed = true }

func (r *fakeRows) Err() error { return r.err }

func (*fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }

func (*fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *fakeRows) Next() bool {
	if r.closed {
		return false
	}

	r.pos++

	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) != 3 {
		return fmt.Errorf("scan: want 3 destinations, got %d", len(dest))
	}

	row := r.rows[r.pos]

	name, ok := dest[0].(*string)
	if !ok {
		return fmt.Errorf("scan: unexpected destination %T", dest[0])
	}

	document, ok := dest[1].(*[]byte)
	if !ok {
		return fmt.Errorf("scan: unexpected destination %T", dest[1])
	}

	ram, ok := dest[2].(**string)
	if !ok {
		return fmt.Errorf("scan: unexpected destination %T", dest[2])
	}

	*name, *document, *ram = row.name, row.document, row.ram

	return nil
}

func (r *fakeRows) Values() ([]any, error) {
	row := r.rows[r.pos]

	return []any{row.name, row.document, row.ram}, nil
}

func (*fakeRows) RawValues() [][]byte { return nil }

func (*fakeRows) Conn() *pgx.Conn { return nil }

func TestCNPGScanPagesByDeviceName(t *testing.T) {
	conn := newFakeConn("PC-05", "PC-01", "PC-03", "PC-02", "PC-04")
	store := newCNPGStore(conn, 2, logger.NewTestLogger())

	all, err := store.ScanSnapshots(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(all))
	for _, s := range all {
		names = append(names, s.DeviceName)
		assert.Equal(t, "16", s.RAMTotalGB.Decimal.String())
	}

	assert.Equal(t, []string{"PC-01", "PC-02", "PC-03", "PC-04", "PC-05"}, names)
	assert.Equal(t, []string{"", "PC-02", "PC-04"}, conn.cursors, "stops after the short third page")
}

func TestCNPGScanFullLastPageNeedsOneMoreQuery(t *testing.T) {
	conn := newFakeConn("a", "b", "c", "d")
	store := newCNPGStore(conn, 2, logger.NewTestLogger())

	all, err := store.ScanSnapshots(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, []string{"", "b", "d"}, conn.cursors)
}

func TestCNPGScanEmptyTable(t *testing.T) {
	conn := newFakeConn()

	all, err := newCNPGStore(conn, 0, logger.NewTestLogger()).ScanSnapshots(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
	assert.Len(t, conn.cursors, 1)
}

func TestCNPGScanFailsWholeOnMidScanError(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*fakeConn)
		reason error
	}{
		{name: "query error on second page", setup: func(c *fakeConn) { c.failQueryOn = 2 }, reason: ErrFailedToQuery},
		{name: "rows error on second page", setup: func(c *fakeConn) { c.failRowsOn = 2 }, reason: ErrFailedToScan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn("PC-01", "PC-02", "PC-03", "PC-04", "PC-05")
			tt.setup(conn)

			all, err := newCNPGStore(conn, 2, logger.NewTestLogger()).ScanSnapshots(context.Background())
			require.ErrorIs(t, err, ErrStoreFailure)
			require.ErrorIs(t, err, tt.reason)
			require.ErrorIs(t, err, errConnReset)
			assert.Nil(t, all)
			assert.Len(t, conn.cursors, 2, "no pages are read after the failure")
		})
	}
}

func TestCNPGUpsertSendsNumericAsText(t *testing.T) {
	conn := newFakeConn()
	store := newCNPGStore(conn, 2, logger.NewTestLogger())

	require.NoError(t, store.UpsertSnapshot(context.Background(), testSnapshot("PC-01", "15.980")))
	require.NoError(t, store.UpsertSnapshot(context.Background(), testSnapshot("PC-02", "")))

	require.Len(t, conn.execArgs, 2)
	assert.Equal(t, "PC-01", conn.execArgs[0][0])

	ram, ok := conn.execArgs[0][2].(*string)
	require.True(t, ok)
	require.NotNil(t, ram)
	assert.Equal(t, "15.98", *ram)

	assert.Nil(t, conn.execArgs[1][2])
}
