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

package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetradar/pkg/models"
)

func nd(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func TestWriteCSV(t *testing.T) {
	snapshots := []*models.DeviceSnapshot{
		{
			DeviceName: "PC-02",
			IPAddress:  models.StringPtr("10.0.0.2"),
			OSEdition:  models.StringPtr("Pro"),
			RAMTotalGB: nd("15.98"),
			CPUCores:   models.IntPtr(8),
			NetworkDetails: &models.NetworkDetails{
				IPAddress: models.StringPtr("192.168.1.2"),
			},
			DiskVolumes: map[string]models.DiskVolume{
				"D:": {UsedPercent: nd("10"), TotalGB: nd("931.5")},
				"C:": {UsedPercent: nd("91.25"), TotalGB: nd("476.3")},
			},
			Timestamp: "2025-03-14 09:00:00",
		},
		{
			DeviceName: "PC-10",
			DiskVolumes: map[string]models.DiskVolume{
				"E:": {UsedPercent: nd("50")},
				"C:": {TotalGB: nd("237.9")},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, snapshots))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	require.Len(t, header, len(BaseColumns)+6)
	assert.Equal(t, BaseColumns, header[:len(BaseColumns)])
	assert.Equal(t, []string{
		"Disk C: Used (%)", "Disk C: Total (GB)",
		"Disk D: Used (%)", "Disk D: Total (GB)",
		"Disk E: Used (%)", "Disk E: Total (GB)",
	}, header[len(BaseColumns):])

	first := records[1]
	assert.Equal(t, "PC-02", first[0])
	assert.Equal(t, "10.0.0.2", first[1])
	assert.Equal(t, "Pro", first[4])
	assert.Equal(t, "15.98", first[7])
	assert.Equal(t, "8", first[8])
	assert.Equal(t, "", first[9])
	assert.Equal(t, "192.168.1.2", first[11])
	assert.Equal(t, "2025-03-14 09:00:00", first[13])
	assert.Equal(t, []string{"91.25", "476.3", "10", "931.5", "", ""}, first[len(BaseColumns):])

	second := records[2]
	assert.Equal(t, "PC-10", second[0])
	assert.Equal(t, []string{"", "237.9", "", "", "50", ""}, second[len(BaseColumns):])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, BaseColumns, records[0])
}
