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

package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) (*DeviceSnapshot, error) {
	t.Helper()

	w, err := ParseSnapshot([]byte(raw))
	if err != nil {
		return nil, err
	}

	return NormalizeSnapshot(w)
}

func TestNormalizeSnapshotFull(t *testing.T) {
	s, err := decode(t, `{
		"device_name": "  LAB-PC10 ",
		"ip_address": "10.0.0.10",
		"os": "Windows",
		"windows_edition": "Pro",
		"cpu_cores": 4,
		"cpu_threads": 8,
		"ram_total_gb": 15.98,
		"disk_volumes": {
			"C:": {"total_gb": 476.34, "used_percent": 95.2, "mount_point": "C:\\"},
			"D:": {"total_gb": 931.5}
		},
		"network_details": {"ip_address": "192.168.1.20"},
		"installed_software": {"VMware": "VMware Workstation"},
		"timestamp": "2025-04-24T14:15:22.123456"
	}`)
	require.NoError(t, err)

	assert.Equal(t, "LAB-PC10", s.DeviceName)
	assert.Equal(t, "Pro", *s.OSEdition)
	assert.Equal(t, 4, *s.CPUCores)
	assert.Equal(t, 8, *s.CPUThreads)
	assert.Equal(t, "15.98", s.RAMTotalGB.Decimal.String())
	assert.Equal(t, "95.2", s.DiskVolumes["C:"].UsedPercent.Decimal.String())
	assert.False(t, s.DiskVolumes["D:"].UsedPercent.Valid)
	assert.Nil(t, s.SerialNumber)
	assert.Nil(t, s.MACAddress)

	ip, ok := s.EffectiveIP()
	assert.True(t, ok)
	assert.Equal(t, "192.168.1.20", ip)

	require.NotNil(t, s.ReportedAt)
	assert.Equal(t, time.Date(2025, 4, 24, 14, 15, 22, 123456000, time.UTC), *s.ReportedAt)
	assert.Equal(t, "2025-04-24T14:15:22.123456", s.Timestamp)
}

func TestNormalizeSnapshotOnlyName(t *testing.T) {
	s, err := decode(t, `{"device_name":"x"}`)
	require.NoError(t, err)

	assert.Equal(t, "x", s.DeviceName)
	assert.False(t, s.RAMTotalGB.Valid)
	assert.Nil(t, s.DiskVolumes)
	assert.Nil(t, s.InstalledSoftware)
	assert.Nil(t, s.ReportedAt)
	assert.Equal(t, InvalidTimestampDisplay, FormatReportTime(s))
}

func TestNormalizeSnapshotRejects(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{name: "missing name", raw: `{"ip_address":"1.2.3.4"}`, field: "device_name"},
		{name: "blank name", raw: `{"device_name":"   "}`, field: "device_name"},
		{name: "name wrong type", raw: `{"device_name":42}`, field: "device_name"},
		{name: "cores as bool", raw: `{"device_name":"a","cpu_cores":true}`, field: "cpu_cores"},
		{name: "zero cores", raw: `{"device_name":"a","cpu_cores":0}`, field: "cpu_cores"},
		{name: "fractional threads", raw: `{"device_name":"a","cpu_threads":2.5}`, field: "cpu_threads"},
		{name: "negative ram", raw: `{"device_name":"a","ram_total_gb":-1}`, field: "ram_total_gb"},
		{
			name:  "used over 100",
			raw:   `{"device_name":"a","disk_volumes":{"C:":{"used_percent":100.5}}}`,
			field: "disk_volumes[C:].used_percent",
		},
		{
			name:  "negative total",
			raw:   `{"device_name":"a","disk_volumes":{"C:":{"total_gb":-3}}}`,
			field: "disk_volumes[C:].total_gb",
		},
		{name: "empty volume key", raw: `{"device_name":"a","disk_volumes":{"":{}}}`, field: "disk_volumes"},
		{name: "ram beyond float64", raw: `{"device_name":"a","ram_total_gb":1e400}`, field: "ram_total_gb"},
		{name: "ram huge exponent", raw: `{"device_name":"a","ram_total_gb":1e2000000}`, field: "ram_total_gb"},
		{name: "ram tiny exponent", raw: `{"device_name":"a","ram_total_gb":1e-2000000}`, field: "ram_total_gb"},
		{name: "ram over cap", raw: `{"device_name":"a","ram_total_gb":1000000000000001}`, field: "ram_total_gb"},
		{
			name:  "ram too many digits",
			raw:   `{"device_name":"a","ram_total_gb":1.00000000000000000000000000000000000000000000000000000000000000001}`,
			field: "ram_total_gb",
		},
		{name: "cores huge exponent", raw: `{"device_name":"a","cpu_cores":1e2000000}`, field: "cpu_cores"},
		{
			name:  "volume total huge exponent",
			raw:   `{"device_name":"a","disk_volumes":{"D:":{"total_gb":5e999999999}}}`,
			field: "disk_volumes[D:].total_gb",
		},
		{
			name:  "used percent tiny exponent",
			raw:   `{"device_name":"a","disk_volumes":{"D:":{"used_percent":1e-400}}}`,
			field: "disk_volumes[D:].used_percent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSnapshot))
			assert.False(t, errors.Is(err, ErrMalformedPayload))

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestParseSnapshotMalformed(t *testing.T) {
	for _, raw := range []string{
		``,
		`{"device_name":`,
		`not json`,
		`["device_name"]`,
		`"LAB-PC1"`,
		`null`,
		" \n null \t",
		`{"device_name":"a"} {"device_name":"b"}`,
	} {
		_, err := ParseSnapshot([]byte(raw))
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrMalformedPayload), raw)
	}
}

func TestBoundaryValuesAccepted(t *testing.T) {
	s, err := decode(t, `{"device_name":"a","ram_total_gb":0,"disk_volumes":{"C:":{"used_percent":100,"total_gb":0}}}`)
	require.NoError(t, err)

	assert.True(t, s.RAMTotalGB.Valid)
	assert.True(t, s.RAMTotalGB.Decimal.IsZero())
	assert.Equal(t, "100", s.DiskVolumes["C:"].UsedPercent.Decimal.String())
}

func TestLargestQuantityStaysFinite(t *testing.T) {
	s, err := decode(t, `{"device_name":"a","ram_total_gb":1e15,"cpu_cores":2147483647}`)
	require.NoError(t, err)

	f := DecimalFloat(s.RAMTotalGB)
	require.NotNil(t, f)
	assert.False(t, math.IsInf(*f, 0))
	assert.InDelta(t, 1e15, *f, 0)
	require.NotNil(t, s.CPUCores)
	assert.Equal(t, math.MaxInt32, *s.CPUCores)

	_, err = json.Marshal(DeviceView{DeviceName: s.DeviceName, RAMTotalGB: f})
	require.NoError(t, err)
}

func TestOSEditionPreferredOverLegacy(t *testing.T) {
	s, err := decode(t, `{"device_name":"a","os_edition":"Enterprise","windows_edition":"Pro"}`)
	require.NoError(t, err)
	assert.Equal(t, "Enterprise", *s.OSEdition)
}

func TestParseReportTime(t *testing.T) {
	want := time.Date(2025, 4, 24, 14, 15, 22, 0, time.UTC)

	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{raw: "2025-04-24T14:15:22Z", want: want, ok: true},
		{raw: "2025-04-24T16:15:22+02:00", want: want, ok: true},
		{raw: "2025-04-24T14:15:22", want: want, ok: true},
		{raw: "2025-04-24 14:15:22", want: want, ok: true},
		{raw: "2025-04-24 16:15:22+02:00", want: want, ok: true},
		{raw: "2025-04-24", want: time.Date(2025, 4, 24, 0, 0, 0, 0, time.UTC), ok: true},
		{raw: "yesterday"},
		{raw: ""},
		{raw: "2025-13-40T99:00:00"},
	}

	for _, tt := range tests {
		got, ok := ParseReportTime(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)

		if tt.ok {
			assert.True(t, tt.want.Equal(got), tt.raw)
			assert.Equal(t, time.UTC, got.Location(), tt.raw)
		}
	}
}

func TestUnparseableTimestampIsKept(t *testing.T) {
	s, err := decode(t, `{"device_name":"a","timestamp":"last tuesday"}`)
	require.NoError(t, err)

	assert.Nil(t, s.ReportedAt)
	assert.Equal(t, "last tuesday", s.Timestamp)
	assert.Equal(t, InvalidTimestampDisplay, FormatReportTime(s))
}

func TestDecimalRoundTripThroughJSON(t *testing.T) {
	s, err := decode(t, `{"device_name":"a","ram_total_gb":15.98,"disk_volumes":{"C:":{"used_percent":33.3333333333333333}}}`)
	require.NoError(t, err)

	doc, err := json.Marshal(s)
	require.NoError(t, err)

	var back DeviceSnapshot
	require.NoError(t, json.Unmarshal(doc, &back))

	assert.True(t, s.RAMTotalGB.Decimal.Equal(back.RAMTotalGB.Decimal))
	assert.Equal(t, "15.98", back.RAMTotalGB.Decimal.String())
	assert.Equal(t, "33.3333333333333333", back.DiskVolumes["C:"].UsedPercent.Decimal.String())
}

func TestCloneIsDeep(t *testing.T) {
	s, err := decode(t, `{"device_name":"a","ip_address":"1.1.1.1","disk_volumes":{"C:":{"used_percent":5}},
		"installed_software":{"VMware":"x"},"network_details":{"mac_address":"aa"},"timestamp":"2025-01-01T00:00:00Z"}`)
	require.NoError(t, err)

	c := s.Clone()
	*c.IPAddress = "9.9.9.9"
	c.DiskVolumes["D:"] = DiskVolume{}
	c.InstalledSoftware["VMware"] = "changed"
	*c.NetworkDetails.MACAddress = "bb"
	*c.ReportedAt = c.ReportedAt.Add(time.Hour)

	assert.Equal(t, "1.1.1.1", *s.IPAddress)
	assert.Len(t, s.DiskVolumes, 1)
	assert.Equal(t, "x", s.InstalledSoftware["VMware"])
	assert.Equal(t, "aa", *s.NetworkDetails.MACAddress)
	assert.Equal(t, 0, s.ReportedAt.Hour())
}

func TestSoftwareStatus(t *testing.T) {
	s := &DeviceSnapshot{InstalledSoftware: map[string]string{
		"VMware":        "VMware Player",
		"Google Chrome": "Google Chrome" + NotInstalledSuffix,
	}}

	assert.Equal(t, SoftwareView{Product: "VMware", Value: "VMware Player", Installed: true}, SoftwareStatus(s, "VMware"))
	assert.False(t, SoftwareStatus(s, "Google Chrome").Installed)
	assert.Equal(t, SoftwareNotFound, SoftwareStatus(s, "Cisco Packet Tracer").Value)
}
