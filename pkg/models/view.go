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
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SoftwareNotFound is displayed for a known product the agent did not report at all.
const SoftwareNotFound = "Not Found"

// DeviceView is the read-side rendering of a snapshot with its evaluated
// alert state. Decimals are widened to float64 here and nowhere earlier.
type DeviceView struct {
	DeviceName    string         `json:"device_name"`
	IPAddress     *string        `json:"ip_address,omitempty"`
	MACAddress    *string        `json:"mac_address,omitempty"`
	SerialNumber  *string        `json:"serial_number,omitempty"`
	OS            *string        `json:"os,omitempty"`
	OSEdition     *string        `json:"os_edition,omitempty"`
	OSVersion     *string        `json:"os_version,omitempty"`
	Build         *string        `json:"build,omitempty"`
	Architecture  *string        `json:"architecture,omitempty"`
	SystemType    *string        `json:"system_type,omitempty"`
	Processor     *string        `json:"processor,omitempty"`
	CPUCores      *int           `json:"cpu_cores,omitempty"`
	CPUThreads    *int           `json:"cpu_threads,omitempty"`
	RAMTotalGB    *float64       `json:"ram_total_gb,omitempty"`
	DiskVolumes   []VolumeView   `json:"disk_volumes"`
	Software      []SoftwareView `json:"software"`
	Timestamp     string         `json:"timestamp"`
	ReportedAt    *time.Time     `json:"reported_at,omitempty"`
	AgeSeconds    *int64         `json:"age_seconds,omitempty"`
	LowRAM        bool           `json:"low_ram"`
	HighDiskUsage bool           `json:"high_disk_usage"`
	Stale         bool           `json:"stale"`
	Flags         []string       `json:"flags"`
}

// VolumeView is one disk volume with its usage band.
type VolumeView struct {
	Name        string   `json:"name"`
	MountPoint  *string  `json:"mount_point,omitempty"`
	TotalGB     *float64 `json:"total_gb,omitempty"`
	UsedPercent *float64 `json:"used_percent,omitempty"`
	Band        string   `json:"band"`
}

// SoftwareView reports one known product.
type SoftwareView struct {
	Product   string `json:"product"`
	Value     string `json:"value"`
	Installed bool   `json:"installed"`
}

// DecimalFloat widens an optional decimal for display.
func DecimalFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}

	f := d.Decimal.InexactFloat64()

	return &f
}

// SoftwareStatus reports how the snapshot lists product. A product missing
// from installed_software is "Not Found"; a value containing "Not Installed"
// counts as not installed.
func SoftwareStatus(s *DeviceSnapshot, product string) SoftwareView {
	value, ok := s.InstalledSoftware[product]
	if !ok {
		return SoftwareView{Product: product, Value: SoftwareNotFound}
	}

	return SoftwareView{
		Product:   product,
		Value:     value,
		Installed: !strings.Contains(value, "Not Installed"),
	}
}
