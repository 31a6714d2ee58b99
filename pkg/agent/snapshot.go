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

package agent

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carverauto/fleetradar/pkg/models"
)

//nolint:gochecknoglobals // constant divisor
var bytesPerGB = decimal.NewFromInt(1 << 30)

// BuildSnapshot converts probe output into the wire snapshot the collector
// accepts. Sizes are reported in GB rounded to two places and used
// percentages to one place.
func BuildSnapshot(info *SystemInfo) *models.WireSnapshot {
	snapshot := &models.WireSnapshot{
		DeviceName:        optional(info.Hostname),
		SerialNumber:      optional(info.SerialNumber),
		OS:                optional(info.OS),
		OSEdition:         optional(info.Edition),
		OSVersion:         optional(info.OSVersion),
		Build:             optional(info.Build),
		Architecture:      optional(info.Architecture),
		SystemType:        optional(systemType(info.Architecture)),
		Processor:         optional(info.Processor),
		InstalledSoftware: info.KnownSoftware,
	}

	if info.CPUCores > 0 {
		snapshot.CPUCores = models.NumberFromInt(info.CPUCores)
	}

	if info.CPUThreads > 0 {
		snapshot.CPUThreads = models.NumberFromInt(info.CPUThreads)
	}

	if info.MemoryTotalBytes > 0 {
		snapshot.RAMTotalGB = models.NumberFromDecimal(toGB(info.MemoryTotalBytes))
	}

	if len(info.Disks) > 0 {
		snapshot.DiskVolumes = make(map[string]models.WireDiskVolume, len(info.Disks))

		for _, d := range info.Disks {
			snapshot.DiskVolumes[d.Name] = models.WireDiskVolume{
				MountPoint:  optional(d.MountPoint),
				TotalGB:     models.NumberFromDecimal(toGB(d.TotalBytes)),
				UsedPercent: models.NumberFromDecimal(decimal.NewFromFloat(d.UsedPercent).Round(1)),
			}
		}
	}

	if info.IPAddress != "" || info.MACAddress != "" {
		snapshot.NetworkDetails = &models.WireNetworkDetails{
			IPAddress:  optional(info.IPAddress),
			MACAddress: optional(info.MACAddress),
		}
	}

	if !info.CollectedAt.IsZero() {
		snapshot.Timestamp = optional(info.CollectedAt.UTC().Format(time.RFC3339))
	}

	return snapshot
}

func toGB(b uint64) decimal.Decimal {
	return decimal.NewFromUint64(b).Div(bytesPerGB).Round(2)
}

func systemType(arch string) string {
	switch {
	case arch == "":
		return ""
	case strings.Contains(arch, "64"):
		return "64-bit"
	default:
		return "32-bit"
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
