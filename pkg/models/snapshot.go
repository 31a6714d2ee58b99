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
	"time"

	"github.com/shopspring/decimal"
)

// NotInstalledSuffix marks a known software product the agent did not find.
const NotInstalledSuffix = " - Not Installed"

// DeviceSnapshot is the latest reported state of one fleet member.
//
// Optional fields are pointers (or NullDecimal) so that a value the agent never
// reported stays distinguishable from a reported zero. Numeric fields are
// exact decimals; they are only widened to float64 by View.
type DeviceSnapshot struct {
	DeviceName        string                `json:"device_name"`
	IPAddress         *string               `json:"ip_address,omitempty"`
	MACAddress        *string               `json:"mac_address,omitempty"`
	SerialNumber      *string               `json:"serial_number,omitempty"`
	OS                *string               `json:"os,omitempty"`
	OSEdition         *string               `json:"os_edition,omitempty"`
	OSVersion         *string               `json:"os_version,omitempty"`
	Build             *string               `json:"build,omitempty"`
	Architecture      *string               `json:"architecture,omitempty"`
	SystemType        *string               `json:"system_type,omitempty"`
	Processor         *string               `json:"processor,omitempty"`
	CPUCores          *int                  `json:"cpu_cores,omitempty"`
	CPUThreads        *int                  `json:"cpu_threads,omitempty"`
	RAMTotalGB        decimal.NullDecimal   `json:"ram_total_gb"`
	DiskVolumes       map[string]DiskVolume `json:"disk_volumes,omitempty"`
	NetworkDetails    *NetworkDetails       `json:"network_details,omitempty"`
	InstalledSoftware map[string]string     `json:"installed_software,omitempty"`
	Timestamp         string                `json:"timestamp,omitempty"`
	ReportedAt        *time.Time            `json:"reported_at,omitempty"`
}

// DiskVolume describes one volume keyed by its identifier (drive letter or device path).
type DiskVolume struct {
	TotalGB     decimal.NullDecimal `json:"total_gb"`
	UsedPercent decimal.NullDecimal `json:"used_percent"`
	MountPoint  *string             `json:"mount_point,omitempty"`
}

// NetworkDetails overrides the top-level addresses for display when present.
type NetworkDetails struct {
	IPAddress  *string `json:"ip_address,omitempty"`
	MACAddress *string `json:"mac_address,omitempty"`
}

// EffectiveIP returns the address an operator sees: the network_details
// address when one was reported, otherwise the top-level address.
func (s *DeviceSnapshot) EffectiveIP() (string, bool) {
	if s.NetworkDetails != nil && s.NetworkDetails.IPAddress != nil {
		return *s.NetworkDetails.IPAddress, true
	}

	if s.IPAddress != nil {
		return *s.IPAddress, true
	}

	return "", false
}

// EffectiveMAC mirrors EffectiveIP for the hardware address.
func (s *DeviceSnapshot) EffectiveMAC() (string, bool) {
	if s.NetworkDetails != nil && s.NetworkDetails.MACAddress != nil {
		return *s.NetworkDetails.MACAddress, true
	}

	if s.MACAddress != nil {
		return *s.MACAddress, true
	}

	return "", false
}

// Clone returns a deep copy that shares no mutable state with s.
func (s *DeviceSnapshot) Clone() *DeviceSnapshot {
	if s == nil {
		return nil
	}

	out := *s
	out.IPAddress = cloneString(s.IPAddress)
	out.MACAddress = cloneString(s.MACAddress)
	out.SerialNumber = cloneString(s.SerialNumber)
	out.OS = cloneString(s.OS)
	out.OSEdition = cloneString(s.OSEdition)
	out.OSVersion = cloneString(s.OSVersion)
	out.Build = cloneString(s.Build)
	out.Architecture = cloneString(s.Architecture)
	out.SystemType = cloneString(s.SystemType)
	out.Processor = cloneString(s.Processor)
	out.CPUCores = cloneInt(s.CPUCores)
	out.CPUThreads = cloneInt(s.CPUThreads)

	if s.DiskVolumes != nil {
		out.DiskVolumes = make(map[string]DiskVolume, len(s.DiskVolumes))
		for name, vol := range s.DiskVolumes {
			vol.MountPoint = cloneString(vol.MountPoint)
			out.DiskVolumes[name] = vol
		}
	}

	if s.NetworkDetails != nil {
		out.NetworkDetails = &NetworkDetails{
			IPAddress:  cloneString(s.NetworkDetails.IPAddress),
			MACAddress: cloneString(s.NetworkDetails.MACAddress),
		}
	}

	if s.InstalledSoftware != nil {
		out.InstalledSoftware = make(map[string]string, len(s.InstalledSoftware))
		for product, value := range s.InstalledSoftware {
			out.InstalledSoftware[product] = value
		}
	}

	if s.ReportedAt != nil {
		reported := *s.ReportedAt
		out.ReportedAt = &reported
	}

	return &out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}

// StringPtr is a small helper for building snapshots in code.
func StringPtr(v string) *string {
	return &v
}

// IntPtr is a small helper for building snapshots in code.
func IntPtr(v int) *int {
	return &v
}

// Float64Ptr is a small helper for building configs in code.
func Float64Ptr(v float64) *float64 {
	return &v
}
