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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// WireSnapshot is the JSON shape an agent posts. Numbers are kept as
// json.Number so they reach the decimal conversion without passing through float64.
type WireSnapshot struct {
	DeviceName        *string                   `json:"device_name,omitempty"`
	IPAddress         *string                   `json:"ip_address,omitempty"`
	MACAddress        *string                   `json:"mac_address,omitempty"`
	SerialNumber      *string                   `json:"serial_number,omitempty"`
	OS                *string                   `json:"os,omitempty"`
	OSEdition         *string                   `json:"os_edition,omitempty"`
	WindowsEdition    *string                   `json:"windows_edition,omitempty"`
	OSVersion         *string                   `json:"os_version,omitempty"`
	Build             *string                   `json:"build,omitempty"`
	Architecture      *string                   `json:"architecture,omitempty"`
	SystemType        *string                   `json:"system_type,omitempty"`
	Processor         *string                   `json:"processor,omitempty"`
	CPUCores          *json.Number              `json:"cpu_cores,omitempty"`
	CPUThreads        *json.Number              `json:"cpu_threads,omitempty"`
	RAMTotalGB        *json.Number              `json:"ram_total_gb,omitempty"`
	DiskVolumes       map[string]WireDiskVolume `json:"disk_volumes,omitempty"`
	NetworkDetails    *WireNetworkDetails       `json:"network_details,omitempty"`
	InstalledSoftware map[string]string         `json:"installed_software,omitempty"`
	Timestamp         *string                   `json:"timestamp,omitempty"`
}

// WireDiskVolume is the JSON shape of one disk_volumes entry.
type WireDiskVolume struct {
	MountPoint  *string      `json:"mount_point,omitempty"`
	TotalGB     *json.Number `json:"total_gb,omitempty"`
	UsedPercent *json.Number `json:"used_percent,omitempty"`
}

// WireNetworkDetails is the JSON shape of network_details.
type WireNetworkDetails struct {
	IPAddress  *string `json:"ip_address,omitempty"`
	MACAddress *string `json:"mac_address,omitempty"`
}

//nolint:gochecknoglobals // constant literal
var jsonNull = []byte("null")

// ParseSnapshot decodes one JSON object into a WireSnapshot.
//
// Unparseable input (bad syntax, a non-object document, trailing data) yields
// ErrMalformedPayload. A known field carrying the wrong JSON type yields a
// *ValidationError naming that field.
func ParseSnapshot(raw []byte) (*WireSnapshot, error) {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, fmt.Errorf("%w: snapshot must be a JSON object", ErrMalformedPayload)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var wire WireSnapshot

	if err := dec.Decode(&wire); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, invalidField(typeErr.Field, fmt.Sprintf("must be %s, got %s", typeErr.Type, typeErr.Value))
		}

		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after snapshot object", ErrMalformedPayload)
	}

	return &wire, nil
}

// NumberFromDecimal renders an exact decimal as a JSON number literal.
func NumberFromDecimal(d decimal.Decimal) *json.Number {
	n := json.Number(d.String())

	return &n
}

// NumberFromInt renders an integer as a JSON number literal.
func NumberFromInt(v int) *json.Number {
	n := json.Number(decimal.NewFromInt(int64(v)).String())

	return &n
}
