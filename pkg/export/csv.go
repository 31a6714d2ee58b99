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

// Package export renders fleet snapshots as delimited text.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/carverauto/fleetradar/pkg/models"
	"github.com/carverauto/fleetradar/pkg/search"
)

// ContentType is the media type served for CSV exports.
const ContentType = "text/csv; charset=utf-8"

// BaseColumns are written for every device, in this order.
//
//nolint:gochecknoglobals // fixed header
var BaseColumns = []string{
	"Device Name",
	"IP Address",
	"Serial Number",
	"OS",
	"Edition",
	"OS Version",
	"Processor",
	"RAM (GB)",
	"CPU Cores",
	"CPU Threads",
	"MAC Address",
	"IP Address (Net)",
	"MAC Address (Net)",
	"Timestamp",
}

// Header returns the full header for snapshots: the base columns followed by
// a used/total pair for every volume, in order of first appearance.
func Header(snapshots []*models.DeviceSnapshot) []string {
	header := append([]string(nil), BaseColumns...)

	for _, volume := range volumeColumns(snapshots) {
		header = append(header, usedColumn(volume), totalColumn(volume))
	}

	return header
}

// WriteCSV writes one header row and one row per snapshot, in the order given.
func WriteCSV(w io.Writer, snapshots []*models.DeviceSnapshot) error {
	volumes := volumeColumns(snapshots)

	cw := csv.NewWriter(w)

	if err := cw.Write(Header(snapshots)); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range snapshots {
		if s == nil {
			continue
		}

		if err := cw.Write(Row(s, volumes)); err != nil {
			return fmt.Errorf("write csv row for %q: %w", s.DeviceName, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

// Row renders s against the given volume column order. Missing values are empty.
func Row(s *models.DeviceSnapshot, volumes []string) []string {
	var netIP, netMAC *string
	if s.NetworkDetails != nil {
		netIP = s.NetworkDetails.IPAddress
		netMAC = s.NetworkDetails.MACAddress
	}

	row := make([]string, 0, len(BaseColumns)+2*len(volumes))
	row = append(row,
		s.DeviceName,
		str(s.IPAddress),
		str(s.SerialNumber),
		str(s.OS),
		str(s.OSEdition),
		str(s.OSVersion),
		str(s.Processor),
		dec(s.RAMTotalGB),
		integer(s.CPUCores),
		integer(s.CPUThreads),
		str(s.MACAddress),
		str(netIP),
		str(netMAC),
		s.Timestamp,
	)

	for _, name := range volumes {
		vol, ok := s.DiskVolumes[name]
		if !ok {
			row = append(row, "", "")
			continue
		}

		row = append(row, dec(vol.UsedPercent), dec(vol.TotalGB))
	}

	return row
}

func volumeColumns(snapshots []*models.DeviceSnapshot) []string {
	seen := make(map[string]struct{})

	var out []string

	for _, s := range snapshots {
		if s == nil {
			continue
		}

		for _, name := range search.SortedVolumeNames(s) {
			if _, ok := seen[name]; ok {
				continue
			}

			seen[name] = struct{}{}
			out = append(out, name)
		}
	}

	return out
}

func usedColumn(volume string) string  { return "Disk " + volume + " Used (%)" }
func totalColumn(volume string) string { return "Disk " + volume + " Total (GB)" }

func str(v *string) string {
	if v == nil {
		return ""
	}

	return *v
}

func integer(v *int) string {
	if v == nil {
		return ""
	}

	return strconv.Itoa(*v)
}

func dec(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}

	return d.Decimal.String()
}
