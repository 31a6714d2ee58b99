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
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvalidTimestampDisplay is shown in place of a timestamp that could not be parsed.
const InvalidTimestampDisplay = "invalid timestamp"

// DisplayTimeLayout is the layout used when rendering a report time for operators.
const DisplayTimeLayout = "2006-01-02 15:04:05"

const (
	maxNumberLength   = 64
	maxFractionDigits = 16
	maxWholeExponent  = 15
)

//nolint:gochecknoglobals // read-only lookup tables
var (
	oneHundred = decimal.NewFromInt(100)
	// maxQuantity caps every unbounded size field (GB) at 1e15.
	maxQuantity = decimal.New(1, maxWholeExponent)
	maxInt32    = decimal.NewFromInt(math.MaxInt32)

	// zonedLayouts carry an explicit offset and are converted to UTC.
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
	}

	// naiveLayouts have no offset; agents report these in UTC.
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02",
	}
)

// NormalizeSnapshot validates a parsed wire snapshot and converts it into the
// canonical DeviceSnapshot. Only device_name is required; every other field
// stays nil when it was not reported.
func NormalizeSnapshot(w *WireSnapshot) (*DeviceSnapshot, error) {
	if w == nil || w.DeviceName == nil {
		return nil, invalidField("device_name", "is required")
	}

	name := strings.TrimSpace(*w.DeviceName)
	if name == "" {
		return nil, invalidField("device_name", "must not be empty")
	}

	s := &DeviceSnapshot{
		DeviceName:   name,
		IPAddress:    cloneString(w.IPAddress),
		MACAddress:   cloneString(w.MACAddress),
		SerialNumber: cloneString(w.SerialNumber),
		OS:           cloneString(w.OS),
		OSEdition:    cloneString(w.OSEdition),
		OSVersion:    cloneString(w.OSVersion),
		Build:        cloneString(w.Build),
		Architecture: cloneString(w.Architecture),
		SystemType:   cloneString(w.SystemType),
		Processor:    cloneString(w.Processor),
	}

	if s.OSEdition == nil {
		s.OSEdition = cloneString(w.WindowsEdition)
	}

	var err error

	if s.CPUCores, err = positiveInt("cpu_cores", w.CPUCores); err != nil {
		return nil, err
	}

	if s.CPUThreads, err = positiveInt("cpu_threads", w.CPUThreads); err != nil {
		return nil, err
	}

	if s.RAMTotalGB, err = boundedDecimal("ram_total_gb", w.RAMTotalGB, nil); err != nil {
		return nil, err
	}

	if s.DiskVolumes, err = normalizeVolumes(w.DiskVolumes); err != nil {
		return nil, err
	}

	if w.NetworkDetails != nil {
		s.NetworkDetails = &NetworkDetails{
			IPAddress:  cloneString(w.NetworkDetails.IPAddress),
			MACAddress: cloneString(w.NetworkDetails.MACAddress),
		}
	}

	if w.InstalledSoftware != nil {
		s.InstalledSoftware = make(map[string]string, len(w.InstalledSoftware))
		for product, value := range w.InstalledSoftware {
			s.InstalledSoftware[product] = value
		}
	}

	if w.Timestamp != nil {
		s.Timestamp = *w.Timestamp
		if reported, ok := ParseReportTime(s.Timestamp); ok {
			s.ReportedAt = &reported
		}
	}

	return s, nil
}

func normalizeVolumes(in map[string]WireDiskVolume) (map[string]DiskVolume, error) {
	if in == nil {
		return nil, nil
	}

	out := make(map[string]DiskVolume, len(in))

	for name, vol := range in {
		if strings.TrimSpace(name) == "" {
			return nil, invalidField("disk_volumes", "volume identifier must not be empty")
		}

		field := "disk_volumes[" + name + "]"

		total, err := boundedDecimal(field+".total_gb", vol.TotalGB, nil)
		if err != nil {
			return nil, err
		}

		used, err := boundedDecimal(field+".used_percent", vol.UsedPercent, &oneHundred)
		if err != nil {
			return nil, err
		}

		out[name] = DiskVolume{
			TotalGB:     total,
			UsedPercent: used,
			MountPoint:  cloneString(vol.MountPoint),
		}
	}

	return out, nil
}

// parseNumber converts a JSON number to a decimal, rejecting literals whose
// length or exponent is out of bounds. The exponent must be checked before
// any comparison: Cmp rescales the coefficient to the larger exponent.
func parseNumber(field string, n *json.Number) (decimal.Decimal, error) {
	raw := n.String()
	if len(raw) > maxNumberLength {
		return decimal.Decimal{}, invalidField(field, "is too long")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, invalidField(field, fmt.Sprintf("is not a number: %q", raw))
	}

	if d.Exponent() > maxWholeExponent {
		return decimal.Decimal{}, invalidField(field, "is out of range")
	}

	if d.Exponent() < -maxFractionDigits {
		return decimal.Decimal{}, invalidField(field, fmt.Sprintf("has more than %d decimal places", maxFractionDigits))
	}

	return d, nil
}

// boundedDecimal converts a JSON number to an exact decimal that must be
// non-negative and no greater than upper, or maxQuantity when upper is nil.
func boundedDecimal(field string, n *json.Number, upper *decimal.Decimal) (decimal.NullDecimal, error) {
	if n == nil {
		return decimal.NullDecimal{}, nil
	}

	d, err := parseNumber(field, n)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	if d.IsNegative() {
		return decimal.NullDecimal{}, invalidField(field, "must be non-negative")
	}

	limit := maxQuantity
	if upper != nil {
		limit = *upper
	}

	if d.GreaterThan(limit) {
		return decimal.NullDecimal{}, invalidField(field, "must not exceed "+limit.String())
	}

	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func positiveInt(field string, n *json.Number) (*int, error) {
	if n == nil {
		return nil, nil
	}

	d, err := parseNumber(field, n)
	if err != nil {
		return nil, err
	}

	if !d.Equal(d.Truncate(0)) {
		return nil, invalidField(field, "must be a whole number")
	}

	if !d.IsPositive() {
		return nil, invalidField(field, "must be positive")
	}

	if d.GreaterThan(maxInt32) {
		return nil, invalidField(field, "is out of range")
	}

	v := int(d.IntPart())

	return &v, nil
}

// ParseReportTime parses an agent timestamp. Values with an offset are
// converted to UTC and values without one are taken to already be UTC.
func ParseReportTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatReportTime renders the parsed report time, or the invalid-timestamp
// sentinel when the agent's value could not be parsed.
func FormatReportTime(s *DeviceSnapshot) string {
	if s == nil || s.ReportedAt == nil {
		return InvalidTimestampDisplay
	}

	return s.ReportedAt.UTC().Format(DisplayTimeLayout)
}
