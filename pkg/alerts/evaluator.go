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

// Package alerts derives health flags for a device snapshot.
package alerts

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carverauto/fleetradar/pkg/models"
)

// Flag names one derived alert condition.
type Flag string

const (
	FlagLowRAM        Flag = "LowRAM"
	FlagHighDiskUsage Flag = "HighDiskUsage"
	FlagStale         Flag = "Stale"
)

// Band classifies a single volume's usage.
type Band string

const (
	BandNormal  Band = "Normal"
	BandWarning Band = "Warning"
	BandDanger  Band = "Danger"
	// BandUnknown is used when the volume did not report used_percent.
	BandUnknown Band = "Unknown"
)

// Thresholds are compared exactly against the snapshot's decimals.
type Thresholds struct {
	LowRAMGB             decimal.Decimal
	HighDiskUsagePercent decimal.Decimal
	WarnDiskUsagePercent decimal.Decimal
	StaleAfter           time.Duration
}

// DefaultThresholds returns 8 GB, 90%, 70% and one hour.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowRAMGB:             decimal.NewFromInt(models.DefaultLowRAMThresholdGB),
		HighDiskUsagePercent: decimal.NewFromInt(models.DefaultHighDiskUsagePercent),
		WarnDiskUsagePercent: decimal.NewFromInt(models.DefaultWarnDiskUsagePercent),
		StaleAfter:           time.Duration(models.DefaultStaleAfter),
	}
}

// ThresholdsFromConfig converts the configured thresholds; unset values keep
// their defaults and an unset warn threshold never exceeds the danger one.
// NaN and infinite values are ignored; config validation rejects them first.
func ThresholdsFromConfig(cfg models.AlertsConfig) Thresholds {
	t := DefaultThresholds()

	if v, ok := finite(cfg.LowRAMThresholdGB); ok {
		t.LowRAMGB = decimal.NewFromFloat(v)
	}

	if v, ok := finite(cfg.HighDiskUsagePercent); ok {
		t.HighDiskUsagePercent = decimal.NewFromFloat(v)
	}

	if v, ok := finite(cfg.WarnDiskUsagePercent); ok {
		t.WarnDiskUsagePercent = decimal.NewFromFloat(v)
	} else {
		t.WarnDiskUsagePercent = decimal.Min(t.WarnDiskUsagePercent, t.HighDiskUsagePercent)
	}

	if cfg.StaleAfter > 0 {
		t.StaleAfter = time.Duration(cfg.StaleAfter)
	}

	return t
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}

	return *v, true
}

// Result is the evaluated state of one snapshot.
type Result struct {
	LowRAM        bool
	HighDiskUsage bool
	Stale         bool
	// Volumes maps each reported volume to its band.
	Volumes map[string]Band
	// Age is now minus ReportedAt; nil when the report time is unknown.
	Age *time.Duration
}

// Alerting reports whether the snapshot raises a resource alert. Staleness
// alone does not count.
func (r Result) Alerting() bool {
	return r.LowRAM || r.HighDiskUsage
}

// Flags lists the raised conditions in a fixed order.
func (r Result) Flags() []Flag {
	flags := make([]Flag, 0, 3)

	if r.LowRAM {
		flags = append(flags, FlagLowRAM)
	}

	if r.HighDiskUsage {
		flags = append(flags, FlagHighDiskUsage)
	}

	if r.Stale {
		flags = append(flags, FlagStale)
	}

	return flags
}

// Evaluator applies Thresholds. It holds no state and never reads the clock.
type Evaluator struct {
	thresholds Thresholds
}

func NewEvaluator(t Thresholds) *Evaluator {
	return &Evaluator{thresholds: t}
}

func (e *Evaluator) Thresholds() Thresholds {
	return e.thresholds
}

// Evaluate derives the alert state of s as of now.
func (e *Evaluator) Evaluate(s *models.DeviceSnapshot, now time.Time) Result {
	res := Result{
		Volumes: make(map[string]Band, len(s.DiskVolumes)),
	}

	// An unreported RAM size is treated as zero.
	ram := decimal.Zero
	if s.RAMTotalGB.Valid {
		ram = s.RAMTotalGB.Decimal
	}

	res.LowRAM = ram.LessThan(e.thresholds.LowRAMGB)

	for name, vol := range s.DiskVolumes {
		band := e.Band(vol.UsedPercent)
		res.Volumes[name] = band

		if band == BandDanger {
			res.HighDiskUsage = true
		}
	}

	if s.ReportedAt == nil {
		res.Stale = true
	} else {
		age := now.Sub(*s.ReportedAt)
		res.Age = &age
		res.Stale = age >= e.thresholds.StaleAfter
	}

	return res
}

// Band classifies one used_percent value. Danger starts strictly above the
// high-disk threshold, so a volume is Danger exactly when it raises HighDiskUsage.
func (e *Evaluator) Band(used decimal.NullDecimal) Band {
	switch {
	case !used.Valid:
		return BandUnknown
	case used.Decimal.GreaterThan(e.thresholds.HighDiskUsagePercent):
		return BandDanger
	case used.Decimal.GreaterThan(e.thresholds.WarnDiskUsagePercent):
		return BandWarning
	default:
		return BandNormal
	}
}
