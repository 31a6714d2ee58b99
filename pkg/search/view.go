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

package search

import (
	"sort"
	"time"

	"github.com/carverauto/fleetradar/pkg/alerts"
	"github.com/carverauto/fleetradar/pkg/models"
)

// SortedVolumeNames returns the snapshot's volume identifiers in natural order.
func SortedVolumeNames(s *models.DeviceSnapshot) []string {
	names := make([]string, 0, len(s.DiskVolumes))
	for name := range s.DiskVolumes {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})

	return names
}

// BuildView renders s with its alert state as of now. knownSoftware lists
// the products reported in the Software section, in the given order.
func BuildView(ev *alerts.Evaluator, s *models.DeviceSnapshot, now time.Time, knownSoftware []string) models.DeviceView {
	res := ev.Evaluate(s, now)

	v := models.DeviceView{
		DeviceName:    s.DeviceName,
		SerialNumber:  s.SerialNumber,
		OS:            s.OS,
		OSEdition:     s.OSEdition,
		OSVersion:     s.OSVersion,
		Build:         s.Build,
		Architecture:  s.Architecture,
		SystemType:    s.SystemType,
		Processor:     s.Processor,
		CPUCores:      s.CPUCores,
		CPUThreads:    s.CPUThreads,
		RAMTotalGB:    models.DecimalFloat(s.RAMTotalGB),
		DiskVolumes:   make([]models.VolumeView, 0, len(s.DiskVolumes)),
		Software:      make([]models.SoftwareView, 0, len(knownSoftware)),
		Timestamp:     models.FormatReportTime(s),
		ReportedAt:    s.ReportedAt,
		LowRAM:        res.LowRAM,
		HighDiskUsage: res.HighDiskUsage,
		Stale:         res.Stale,
	}

	if ip, ok := s.EffectiveIP(); ok {
		v.IPAddress = &ip
	}

	if mac, ok := s.EffectiveMAC(); ok {
		v.MACAddress = &mac
	}

	for _, name := range SortedVolumeNames(s) {
		vol := s.DiskVolumes[name]
		v.DiskVolumes = append(v.DiskVolumes, models.VolumeView{
			Name:        name,
			MountPoint:  vol.MountPoint,
			TotalGB:     models.DecimalFloat(vol.TotalGB),
			UsedPercent: models.DecimalFloat(vol.UsedPercent),
			Band:        string(res.Volumes[name]),
		})
	}

	for _, product := range knownSoftware {
		v.Software = append(v.Software, models.SoftwareStatus(s, product))
	}

	if res.Age != nil {
		secs := int64(res.Age.Seconds())
		v.AgeSeconds = &secs
	}

	flags := res.Flags()
	v.Flags = make([]string, 0, len(flags))

	for _, f := range flags {
		v.Flags = append(v.Flags, string(f))
	}

	return v
}

// Views renders every device in r.
func (r *QueryResult) Views(ev *alerts.Evaluator, knownSoftware []string) []models.DeviceView {
	views := make([]models.DeviceView, 0, len(r.Devices))
	for _, s := range r.Devices {
		views = append(views, BuildView(ev, s, r.EvaluatedAt, knownSoftware))
	}

	return views
}
