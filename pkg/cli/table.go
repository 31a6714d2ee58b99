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

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/carverauto/fleetradar/pkg/models"
)

const notAvailable = "N/A"

//nolint:gochecknoglobals // column headers
var deviceHeaders = []string{"Device", "IP Address", "OS", "RAM (GB)", "Disks", "Last Seen", "Alerts"}

const alertsColumn = 6

// RenderDevices draws the query result as a table followed by the
// "Loaded N of M devices" summary.
func RenderDevices(resp *models.QueryResponse, noColor bool) string {
	st := newStyles(noColor)

	rows := make([][]string, 0, len(resp.Devices))
	alerting := make([]bool, 0, len(resp.Devices))

	for i := range resp.Devices {
		rows = append(rows, deviceRow(&resp.Devices[i]))
		alerting = append(alerting, len(resp.Devices[i].Flags) > 0)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor(noColor))).
		Headers(deviceHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case col == alertsColumn && alerting[row]:
				return st.danger
			case col == alertsColumn:
				return st.ok
			default:
				return st.cell
			}
		})

	var b strings.Builder

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(st.summary.Render(Summary(resp)))
	b.WriteString("\n")

	return b.String()
}

// Summary reports how many devices matched out of the whole fleet.
func Summary(resp *models.QueryResponse) string {
	return fmt.Sprintf("Loaded %d of %d devices", resp.Matched, resp.Total)
}

func deviceRow(v *models.DeviceView) []string {
	return []string{
		v.DeviceName,
		deref(v.IPAddress),
		joinNonEmpty(" ", deref(v.OS), optionalString(v.OSEdition)),
		formatFloat(v.RAMTotalGB),
		formatVolumes(v.DiskVolumes),
		v.Timestamp,
		formatFlags(v.Flags),
	}
}

func formatVolumes(volumes []models.VolumeView) string {
	if len(volumes) == 0 {
		return notAvailable
	}

	parts := make([]string, 0, len(volumes))

	for _, vol := range volumes {
		used := notAvailable
		if vol.UsedPercent != nil {
			used = strconv.FormatFloat(*vol.UsedPercent, 'f', -1, 64) + "%"
		}

		parts = append(parts, fmt.Sprintf("%s %s (%s)", vol.Name, used, vol.Band))
	}

	return strings.Join(parts, "\n")
}

func formatFlags(flags []string) string {
	if len(flags) == 0 {
		return "OK"
	}

	return strings.Join(flags, ", ")
}

func formatFloat(f *float64) string {
	if f == nil {
		return notAvailable
	}

	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return notAvailable
	}

	return *s
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]

	for _, p := range parts {
		if p != "" && p != notAvailable {
			kept = append(kept, p)
		}
	}

	if len(kept) == 0 {
		return notAvailable
	}

	return strings.Join(kept, sep)
}
