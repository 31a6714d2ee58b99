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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carverauto/fleetradar/pkg/logger"
)

// CollectSystemInfo queries every probe capability. Only HostInfo is
// required; any other failure is logged and leaves its fields empty.
func CollectSystemInfo(
	ctx context.Context, probe SystemProbe, known []string, now time.Time, log logger.Logger,
) (*SystemInfo, error) {
	host, err := probe.HostInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect host info: %w", err)
	}

	info := &SystemInfo{
		Hostname:         host.Hostname,
		OS:               host.OS,
		Edition:          host.Edition,
		OSVersion:        host.OSVersion,
		Build:            host.Build,
		Architecture:     host.Architecture,
		MemoryTotalBytes: host.MemoryTotalBytes,
		CollectedAt:      now.UTC(),
	}

	if serial, err := probe.SerialNumber(ctx); err != nil {
		probeFailure(log, "serial_number", err)
	} else {
		info.SerialNumber = serial
	}

	if cpu, err := probe.CPUInfo(ctx); err != nil {
		probeFailure(log, "cpu", err)
	} else if cpu != nil {
		info.Processor = cpu.Processor
		info.CPUCores = cpu.Cores
		info.CPUThreads = cpu.Threads
	}

	if disks, err := probe.DiskVolumes(ctx); err != nil {
		probeFailure(log, "disk_volumes", err)
	} else {
		info.Disks = disks
	}

	if network, err := probe.NetworkDetails(ctx); err != nil {
		probeFailure(log, "network_details", err)
	} else if network != nil {
		info.IPAddress = network.IPAddress
		info.MACAddress = network.MACAddress
	}

	if len(known) > 0 {
		software, err := probe.InstalledSoftware(ctx, known)
		if err != nil {
			probeFailure(log, "installed_software", err)
		} else {
			info.KnownSoftware = software
		}
	}

	return info, nil
}

func probeFailure(log logger.Logger, capability string, err error) {
	var event *zerolog.Event
	if errors.Is(err, ErrProbeUnsupported) {
		event = log.Debug()
	} else {
		event = log.Warn()
	}

	event.Err(err).Str("capability", capability).Msg("Probe capability unavailable")
}
