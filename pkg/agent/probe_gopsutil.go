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
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/carverauto/fleetradar/pkg/logger"
)

//nolint:gochecknoglobals // swapped in tests
var (
	hostInfoWithContext   = host.InfoWithContext
	cpuInfoWithContext    = cpu.InfoWithContext
	cpuCountsWithContext  = cpu.CountsWithContext
	virtualMemoryWithCtx  = mem.VirtualMemoryWithContext
	partitionsWithContext = disk.PartitionsWithContext
	diskUsageWithContext  = disk.UsageWithContext
	interfacesWithContext = psnet.InterfacesWithContext
	readEdition           = platformEdition
	readProcessor         = platformProcessor
	readSerial            = platformSerial
	readPrograms          = platformPrograms
)

// GopsutilProbe reads host facts through gopsutil plus the platform-specific
// sources in probe_<os>.go.
type GopsutilProbe struct {
	logger logger.Logger
}

var _ SystemProbe = (*GopsutilProbe)(nil)

func NewGopsutilProbe(log logger.Logger) *GopsutilProbe {
	return &GopsutilProbe{logger: log}
}

func (p *GopsutilProbe) HostInfo(ctx context.Context) (*HostDetails, error) {
	details := &HostDetails{}

	hostStat, err := hostInfoWithContext(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("host.InfoWithContext failed")
	} else {
		details.Hostname = hostStat.Hostname
		details.OS = displayOS(hostStat.OS)
		details.OSVersion = hostStat.PlatformVersion
		details.Build = hostStat.KernelVersion
		details.Architecture = hostStat.KernelArch
	}

	if details.Hostname == "" {
		if name, err := os.Hostname(); err == nil {
			details.Hostname = name
		}
	}

	if details.Hostname == "" {
		return nil, errHostnameUnavailable
	}

	details.Edition = readEdition()
	if details.Edition == "" && hostStat != nil && hostStat.Platform != "" {
		details.Edition = strings.TrimSpace(hostStat.Platform + " " + hostStat.PlatformVersion)
	}

	if vm, err := virtualMemoryWithCtx(ctx); err != nil {
		p.logger.Warn().Err(err).Msg("mem.VirtualMemoryWithContext failed")
	} else {
		details.MemoryTotalBytes = vm.Total
	}

	return details, nil
}

func (*GopsutilProbe) SerialNumber(ctx context.Context) (string, error) {
	return readSerial(ctx)
}

// CPUInfo prefers the platform's processor name over gopsutil's model name.
// It fails only when neither the model nor any count could be read.
func (p *GopsutilProbe) CPUInfo(ctx context.Context) (*CPUDetails, error) {
	details := &CPUDetails{Processor: readProcessor()}

	var errs []error

	if details.Processor == "" {
		if stats, err := cpuInfoWithContext(ctx); err != nil {
			errs = append(errs, err)
		} else if len(stats) > 0 {
			details.Processor = strings.TrimSpace(stats[0].ModelName)
		}
	}

	if cores, err := cpuCountsWithContext(ctx, false); err != nil {
		errs = append(errs, err)
	} else {
		details.Cores = cores
	}

	if threads, err := cpuCountsWithContext(ctx, true); err != nil {
		errs = append(errs, err)
	} else {
		details.Threads = threads
	}

	if details.Processor == "" && details.Cores == 0 && details.Threads == 0 {
		if len(errs) == 0 {
			return nil, errCPUUnavailable
		}

		return nil, fmt.Errorf("%w: %w", errCPUUnavailable, errors.Join(errs...))
	}

	for _, err := range errs {
		p.logger.Debug().Err(err).Msg("Partial CPU details")
	}

	return details, nil
}

// DiskVolumes skips optical drives, unformatted partitions and volumes that
// cannot be read.
func (p *GopsutilProbe) DiskVolumes(ctx context.Context) ([]DiskInfo, error) {
	partitions, err := partitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	disks := make([]DiskInfo, 0, len(partitions))
	seen := make(map[string]struct{}, len(partitions))

	for _, part := range partitions {
		if part.Fstype == "" || hasOpt(part.Opts, "cdrom") {
			continue
		}

		name := volumeName(part.Device, part.Mountpoint)
		if _, dup := seen[name]; dup {
			continue
		}

		usage, err := diskUsageWithContext(ctx, part.Mountpoint)
		if err != nil {
			p.logger.Debug().Err(err).Str("mount_point", part.Mountpoint).Msg("Skipping unreadable volume")
			continue
		}

		seen[name] = struct{}{}

		disks = append(disks, DiskInfo{
			Name:        name,
			MountPoint:  part.Mountpoint,
			TotalBytes:  usage.Total,
			UsedPercent: usage.UsedPercent,
		})
	}

	return disks, nil
}

// NetworkDetails picks the interface named "Ethernet" when present, otherwise
// the first non-loopback interface that is up and has an IPv4 address.
func (*GopsutilProbe) NetworkDetails(ctx context.Context) (*NetworkInfo, error) {
	ifaces, err := interfacesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	var fallback *NetworkInfo

	for _, iface := range ifaces {
		if hasOpt(iface.Flags, "loopback") || !hasOpt(iface.Flags, "up") {
			continue
		}

		addr := firstIPv4(iface.Addrs)
		if addr == "" {
			continue
		}

		if strings.EqualFold(strings.TrimSpace(iface.Name), "ethernet") {
			return &NetworkInfo{IPAddress: addr, MACAddress: iface.HardwareAddr}, nil
		}

		if fallback == nil {
			fallback = &NetworkInfo{IPAddress: addr, MACAddress: iface.HardwareAddr}
		}
	}

	if fallback == nil {
		return &NetworkInfo{}, nil
	}

	return fallback, nil
}

func (p *GopsutilProbe) InstalledSoftware(ctx context.Context, known []string) (map[string]string, error) {
	programs, err := readPrograms(ctx, p.logger)
	if err != nil {
		return nil, err
	}

	return MatchKnownSoftware(programs, known), nil
}

func firstIPv4(addrs psnet.InterfaceAddrList) string {
	for _, a := range addrs {
		ip, _, _ := strings.Cut(a.Addr, "/")
		if strings.Count(ip, ".") == 3 && !strings.Contains(ip, ":") {
			return ip
		}
	}

	return ""
}

func hasOpt(opts []string, want string) bool {
	for _, o := range opts {
		if strings.EqualFold(o, want) {
			return true
		}
	}

	return false
}

// volumeName turns "C:\\" into "C:" and falls back to the mount point when
// the device is unnamed.
func volumeName(device, mountPoint string) string {
	name := strings.TrimRight(device, `\\/`)
	if name == "" || name == "none" {
		name = mountPoint
	}

	return name
}

func displayOS(goos string) string {
	switch goos {
	case "":
		return ""
	case "darwin":
		return "macOS"
	default:
		return strings.ToUpper(goos[:1]) + goos[1:]
	}
}
