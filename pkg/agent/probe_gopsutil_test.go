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
	"testing"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fleetradar/pkg/logger"
)

func stubProbeSources(t *testing.T) {
	t.Helper()

	origHost, origCPU, origCounts := hostInfoWithContext, cpuInfoWithContext, cpuCountsWithContext
	origMem, origParts, origUsage := virtualMemoryWithCtx, partitionsWithContext, diskUsageWithContext
	origIfaces := interfacesWithContext
	origEdition, origProcessor, origSerial, origPrograms := readEdition, readProcessor, readSerial, readPrograms

	t.Cleanup(func() {
		hostInfoWithContext, cpuInfoWithContext, cpuCountsWithContext = origHost, origCPU, origCounts
		virtualMemoryWithCtx, partitionsWithContext, diskUsageWithContext = origMem, origParts, origUsage
		interfacesWithContext = origIfaces
		readEdition, readProcessor, readSerial, readPrograms = origEdition, origProcessor, origSerial, origPrograms
	})

	hostInfoWithContext = func(context.Context) (*host.InfoStat, error) {
		return &host.InfoStat{
			Hostname:        "lab-pc10",
			OS:              "windows",
			Platform:        "Microsoft Windows 10 Pro",
			PlatformVersion: "10.0.19045",
			KernelVersion:   "10.0.19045.4291",
			KernelArch:      "x86_64",
		}, nil
	}
	cpuInfoWithContext = func(context.Context) ([]cpu.InfoStat, error) {
		return []cpu.InfoStat{{ModelName: " Intel(R) Core(TM) i5-8500 "}}, nil
	}
	cpuCountsWithContext = func(_ context.Context, logical bool) (int, error) {
		if logical {
			return 12, nil
		}

		return 6, nil
	}
	virtualMemoryWithCtx = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 16 << 30}, nil
	}
	partitionsWithContext = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{
			{Device: `C:\`, Mountpoint: `C:\`, Fstype: "NTFS", Opts: []string{"rw"}},
			{Device: `D:\`, Mountpoint: `D:\`, Fstype: "CDFS", Opts: []string{"ro", "cdrom"}},
			{Device: `E:\`, Mountpoint: `E:\`, Fstype: ""},
			{Device: `F:\`, Mountpoint: `F:\`, Fstype: "NTFS"},
		}, nil
	}
	diskUsageWithContext = func(_ context.Context, path string) (*disk.UsageStat, error) {
		if path == `F:\` {
			return nil, errors.New("access denied")
		}

		return &disk.UsageStat{Total: 256 << 30, UsedPercent: 42.5}, nil
	}
	interfacesWithContext = func(context.Context) (psnet.InterfaceStatList, error) {
		return psnet.InterfaceStatList{
			{Name: "Loopback", Flags: []string{"up", "loopback"}, Addrs: psnet.InterfaceAddrList{{Addr: "127.0.0.1/8"}}},
			{Name: "Wi-Fi", HardwareAddr: "aa:aa:aa:aa:aa:aa", Flags: []string{"up"}, Addrs: psnet.InterfaceAddrList{{Addr: "192.168.1.9/24"}}},
			{Name: "Ethernet", HardwareAddr: "00:1a:2b:3c:4d:5e", Flags: []string{"up", "broadcast"}, Addrs: psnet.InterfaceAddrList{
				{Addr: "fe80::1/64"},
				{Addr: "10.0.4.21/16"},
			}},
		}, nil
	}
	readEdition = func() string { return "Windows 10 Pro (Professional)" }
	readProcessor = func() string { return "" }
	readSerial = func(context.Context) (string, error) { return "5CG1234XYZ", nil }
	readPrograms = func(context.Context, logger.Logger) ([]InstalledProgram, error) {
		return []InstalledProgram{{Name: "Google Chrome", Version: "124.0"}}, nil
	}
}

func TestGopsutilProbeCapabilities(t *testing.T) {
	stubProbeSources(t)

	ctx := context.Background()
	probe := NewGopsutilProbe(logger.NewTestLogger())

	hostDetails, err := probe.HostInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "lab-pc10", hostDetails.Hostname)
	assert.Equal(t, "Windows", hostDetails.OS)
	assert.Equal(t, "Windows 10 Pro (Professional)", hostDetails.Edition)
	assert.Equal(t, uint64(16<<30), hostDetails.MemoryTotalBytes)

	serial, err := probe.SerialNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5CG1234XYZ", serial)

	cpuDetails, err := probe.CPUInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Intel(R) Core(TM) i5-8500", cpuDetails.Processor)
	assert.Equal(t, 6, cpuDetails.Cores)
	assert.Equal(t, 12, cpuDetails.Threads)

	disks, err := probe.DiskVolumes(ctx)
	require.NoError(t, err)
	require.Len(t, disks, 1)
	assert.Equal(t, "C:", disks[0].Name)

	network, err := probe.NetworkDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10.0.4.21", network.IPAddress)
	assert.Equal(t, "00:1a:2b:3c:4d:5e", network.MACAddress)

	software, err := probe.InstalledSoftware(ctx, []string{"Google Chrome", "VMware"})
	require.NoError(t, err)
	assert.Equal(t, "Google Chrome - 124.0", software["Google Chrome"])
	assert.Equal(t, NotInstalled("VMware"), software["VMware"])
}

func TestGopsutilProbePlatformProcessorWins(t *testing.T) {
	stubProbeSources(t)

	readProcessor = func() string { return "Intel(R) Core(TM) i5-8500 CPU @ 3.00GHz" }

	cpuDetails, err := NewGopsutilProbe(logger.NewTestLogger()).CPUInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Intel(R) Core(TM) i5-8500 CPU @ 3.00GHz", cpuDetails.Processor)
}

func TestGopsutilProbeFailures(t *testing.T) {
	stubProbeSources(t)

	failing := errors.New("not supported")

	cpuInfoWithContext = func(context.Context) ([]cpu.InfoStat, error) { return nil, failing }
	cpuCountsWithContext = func(context.Context, bool) (int, error) { return 0, failing }
	partitionsWithContext = func(context.Context, bool) ([]disk.PartitionStat, error) { return nil, failing }
	interfacesWithContext = func(context.Context) (psnet.InterfaceStatList, error) { return nil, failing }
	readEdition = func() string { return "" }

	ctx := context.Background()
	probe := NewGopsutilProbe(logger.NewTestLogger())

	hostDetails, err := probe.HostInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Microsoft Windows 10 Pro 10.0.19045", hostDetails.Edition)

	_, err = probe.CPUInfo(ctx)
	require.ErrorIs(t, err, errCPUUnavailable)
	require.ErrorIs(t, err, failing)

	_, err = probe.DiskVolumes(ctx)
	require.ErrorIs(t, err, failing)

	_, err = probe.NetworkDetails(ctx)
	require.ErrorIs(t, err, failing)
}

func TestGopsutilProbeNoUsableInterface(t *testing.T) {
	stubProbeSources(t)

	interfacesWithContext = func(context.Context) (psnet.InterfaceStatList, error) {
		return psnet.InterfaceStatList{
			{Name: "lo", Flags: []string{"up", "loopback"}, Addrs: psnet.InterfaceAddrList{{Addr: "127.0.0.1/8"}}},
			{Name: "eth1", Flags: []string{"broadcast"}, Addrs: psnet.InterfaceAddrList{{Addr: "10.9.9.9/24"}}},
		}, nil
	}

	network, err := NewGopsutilProbe(logger.NewTestLogger()).NetworkDetails(context.Background())
	require.NoError(t, err)
	assert.Empty(t, network.IPAddress)
}

func TestVolumeName(t *testing.T) {
	assert.Equal(t, "C:", volumeName(`C:\`, `C:\`))
	assert.Equal(t, "/dev/sda1", volumeName("/dev/sda1", "/"))
	assert.Equal(t, "/run", volumeName("none", "/run"))
}

func TestDisplayOS(t *testing.T) {
	assert.Equal(t, "Linux", displayOS("linux"))
	assert.Equal(t, "macOS", displayOS("darwin"))
	assert.Empty(t, displayOS(""))
}
