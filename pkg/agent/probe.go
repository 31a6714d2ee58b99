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

import "time"

// SystemInfo is what a probe reports about the local machine. Empty strings
// and zero counts mean the value could not be read.
type SystemInfo struct {
	Hostname         string
	OS               string
	Edition          string
	OSVersion        string
	Build            string
	Architecture     string
	Processor        string
	SerialNumber     string
	CPUCores         int
	CPUThreads       int
	MemoryTotalBytes uint64
	Disks            []DiskInfo
	IPAddress        string
	MACAddress       string
	KnownSoftware    map[string]string
	CollectedAt      time.Time
}

// HostDetails identifies the machine and its operating system.
type HostDetails struct {
	Hostname         string
	OS               string
	Edition          string
	OSVersion        string
	Build            string
	Architecture     string
	MemoryTotalBytes uint64
}

type CPUDetails struct {
	Processor string
	Cores     int
	Threads   int
}

// DiskInfo describes one mounted volume.
type DiskInfo struct {
	Name        string
	MountPoint  string
	TotalBytes  uint64
	UsedPercent float64
}

// NetworkInfo is the address pair reported as the device's primary interface.
type NetworkInfo struct {
	IPAddress  string
	MACAddress string
}

// InstalledProgram is one entry from the platform's installed software list.
type InstalledProgram struct {
	Name    string
	Version string
}
