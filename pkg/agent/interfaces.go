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

	"github.com/carverauto/fleetradar/pkg/models"
)

//go:generate mockgen -destination=mock_agent.go -package=agent github.com/carverauto/fleetradar/pkg/agent SystemProbe,SnapshotPusher

// SystemProbe reads host facts one capability at a time. Methods with no
// source on the running platform return ErrProbeUnsupported.
type SystemProbe interface {
	// HostInfo fails only when no hostname can be determined.
	HostInfo(ctx context.Context) (*HostDetails, error)
	SerialNumber(ctx context.Context) (string, error)
	CPUInfo(ctx context.Context) (*CPUDetails, error)
	DiskVolumes(ctx context.Context) ([]DiskInfo, error)
	NetworkDetails(ctx context.Context) (*NetworkInfo, error)
	// InstalledSoftware reports every product in known, installed or not.
	InstalledSoftware(ctx context.Context, known []string) (map[string]string, error)
}

// SnapshotPusher delivers one snapshot to the collector.
type SnapshotPusher interface {
	Push(ctx context.Context, snapshot *models.WireSnapshot) (*models.IngestAck, error)
}
