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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/fleetradar/pkg/logger"
)

func TestCollectSystemInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	known := []string{"Google Chrome", "VMware"}
	now := time.Date(2025, 4, 24, 14, 15, 22, 0, time.FixedZone("IST", 19800))

	info, err := CollectSystemInfo(context.Background(), sampleProbe(ctrl, known, false), known, now, logger.NewTestLogger())
	require.NoError(t, err)

	want := sampleInfo()
	want.CollectedAt = now.UTC()
	assert.Equal(t, want, info)
}

func TestCollectSystemInfoDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := NewMockSystemProbe(ctrl)
	failing := errors.New("access denied")

	probe.EXPECT().HostInfo(gomock.Any()).Return(&HostDetails{Hostname: "edge-01"}, nil)
	probe.EXPECT().SerialNumber(gomock.Any()).Return("", ErrProbeUnsupported)
	probe.EXPECT().CPUInfo(gomock.Any()).Return(nil, errCPUUnavailable)
	probe.EXPECT().DiskVolumes(gomock.Any()).Return(nil, failing)
	probe.EXPECT().NetworkDetails(gomock.Any()).Return(nil, failing)
	probe.EXPECT().InstalledSoftware(gomock.Any(), []string{"VMware"}).Return(nil, ErrProbeUnsupported)

	info, err := CollectSystemInfo(context.Background(), probe, []string{"VMware"}, time.Now(), logger.NewTestLogger())
	require.NoError(t, err)

	assert.Equal(t, "edge-01", info.Hostname)
	assert.Empty(t, info.SerialNumber)
	assert.Zero(t, info.CPUCores)
	assert.Empty(t, info.Disks)
	assert.Empty(t, info.IPAddress)
	assert.Nil(t, info.KnownSoftware)
}

func TestCollectSystemInfoSkipsSoftwareWithoutKnownList(t *testing.T) {
	ctrl := gomock.NewController(t)

	info, err := CollectSystemInfo(context.Background(), sampleProbe(ctrl, nil, false), nil, time.Now(), logger.NewTestLogger())
	require.NoError(t, err)
	assert.Nil(t, info.KnownSoftware)
}

func TestCollectSystemInfoRequiresHost(t *testing.T) {
	ctrl := gomock.NewController(t)
	probe := NewMockSystemProbe(ctrl)

	probe.EXPECT().HostInfo(gomock.Any()).Return(nil, errHostnameUnavailable)

	_, err := CollectSystemInfo(context.Background(), probe, nil, time.Now(), logger.NewTestLogger())
	require.ErrorIs(t, err, errHostnameUnavailable)
}
