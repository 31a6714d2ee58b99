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

// Package agent collects a snapshot of the local machine and pushes it to
// the collector, once or on a fixed interval.
package agent

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/carverauto/fleetradar/pkg/models"
	"github.com/carverauto/fleetradar/pkg/version"
)

// Agent drives the collect-and-push cycle.
type Agent struct {
	probe         SystemProbe
	pusher        SnapshotPusher
	knownSoftware []string
	interval      time.Duration
	now           func() time.Time
	logger        logger.Logger
}

func New(probe SystemProbe, pusher SnapshotPusher, cfg *models.AgentConfig, log logger.Logger) *Agent {
	return &Agent{
		probe:         probe,
		pusher:        pusher,
		knownSoftware: cfg.KnownSoftware,
		interval:      time.Duration(cfg.Interval),
		now:           time.Now,
		logger:        log,
	}
}

// Collect builds a snapshot without sending it.
func (a *Agent) Collect(ctx context.Context) (*models.WireSnapshot, error) {
	info, err := CollectSystemInfo(ctx, a.probe, a.knownSoftware, a.now(), a.logger)
	if err != nil {
		return nil, err
	}

	return BuildSnapshot(info), nil
}

// RunOnce collects one snapshot and pushes it.
func (a *Agent) RunOnce(ctx context.Context) (*models.IngestAck, error) {
	snapshot, err := a.Collect(ctx)
	if err != nil {
		return nil, err
	}

	ack, err := a.pusher.Push(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	a.logger.Info().
		Str("device_name", ack.DeviceName).
		Stringer("ingest_id", ack.IngestID).
		Msg("Snapshot accepted by collector")

	return ack, nil
}

// Run pushes once when the interval is zero and returns that result.
// Otherwise it pushes immediately and then on every tick, logging failures,
// until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	if a.interval <= 0 {
		_, err := a.RunOnce(ctx)
		return err
	}

	a.logger.Info().Dur("interval", a.interval).Str("version", version.GetFullVersion()).Msg("Starting agent push loop")

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info().Msg("Agent push loop stopping")
			return nil
		case <-ticker.C:
			a.runCycle(ctx)
		}
	}
}

func (a *Agent) runCycle(ctx context.Context) {
	if _, err := a.RunOnce(ctx); err != nil && ctx.Err() == nil {
		a.logger.Error().Err(err).Msg("Snapshot push failed")
	}
}

// PrintSnapshot writes snapshot as indented JSON.
func PrintSnapshot(w io.Writer, snapshot *models.WireSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")

	return enc.Encode(snapshot)
}
