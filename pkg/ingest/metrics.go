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

package ingest

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	ingestMeterName = "fleetradar.ingest"

	outcomeAccepted  = "accepted"
	outcomeMalformed = "malformed"
	outcomeInvalid   = "invalid"
	outcomeStorage   = "storage_failure"
)

//nolint:gochecknoglobals // instruments are process-wide
var (
	ingestMetricsOnce sync.Once

	snapshotsTotal metric.Int64Counter
	rejectedFields metric.Int64Counter
)

func initIngestMetrics() {
	meter := otel.Meter(ingestMeterName)

	if counter, err := meter.Int64Counter(
		"ingest_snapshots_total",
		metric.WithDescription("Snapshots received by the ingestion service, by outcome"),
	); err != nil {
		otel.Handle(err)
	} else {
		snapshotsTotal = counter
	}

	if counter, err := meter.Int64Counter(
		"ingest_rejected_fields_total",
		metric.WithDescription("Validation rejections by offending field"),
	); err != nil {
		otel.Handle(err)
	} else {
		rejectedFields = counter
	}
}

func recordOutcome(ctx context.Context, outcome string) {
	ingestMetricsOnce.Do(initIngestMetrics)

	if snapshotsTotal != nil {
		snapshotsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func recordRejectedField(ctx context.Context, field string) {
	ingestMetricsOnce.Do(initIngestMetrics)

	if rejectedFields != nil && field != "" {
		rejectedFields.Add(ctx, 1, metric.WithAttributes(attribute.String("field", metricField(field))))
	}
}

// metricField drops agent-chosen map keys from a field path so the metric
// attribute stays within a fixed set: "disk_volumes[C:].total_gb" and the
// decoder's "disk_volumes.C:.total_gb" both become "disk_volumes.total_gb".
func metricField(field string) string {
	for _, root := range []string{"disk_volumes", "installed_software"} {
		if field != root && !strings.HasPrefix(field, root+"[") && !strings.HasPrefix(field, root+".") {
			continue
		}

		if root == "disk_volumes" {
			for _, leaf := range []string{"mount_point", "total_gb", "used_percent"} {
				if strings.HasSuffix(field, "."+leaf) {
					return root + "." + leaf
				}
			}
		}

		return root
	}

	return field
}
