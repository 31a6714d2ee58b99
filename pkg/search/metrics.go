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
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	searchMeterName        = "fleetradar.search"
	metricQueryLatencyName = "search_query_duration_seconds"
	metricFleetSizeName    = "search_fleet_size"

	statusSuccess = "success"
	statusError   = "error"
)

//nolint:gochecknoglobals // instruments are process-wide
var (
	searchMetricsOnce sync.Once

	queryLatency metric.Float64Histogram
	fleetSize    metric.Int64Gauge
)

func initSearchMetrics() {
	meter := otel.Meter(searchMeterName)

	if hist, err := meter.Float64Histogram(
		metricQueryLatencyName,
		metric.WithDescription("Latency for fleet snapshot queries including the store scan"),
		metric.WithUnit("s"),
	); err != nil {
		otel.Handle(err)
	} else {
		queryLatency = hist
	}

	if gauge, err := meter.Int64Gauge(
		metricFleetSizeName,
		metric.WithDescription("Number of stored snapshots seen by the last query"),
	); err != nil {
		otel.Handle(err)
	} else {
		fleetSize = gauge
	}
}

func recordQuery(ctx context.Context, duration time.Duration, filter Filter, status string, total, matched int) {
	searchMetricsOnce.Do(initSearchMetrics)

	if duration < 0 {
		duration = 0
	}

	if queryLatency != nil {
		queryLatency.Record(
			ctx,
			duration.Seconds(),
			metric.WithAttributes(
				attribute.String("status", status),
				attribute.Bool("alerts_only", filter.AlertsOnly),
				attribute.Bool("text_filter", filter.Text != ""),
				attribute.String("result_state", classifyResultSize(matched)),
			),
		)
	}

	if fleetSize != nil && status == statusSuccess {
		fleetSize.Record(ctx, int64(total))
	}
}

func classifyResultSize(count int) string {
	switch {
	case count <= 0:
		return "empty"
	case count < 10:
		return "lt10"
	case count < 50:
		return "lt50"
	case count < 100:
		return "lt100"
	default:
		return "gte100"
	}
}
