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

// Package search filters and orders fleet snapshots for operators.
package search

import (
	"sort"
	"strings"
	"time"

	"github.com/carverauto/fleetradar/pkg/alerts"
	"github.com/carverauto/fleetradar/pkg/models"
)

// Filter narrows a query. The zero Filter matches every device.
type Filter struct {
	// Text is matched case-insensitively against the device name and effective IP.
	Text string `json:"q"`
	// AlertsOnly keeps devices raising LowRAM or HighDiskUsage.
	AlertsOnly bool `json:"alerts_only"`
}

// Engine applies a Filter to a set of snapshots. It is safe for concurrent use.
type Engine struct {
	evaluator *alerts.Evaluator
}

func NewEngine(evaluator *alerts.Evaluator) *Engine {
	return &Engine{evaluator: evaluator}
}

// Evaluator returns the evaluator used for the alerts-only predicate.
func (e *Engine) Evaluator() *alerts.Evaluator {
	return e.evaluator
}

// Query returns copies of the snapshots matching filter, in natural
// device_name order. The input slice and its snapshots are not modified.
func (e *Engine) Query(snapshots []*models.DeviceSnapshot, filter Filter, now time.Time) []*models.DeviceSnapshot {
	needle := strings.ToLower(strings.TrimSpace(filter.Text))

	out := make([]*models.DeviceSnapshot, 0, len(snapshots))

	for _, s := range snapshots {
		if s == nil {
			continue
		}

		if needle != "" && !matchesText(s, needle) {
			continue
		}

		if filter.AlertsOnly && !e.evaluator.Evaluate(s, now).Alerting() {
			continue
		}

		out = append(out, s.Clone())
	}

	sort.SliceStable(out, func(i, j int) bool {
		return NaturalLess(out[i].DeviceName, out[j].DeviceName)
	})

	return out
}

func matchesText(s *models.DeviceSnapshot, needle string) bool {
	if strings.Contains(strings.ToLower(s.DeviceName), needle) {
		return true
	}

	ip, ok := s.EffectiveIP()

	return ok && strings.Contains(strings.ToLower(ip), needle)
}
