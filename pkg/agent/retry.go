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
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/carverauto/fleetradar/pkg/models"
)

const retryRandomizationFactor = 0.2

// RetryPolicy bounds how the agent retries a push. MaxAttempts counts the
// first try; 1 disables retries.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func RetryPolicyFromConfig(cfg models.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     cfg.MaxAttempts,
		InitialInterval: time.Duration(cfg.InitialInterval),
		MaxInterval:     time.Duration(cfg.MaxInterval),
		Multiplier:      cfg.Multiplier,
	}
}

func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.RandomizationFactor = retryRandomizationFactor

	if p.InitialInterval > 0 {
		bo.InitialInterval = p.InitialInterval
	}

	if p.MaxInterval > 0 {
		bo.MaxInterval = p.MaxInterval
	}

	if p.Multiplier > 1 {
		bo.Multiplier = p.Multiplier
	}

	return bo
}

func (p RetryPolicy) maxTries() uint {
	if p.MaxAttempts <= 0 {
		return models.DefaultRetryMaxAttempts
	}

	return uint(p.MaxAttempts)
}
