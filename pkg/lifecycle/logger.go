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

// Package lifecycle builds the injected loggers and telemetry pipelines a
// fleetradar binary needs at startup and tears them down on exit.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/carverauto/fleetradar/pkg/logger"
	"github.com/rs/zerolog"
)

// LoggerImpl implements the logger.Logger interface without using global state
type LoggerImpl struct {
	logger zerolog.Logger
}

// NewLoggerImpl creates a new logger implementation. When config.OTel is
// active, every line is also shipped to the OTLP log exporter.
func NewLoggerImpl(ctx context.Context, config *logger.Config) (*LoggerImpl, error) {
	if config == nil {
		config = logger.DefaultConfig()
	}

	var extra []io.Writer

	if config.OTel.Enabled {
		otelWriter, err := logger.NewOTELWriter(ctx, config.OTel)
		if err != nil {
			return nil, err
		}

		extra = append(extra, otelWriter)
	}

	zlog, err := logger.New(config, extra...)
	if err != nil {
		return nil, err
	}

	return &LoggerImpl{logger: zlog}, nil
}

func (l *LoggerImpl) Trace() *zerolog.Event { return l.logger.Trace() }
func (l *LoggerImpl) Debug() *zerolog.Event { return l.logger.Debug() }
func (l *LoggerImpl) Info() *zerolog.Event  { return l.logger.Info() }
func (l *LoggerImpl) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *LoggerImpl) Error() *zerolog.Event { return l.logger.Error() }
func (l *LoggerImpl) Fatal() *zerolog.Event { return l.logger.Fatal() }
func (l *LoggerImpl) Panic() *zerolog.Event { return l.logger.Panic() }
func (l *LoggerImpl) With() zerolog.Context { return l.logger.With() }

func (l *LoggerImpl) WithComponent(component string) zerolog.Logger {
	return l.logger.With().Str("component", component).Logger()
}

func (l *LoggerImpl) WithFields(fields map[string]interface{}) zerolog.Logger {
	return l.logger.With().Fields(fields).Logger()
}

func (l *LoggerImpl) SetLevel(level zerolog.Level) {
	l.logger = l.logger.Level(level)
}

func (l *LoggerImpl) SetDebug(debug bool) {
	if debug {
		l.SetLevel(zerolog.DebugLevel)
	} else {
		l.SetLevel(zerolog.InfoLevel)
	}
}

// CreateComponentLogger creates a logger for a specific component.
func CreateComponentLogger(ctx context.Context, component string, config *logger.Config) (logger.Logger, error) {
	impl, err := NewLoggerImpl(ctx, config)
	if err != nil {
		return nil, err
	}

	impl.logger = impl.logger.With().Str("component", component).Logger()

	return impl, nil
}

// StartTelemetry installs the trace provider and, when metrics is active,
// the OTLP metrics pipeline. A disabled metrics exporter is not an error.
func StartTelemetry(ctx context.Context, tracing, metrics *logger.OTelConfig, log logger.Logger) error {
	if _, err := logger.InitializeTracing(ctx, tracing); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	_, err := logger.InitializeMetrics(ctx, logger.MetricsConfig{OTel: metrics})

	switch {
	case errors.Is(err, logger.ErrOTelMetricsDisabled):
		log.Debug().Msg("OTel metrics exporter disabled")
	case err != nil:
		return fmt.Errorf("failed to initialize metrics: %w", err)
	default:
		log.Info().Str("endpoint", metrics.Endpoint).Msg("OTel metrics exporter started")
	}

	return nil
}

// ShutdownLogger flushes any pending logs, metrics and spans.
func ShutdownLogger() error {
	return logger.ShutdownOTEL()
}
