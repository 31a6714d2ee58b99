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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/fleetradar/pkg/agent"
	"github.com/carverauto/fleetradar/pkg/config"
	"github.com/carverauto/fleetradar/pkg/lifecycle"
	"github.com/carverauto/fleetradar/pkg/models"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/fleetradar/agent.json", "Path to agent config file")
	printOnly := flag.Bool("print", false, "Print the collected snapshot as JSON and exit without pushing")
	once := flag.Bool("once", false, "Push a single snapshot and exit, ignoring the configured interval")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg models.AgentConfig

	cfgLoader := config.NewConfig(nil)

	if *printOnly {
		// collector_url is not needed to print; a missing file just means defaults.
		if _, statErr := os.Stat(*configPath); statErr == nil || os.Getenv("CONFIG_SOURCE") == "env" {
			if err := cfgLoader.Load(ctx, *configPath, &cfg); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
		}

		cfg.ApplyDefaults()
	} else if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	agentLogger, err := lifecycle.CreateComponentLogger(ctx, "agent", cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	defer func() {
		if err := lifecycle.ShutdownLogger(); err != nil {
			log.Printf("Failed to shutdown logger: %v", err)
		}
	}()

	probe := agent.NewGopsutilProbe(agentLogger)

	if *printOnly {
		a := agent.New(probe, nil, &cfg, agentLogger)

		snapshot, err := a.Collect(ctx)
		if err != nil {
			return err
		}

		return agent.PrintSnapshot(os.Stdout, snapshot)
	}

	pusher, err := agent.NewHTTPPusher(cfg.CollectorURL, cfg.APIKey, time.Duration(cfg.Timeout), agentLogger,
		agent.WithRetryPolicy(agent.RetryPolicyFromConfig(cfg.Retry)))
	if err != nil {
		return err
	}

	if *once {
		cfg.Interval = 0
	}

	return agent.New(probe, pusher, &cfg, agentLogger).Run(ctx)
}
