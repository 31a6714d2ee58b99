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

//go:build linux

package agent

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carverauto/fleetradar/pkg/logger"
)

//nolint:gochecknoglobals // overridden in tests
var (
	dmiDir       = "/sys/class/dmi/id"
	osReleaseDir = "/etc"
)

func platformEdition() string {
	return osReleaseName(filepath.Join(osReleaseDir, "os-release"))
}

func platformProcessor() string {
	return ""
}

// platformSerial reads the DMI product serial, which is root-only on most
// distributions.
func platformSerial(context.Context) (string, error) {
	serial, err := os.ReadFile(filepath.Join(dmiDir, "product_serial"))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(serial)), nil
}

func platformPrograms(context.Context, logger.Logger) ([]InstalledProgram, error) {
	return nil, fmt.Errorf("installed software inventory: %w", ErrProbeUnsupported)
}

// osReleaseName returns PRETTY_NAME from an os-release file.
func osReleaseName(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if ok && key == "PRETTY_NAME" {
			return strings.Trim(value, `"'`)
		}
	}

	return ""
}
