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

//go:build windows

package agent

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sys/windows/registry"

	"github.com/carverauto/fleetradar/pkg/logger"
)

const (
	currentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`
	processorKey      = `HARDWARE\DESCRIPTION\System\CentralProcessor\0`
)

//nolint:gochecknoglobals // registry locations are fixed
var uninstallKeys = []string{
	`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`,
	`SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`,
}

func platformEdition() string {
	return windowsEdition()
}

func platformProcessor() string {
	return registryString(processorKey, "ProcessorNameString")
}

func platformSerial(ctx context.Context) (string, error) {
	return biosSerial(ctx)
}

// platformPrograms reads both uninstall hives. It fails only when neither
// could be opened.
func platformPrograms(_ context.Context, log logger.Logger) ([]InstalledProgram, error) {
	var (
		programs []InstalledProgram
		errs     []error
	)

	for _, path := range uninstallKeys {
		entries, err := uninstallEntries(path)
		if err != nil {
			log.Debug().Err(err).Str("key", path).Msg("Skipping uninstall registry key")
			errs = append(errs, err)

			continue
		}

		programs = append(programs, entries...)
	}

	if len(errs) == len(uninstallKeys) {
		return nil, errors.Join(errs...)
	}

	return programs, nil
}

// windowsEdition returns "ProductName (EditionID)".
func windowsEdition() string {
	product := registryString(currentVersionKey, "ProductName")
	edition := registryString(currentVersionKey, "EditionID")

	switch {
	case product == "":
		return ""
	case edition == "":
		return product
	default:
		return fmt.Sprintf("%s (%s)", product, edition)
	}
}

func registryString(path, name string) string {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer key.Close()

	value, _, err := key.GetStringValue(name)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(value)
}

func uninstallEntries(path string) ([]InstalledProgram, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, err
	}
	defer key.Close()

	names, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, err
	}

	programs := make([]InstalledProgram, 0, len(names))

	for _, name := range names {
		sub, err := registry.OpenKey(key, name, registry.QUERY_VALUE)
		if err != nil {
			continue
		}

		displayName, _, nameErr := sub.GetStringValue("DisplayName")
		displayVersion, _, _ := sub.GetStringValue("DisplayVersion")
		sub.Close()

		if nameErr != nil || strings.TrimSpace(displayName) == "" {
			continue
		}

		programs = append(programs, InstalledProgram{
			Name:    strings.TrimSpace(displayName),
			Version: strings.TrimSpace(displayVersion),
		})
	}

	return programs, nil
}

func biosSerial(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "wmic", "bios", "get", "serialnumber").Output()
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "SerialNumber") {
			continue
		}

		return line, nil
	}

	return "", nil
}
