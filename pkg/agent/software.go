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
	"fmt"
	"strings"
)

// knownSoftwarePatterns lists the lower-case display-name fragments that
// identify a known product. Products without an entry match on their own name.
//
//nolint:gochecknoglobals // read-only table
var knownSoftwarePatterns = map[string][]string{
	"VMware":              {"vmware"},
	"Microsoft Office":    {"office", "365", "word", "excel", "powerpoint"},
	"Google Chrome":       {"chrome"},
	"Cisco Packet Tracer": {"packet tracer"},
}

// NotInstalled is the value reported for a known product with no match.
func NotInstalled(product string) string {
	return product + " - Not Installed"
}

// MatchKnownSoftware reports every product in known as "DisplayName - Version"
// when an installed program matches it, or as NotInstalled otherwise. When
// several programs match, the last one wins.
func MatchKnownSoftware(programs []InstalledProgram, known []string) map[string]string {
	out := make(map[string]string, len(known))

	for _, product := range known {
		out[product] = NotInstalled(product)

		patterns := knownSoftwarePatterns[product]
		if len(patterns) == 0 {
			patterns = []string{strings.ToLower(product)}
		}

		for _, prog := range programs {
			if matchesAny(strings.ToLower(prog.Name), patterns) {
				out[product] = displayEntry(prog)
			}
		}
	}

	return out
}

func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(name, p) {
			return true
		}
	}

	return false
}

func displayEntry(prog InstalledProgram) string {
	if prog.Version == "" {
		return prog.Name
	}

	return fmt.Sprintf("%s - %s", prog.Name, prog.Version)
}
