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
	"strings"
)

// naturalKey splits a lower-cased name into alternating text and digit runs.
// The key always starts and ends with a text run, which may be empty, so
// keys of two names line up position by position: even indexes are text and
// odd indexes are digits.
func naturalKey(s string) []string {
	s = strings.ToLower(s)

	key := make([]string, 0, 4)
	start := 0

	for i := 0; i < len(s); {
		if !isDigit(s[i]) {
			i++
			continue
		}

		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}

		key = append(key, s[start:i], s[i:j])
		start = j
		i = j
	}

	return append(key, s[start:])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// compareDigits compares two ASCII digit runs numerically without parsing
// them, so runs of any length are supported.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")

	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}

		return 1
	}

	return strings.Compare(a, b)
}

// compareNatural orders a and b by their natural keys and returns 0 when
// the keys are equal (for example "PC1" and "pc01").
func compareNatural(a, b string) int {
	ka, kb := naturalKey(a), naturalKey(b)

	for i := 0; i < len(ka) && i < len(kb); i++ {
		var c int
		if i%2 == 1 {
			c = compareDigits(ka[i], kb[i])
		} else {
			c = strings.Compare(ka[i], kb[i])
		}

		if c != 0 {
			return c
		}
	}

	switch {
	case len(ka) < len(kb):
		return -1
	case len(ka) > len(kb):
		return 1
	default:
		return 0
	}
}

// NaturalLess orders device names the way an operator reads them: case
// insensitive, with digit runs compared as numbers ("pc2" < "PC10"). Names
// with equal natural keys fall back to byte order so the ordering is total.
func NaturalLess(a, b string) bool {
	if c := compareNatural(a, b); c != 0 {
		return c < 0
	}

	return a < b
}
