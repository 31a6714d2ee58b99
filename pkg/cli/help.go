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

package cli

import (
	"fmt"
	"io"
)

// PrintHelp writes the usage text to w.
func PrintHelp(w io.Writer) {
	_, _ = fmt.Fprint(w, `Usage: fleetradar <command> [options]

Commands:
  devices        List devices with their alert state
  export         Download the CSV export of a device query
  login          Exchange operator credentials for a bearer token
  hash-password  Print a bcrypt hash for the core's auth.local_users

Options for devices and export:
  -server string      collector base URL (default "http://localhost:8090", env FLEETRADAR_SERVER)
  -api-key string     API key (env FLEETRADAR_API_KEY)
  -token string       bearer token (env FLEETRADAR_TOKEN)
  -q string           search device name, IP address or serial number
  -alerts-only        only devices with low RAM, high disk usage or a stale report
  -json               devices: print raw JSON
  -no-color           devices: plain table
  -out string         export: output file, - for stdout (default "fleet_export.csv")

Options for login:
  -server, -username, -password (- reads the password from stdin)

Options for hash-password:
  -cost int           bcrypt cost (default 12)

Examples:
  fleetradar devices -q lab -alerts-only
  fleetradar export -out fleet.csv
  export FLEETRADAR_TOKEN=$(fleetradar login -username admin -password - < pw.txt | head -1)
  fleetradar hash-password 'correct horse'
`)
}
