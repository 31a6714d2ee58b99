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

// Package cli implements the fleetradar operator command line: fleet
// queries, CSV export, login and password hashing.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// SubcommandHandler defines the interface for parsing subcommand flags.
type SubcommandHandler interface {
	Parse(args []string, cfg *CmdConfig) error
}

// addServerFlags registers the flags shared by every command that calls the collector.
func addServerFlags(fs *flag.FlagSet, cfg *CmdConfig) {
	fs.StringVar(&cfg.ServerURL, "server", envOr("FLEETRADAR_SERVER", defaultServerURL), "collector base URL")
	fs.StringVar(&cfg.APIKey, "api-key", os.Getenv("FLEETRADAR_API_KEY"), "API key sent as X-API-Key")
	fs.StringVar(&cfg.Token, "token", os.Getenv("FLEETRADAR_TOKEN"), "bearer token from 'fleetradar login'")
	fs.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "request timeout")
}

func addQueryFlags(fs *flag.FlagSet, cfg *CmdConfig) {
	fs.StringVar(&cfg.Query, "q", "", "case-insensitive search on device name, IP or serial")
	fs.BoolVar(&cfg.AlertsOnly, "alerts-only", false, "only devices with at least one alert")
}

// DevicesHandler handles flags for the devices subcommand.
type DevicesHandler struct{}

func (DevicesHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := flag.NewFlagSet("devices", flag.ContinueOnError)
	addServerFlags(fs, cfg)
	addQueryFlags(fs, cfg)
	fs.BoolVar(&cfg.JSON, "json", false, "print the raw JSON response")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable colors")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing devices flags: %w", err)
	}

	return nil
}

// ExportHandler handles flags for the export subcommand.
type ExportHandler struct{}

func (ExportHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	addServerFlags(fs, cfg)
	addQueryFlags(fs, cfg)
	fs.StringVar(&cfg.OutputPath, "out", "fleet_export.csv", "output file, - for stdout")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing export flags: %w", err)
	}

	return nil
}

// LoginHandler handles flags for the login subcommand.
type LoginHandler struct{}

func (LoginHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	addServerFlags(fs, cfg)
	fs.StringVar(&cfg.Username, "username", "", "operator username")
	fs.StringVar(&cfg.Password, "password", "", "operator password, - to read it from stdin")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing login flags: %w", err)
	}

	return nil
}

// HashPasswordHandler handles flags for the hash-password subcommand.
type HashPasswordHandler struct{}

func (HashPasswordHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.IntVar(&cfg.Cost, "cost", defaultCost, "bcrypt cost")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing hash-password flags: %w", err)
	}

	cfg.Args = fs.Args()

	return nil
}

//nolint:gochecknoglobals // subcommand table
var subcommands = map[string]SubcommandHandler{
	"devices":       DevicesHandler{},
	"export":        ExportHandler{},
	"login":         LoginHandler{},
	"hash-password": HashPasswordHandler{},
}

// ParseFlags parses args (without the program name).
func ParseFlags(args []string) (*CmdConfig, error) {
	cfg := &CmdConfig{Timeout: defaultTimeout, Cost: defaultCost}

	if len(args) == 0 || args[0] == "-help" || args[0] == "--help" || args[0] == "help" {
		cfg.Help = true

		return cfg, nil
	}

	cfg.SubCmd = args[0]

	handler, ok := subcommands[cfg.SubCmd]
	if !ok {
		return cfg, fmt.Errorf("%w: %s", errUnknownCommand, cfg.SubCmd)
	}

	if err := handler.Parse(args[1:], cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Run executes the parsed command.
func Run(ctx context.Context, cfg *CmdConfig, stdin io.Reader, stdout io.Writer) error {
	if cfg.Help {
		PrintHelp(stdout)

		return nil
	}

	switch cfg.SubCmd {
	case "hash-password":
		return runHashPassword(cfg, stdin, stdout)
	case "devices":
		return runDevices(ctx, cfg, stdout)
	case "export":
		return runExport(ctx, cfg, stdout)
	case "login":
		return runLogin(ctx, cfg, stdin, stdout)
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cfg.SubCmd)
	}
}

func runDevices(ctx context.Context, cfg *CmdConfig, stdout io.Writer) error {
	client, err := NewClient(cfg.ServerURL, cfg.APIKey, cfg.Token, cfg.Timeout)
	if err != nil {
		return err
	}

	resp, err := client.Devices(ctx, cfg.Query, cfg.AlertsOnly)
	if err != nil {
		return err
	}

	if cfg.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(resp)
	}

	_, err = io.WriteString(stdout, RenderDevices(resp, cfg.NoColor))

	return err
}

func runExport(ctx context.Context, cfg *CmdConfig, stdout io.Writer) error {
	client, err := NewClient(cfg.ServerURL, cfg.APIKey, cfg.Token, cfg.Timeout)
	if err != nil {
		return err
	}

	if cfg.OutputPath == "-" || cfg.OutputPath == "" {
		return client.ExportCSV(ctx, cfg.Query, cfg.AlertsOnly, stdout)
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", cfg.OutputPath, err)
	}

	if err := client.ExportCSV(ctx, cfg.Query, cfg.AlertsOnly, f); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "Wrote export to %s\n", cfg.OutputPath)

	return err
}

func runLogin(ctx context.Context, cfg *CmdConfig, stdin io.Reader, stdout io.Writer) error {
	password := cfg.Password
	if password == "-" {
		password = readLine(stdin)
	}

	if cfg.Username == "" || password == "" {
		return errLoginArgs
	}

	client, err := NewClient(cfg.ServerURL, "", "", cfg.Timeout)
	if err != nil {
		return err
	}

	token, err := client.Login(ctx, cfg.Username, password)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(stdout, "%s\n# expires %s; export FLEETRADAR_TOKEN to reuse it\n",
		token.AccessToken, token.ExpiresAt.UTC().Format("2006-01-02 15:04:05 MST"))

	return err
}

// runHashPassword prints a bcrypt hash for local_users, reading the password
// from the first argument or stdin.
func runHashPassword(cfg *CmdConfig, stdin io.Reader, stdout io.Writer) error {
	var password string
	if len(cfg.Args) > 0 {
		password = cfg.Args[0]
	} else {
		password = readLine(stdin)
	}

	hash, err := generateBcrypt(password, cfg.Cost)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, hash)

	return err
}

func generateBcrypt(password string, cost int) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errEmptyPassword
	}

	if cost < minCost || cost > maxCost {
		return "", errInvalidCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errHashFailed, err.Error())
	}

	return string(hash), nil
}

func readLine(r io.Reader) string {
	if r == nil {
		return ""
	}

	scanner := bufio.NewScanner(r)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}

	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
