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
	"time"

	"github.com/charmbracelet/lipgloss"
)

// CmdConfig holds the parsed command line.
type CmdConfig struct {
	SubCmd     string
	Help       bool
	ServerURL  string
	APIKey     string
	Token      string
	Query      string
	AlertsOnly bool
	OutputPath string
	JSON       bool
	NoColor    bool
	Username   string
	Password   string
	Cost       int
	Timeout    time.Duration
	Args       []string
}

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

const (
	defaultCost      = 12
	minCost          = 4
	maxCost          = 31
	defaultServerURL = "http://localhost:8090"
	defaultTimeout   = 30 * time.Second
	cellPadding      = 1
)

// styles used by the device table.
type styles struct {
	header, cell, danger, warning, ok, muted, summary lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle().Padding(0, cellPadding)

		return styles{header: plain.Bold(true), cell: plain, danger: plain, warning: plain, ok: plain, muted: plain, summary: lipgloss.NewStyle()}
	}

	return styles{
		header: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPurple)).
			Bold(true).
			Padding(0, cellPadding),
		cell: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)).
			Padding(0, cellPadding),
		danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true).
			Padding(0, cellPadding),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)).
			Padding(0, cellPadding),
		ok: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)).
			Padding(0, cellPadding),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)).
			Padding(0, cellPadding),
		summary: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)),
	}
}

// border color for the table frame.
func borderColor(noColor bool) lipgloss.TerminalColor {
	if noColor {
		return lipgloss.NoColor{}
	}

	return lipgloss.Color(draculaYellow)
}
