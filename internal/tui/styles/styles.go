// Package styles provides Lip Gloss styles for the globe TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is a set of colors for one theme.
type Palette struct {
	Primary     lipgloss.Color
	Secondary   lipgloss.Color
	Success     lipgloss.Color
	Warning     lipgloss.Color
	Error       lipgloss.Color
	Muted       lipgloss.Color
	MutedLight  lipgloss.Color
	Background  lipgloss.Color
	Foreground  lipgloss.Color
	BorderColor lipgloss.Color
	// Glamour is the glamour style name used for markdown.
	Glamour string
}

// Dark is the default palette.
var Dark = Palette{
	Primary:     "#2563EB", // Blue
	Secondary:   "#06B6D4", // Cyan
	Success:     "#10B981", // Green
	Warning:     "#F59E0B", // Amber
	Error:       "#EF4444", // Red
	Muted:       "#6B7280", // Gray
	MutedLight:  "#9CA3AF", // Light Gray
	Background:  "#1F2937", // Dark Gray
	Foreground:  "#F9FAFB", // White
	BorderColor: "#374151", // Border Gray
	Glamour:     "dark",
}

// Light is the palette for light terminals.
var Light = Palette{
	Primary:     "#1D4ED8",
	Secondary:   "#0E7490",
	Success:     "#047857",
	Warning:     "#B45309",
	Error:       "#B91C1C",
	Muted:       "#6B7280",
	MutedLight:  "#4B5563",
	Background:  "#E5E7EB",
	Foreground:  "#111827",
	BorderColor: "#D1D5DB",
	Glamour:     "light",
}

// Color palette for the TUI. Set by Use.
var (
	Primary     lipgloss.Color
	Secondary   lipgloss.Color
	Success     lipgloss.Color
	Warning     lipgloss.Color
	Error       lipgloss.Color
	Muted       lipgloss.Color
	MutedLight  lipgloss.Color
	Background  lipgloss.Color
	Foreground  lipgloss.Color
	BorderColor lipgloss.Color
)

// Styles derived from the palette. Set by Use.
var (
	// TitleStyle is for the application title.
	TitleStyle lipgloss.Style
	// HeaderLabelStyle is for header labels.
	HeaderLabelStyle lipgloss.Style
	// HeaderValueStyle is for header values.
	HeaderValueStyle lipgloss.Style

	// BoxStyle is a standard box with border.
	BoxStyle lipgloss.Style
	// FocusedBoxStyle is a box that's currently focused.
	FocusedBoxStyle lipgloss.Style

	MutedTextStyle   lipgloss.Style
	ErrorTextStyle   lipgloss.Style
	SuccessTextStyle lipgloss.Style
	WarningTextStyle lipgloss.Style

	// StatusBarStyle is the main status bar container.
	StatusBarStyle lipgloss.Style
	// KeyStyle is for keyboard shortcut keys.
	KeyStyle lipgloss.Style
	// HelpStyle is for help text.
	HelpStyle lipgloss.Style

	// SkeletonStyle is for loading placeholder rows.
	SkeletonStyle lipgloss.Style
	// SelectedRowStyle highlights the list cursor.
	SelectedRowStyle lipgloss.Style
)

var current = Dark

// Current returns the active palette.
func Current() Palette {
	return current
}

// Use activates p and rebuilds every style.
func Use(p Palette) {
	current = p

	Primary = p.Primary
	Secondary = p.Secondary
	Success = p.Success
	Warning = p.Warning
	Error = p.Error
	Muted = p.Muted
	MutedLight = p.MutedLight
	Background = p.Background
	Foreground = p.Foreground
	BorderColor = p.BorderColor

	TitleStyle = lipgloss.NewStyle().
		Foreground(Foreground).
		Background(Primary).
		Bold(true).
		Padding(0, 1)
	HeaderLabelStyle = lipgloss.NewStyle().
		Foreground(MutedLight)
	HeaderValueStyle = lipgloss.NewStyle().
		Foreground(Foreground).
		Bold(true)

	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1)
	FocusedBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(0, 1)

	MutedTextStyle = lipgloss.NewStyle().Foreground(Muted)
	ErrorTextStyle = lipgloss.NewStyle().Foreground(Error)
	SuccessTextStyle = lipgloss.NewStyle().Foreground(Success)
	WarningTextStyle = lipgloss.NewStyle().Foreground(Warning)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedLight).
		Padding(0, 1)
	KeyStyle = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
	HelpStyle = lipgloss.NewStyle().
		Foreground(Muted)

	SkeletonStyle = lipgloss.NewStyle().
		Foreground(BorderColor)
	SelectedRowStyle = lipgloss.NewStyle().
		Background(Background).
		Bold(true)
}

// ForTheme returns the palette named by theme ("dark" or "light").
func ForTheme(theme string) Palette {
	if theme == "light" {
		return Light
	}
	return Dark
}

func init() {
	Use(Dark)
}
