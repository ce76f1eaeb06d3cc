package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/globe/internal/tui/styles"
)

// StatusBarData contains the data to display in the status bar.
type StatusBarData struct {
	// Count is the "showing X of Y" or page text.
	Count string
	// Message is a transient notice, e.g. "loading more".
	Message   string
	Busy      bool
	Shortcuts []ShortcutDef
}

// StatusBar shows list progress on the left and shortcuts on the right.
type StatusBar struct {
	data    StatusBarData
	width   int
	spinner *Spinner
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(spinner *Spinner) *StatusBar {
	return &StatusBar{spinner: spinner}
}

// SetData updates the status bar data.
func (s *StatusBar) SetData(data StatusBarData) {
	s.data = data
}

// Data returns the status bar data.
func (s *StatusBar) Data() StatusBarData {
	return s.data
}

// SetMessage sets an optional status message.
func (s *StatusBar) SetMessage(message string) {
	s.data.Message = message
}

// SetWidth sets the width of the status bar.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	sep := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Render(" │ ")

	var left []string
	if s.data.Count != "" {
		left = append(left, lipgloss.NewStyle().Foreground(styles.Foreground).Render(s.data.Count))
	}
	if s.data.Message != "" {
		msg := lipgloss.NewStyle().Foreground(styles.MutedLight).Italic(true).Render(s.data.Message)
		if s.data.Busy && s.spinner != nil {
			msg = s.spinner.Frame() + " " + msg
		}
		left = append(left, msg)
	}
	leftContent := strings.Join(left, sep)
	rightContent := NewShortcutBar(s.data.Shortcuts...).View()

	container := lipgloss.NewStyle().
		Background(styles.Background).
		Padding(0, 1)

	if s.width > 0 {
		container = container.Width(s.width)
		padding := s.width - lipgloss.Width(leftContent) - lipgloss.Width(rightContent) - 2
		if padding > 0 {
			return container.Render(leftContent + strings.Repeat(" ", padding) + rightContent)
		}
	}
	return container.Render(leftContent + "  " + rightContent)
}
