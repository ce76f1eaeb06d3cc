package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/globe/internal/tui/styles"
)

// Spinner shows an animated spinner with status text, and the skeleton
// rows used while the first page loads.
type Spinner struct {
	spinner    spinner.Model
	statusText string
	width      int
}

// NewSpinner creates a new Spinner component with default styling.
func NewSpinner() *Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &Spinner{spinner: s}
}

// SetStatusText sets the status text to display next to the spinner.
func (s *Spinner) SetStatusText(text string) {
	s.statusText = text
}

// SetWidth sets the width of the spinner component.
func (s *Spinner) SetWidth(width int) {
	s.width = width
}

// Init returns the initial command for the spinner animation.
func (s *Spinner) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update handles spinner tick messages.
func (s *Spinner) Update(msg tea.Msg) (*Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// Frame returns the current spinner frame alone.
func (s *Spinner) Frame() string {
	return lipgloss.NewStyle().Foreground(styles.Secondary).Render(s.spinner.View())
}

// View renders the spinner with its status text.
func (s *Spinner) View() string {
	line := s.Frame() + " " + lipgloss.NewStyle().Foreground(styles.Foreground).Render(s.statusText)
	if s.width > 0 {
		return lipgloss.NewStyle().Width(s.width).Padding(0, 1).Render(line)
	}
	return line
}

// Skeleton renders the spinner line followed by rows placeholder rows.
func (s *Spinner) Skeleton(rows int) string {
	width := s.width - 4
	if width < 10 {
		width = 40
	}
	var b strings.Builder
	b.WriteString(s.View())
	for i := 0; i < rows; i++ {
		n := width - (i%3)*width/5
		b.WriteString("\n  ")
		b.WriteString(styles.SkeletonStyle.Render(strings.Repeat("░", n)))
	}
	return b.String()
}
